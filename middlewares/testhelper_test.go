package middlewares_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/lingo/internal"
	"github.com/dmitrymomot/lingo/pkg/logger"
)

// testContext is a minimal internal.Context for exercising middleware in isolation.
type testContext struct {
	response *internal.ResponseWriter
	request  *http.Request
	logs     []string
}

var _ internal.Context = (*testContext)(nil)

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{response: internal.NewResponseWriter(w), request: r}
}

func (c *testContext) Request() *http.Request         { return c.request }
func (c *testContext) Response() http.ResponseWriter  { return c.response }
func (c *testContext) Context() context.Context       { return c.request.Context() }
func (c *testContext) SetContext(ctx context.Context) { c.request = c.request.WithContext(ctx) }
func (c *testContext) Param(string) string            { return "" }
func (c *testContext) Query(name string) string       { return c.request.URL.Query().Get(name) }
func (c *testContext) QueryDefault(name, def string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return def
}
func (c *testContext) Header(name string) string    { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string) { c.response.Header().Set(name, value) }
func (c *testContext) JSON(code int, v any) error {
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}
func (c *testContext) String(code int, s string) error {
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}
func (c *testContext) NoContent(code int) error { c.response.WriteHeader(code); return nil }
func (c *testContext) Error(code int, message string, opts ...internal.HTTPErrorOption) *internal.HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}
func (c *testContext) BindJSON(v any) error { return json.NewDecoder(c.request.Body).Decode(v) }
func (c *testContext) Written() bool        { return c.response.Written() }
func (c *testContext) Logger() *slog.Logger { return logger.NewNope() }
func (c *testContext) LogDebug(msg string, _ ...any) {
	c.logs = append(c.logs, "debug:"+msg)
}
func (c *testContext) LogInfo(msg string, _ ...any)  { c.logs = append(c.logs, "info:"+msg) }
func (c *testContext) LogWarn(msg string, _ ...any)  { c.logs = append(c.logs, "warn:"+msg) }
func (c *testContext) LogError(msg string, _ ...any) { c.logs = append(c.logs, "error:"+msg) }
func (c *testContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}
func (c *testContext) Get(key any) any              { return c.request.Context().Value(key) }
func (c *testContext) Deadline() (time.Time, bool)  { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}        { return c.request.Context().Done() }
func (c *testContext) Err() error                   { return c.request.Context().Err() }
func (c *testContext) Value(key any) any            { return c.request.Context().Value(key) }
