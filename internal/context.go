package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// DefaultMaxBodySize bounds request bodies read by BindJSON.
const DefaultMaxBodySize int64 = 1 << 20

// Context provides request/response access and helper methods.
// It implements context.Context by delegating to the request context, so it
// can be passed directly to store calls.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the response writer.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// SetContext replaces the request context, e.g. to attach a deadline.
	SetContext(ctx context.Context)

	// Param returns the URL parameter value by name.
	Param(name string) string

	// Query returns the query parameter value by name.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// JSON writes v as JSON with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response.
	String(code int, s string) error

	// NoContent writes only the status line and headers.
	NoContent(code int) error

	// Error creates an HTTPError without writing a response.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// BindJSON decodes the request body into v.
	// Malformed or oversized bodies yield a 400 HTTPError.
	BindJSON(v any) error

	// Written reports whether a response has already been written.
	Written() bool

	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get retrieves a value from the request context, or nil.
	Get(key any) any
}

type requestContext struct {
	request  *http.Request
	response *ResponseWriter
	logger   *slog.Logger
}

func newContext(w http.ResponseWriter, r *http.Request, logger *slog.Logger) *requestContext {
	return &requestContext{
		request:  r,
		response: NewResponseWriter(w),
		logger:   logger,
	}
}

func (c *requestContext) Request() *http.Request        { return c.request }
func (c *requestContext) Response() http.ResponseWriter { return c.response }
func (c *requestContext) Context() context.Context      { return c.request.Context() }

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *requestContext) Err() error                  { return c.request.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.request.Context().Value(key) }

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.request.URL.Query().Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	_, err = c.response.Write(data)
	return err
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := io.WriteString(c.response, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) BindJSON(v any) error {
	body := http.MaxBytesReader(c.response, c.request.Body, DefaultMaxBodySize)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrBadRequest("Request body is empty.", WithError(err))
		}
		return ErrBadRequest("Malformed JSON body.", WithError(err))
	}
	if dec.More() {
		return ErrBadRequest("Request body must contain a single JSON value.")
	}
	return nil
}

func (c *requestContext) Written() bool {
	return c.response.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}
