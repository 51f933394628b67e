package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingo/internal"
	"github.com/dmitrymomot/lingo/internal/catalog"
	"github.com/dmitrymomot/lingo/internal/handlers"
	"github.com/dmitrymomot/lingo/middlewares"
	"github.com/dmitrymomot/lingo/pkg/validator"
)

type routes func(r internal.Router)

func (fn routes) Routes(r internal.Router) { fn(r) }

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	serve := func(err error) *httptest.ResponseRecorder {
		app := internal.New(
			internal.WithErrorHandler(handlers.ErrorHandler),
			internal.WithHandlers(routes(func(r internal.Router) {
				r.GET("/", func(internal.Context) error { return err })
			})),
		)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec
	}

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		var ve validator.ValidationErrors
		ve.Add("locale", "The locale field is required.")
		ve.Add("key", "The key field is required.")
		ve.Add("content", "The content field is required.")

		rec := serve(fmt.Errorf("wrapped: %w", ve))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{
			"message": "The locale field is required. (and 2 more errors)",
			"errors": {
				"locale": ["The locale field is required."],
				"key": ["The key field is required."],
				"content": ["The content field is required."]
			}
		}`, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		rec := serve(fmt.Errorf("get translation 3: %w", catalog.ErrNotFound))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"Record not found."}`, rec.Body.String())
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		rec := serve(errors.Join(&middlewares.TimeoutError{}, errors.New("context deadline exceeded")))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("panic", func(t *testing.T) {
		t.Parallel()
		rec := serve(&middlewares.PanicError{Value: "boom"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "boom")
	})

	t.Run("http error", func(t *testing.T) {
		t.Parallel()
		rec := serve(internal.ErrUnauthorized("Unauthenticated."))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"message":"Unauthenticated."}`, rec.Body.String())
	})

	t.Run("unknown error", func(t *testing.T) {
		t.Parallel()
		rec := serve(errors.New("pq: relation does not exist"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"Server Error"}`, rec.Body.String())
	})
}
