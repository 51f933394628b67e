package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/lingo/internal"
	"github.com/dmitrymomot/lingo/internal/catalog"
	"github.com/dmitrymomot/lingo/middlewares"
	"github.com/dmitrymomot/lingo/pkg/validator"
)

type errorResponse struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message"`
}

// ErrorHandler maps domain and middleware errors to JSON responses.
// Store failures and anything unrecognised become an opaque 500.
func ErrorHandler(c internal.Context, err error) error {
	if ve := validator.ExtractValidationErrors(err); len(ve) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Message: validationSummary(ve),
			Errors:  ve.Fields(),
		})
	}

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Message: "Record not found."})
	case middlewares.IsTimeoutError(err):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Message: "Request timed out."})
	}

	if pe, ok := middlewares.AsPanicError(err); ok {
		c.LogError("panic recovered", slog.Any("panic", pe.Value), slog.String("stack", string(pe.Stack)))
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Server Error"})
	}

	return internal.DefaultErrorHandler(c, err)
}

// validationSummary follows the "first message (and N more errors)" form.
func validationSummary(ve validator.ValidationErrors) string {
	msg := ve[0].Message
	switch n := len(ve) - 1; n {
	case 0:
		return msg
	case 1:
		return fmt.Sprintf("%s (and 1 more error)", msg)
	default:
		return fmt.Sprintf("%s (and %d more errors)", msg, n)
	}
}
