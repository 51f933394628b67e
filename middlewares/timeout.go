package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/lingo/internal"
)

// DefaultTimeout is used when Timeout receives a non-positive duration.
const DefaultTimeout = 30 * time.Second

// Timeout attaches a deadline to the request context. When the deadline
// passes before a response is written, the handler's result is replaced by
// a *TimeoutError. Handlers observe cancellation through the context they
// pass to store calls.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()
			c.SetContext(ctx)

			err := next(c)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Written() {
				c.LogWarn("request timeout", "timeout", timeout.String())
				return errors.Join(&TimeoutError{Duration: timeout}, err)
			}
			return err
		}
	}
}
