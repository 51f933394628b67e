package middlewares

import (
	"net/http"
	"runtime"

	"github.com/dmitrymomot/lingo/internal"
)

// DefaultStackSize is the maximum captured stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize    int
	DisableStack bool
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisableStack skips stack capture.
func WithRecoverDisableStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisableStack = true
	}
}

// Recover converts panics into *PanicError. http.ErrAbortHandler is re-panicked.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{StackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity
					panic(r)
				}

				var stack []byte
				if !cfg.DisableStack {
					stack = make([]byte, cfg.StackSize)
					stack = stack[:runtime.Stack(stack, false)]
					c.LogError("panic recovered", "panic", r, "stack", string(stack))
				} else {
					c.LogError("panic recovered", "panic", r)
				}

				err = &PanicError{Value: r, Stack: stack}
			}()

			return next(c)
		}
	}
}
