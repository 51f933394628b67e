package middlewares

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/lingo/internal"
)

type statusRecorder interface {
	Status() int
	Size() int64
}

// AccessLog logs one line per request after the inner stack finished.
// Register it outermost so the logged status includes rendered errors.
func AccessLog() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			start := time.Now()
			err := next(c)

			r := c.Request()
			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("duration", time.Since(start)),
			}
			if rec, ok := c.Response().(statusRecorder); ok {
				attrs = append(attrs, slog.Int("status", rec.Status()), slog.Int64("size", rec.Size()))
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}

			c.LogInfo("request", attrs...)
			return err
		}
	}
}
