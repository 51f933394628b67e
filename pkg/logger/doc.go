// Package logger builds structured [log/slog] loggers for the service.
//
// Loggers write JSON (or text) to stdout and can fan out to Sentry when a DSN
// is configured. Request-scoped values such as the request ID are injected on
// every log call through [ContextExtractor] functions:
//
//	log := logger.New(
//		logger.WithExtractors(middlewares.RequestIDExtractor()),
//		logger.WithSentry(cfg.Sentry),
//	).With("component", "api")
//
//	log.InfoContext(ctx, "export served", slog.String("locale", "en"))
//
// A missing or invalid Sentry DSN never fails logger construction; output
// falls back to stdout only.
package logger
