// Package internal is the HTTP kernel shared by every transport in the service.
//
// It wraps chi behind a small surface: handlers receive a [Context] and
// return an error, middleware wraps [HandlerFunc], and a single
// [ErrorHandler] turns returned errors into responses.
//
//	app := internal.New(
//		internal.WithLogger(log),
//		internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//		internal.WithHandlers(handlers.NewTranslations(svc, exporter)),
//		internal.WithErrorHandler(handlers.ErrorHandler),
//		internal.WithHealthChecks(
//			internal.WithReadinessCheck("postgres", db.Healthcheck(pool)),
//		),
//	)
//	err := app.Run(ctx, internal.Address(":8080"), internal.ShutdownHook(db.Shutdown(pool)))
//
// The server shuts down gracefully on SIGINT/SIGTERM and then runs shutdown
// hooks in registration order.
package internal
