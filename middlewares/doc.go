// Package middlewares provides the HTTP middleware stack of the service:
// request ids, panic recovery, request deadlines, CORS, bearer-token
// authentication, and access logging.
//
// Middlewares that fail return typed errors (PanicError, TimeoutError,
// *internal.HTTPError) so the application's ErrorHandler decides how they
// are rendered.
package middlewares
