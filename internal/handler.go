package internal

// Handler declares routes on a router.
//
//	func (h *Translations) Routes(r internal.Router) {
//		r.Route("/api/translations", func(r internal.Router) {
//			r.GET("/", h.list)
//			r.GET("/{id}", h.show)
//		})
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands the request to the ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting behaviour.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
// It is not called if the handler already wrote a response.
type ErrorHandler func(Context, error) error
