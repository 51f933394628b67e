package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/lingo/pkg/health"
	"github.com/dmitrymomot/lingo/pkg/logger"
)

// Server timeouts. WriteTimeout must exceed the request timeout middleware.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 60 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// App holds the routing table and error handling of the service.
// It is immutable after New.
type App struct {
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	rootMiddlewares         []Middleware
	middlewares             []Middleware
	handlers                []Handler
}

// New creates an App from options.
func New(opts ...Option) *App {
	a := &App{
		router: chi.NewRouter(),
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.setupRoutes()
	return a
}

// Router returns the underlying chi.Router.
func (a *App) Router() chi.Router {
	return a.router
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run starts the HTTP server and blocks until ctx is cancelled or a
// termination signal arrives.
func (a *App) Run(ctx context.Context, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}
	return runServer(ctx, runtimeConfig{
		handler:         a.router,
		address:         cfg.address,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
	})
}

func (a *App) setupRoutes() {
	for _, mw := range a.rootMiddlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	// health endpoints sit outside the middleware stack so probes skip auth
	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath,
			health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}

	a.router.Group(func(cr chi.Router) {
		for _, mw := range a.middlewares {
			cr.Use(a.adaptMiddleware(mw))
		}

		r := &routerAdapter{router: cr, app: a}
		for _, h := range a.handlers {
			h.Routes(r)
		}
	})

	notFound := a.notFoundHandler
	if notFound == nil {
		notFound = func(Context) error { return ErrNotFound("") }
	}
	a.router.NotFound(a.wrapHandler(notFound))

	methodNotAllowed := a.methodNotAllowedHandler
	if methodNotAllowed == nil {
		methodNotAllowed = func(Context) error { return ErrMethodNotAllowed("") }
	}
	a.router.MethodNotAllowed(a.wrapHandler(methodNotAllowed))
}

func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a.logger)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

func (a *App) handleError(c Context, err error) {
	if c.Written() {
		return
	}
	h := a.errorHandler
	if h == nil {
		h = DefaultErrorHandler
	}
	if herr := h(c, err); herr != nil {
		a.logger.ErrorContext(c.Context(), "error handler failed", slog.Any("error", herr))
	}
}

// DefaultErrorHandler renders HTTPErrors with their status and anything else
// as 500, in both cases as {"message": ...}.
func DefaultErrorHandler(c Context, err error) error {
	if httpErr := AsHTTPError(err); httpErr != nil {
		if httpErr.Code >= http.StatusInternalServerError {
			c.LogError("request failed", slog.Int("status", httpErr.Code), slog.Any("error", err))
		}
		return c.JSON(httpErr.Code, map[string]string{"message": httpErr.Message})
	}
	c.LogError("request failed", slog.Any("error", err))
	return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server Error"})
}

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath overrides "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath overrides "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check. Checks run in parallel.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if fn == nil {
			return
		}
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
