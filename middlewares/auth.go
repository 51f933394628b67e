package middlewares

import (
	"context"

	"github.com/dmitrymomot/lingo/internal"
)

type principalKey struct{}

// TokenVerifier resolves a bearer token to a principal.
type TokenVerifier[P any] interface {
	Verify(ctx context.Context, token string) (P, error)
}

// AuthConfig configures the Auth middleware.
type AuthConfig struct {
	// IsRejection reports whether a verification error means "bad
	// credentials" (401). Other errors propagate unchanged. By default every
	// error is a rejection.
	IsRejection func(error) bool
	Extractor   internal.Extractor
	Skip        bool
}

// AuthOption configures AuthConfig.
type AuthOption func(*AuthConfig)

// WithAuthExtractor overrides the token extractor chain.
func WithAuthExtractor(ex internal.Extractor) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.Extractor = ex
	}
}

// WithAuthRejection sets the classifier for verification errors.
func WithAuthRejection(fn func(error) bool) AuthOption {
	return func(cfg *AuthConfig) {
		if fn != nil {
			cfg.IsRejection = fn
		}
	}
}

// WithAuthDisabled turns the middleware into a pass-through.
func WithAuthDisabled(disabled bool) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.Skip = disabled
	}
}

// Auth requires a valid bearer token and stores the verified principal in
// the context, retrievable with GetPrincipal.
func Auth[P any](verifier TokenVerifier[P], opts ...AuthOption) internal.Middleware {
	cfg := &AuthConfig{
		Extractor:   internal.NewExtractor(internal.FromBearerToken()),
		IsRejection: func(error) bool { return true },
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		if cfg.Skip {
			return next
		}
		return func(c internal.Context) error {
			token, ok := cfg.Extractor.Extract(c)
			if !ok {
				c.SetHeader("WWW-Authenticate", `Bearer`)
				return internal.ErrUnauthorized("Unauthenticated.")
			}

			principal, err := verifier.Verify(c, token)
			if err != nil {
				if cfg.IsRejection(err) {
					c.SetHeader("WWW-Authenticate", `Bearer error="invalid_token"`)
					return internal.ErrUnauthorized("Unauthenticated.", internal.WithError(err))
				}
				return err
			}

			c.Set(principalKey{}, principal)
			return next(c)
		}
	}
}

// GetPrincipal returns the principal stored by Auth.
func GetPrincipal[P any](c internal.Context) (P, bool) {
	p, ok := c.Get(principalKey{}).(P)
	return p, ok
}
