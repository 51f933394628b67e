package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/lingo/pkg/cache"
	"github.com/dmitrymomot/lingo/pkg/logger"
)

// DefaultCacheTTL bounds how long a verified token is trusted without
// re-reading the store.
const DefaultCacheTTL = time.Minute

// Service issues, verifies, and prunes API tokens.
type Service struct {
	store    Store
	cache    cache.Cache[Principal]
	now      func() time.Time
	logger   *slog.Logger
	cacheTTL time.Duration
}

// Option configures Service.
type Option func(*Service)

// WithCache sets the verification cache. Defaults to an in-memory cache.
func WithCache(c cache.Cache[Principal]) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithCacheTTL sets how long a verification result is cached.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cacheTTL = d
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service on store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		now:      time.Now,
		logger:   logger.NewNope(),
		cacheTTL: DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.NewMemory[Principal](cache.WithDefaultTTL(s.cacheTTL))
	}
	s.logger = s.logger.With(slog.String("component", "auth"))
	return s
}

// IssuedToken is the result of CreateToken. Plaintext is not recoverable later.
type IssuedToken struct {
	Token     Token
	User      User
	Plaintext string
}

// CreateToken issues a token for the user with email, creating the user if needed.
// A zero ttl issues a token that never expires.
func (s *Service) CreateToken(ctx context.Context, email, name string, ttl time.Duration) (IssuedToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return IssuedToken{}, ErrInvalidEmail
	}
	if name == "" {
		name = "api"
	}

	user, err := s.store.UpsertUser(ctx, email, userName(email))
	if err != nil {
		return IssuedToken{}, err
	}

	secret, err := newSecret()
	if err != nil {
		return IssuedToken{}, fmt.Errorf("generate token: %w", err)
	}
	t := Token{
		ID:     uuid.New(),
		UserID: user.ID,
		Name:   name,
		Hash:   hashSecret(secret),
	}
	if ttl > 0 {
		exp := s.now().Add(ttl)
		t.ExpiresAt = &exp
	}

	t, err = s.store.CreateToken(ctx, t)
	if err != nil {
		return IssuedToken{}, err
	}

	s.logger.InfoContext(ctx, "api token issued",
		slog.Int64("user_id", user.ID), slog.String("token_id", t.ID.String()))
	return IssuedToken{Token: t, User: user, Plaintext: formatToken(t.ID, secret)}, nil
}

// Verify resolves a plaintext token to its Principal.
// It returns an error satisfying IsRejected for bad credentials.
func (s *Service) Verify(ctx context.Context, plain string) (Principal, error) {
	id, secret, err := parseToken(plain)
	if err != nil {
		return Principal{}, err
	}
	hash := hashSecret(secret)

	p, err := cache.GetOrSet(ctx, s.cache, hash, func(ctx context.Context) (Principal, time.Duration, error) {
		return s.lookup(ctx, id, hash)
	})
	if err != nil {
		return Principal{}, err
	}
	if p.ExpiresAt != nil && !s.now().Before(*p.ExpiresAt) {
		return Principal{}, ErrTokenExpired
	}
	return p, nil
}

func (s *Service) lookup(ctx context.Context, id uuid.UUID, hash string) (Principal, time.Duration, error) {
	t, u, err := s.store.TokenByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Principal{}, 0, ErrInvalidToken
	}
	if err != nil {
		return Principal{}, 0, err
	}
	if subtle.ConstantTimeCompare([]byte(t.Hash), []byte(hash)) != 1 {
		return Principal{}, 0, ErrInvalidToken
	}
	now := s.now()
	if t.Expired(now) {
		return Principal{}, 0, ErrTokenExpired
	}

	if err := s.store.TouchToken(ctx, t.ID, now); err != nil {
		s.logger.WarnContext(ctx, "touch token failed", slog.String("token_id", t.ID.String()), slog.Any("error", err))
	}

	ttl := s.cacheTTL
	if t.ExpiresAt != nil {
		ttl = min(ttl, t.ExpiresAt.Sub(now))
	}
	return Principal{
		TokenID:   t.ID,
		TokenName: t.Name,
		UserID:    u.ID,
		Email:     u.Email,
		ExpiresAt: t.ExpiresAt,
	}, ttl, nil
}

// PruneExpired deletes expired tokens and returns how many were removed.
func (s *Service) PruneExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "expired api tokens pruned", slog.Int64("count", n))
	}
	return n, nil
}

func userName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// Close releases the verification cache.
func (s *Service) Close() error {
	return s.cache.Close()
}
