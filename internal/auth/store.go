package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists users and API tokens.
type Store interface {
	// UpsertUser returns the user with email, creating it with name if missing.
	UpsertUser(ctx context.Context, email, name string) (User, error)

	// CreateToken persists t.
	CreateToken(ctx context.Context, t Token) (Token, error)

	// TokenByID returns a token and its owner, or ErrNotFound.
	TokenByID(ctx context.Context, id uuid.UUID) (Token, User, error)

	// TouchToken sets last_used_at.
	TouchToken(ctx context.Context, id uuid.UUID, at time.Time) error

	// DeleteExpired removes tokens whose expiry is at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
