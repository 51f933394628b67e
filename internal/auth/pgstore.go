package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/lingo/pkg/db"
)

const (
	upsertUserSQL = `
INSERT INTO users (email, name) VALUES ($1, $2)
ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
RETURNING id, email, name, created_at`

	createTokenSQL = `
INSERT INTO api_tokens (id, user_id, name, token_hash, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at`

	tokenByIDSQL = `
SELECT t.id, t.user_id, t.name, t.token_hash, t.last_used_at, t.expires_at, t.created_at,
       u.id, u.email, u.name, u.created_at
FROM api_tokens t
JOIN users u ON u.id = t.user_id
WHERE t.id = $1`

	touchTokenSQL = `UPDATE api_tokens SET last_used_at = $2 WHERE id = $1`

	deleteExpiredSQL = `DELETE FROM api_tokens WHERE expires_at IS NOT NULL AND expires_at <= $1`
)

// PostgresStore is a Store on the users and api_tokens tables.
type PostgresStore struct {
	q db.Querier
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a PostgresStore.
func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{q: q}
}

func (s *PostgresStore) UpsertUser(ctx context.Context, email, name string) (User, error) {
	var u User
	err := s.q.QueryRow(ctx, upsertUserSQL, email, name).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) CreateToken(ctx context.Context, t Token) (Token, error) {
	err := s.q.QueryRow(ctx, createTokenSQL, t.ID, t.UserID, t.Name, t.Hash, t.ExpiresAt).Scan(&t.CreatedAt)
	if err != nil {
		return Token{}, fmt.Errorf("create token: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) TokenByID(ctx context.Context, id uuid.UUID) (Token, User, error) {
	var (
		t Token
		u User
	)
	err := s.q.QueryRow(ctx, tokenByIDSQL, id).Scan(
		&t.ID, &t.UserID, &t.Name, &t.Hash, &t.LastUsedAt, &t.ExpiresAt, &t.CreatedAt,
		&u.ID, &u.Email, &u.Name, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Token{}, User{}, ErrNotFound
	}
	if err != nil {
		return Token{}, User{}, fmt.Errorf("token by id: %w", err)
	}
	return t, u, nil
}

func (s *PostgresStore) TouchToken(ctx context.Context, id uuid.UUID, at time.Time) error {
	if _, err := s.q.Exec(ctx, touchTokenSQL, id, at); err != nil {
		return fmt.Errorf("touch token: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, deleteExpiredSQL, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
