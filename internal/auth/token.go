package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

const secretBytes = 20 // 40 hex characters

// User owns API tokens.
type User struct {
	CreatedAt time.Time
	Email     string
	Name      string
	ID        int64
}

// Token is a stored API token. The secret itself is never persisted.
type Token struct {
	CreatedAt  time.Time
	LastUsedAt *time.Time
	ExpiresAt  *time.Time // nil never expires
	Name       string
	Hash       string // hex sha256 of the secret
	ID         uuid.UUID
	UserID     int64
}

// Expired reports whether the token is past its expiry at now.
func (t Token) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// Principal is the identity attached to an authenticated request.
type Principal struct {
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Email     string     `json:"email"`
	TokenName string     `json:"token_name"`
	TokenID   uuid.UUID  `json:"token_id"`
	UserID    int64      `json:"user_id"`
}

func newSecret() (string, error) {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// parseToken splits "<uuid>|<secret>".
func parseToken(plain string) (uuid.UUID, string, error) {
	rawID, secret, ok := strings.Cut(plain, "|")
	if !ok || len(secret) != 2*secretBytes {
		return uuid.Nil, "", ErrInvalidToken
	}
	if _, err := hex.DecodeString(secret); err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}
	return id, secret, nil
}

func formatToken(id uuid.UUID, secret string) string {
	return id.String() + "|" + secret
}
