package auth

import "errors"

var (
	// ErrInvalidToken is returned for malformed, unknown, or mismatching tokens.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrTokenExpired is returned for a known token past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")

	// ErrNotFound is returned by a Store when a token does not exist.
	ErrNotFound = errors.New("auth: not found")

	// ErrInvalidEmail is returned by CreateToken for an empty email.
	ErrInvalidEmail = errors.New("auth: email is required")
)

// IsRejected reports whether err means the caller presented bad credentials,
// as opposed to a failure of the token store.
func IsRejected(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenExpired)
}
