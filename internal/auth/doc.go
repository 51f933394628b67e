// Package auth issues and verifies API bearer tokens.
//
// A token is shown to its owner exactly once, as "<id>|<secret>". Only the
// SHA-256 of the secret is stored. Verification results are cached for a
// short time so the hot path of an authenticated request does not reach
// PostgreSQL.
package auth
