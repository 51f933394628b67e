package catalog

import "errors"

var (
	// ErrNotFound is returned when a translation id does not exist.
	ErrNotFound = errors.New("catalog: translation not found")

	// ErrUnresolvedTag means a tag name reached the reconciler without a
	// matching row. Input validation rejects unknown names first, so this
	// indicates a concurrent tag removal or a programming error.
	ErrUnresolvedTag = errors.New("catalog: unresolved tag name")
)
