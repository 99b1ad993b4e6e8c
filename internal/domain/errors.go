package domain

import "errors"

// Outcome sentinels for conditions the caller can act on. Anything not
// matching one of these is an infrastructure failure (datastore, filesystem)
// and must not be retried as if it were caller-fixable.
var (
	// ErrValidation marks malformed or incomplete input.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound marks a lookup that matched no row.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a duplicate unique key.
	ErrConflict = errors.New("already exists")
	// ErrUnauthorized marks failed credential verification.
	ErrUnauthorized = errors.New("unauthorized")
)
