package letters

import "errors"

var (
	// ErrInvalidRequest rejects a generation request before any
	// completion call is made.
	ErrInvalidRequest = errors.New("letters: invalid request")

	// ErrNotConfigured means no completion provider is available.
	ErrNotConfigured = errors.New("letters: completion provider not configured")

	// ErrNotFound means the letter does not exist or belongs to another
	// user.
	ErrNotFound = errors.New("letters: not found")
)
