package persistence

import "errors"

var (
	// ErrNotFound is returned when no value is stored under the requested key.
	ErrNotFound = errors.New("persistence: not found")
	// ErrInvalidKey is returned when a key cannot be used by the store.
	ErrInvalidKey = errors.New("persistence: invalid key")
)
