package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when an insert collides with an existing key.
	ErrDuplicate = errors.New("persistence: duplicate")
	// ErrConstraintViolation is returned when a CHECK or uniqueness
	// constraint rejects a write.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrUnavailable is returned when the store cannot be reached.
	ErrUnavailable = errors.New("persistence: store unavailable")
)
