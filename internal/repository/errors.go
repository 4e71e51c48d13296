package repository

import "errors"

var (
	// ErrNotFound indicates no row matched the predicate.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates a uniqueness constraint was violated.
	ErrConflict = errors.New("repository: conflict")
	// ErrUnavailable indicates the store did not answer within the deadline.
	ErrUnavailable = errors.New("repository: store unavailable")
)
