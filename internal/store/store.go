package store

import "errors"

var (
	// ErrNotFound reports that the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a uniqueness conflict (duplicate username or email).
	ErrConflict = errors.New("already exists")
)
