package repositories

import "errors"

// Sentinel errors returned by every repository in this package. Callers match
// them with errors.Is and translate to HTTP statuses at the handler layer.
var (
	// ErrNotFound indicates the row does not exist, or a referenced row is gone.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness constraint would be violated.
	ErrConflict = errors.New("already exists")
)
