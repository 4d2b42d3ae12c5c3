package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound indicates the requested object does not exist in the store.
	ErrNotFound = errors.New("object not found")
)

// Store persists uploaded media under a flat namespace of derived filenames.
type Store interface {
	// Save writes the full byte stream under the given name and returns the
	// stored location (a path or URL, depending on the backend).
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	// Open streams a previously stored object back by name.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Remove deletes a stored object. Removing a missing object is not an error.
	Remove(ctx context.Context, name string) error
}
