package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements Store on a directory of the local filesystem.
type LocalStorage struct {
	root string
}

// NewLocalStorage ensures the root directory exists and returns a store
// writing into it.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("local storage: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: create root %s: %w", root, err)
	}
	return &LocalStorage{root: root}, nil
}

// Save writes the stream to a file under the root and returns its path.
func (s *LocalStorage) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("local storage: create %s: %w", path, err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("local storage: write %s: %w", path, err)
	}

	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("local storage: close %s: %w", path, err)
	}

	return path, nil
}

// Open returns a reader over a stored file.
func (s *LocalStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("local storage: open %s: %w", path, err)
	}
	return f, nil
}

// Remove deletes a stored file if it exists.
func (s *LocalStorage) Remove(ctx context.Context, name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("local storage: remove %s: %w", path, err)
	}
	return nil
}

// resolve rejects names that would escape the root directory.
func (s *LocalStorage) resolve(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("local storage: invalid name %q", name)
	}
	return filepath.Join(s.root, base), nil
}
