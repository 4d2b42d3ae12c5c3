package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorageSaveOpenRemove(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new local storage: %v", err)
	}

	contents := []byte("video bytes")
	path, err := store.Save(ctx, "clip.mp4", bytes.NewReader(contents))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "clip.mp4" {
		t.Fatalf("unexpected stored path %q", path)
	}

	f, err := store.Open(ctx, "clip.mp4")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, contents) {
		t.Fatalf("roundtrip mismatch: %q", got)
	}

	if err := store.Remove(ctx, "clip.mp4"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Open(ctx, "clip.mp4"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}

	// Removing a missing file is not an error.
	if err := store.Remove(ctx, "clip.mp4"); err != nil {
		t.Fatalf("remove twice: %v", err)
	}
}

func TestLocalStorageCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")
	if _, err := NewLocalStorage(root); err != nil {
		t.Fatalf("new local storage: %v", err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected root directory to exist, got %v", err)
	}
}

func TestLocalStorageRejectsEmptyRoot(t *testing.T) {
	if _, err := NewLocalStorage("   "); err == nil {
		t.Fatal("expected error for blank root")
	}
}

func TestLocalStorageContainsTraversal(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStorage(root)
	if err != nil {
		t.Fatalf("new local storage: %v", err)
	}

	path, err := store.Save(ctx, "../escape.mp4", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if filepath.Dir(path) != root {
		t.Fatalf("expected file inside root, got %q", path)
	}
	if _, err := os.Stat(filepath.Join(root, "escape.mp4")); err != nil {
		t.Fatalf("expected base name inside root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(root), "escape.mp4")); !os.IsNotExist(err) {
		t.Fatal("file escaped the storage root")
	}
}
