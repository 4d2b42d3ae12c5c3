package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clipshare/backend/internal/storage"
)

type memoryStore struct {
	files map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{files: make(map[string][]byte)}
}

func (s *memoryStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	contents, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.files[name] = contents
	return "uploads/" + name, nil
}

func (s *memoryStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	contents, ok := s.files[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(contents)), nil
}

func (s *memoryStore) Remove(_ context.Context, name string) error {
	delete(s.files, name)
	return nil
}

func TestUploadHandlerServe(t *testing.T) {
	store := newMemoryStore()
	store.files["alice_1_clip.mp4"] = []byte("video bytes")

	handler := UploadHandler{Files: store}

	req := httptest.NewRequest(http.MethodGet, "/uploads/alice_1_clip.mp4", nil)
	req.SetPathValue("filename", "alice_1_clip.mp4")
	rec := httptest.NewRecorder()

	handler.Serve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "video/mp4" {
		t.Fatalf("expected video/mp4 content type got %s", got)
	}
	if rec.Body.String() != "video bytes" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestUploadHandlerServeMissing(t *testing.T) {
	handler := UploadHandler{Files: newMemoryStore()}

	req := httptest.NewRequest(http.MethodGet, "/uploads/ghost.mp4", nil)
	req.SetPathValue("filename", "ghost.mp4")
	rec := httptest.NewRecorder()

	handler.Serve(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 got %d", rec.Code)
	}
}

func TestUploadHandlerServeStripsPathTraversal(t *testing.T) {
	store := newMemoryStore()
	store.files["safe.mp4"] = []byte("video bytes")

	handler := UploadHandler{Files: store}

	req := httptest.NewRequest(http.MethodGet, "/uploads/x", nil)
	req.SetPathValue("filename", "../safe.mp4")
	rec := httptest.NewRecorder()

	handler.Serve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected traversal to collapse to base name, got %d", rec.Code)
	}
}
