package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/clipshare/backend/internal/logging"
	"github.com/clipshare/backend/internal/storage"
)

// Minimal images often ship without /etc/mime.types, leaving the common
// video extensions unresolvable.
func init() {
	_ = mime.AddExtensionType(".mp4", "video/mp4")
	_ = mime.AddExtensionType(".webm", "video/webm")
	_ = mime.AddExtensionType(".mkv", "video/x-matroska")
	_ = mime.AddExtensionType(".avi", "video/x-msvideo")
}

// UploadHandler serves stored media files back by filename.
type UploadHandler struct {
	Files storage.Store
}

// Serve handles GET /uploads/{filename}.
func (h UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := filepath.Base(r.PathValue("filename"))

	f, err := h.Files.Open(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Not found")
			return
		}
		logging.FromContext(ctx).Error("open upload", "name", name, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)

	if _, err := io.Copy(w, f); err != nil {
		logging.FromContext(ctx).Error("stream upload", "name", name, "error", err)
	}
}
