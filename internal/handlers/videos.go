package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/clipshare/backend/internal/logging"
	"github.com/clipshare/backend/internal/media"
	"github.com/clipshare/backend/internal/middleware"
	"github.com/clipshare/backend/internal/models"
	"github.com/clipshare/backend/internal/repositories"
)

// formatCodePattern constrains rendition codes to digits (e.g. "480", "1080").
var formatCodePattern = regexp.MustCompile(`^[0-9]+$`)

// maxUploadBytes bounds in-memory buffering of multipart uploads.
const maxUploadBytes = 512 << 20

// VideoHandler implements video listing, upload, encoding and lifecycle endpoints.
type VideoHandler struct {
	Videos  VideoStore
	Formats FormatStore
	Users   UserStore
	Ingest  MediaIngestor
}

// List handles GET /videos with optional name-prefix filtering.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := pageFromQuery(r)
	name := strings.TrimSpace(r.URL.Query().Get("name"))

	videos, count, err := h.Videos.List(ctx, name, page)
	if err != nil {
		logging.FromContext(ctx).Error("list videos", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views, err := h.videoViews(ctx, videos)
	if err != nil {
		logging.FromContext(ctx).Error("list video formats", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondPage(ctx, w, views, repositories.NewPager(page, count))
}

// ListByUser handles GET /user/{id}/videos.
func (h VideoHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := pageFromQuery(r)
	videos, count, err := h.Videos.ListByOwner(ctx, r.PathValue("id"), page)
	if err != nil {
		logging.FromContext(ctx).Error("list user videos", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views, err := h.videoViews(ctx, videos)
	if err != nil {
		logging.FromContext(ctx).Error("list user video formats", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondPage(ctx, w, views, repositories.NewPager(page, count))
}

// Upload handles POST /user/{id}/video: a multipart form with the source file
// under "source" and an optional display name under "name".
func (h VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	owner, err := h.Users.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User not found")
			return
		}
		logger.Error("get upload owner", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	caller, ok := middleware.UserFromContext(ctx)
	if !ok || caller.ID != owner.ID {
		respondError(ctx, w, http.StatusForbidden, "Forbidden")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeNoFile)
		return
	}

	file, header, err := r.FormFile("source")
	if err != nil {
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeNoFile)
		return
	}
	defer file.Close()

	video, err := h.Ingest.IngestVideo(ctx, owner, file, header, r.FormValue("name"))
	if err != nil {
		h.respondIngestError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusCreated, newVideoView(video))
}

// Encode handles PATCH /video/{id}: a multipart form with the rendition file
// under "file" and its format code under "format". Re-uploading an existing
// format replaces the stored rendition.
func (h VideoHandler) Encode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	video, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeNoFile)
		return
	}

	formatCode := strings.TrimSpace(r.FormValue("format"))
	if !formatCodePattern.MatchString(formatCode) {
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeWrongFileType)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeNoFile)
		return
	}
	defer file.Close()

	caller, _ := middleware.UserFromContext(ctx)
	format, err := h.Ingest.IngestFormat(ctx, caller, video.ID, formatCode, file, header)
	if err != nil {
		h.respondIngestError(ctx, w, err)
		return
	}

	logger.Info("format ingested", "videoId", video.ID, "format", formatCode)
	respondData(ctx, w, http.StatusOK, newFormatView(format))
}

// Update handles PUT /video/{id}: renames the video.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeInvalidForm)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeInvalidForm)
		return
	}

	renamed, err := h.Videos.Rename(ctx, video.ID, req.Name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video not found")
			return
		}
		logging.FromContext(ctx).Error("rename video", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	view, err := h.videoView(ctx, renamed)
	if err != nil {
		logging.FromContext(ctx).Error("list video formats", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(ctx, w, http.StatusOK, view)
}

// Delete handles DELETE /video/{id}. Comments and format rows cascade away.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video not found")
			return
		}
		logging.FromContext(ctx).Error("delete video", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// videoView projects a video together with its transcoded renditions.
func (h VideoHandler) videoView(ctx context.Context, video models.Video) (videoView, error) {
	view := newVideoView(video)
	formats, err := h.Formats.ListByVideo(ctx, video.ID)
	if err != nil {
		return videoView{}, err
	}
	view.Formats = formatViews(formats)
	return view, nil
}

func (h VideoHandler) videoViews(ctx context.Context, videos []models.Video) ([]videoView, error) {
	views := make([]videoView, 0, len(videos))
	for _, v := range videos {
		view, err := h.videoView(ctx, v)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// ownedVideo loads the routed video and enforces that the caller owns it.
func (h VideoHandler) ownedVideo(w http.ResponseWriter, r *http.Request) (models.Video, bool) {
	ctx := r.Context()

	found, err := h.Videos.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video not found")
			return models.Video{}, false
		}
		logging.FromContext(ctx).Error("get video", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return models.Video{}, false
	}

	caller, authed := middleware.UserFromContext(ctx)
	if !authed || caller.ID != found.OwnerID {
		respondError(ctx, w, http.StatusForbidden, "Forbidden")
		return models.Video{}, false
	}

	return found, true
}

func (h VideoHandler) respondIngestError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, media.ErrNoFile):
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeNoFile)
	case errors.Is(err, media.ErrWrongType):
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeWrongFileType)
	case errors.Is(err, repositories.ErrNotFound):
		respondError(ctx, w, http.StatusNotFound, "Video not found")
	case errors.Is(err, repositories.ErrConflict):
		respondError(ctx, w, http.StatusBadRequest, "Bad request")
	default:
		logging.FromContext(ctx).Error("media ingest", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
	}
}
