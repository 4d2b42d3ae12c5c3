package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipshare/backend/internal/logging"
	"github.com/clipshare/backend/internal/middleware"
	"github.com/clipshare/backend/internal/models"
	"github.com/clipshare/backend/internal/repositories"
)

// CommentHandler implements comment submission and listing endpoints.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoStore
	NowFunc  func() time.Time
}

// Create handles POST /video/{id}/comment. A caller's second submission for
// the same video overwrites their earlier comment rather than adding another;
// the store decides create-versus-update in a single conditional write.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	caller, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusForbidden, "Forbidden")
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeInvalidForm)
		return
	}

	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeInvalidForm)
		return
	}

	video, err := h.Videos.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video not found")
			return
		}
		logger.Error("get video for comment", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		UserID:    caller.ID,
		VideoID:   video.ID,
		Body:      req.Body,
		CreatedAt: h.now(),
	}

	stored, created, err := h.Comments.Upsert(ctx, comment)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video not found")
			return
		}
		logger.Error("upsert comment", "videoId", video.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	message := "Comment updated"
	if created {
		message = "Comment created"
	}

	respondMessage(ctx, w, http.StatusOK, message, newCommentView(stored))
}

// List handles GET /video/{id}/comments.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := pageFromQuery(r)
	comments, count, err := h.Comments.ListByVideo(ctx, r.PathValue("id"), page)
	if err != nil {
		logging.FromContext(ctx).Error("list comments", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondPage(ctx, w, commentViews(comments), repositories.NewPager(page, count))
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
