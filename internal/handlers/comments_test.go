package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/clipshare/backend/internal/middleware"
	"github.com/clipshare/backend/internal/models"
	"github.com/clipshare/backend/internal/repositories"
)

type stubCommentStore struct {
	comments map[string]models.Comment // keyed by userID+videoID
}

func newStubCommentStore() *stubCommentStore {
	return &stubCommentStore{comments: make(map[string]models.Comment)}
}

func (s *stubCommentStore) Upsert(_ context.Context, comment models.Comment) (models.Comment, bool, error) {
	key := comment.UserID + "/" + comment.VideoID

	if existing, ok := s.comments[key]; ok {
		existing.Body = comment.Body
		existing.UpdatedAt = comment.CreatedAt
		s.comments[key] = existing
		return existing, false, nil
	}

	comment.UpdatedAt = comment.CreatedAt
	s.comments[key] = comment
	return comment, true, nil
}

func (s *stubCommentStore) ListByVideo(_ context.Context, videoID string, page repositories.Page) ([]models.Comment, int64, error) {
	matched := []models.Comment{}
	for _, c := range s.comments {
		if c.VideoID == videoID {
			matched = append(matched, c)
		}
	}
	count := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		return []models.Comment{}, count, nil
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], count, nil
}

func commentRequest(body string, caller *models.User) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/video/video-1/comment", strings.NewReader(body))
	req.SetPathValue("id", "video-1")
	if caller != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), *caller))
	}
	return req
}

func TestCommentHandlerCreateThenUpdate(t *testing.T) {
	caller := models.User{ID: "user-1", Username: "alice"}
	store := newStubCommentStore()
	handler := CommentHandler{
		Comments: store,
		Videos:   newStubVideoStore(models.Video{ID: "video-1", OwnerID: "user-2"}),
		NowFunc:  func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}

	rec := httptest.NewRecorder()
	handler.Create(rec, commentRequest(`{"body":"first thoughts"}`, &caller))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if env := decodeEnvelope(t, rec); env.Message != "Comment created" {
		t.Fatalf("expected creation message, got %q", env.Message)
	}

	handler.NowFunc = func() time.Time { return time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC) }

	rec = httptest.NewRecorder()
	handler.Create(rec, commentRequest(`{"body":"revised thoughts"}`, &caller))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if env.Message != "Comment updated" {
		t.Fatalf("expected update message, got %q", env.Message)
	}

	var view struct {
		Body string `json:"body"`
	}
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Body != "revised thoughts" {
		t.Fatalf("expected body to be replaced, got %q", view.Body)
	}

	if len(store.comments) != 1 {
		t.Fatalf("expected a single comment row, got %d", len(store.comments))
	}
}

func TestCommentHandlerRequiresIdentity(t *testing.T) {
	handler := CommentHandler{
		Comments: newStubCommentStore(),
		Videos:   newStubVideoStore(models.Video{ID: "video-1"}),
	}

	rec := httptest.NewRecorder()
	handler.Create(rec, commentRequest(`{"body":"hello"}`, nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 got %d", rec.Code)
	}
}

func TestCommentHandlerUnknownVideo(t *testing.T) {
	caller := models.User{ID: "user-1"}
	handler := CommentHandler{
		Comments: newStubCommentStore(),
		Videos:   newStubVideoStore(),
	}

	rec := httptest.NewRecorder()
	handler.Create(rec, commentRequest(`{"body":"hello"}`, &caller))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 got %d", rec.Code)
	}
}

func TestCommentHandlerRejectsEmptyBody(t *testing.T) {
	caller := models.User{ID: "user-1"}
	handler := CommentHandler{
		Comments: newStubCommentStore(),
		Videos:   newStubVideoStore(models.Video{ID: "video-1"}),
	}

	rec := httptest.NewRecorder()
	handler.Create(rec, commentRequest(`{"body":"   "}`, &caller))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != codeInvalidForm {
		t.Fatalf("expected code %d got %d", codeInvalidForm, env.Code)
	}
}

func TestCommentHandlerList(t *testing.T) {
	store := newStubCommentStore()
	store.comments["user-1/video-1"] = models.Comment{ID: "comment-1", UserID: "user-1", VideoID: "video-1", Body: "hello"}
	store.comments["user-2/video-1"] = models.Comment{ID: "comment-2", UserID: "user-2", VideoID: "video-1", Body: "hi"}
	store.comments["user-1/video-2"] = models.Comment{ID: "comment-3", UserID: "user-1", VideoID: "video-2", Body: "elsewhere"}

	handler := CommentHandler{Comments: store, Videos: newStubVideoStore()}

	req := httptest.NewRequest(http.MethodGet, "/video/video-1/comments", nil)
	req.SetPathValue("id", "video-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if env.Pager == nil || env.Pager.Total != 1 {
		t.Fatalf("unexpected pager %+v", env.Pager)
	}

	var views []json.RawMessage
	if err := json.Unmarshal(env.Data, &views); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected two comments, got %d", len(views))
	}
}
