package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clipshare/backend/internal/logging"
	"github.com/clipshare/backend/internal/middleware"
	"github.com/clipshare/backend/internal/models"
	"github.com/clipshare/backend/internal/repositories"
)

// UserHandler implements account CRUD endpoints.
type UserHandler struct {
	Users   UserStore
	NowFunc func() time.Time
}

type userRequest struct {
	Username string `json:"username"`
	Pseudo   string `json:"pseudo"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// List handles GET /users with optional exact pseudo filtering.
func (h UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := pageFromQuery(r)
	pseudo := strings.TrimSpace(r.URL.Query().Get("pseudo"))

	users, count, err := h.Users.List(ctx, pseudo, page)
	if err != nil {
		logging.FromContext(ctx).Error("list users", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondPage(ctx, w, publicUserViews(users), repositories.NewPager(page, count))
}

// Get handles GET /user/{id}. The owner's own view additionally carries the
// email address; the password hash is never exposed.
func (h UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Users.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Not found")
			return
		}
		logging.FromContext(ctx).Error("get user", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if caller, ok := middleware.UserFromContext(ctx); ok && caller.ID == user.ID {
		respondData(ctx, w, http.StatusOK, selfUserView(user))
		return
	}

	respondData(ctx, w, http.StatusOK, publicUserView(user))
}

// Create handles POST /user.
func (h UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	now := h.now()
	user := models.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Pseudo:    req.Pseudo,
		Email:     req.Email,
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.Pseudo == "" {
		user.Pseudo = user.Username
	}

	if err := h.Users.Create(ctx, user); err != nil {
		h.respondStoreError(ctx, w, "create user", err)
		return
	}

	respondData(ctx, w, http.StatusCreated, selfUserView(user))
}

// Update handles PUT /user/{id}. Only the account owner may modify it.
func (h UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Users.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Not found")
			return
		}
		logging.FromContext(ctx).Error("get user", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	caller, ok := middleware.UserFromContext(ctx)
	if !ok || caller.ID != user.ID {
		respondError(ctx, w, http.StatusForbidden, "Forbidden")
		return
	}

	req, decoded := h.decode(w, r)
	if !decoded {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logging.FromContext(ctx).Error("hash password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user.Username = req.Username
	user.Pseudo = req.Pseudo
	user.Email = req.Email
	user.Password = string(hashed)
	user.UpdatedAt = h.now()
	if user.Pseudo == "" {
		user.Pseudo = user.Username
	}

	if err := h.Users.Update(ctx, user); err != nil {
		h.respondStoreError(ctx, w, "update user", err)
		return
	}

	respondData(ctx, w, http.StatusCreated, selfUserView(user))
}

// Delete handles DELETE /user/{id}. Only the account owner may remove it;
// owned videos, comments and tokens cascade away with the row.
func (h UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Users.FindByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Not found")
			return
		}
		logging.FromContext(ctx).Error("get user", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	caller, ok := middleware.UserFromContext(ctx)
	if !ok || caller.ID != user.ID {
		respondError(ctx, w, http.StatusForbidden, "Forbidden")
		return
	}

	if err := h.Users.Delete(ctx, user.ID); err != nil {
		h.respondStoreError(ctx, w, "delete user", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decode parses and validates the account payload shared by Create and Update.
func (h UserHandler) decode(w http.ResponseWriter, r *http.Request) (userRequest, bool) {
	ctx := r.Context()

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(ctx).Warn("invalid user payload", "error", err)
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeInvalidForm)
		return userRequest{}, false
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Pseudo = strings.TrimSpace(req.Pseudo)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Username == "" || !usernamePattern.MatchString(req.Username) ||
		(req.Pseudo != "" && !usernamePattern.MatchString(req.Pseudo)) ||
		req.Email == "" || req.Password == "" {
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeInvalidForm)
		return userRequest{}, false
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeInvalidForm)
		return userRequest{}, false
	}

	return req, true
}

func (h UserHandler) respondStoreError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if errors.Is(err, repositories.ErrConflict) {
		respondError(ctx, w, http.StatusBadRequest, "Bad request")
		return
	}
	logging.FromContext(ctx).Error(op, "error", err)
	respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
