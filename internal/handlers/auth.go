package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/clipshare/backend/internal/logging"
	"github.com/clipshare/backend/internal/models"
	"github.com/clipshare/backend/internal/repositories"
)

// usernamePattern constrains usernames and pseudos to a filesystem- and
// URL-safe alphabet. Logins matching it are looked up by username, anything
// else is treated as an email address.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// AuthHandler implements the credential exchange endpoint.
type AuthHandler struct {
	Users   UserStore
	Tokens  TokenIssuer
	Limiter RateLimiter
}

type authRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Authenticate handles POST /auth. On success the response data carries the
// signed token to present in the X-Token header.
func (h AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "auth") {
		respondError(ctx, w, http.StatusTooManyRequests, "Too many requests")
		return
	}

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid auth payload", "error", err)
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeInvalidForm)
		return
	}

	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codeInvalidForm)
		return
	}

	user, err := h.lookup(ctx, req.Login)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Not found")
			return
		}
		logger.Error("auth user lookup failed", "login", req.Login, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.Warn("auth password mismatch", "userId", user.ID)
		respondCode(ctx, w, http.StatusBadRequest, "Bad request", codePasswordMismatch)
		return
	}

	token, _, err := h.Tokens.Issue(ctx, user.ID)
	if err != nil {
		logger.Error("failed to issue token", "userId", user.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(ctx, w, http.StatusOK, token)
}

// lookup resolves the login against the username alphabet first, falling back
// to an email lookup for anything outside it.
func (h AuthHandler) lookup(ctx context.Context, login string) (models.User, error) {
	if usernamePattern.MatchString(login) {
		return h.Users.FindByUsername(ctx, login)
	}
	return h.Users.FindByEmail(ctx, login)
}
