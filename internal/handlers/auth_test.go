package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clipshare/backend/internal/models"
	"github.com/clipshare/backend/internal/repositories"
)

type stubUserStore struct {
	users     map[string]models.User
	createErr error
}

func newStubUserStore(users ...models.User) *stubUserStore {
	s := &stubUserStore{users: make(map[string]models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *stubUserStore) Create(_ context.Context, user models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *stubUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *stubUserStore) List(_ context.Context, pseudo string, page repositories.Page) ([]models.User, int64, error) {
	matched := []models.User{}
	for _, u := range s.users {
		if pseudo == "" || u.Pseudo == pseudo {
			matched = append(matched, u)
		}
	}
	count := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		return []models.User{}, count, nil
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], count, nil
}

func (s *stubUserStore) Update(_ context.Context, user models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubUserStore) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

type stubIssuer struct {
	token string
	err   error
}

func (s stubIssuer) Issue(_ context.Context, _ string) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return s.token, time.Now().Add(time.Hour), nil
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool { return false }

type testEnvelope struct {
	Message string          `json:"message"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Pager   *struct {
		Current int `json:"current"`
		Total   int `json:"total"`
	} `json:"pager"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hashed)
}

func TestAuthHandlerLoginByUsername(t *testing.T) {
	store := newStubUserStore(models.User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
		Password: hashPassword(t, "pw123"),
	})
	handler := AuthHandler{Users: store, Tokens: stubIssuer{token: "signed-token"}}

	body, err := json.Marshal(authRequest{Login: "alice", Password: "pw123"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Authenticate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if env.Message != "OK" {
		t.Fatalf("expected OK message got %q", env.Message)
	}

	var token string
	if err := json.Unmarshal(env.Data, &token); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if token != "signed-token" {
		t.Fatalf("expected issued token in data, got %q", token)
	}
}

func TestAuthHandlerLoginByEmail(t *testing.T) {
	store := newStubUserStore(models.User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
		Password: hashPassword(t, "pw123"),
	})
	handler := AuthHandler{Users: store, Tokens: stubIssuer{token: "signed-token"}}

	req := httptest.NewRequest(http.MethodPost, "/auth",
		strings.NewReader(`{"login":"alice@example.com","password":"pw123"}`))
	rec := httptest.NewRecorder()

	handler.Authenticate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthHandlerWrongPassword(t *testing.T) {
	store := newStubUserStore(models.User{
		ID:       "user-1",
		Username: "alice",
		Password: hashPassword(t, "pw123"),
	})
	handler := AuthHandler{Users: store, Tokens: stubIssuer{token: "signed-token"}}

	req := httptest.NewRequest(http.MethodPost, "/auth",
		strings.NewReader(`{"login":"alice","password":"nope"}`))
	rec := httptest.NewRecorder()

	handler.Authenticate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != codePasswordMismatch {
		t.Fatalf("expected code %d got %d", codePasswordMismatch, env.Code)
	}
}

func TestAuthHandlerUnknownLogin(t *testing.T) {
	handler := AuthHandler{Users: newStubUserStore(), Tokens: stubIssuer{token: "signed-token"}}

	req := httptest.NewRequest(http.MethodPost, "/auth",
		strings.NewReader(`{"login":"ghost","password":"pw123"}`))
	rec := httptest.NewRecorder()

	handler.Authenticate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 got %d", rec.Code)
	}
}

func TestAuthHandlerMalformedPayload(t *testing.T) {
	handler := AuthHandler{Users: newStubUserStore(), Tokens: stubIssuer{token: "signed-token"}}

	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.Authenticate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != codeInvalidForm {
		t.Fatalf("expected code %d got %d", codeInvalidForm, env.Code)
	}
}

func TestAuthHandlerRateLimited(t *testing.T) {
	handler := AuthHandler{Users: newStubUserStore(), Tokens: stubIssuer{token: "signed-token"}, Limiter: denyLimiter{}}

	req := httptest.NewRequest(http.MethodPost, "/auth",
		strings.NewReader(`{"login":"alice","password":"pw123"}`))
	rec := httptest.NewRecorder()

	handler.Authenticate(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 got %d", rec.Code)
	}
}
