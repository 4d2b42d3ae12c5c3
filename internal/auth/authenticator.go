package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clipshare/backend/internal/models"
)

var (
	// ErrInvalidToken indicates the presented credential is missing, malformed,
	// expired, or refers to an account that no longer exists.
	ErrInvalidToken = errors.New("invalid token")
)

// TokenStore records issued credentials for auditing.
type TokenStore interface {
	Create(ctx context.Context, token models.Token) error
}

// UserFinder resolves the account embedded in a verified credential.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// Authenticator issues and verifies signed bearer tokens. Verification is
// read-only: the signature and expiry are checked, then the embedded account
// is loaded. Failure is terminal for the request, never retried.
type Authenticator struct {
	secret []byte
	ttl    time.Duration

	tokens TokenStore
	users  UserFinder

	nowFunc func() time.Time
}

// NewAuthenticator constructs an Authenticator signing tokens with the
// provided secret and lifetime.
func NewAuthenticator(secret string, ttl time.Duration, tokens TokenStore, users UserFinder) *Authenticator {
	if users == nil {
		panic("auth: user finder must not be nil")
	}
	return &Authenticator{
		secret: []byte(secret),
		ttl:    ttl,
		tokens: tokens,
		users:  users,
	}
}

// Issue signs a new token embedding the account id, records it, and returns
// the serialized credential.
func (a *Authenticator) Issue(ctx context.Context, userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("user id must be provided")
	}

	now := a.now()
	expiresAt := now.Add(a.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	code, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	if a.tokens != nil {
		record := models.Token{
			ID:        uuid.NewString(),
			Code:      code,
			UserID:    userID,
			ExpiresAt: expiresAt,
		}
		if err := a.tokens.Create(ctx, record); err != nil {
			return "", time.Time{}, fmt.Errorf("record token: %w", err)
		}
	}

	return code, expiresAt, nil
}

// Verify validates the credential and returns the account it identifies.
func (a *Authenticator) Verify(ctx context.Context, code string) (models.User, error) {
	if code == "" {
		return models.User{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(code, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !parsed.Valid {
		return models.User{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return models.User{}, ErrInvalidToken
	}

	user, err := a.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}

	return user, nil
}

// WithNowFunc overrides the time source. Useful for tests.
func (a *Authenticator) WithNowFunc(now func() time.Time) *Authenticator {
	a.nowFunc = now
	return a
}

func (a *Authenticator) now() time.Time {
	if a.nowFunc != nil {
		return a.nowFunc()
	}
	return time.Now().UTC()
}
