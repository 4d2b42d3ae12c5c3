package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/clipshare/backend/internal/logging"
	"github.com/clipshare/backend/internal/models"
)

// TokenHeader is the custom header carrying the signed credential.
const TokenHeader = "X-Token"

// TokenVerifier validates a credential and resolves the calling account.
type TokenVerifier interface {
	Verify(ctx context.Context, code string) (models.User, error)
}

type userKey struct{}

// UserFromContext returns the authenticated caller, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey{}).(models.User)
	return user, ok
}

// WithUser stores the authenticated caller on the context. Exposed for tests.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// RequireUser rejects requests without a valid token before handler dispatch.
func RequireUser(verifier TokenVerifier) func(http.Handler) http.Handler {
	return authGate(verifier, true)
}

// OptionalUser lets anonymous requests through but still rejects requests
// presenting an invalid token.
func OptionalUser(verifier TokenVerifier) func(http.Handler) http.Handler {
	return authGate(verifier, false)
}

func authGate(verifier TokenVerifier, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			code := strings.TrimSpace(r.Header.Get(TokenHeader))
			if code == "" {
				if required {
					unauthorized(w)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			user, err := verifier.Verify(ctx, code)
			if err != nil {
				logging.FromContext(ctx).Warn("token rejected", "error", err)
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
}
