package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-auth-api/internal/model"
)

type tokenVerifier interface {
	Verify(tokenString string) (model.ClaimSet, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

type contextKey string

const currentUserContextKey contextKey = "current_user"

type AuthMiddleware struct {
	codec tokenVerifier
	users userFinder
}

func NewAuthMiddleware(codec tokenVerifier, users userFinder) *AuthMiddleware {
	return &AuthMiddleware{codec: codec, users: users}
}

// RequireAuth resolves the bearer credential into the current user or
// fails the request closed. Expired and tampered tokens produce the
// same response on purpose; only a vanished account is distinguishable,
// so callers can detect deleted users.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			writeGuardError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
			return
		}

		claims, err := m.codec.Verify(header)
		if err != nil {
			if errors.Is(err, model.ErrMissingKey) {
				slog.Error("token verification failed", "error", err)
				writeGuardError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "server configuration error")
				return
			}
			writeGuardError(w, http.StatusUnauthorized, "UNAUTHORIZED", "could not authenticate")
			return
		}

		if claims.Subject == "" {
			writeGuardError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token: missing subject")
			return
		}

		user, err := m.users.FindByID(r.Context(), claims.Subject)
		if errors.Is(err, model.ErrUserNotFound) {
			writeGuardError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
			return
		}
		if err != nil {
			slog.Error("user lookup failed during authentication", "error", err)
			writeGuardError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "unexpected server error")
			return
		}

		ctx := context.WithValue(r.Context(), currentUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(currentUserContextKey).(model.User)
	return user, ok
}

func writeGuardError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
