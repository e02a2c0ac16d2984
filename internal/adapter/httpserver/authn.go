package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/jobdeck/jobdeck/internal/domain"
)

type userIDKey struct{}

// UserIDFrom returns the authenticated user id set by RequireUser.
func UserIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey{}).(string); ok {
		return v
	}
	return ""
}

// RequireUser authenticates the bearer token and stores the subject user id
// in the request context. A missing header is "Not authenticated"; a rejected
// token is "Invalid token".
func RequireUser(verifier domain.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := r.Header.Get("Authorization")
			if bearer == "" {
				writeError(w, http.StatusUnauthorized, "Not authenticated", nil)
				return
			}
			userID, err := verifier.Verify(r.Context(), bearer)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					writeError(w, http.StatusUnauthorized, "Invalid token", nil)
					return
				}
				LoggerFrom(r).Error("token verification failed", "error", err)
				writeError(w, http.StatusInternalServerError, "An unexpected error occurred", nil)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
