package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tastella/tastella-backend/internal/services"
)

type contextKey string

// userIDKey carries the authenticated user's ID through the request context.
const userIDKey contextKey = "userID"

type authErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// extractToken reads the raw token from the Authorization header. A
// "Bearer " prefix is tolerated but not required.
func extractToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return auth
}

// RequireAuth gates identity-requiring routes. A request never reaches the
// wrapped handler without a resolved user ID in its context.
// Missing token → 401, invalid token → 403.
func RequireAuth(verifier services.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := verifier.Verify(extractToken(r))
			if err != nil {
				status := http.StatusForbidden
				message := "Invalid token"
				if err == services.ErrMissingToken {
					status = http.StatusUnauthorized
					message = "No token provided"
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				json.NewEncoder(w).Encode(authErrorResponse{Success: false, Message: message})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user's ID attached by RequireAuth.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
