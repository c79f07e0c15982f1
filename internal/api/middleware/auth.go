package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mhasan/chatwave/internal/domain"
	"github.com/mhasan/chatwave/internal/service"
)

type contextKey string

const (
	userKey   contextKey = "user"
	userIDKey contextKey = "userID"
)

// Auth resolves the bearer token to a live user and attaches the public
// view to the request context. One store lookup, no other side effects.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("ERROR [middleware.Auth] missing authorization header")
				writeError(w, http.StatusUnauthorized, "Unauthorized. Please log in.")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("ERROR [middleware.Auth] invalid authorization header format")
				writeError(w, http.StatusUnauthorized, "Unauthorized. Please log in.")
				return
			}

			userID, err := authService.ValidateToken(parts[1])
			if err != nil {
				log.Printf("ERROR [middleware.Auth] token validation failed: %v", err)
				writeError(w, http.StatusUnauthorized, "token has been expired. Please log in.")
				return
			}

			// A valid token for a deleted account must not pass.
			user, err := authService.GetUserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					log.Printf("ERROR [middleware.Auth] token subject %s no longer resolves", userID)
					writeError(w, http.StatusNotFound, "User not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user.Public())
			ctx = context.WithValue(ctx, userIDKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (*domain.PublicUser, bool) {
	user, ok := ctx.Value(userKey).(*domain.PublicUser)
	return user, ok
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
