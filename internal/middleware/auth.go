package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"dutytrack-backend/internal/auth"
)

type contextKey string

const UserContextKey contextKey = "user"

// Auth validates the bearer token and adds the verified claims to the
// request context. Token transport is the Authorization header only.
func Auth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := BearerToken(r)
			if !ok {
				log.Printf("❌ AUTH: missing or malformed Authorization header on %s %s", r.Method, r.URL.Path)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				log.Printf("❌ AUTH: invalid token on %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// GetUserFromContext extracts verified claims from the request context.
func GetUserFromContext(r *http.Request) (auth.Claims, bool) {
	claims, ok := r.Context().Value(UserContextKey).(auth.Claims)
	return claims, ok
}
