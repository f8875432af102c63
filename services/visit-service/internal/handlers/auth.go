package handlers

import (
	"net/http"
	"strings"

	"github.com/sunnyfiber/visitops/libs/auth"
)

// RequireAuth verifies a bearer HS256 JWT on the wrapped routes. An empty
// secret disables the check, which is the local-dev mode.
func RequireAuth(next http.Handler, jwtSecret string) http.Handler {
	if jwtSecret == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") || len(strings.TrimSpace(authHeader)) <= len("Bearer ") {
			http.Error(w, "missing or invalid Authorization header", http.StatusUnauthorized)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if _, err := auth.ParseAndVerifyHS256(token, jwtSecret); err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
