package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const UserIDKey contextKey = "userID"

// AuthMiddleware requires a valid bearer token when the service is
// enabled and stores its subject in the request context.
func (s *Service) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		userID, status, msg := s.authenticate(r)
		if status != 0 {
			writeJSON(w, status, map[string]string{"error": msg})
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) authenticate(r *http.Request) (string, int, string) {
	tokenString := ""
	authHeader := r.Header.Get("Authorization")
	switch {
	case authHeader != "":
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", http.StatusUnauthorized, "invalid authorization format"
		}
		tokenString = parts[1]
	case r.URL.Query().Get("token") != "":
		// Browsers cannot set headers on websocket upgrades.
		tokenString = r.URL.Query().Get("token")
	default:
		return "", http.StatusUnauthorized, "missing authorization header"
	}

	userID, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", http.StatusUnauthorized, "invalid token"
	}
	return userID, 0, ""
}

func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
