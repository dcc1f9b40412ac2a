// Package api implements the habits REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey struct{}

// AuthMiddleware returns middleware that validates a Bearer token and
// attaches userID to the request context.
// If enabled is false, all requests pass through (disabled mode).
// If enabled is true, requests must carry a valid "Authorization: Bearer <token>" header.
func AuthMiddleware(enabled bool, token, userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if enabled {
				auth := r.Header.Get("Authorization")
				if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
					writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
					return
				}
			}
			ctx := context.WithValue(r.Context(), ctxKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userFrom returns the user attached by AuthMiddleware.
func userFrom(ctx context.Context) string {
	u, _ := ctx.Value(ctxKey{}).(string)
	return u
}
