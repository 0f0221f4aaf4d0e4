package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/example/commerce-agent/internal/auth"
)

type contextKey string

const (
	SessionContextKey contextKey = "session"
)

// ExtractToken extracts the session token from cookie or Authorization header
func ExtractToken(r *http.Request) string {
	// Try cookie first (for browser)
	if cookie, err := r.Cookie("session_token"); err == nil {
		return cookie.Value
	}
	// Fall back to Authorization header (for API clients)
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// WithSession resolves the caller's session id into the request context.
// A valid token wins; otherwise the X-Session-ID header is trusted as-is.
// Requests with neither proceed without a session.
func WithSession(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if tokenString := ExtractToken(r); tokenString != "" && tokens != nil {
				if id, err := tokens.ValidateSessionToken(tokenString); err == nil {
					sessionID = id
				}
			}
			if sessionID == "" {
				sessionID = r.Header.Get("X-Session-ID")
			}
			if sessionID != "" {
				ctx := context.WithValue(r.Context(), SessionContextKey, sessionID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionID retrieves the resolved session id from the request context
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionContextKey).(string)
	return id
}
