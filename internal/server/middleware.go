package server

import (
	"context"
	"net/http"
	"strings"
)

// sessionCookieName is the cookie the login handler sets alongside the
// bearer token it returns.
const sessionCookieName = "todoboard_session"

// contextKey is a private type for request-context values.
type contextKey int

const userIDKey contextKey = iota

// userID returns the authenticated caller's user ID from the request
// context. Only valid inside handlers wrapped by requireSession.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// sessionToken extracts the session token from the Authorization header
// or the session cookie.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// requireSession rejects requests without a valid session and stores
// the caller's user ID in the request context.
func (s *Server) requireSession(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		uid, err := s.sessions.Validate(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, uid)
		next(w, r.WithContext(ctx))
	})
}
