package server

import (
	"context"
	"net/http"

	"github.com/sessionauth/go-session-core/sessions"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the resolved session
const ContextKeySession ContextKey = "session"

// RequireSession is the boundary guard for protected routes. It performs full
// verification - a successful Resolve, not a cookie presence check - so an
// expired or forged token is denied at the boundary. The cookie token is
// seeded into the primary channel before resolving, which is the agreed
// transport contract between glue and core.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessions.TokenKey)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, "no active session")
				return
			}

			if err := s.primary.Set(r.Context(), sessions.TokenKey, []byte(cookie.Value)); err != nil {
				writeError(w, http.StatusInternalServerError, "session channel unavailable")
				return
			}

			session, err := s.sessions.Resolve(r.Context())
			if err != nil || session == nil {
				writeError(w, http.StatusUnauthorized, "no active session")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next(w, r.WithContext(ctx))
		}
	}
}

// SessionFromContext returns the session injected by RequireSession, or nil.
func SessionFromContext(ctx context.Context) *sessions.Session {
	session, _ := ctx.Value(ContextKeySession).(*sessions.Session)
	return session
}
