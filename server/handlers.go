package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/sessionauth/go-session-core/internal/autherrors"
	"github.com/sessionauth/go-session-core/sessions"
	"github.com/sessionauth/go-session-core/users"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the outward-facing view of a user record. The password
// digest never leaves the directory layer.
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(user *users.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// SignupHandler registers a user and signs them in immediately.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := s.users.Create(r.Context(), req.Email, req.Password)
		if errors.Is(err, autherrors.ErrDuplicateUser) {
			writeError(w, http.StatusConflict, "user already exists")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not create user")
			return
		}

		tok, err := s.sessions.Issue(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not start session")
			return
		}

		s.setSessionCookie(w, tok)
		writeJSON(w, http.StatusCreated, newUserResponse(user))
	}
}

// SigninHandler exchanges credentials for a session token. Unknown email and
// wrong password produce the identical response.
func (s *Server) SigninHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		tok, err := s.sessions.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		s.setSessionCookie(w, tok)
		w.WriteHeader(http.StatusNoContent)
	}
}

// SignoutHandler clears the session. Idempotent: signing out with no active
// session still succeeds.
func (s *Server) SignoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.sessions.Logout(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "could not clear session")
			return
		}
		s.clearSessionCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// MeHandler returns the user behind the current session.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := SessionFromContext(r.Context())
		if session == nil {
			writeError(w, http.StatusUnauthorized, "no active session")
			return
		}
		writeJSON(w, http.StatusOK, newUserResponse(session.User))
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, tok string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessions.TokenKey,
		Value:    tok,
		Path:     "/",
		MaxAge:   s.ttl,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessions.TokenKey,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
