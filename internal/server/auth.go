package server

import (
	"encoding/json"
	"net/http"

	foyer "github.com/eugener/foyer/internal"
	"github.com/eugener/foyer/internal/app"
)

func (s *server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req app.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, foyer.Ef(foyer.KindValidation, "invalid request body: %v", err))
		return
	}

	user, err := s.deps.Auth.Signup(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin exchanges credentials for an upstream token and binds it to
// the caller's session. The response is empty: the token stays server-side
// and the browser only ever holds the opaque session cookie.
func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, foyer.Ef(foyer.KindValidation, "invalid request body: %v", err))
		return
	}

	sess := foyer.SessionFromContext(r.Context())
	err := s.deps.Auth.Login(r.Context(), sess.ID, req.Email, req.Password)
	if s.deps.Metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		s.deps.Metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLogout terminates the session and expires the cookie. Logging out
// an already-anonymous session is a no-op, not an error.
func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := foyer.SessionFromContext(r.Context()); sess != nil {
		s.deps.Auth.Logout(r.Context(), sess.ID)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.deps.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.deps.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
