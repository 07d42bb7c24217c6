package server

import (
	"encoding/json"
	"net/http"

	foyer "github.com/eugener/foyer/internal"
	"github.com/eugener/foyer/internal/upstream"
)

func (s *server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.deps.Users.Profile(r.Context(), foyer.TokenFromContext(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update upstream.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.respondError(w, r, foyer.Ef(foyer.KindValidation, "invalid request body: %v", err))
		return
	}

	user, err := s.deps.Users.UpdateProfile(r.Context(), foyer.TokenFromContext(r.Context()), update)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
