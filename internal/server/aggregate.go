package server

import (
	"net/http"

	foyer "github.com/eugener/foyer/internal"
)

// handleMyPage serves the combined dashboard bundle. All-or-nothing: a
// failure in any branch produces an error response, never a partial bundle.
func (s *server) handleMyPage(w http.ResponseWriter, r *http.Request) {
	bundle, err := s.deps.Aggregator.MyPage(r.Context(), foyer.TokenFromContext(r.Context()))
	if s.deps.Metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		s.deps.Metrics.AggregateFanouts.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}
