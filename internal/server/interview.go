package server

import (
	"encoding/json"
	"net/http"

	foyer "github.com/eugener/foyer/internal"
)

type createInterviewRequest struct {
	ResumeID int `json:"resumeId"`
	JobID    int `json:"jobId"`
}

func (s *server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var req createInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, foyer.Ef(foyer.KindValidation, "invalid request body: %v", err))
		return
	}
	if req.ResumeID <= 0 {
		s.respondError(w, r, foyer.E(foyer.KindValidation, "resumeId is required"))
		return
	}

	interview, err := s.deps.Interviews.Create(r.Context(), foyer.TokenFromContext(r.Context()), req.ResumeID, req.JobID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, interview)
}

func (s *server) handleInterviewHistory(w http.ResponseWriter, r *http.Request) {
	interviews, err := s.deps.Interviews.History(r.Context(), foyer.TokenFromContext(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, interviews)
}

func (s *server) handleInterviewResults(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	analysis, err := s.deps.Interviews.Results(r.Context(), foyer.TokenFromContext(r.Context()), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

type videoAnalysisRequest struct {
	Landmarks []map[string]any `json:"landmarks"`
}

func (s *server) handleVideoAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req videoAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, foyer.Ef(foyer.KindValidation, "invalid request body: %v", err))
		return
	}

	if err := s.deps.Interviews.SendVideoAnalysis(r.Context(), foyer.TokenFromContext(r.Context()), id, req.Landmarks); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
