package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	foyer "github.com/eugener/foyer/internal"
)

// pathID parses the {id} route parameter. chi guarantees the parameter
// exists on matched routes; non-numeric values are a validation failure.
func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, foyer.E(foyer.KindValidation, "id must be an integer")
	}
	return id, nil
}

func (s *server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	resumes, err := s.deps.Resumes.List(r.Context(), foyer.TokenFromContext(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resumes)
}

// handleUploadResume forwards a multipart upload without buffering the file.
// The inbound stream is walked part by part; the file part's reader is handed
// straight to the outbound multipart body. The walk stops at the file part:
// multipart.Reader.NextPart drains the current part, so looking past the file
// for more fields would consume the whole file into memory. A title arriving
// after the file is therefore ignored and the filename used instead; browsers
// emit form fields in document order, so the title precedes the file.
func (s *server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		s.respondError(w, r, foyer.Ef(foyer.KindValidation, "multipart body required: %v", err))
		return
	}

	var title string
	var filePart *multipart.Part
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.respondError(w, r, foyer.Ef(foyer.KindValidation, "malformed multipart body: %v", err))
			return
		}
		switch part.FormName() {
		case "title":
			v, err := io.ReadAll(io.LimitReader(part, 1<<10))
			part.Close()
			if err != nil {
				s.respondError(w, r, foyer.Ef(foyer.KindValidation, "unreadable title: %v", err))
				return
			}
			title = string(v)
		case "file":
			filePart = part
		default:
			part.Close()
		}
		if filePart != nil {
			break
		}
	}
	if filePart == nil {
		s.respondError(w, r, foyer.E(foyer.KindValidation, "a file is required"))
		return
	}
	defer filePart.Close()

	resume, err := s.deps.Resumes.Upload(r.Context(), foyer.TokenFromContext(r.Context()),
		title, filePart.FileName(), filePart.Header.Get("Content-Type"), filePart)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resume)
}

func (s *server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	resume, err := s.deps.Resumes.Get(r.Context(), foyer.TokenFromContext(r.Context()), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

func (s *server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.deps.Resumes.Delete(r.Context(), foyer.TokenFromContext(r.Context()), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleCheckGrammar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	analysis, err := s.deps.Resumes.CheckGrammar(r.Context(), foyer.TokenFromContext(r.Context()), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *server) handleResumeFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	fb, err := s.deps.Resumes.Feedback(r.Context(), foyer.TokenFromContext(r.Context()), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

func (s *server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	questions, err := s.deps.Resumes.GenerateQuestions(r.Context(), foyer.TokenFromContext(r.Context()), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}
