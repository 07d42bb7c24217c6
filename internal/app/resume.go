package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"

	foyer "github.com/eugener/foyer/internal"
	"github.com/eugener/foyer/internal/storage"
	"github.com/eugener/foyer/internal/upstream"
)

// ResumeService proxies resume CRUD and the AI analysis operations.
type ResumeService struct {
	upstream *upstream.Client
	activity ActivityRecorder
}

// NewResumeService returns a ResumeService. activity may be nil in tests.
func NewResumeService(client *upstream.Client, activity ActivityRecorder) *ResumeService {
	return &ResumeService{upstream: client, activity: activity}
}

// List fetches the caller's resumes.
func (r *ResumeService) List(ctx context.Context, token string) ([]upstream.Resume, error) {
	var out []upstream.Resume
	err := r.upstream.Do(ctx, upstream.Call{
		Method:  http.MethodGet,
		Path:    "/resumes/",
		Token:   token,
		Timeout: shortCallTimeout,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one resume by ID.
func (r *ResumeService) Get(ctx context.Context, token string, id int) (*upstream.Resume, error) {
	var out upstream.Resume
	err := r.upstream.Do(ctx, upstream.Call{
		Method:  http.MethodGet,
		Path:    "/resumes/" + strconv.Itoa(id),
		Token:   token,
		Timeout: shortCallTimeout,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload forwards a resume file to the upstream as a streaming multipart
// body. Empty files and missing filenames are rejected locally before any
// multipart body is constructed. An empty title falls back to the filename.
func (r *ResumeService) Upload(ctx context.Context, token, title, filename, contentType string, file io.Reader) (*upstream.Resume, error) {
	if filename == "" {
		return nil, foyer.E(foyer.KindValidation, "a file is required")
	}

	// Peek one byte to reject empty uploads without buffering the file.
	var first [1]byte
	n, err := io.ReadFull(file, first[:])
	if n == 0 {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, foyer.E(foyer.KindValidation, "uploaded file is empty")
		}
		return nil, foyer.Ef(foyer.KindValidation, "unreadable upload: %v", err)
	}
	body := io.MultiReader(bytes.NewReader(first[:n]), file)

	if title == "" {
		title = filename
	}

	call := upstream.Call{
		Method: http.MethodPost,
		Path:   "/resumes/",
		Token:  token,
	}.WithMultipart(title, filename, contentType, body)

	var out upstream.Resume
	if err := r.upstream.Do(ctx, call, &out); err != nil {
		return nil, err
	}

	if r.activity != nil {
		r.activity.Record(storage.Activity{Kind: "upload", Detail: out.Title})
	}
	return &out, nil
}

// Delete removes a resume. The upstream returns the deleted record; the
// BFF discards it, but failures still pass through the translator.
func (r *ResumeService) Delete(ctx context.Context, token string, id int) error {
	return r.upstream.Do(ctx, upstream.Call{
		Method:  http.MethodDelete,
		Path:    "/resumes/" + strconv.Itoa(id),
		Token:   token,
		Timeout: shortCallTimeout,
	}, nil)
}

// CheckGrammar runs the spelling/grammar analysis on a resume. This is a
// long-running upstream operation; it keeps the client's full call budget.
func (r *ResumeService) CheckGrammar(ctx context.Context, token string, id int) (*upstream.GrammarAnalysis, error) {
	var out upstream.GrammarAnalysis
	err := r.upstream.Do(ctx, upstream.Call{
		Method: http.MethodPost,
		Path:   "/resumes/" + strconv.Itoa(id) + "/check-grammar",
		Token:  token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Feedback requests the AI-generated overall feedback for a resume.
func (r *ResumeService) Feedback(ctx context.Context, token string, id int) (*upstream.Feedback, error) {
	var out upstream.Feedback
	err := r.upstream.Do(ctx, upstream.Call{
		Method: http.MethodPost,
		Path:   "/resumes/" + strconv.Itoa(id) + "/feedback",
		Token:  token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateQuestions requests AI-generated interview questions for a resume.
func (r *ResumeService) GenerateQuestions(ctx context.Context, token string, id int) ([]upstream.GeneratedQuestion, error) {
	var out []upstream.GeneratedQuestion
	err := r.upstream.Do(ctx, upstream.Call{
		Method: http.MethodPost,
		Path:   "/resumes/" + strconv.Itoa(id) + "/generate-questions",
		Token:  token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
