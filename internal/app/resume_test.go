package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	foyer "github.com/eugener/foyer/internal"
	"github.com/eugener/foyer/internal/upstream"
)

func TestUploadEmptyFileRejectedLocally(t *testing.T) {
	t.Parallel()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	svc := NewResumeService(upstream.New(srv.URL, nil, 0), nil)
	_, err := svc.Upload(context.Background(), "tok", "title", "empty.pdf", "application/pdf", strings.NewReader(""))
	if foyer.KindOf(err) != foyer.KindValidation {
		t.Fatalf("kind = %v, want validation_error", foyer.KindOf(err))
	}
	if calls.Load() != 0 {
		t.Error("empty upload must be rejected before any upstream call")
	}
}

func TestUploadMissingFilenameRejected(t *testing.T) {
	t.Parallel()
	svc := NewResumeService(upstream.New("http://unused.invalid", nil, 0), nil)
	_, err := svc.Upload(context.Background(), "tok", "title", "", "", strings.NewReader("data"))
	if foyer.KindOf(err) != foyer.KindValidation {
		t.Fatalf("kind = %v, want validation_error", foyer.KindOf(err))
	}
}

func TestUploadRoundTrip(t *testing.T) {
	t.Parallel()
	const fileBody = "%PDF-1.4 resume body"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/resumes/":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("parse multipart: %v", err)
			}
			f, _, err := r.FormFile("file")
			if err != nil {
				t.Fatalf("form file: %v", err)
			}
			defer f.Close()
			data, _ := io.ReadAll(f)
			if string(data) != fileBody {
				t.Errorf("file bytes = %q", data)
			}
			io.WriteString(w, `{"id":42,"owner_id":1,"title":"`+r.FormValue("title")+`","content":"`+fileBody+`","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/resumes/42":
			io.WriteString(w, `{"id":42,"owner_id":1,"title":"my resume","content":"`+fileBody+`","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}`)
		default:
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	svc := NewResumeService(upstream.New(srv.URL, nil, 0), nil)
	uploaded, err := svc.Upload(context.Background(), "tok", "my resume", "resume.pdf", "application/pdf", strings.NewReader(fileBody))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if uploaded.Title != "my resume" {
		t.Errorf("title = %q", uploaded.Title)
	}

	fetched, err := svc.Get(context.Background(), "tok", uploaded.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched.Title != uploaded.Title || fetched.Content != uploaded.Content {
		t.Errorf("fetched = %+v, want round-tripped title and content", fetched)
	}
}

func TestUploadTitleFallsBackToFilename(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "resume.pdf" {
			t.Errorf("title = %q, want filename fallback", got)
		}
		io.WriteString(w, `{"id":1,"title":"resume.pdf","content":"x"}`)
	}))
	defer srv.Close()

	svc := NewResumeService(upstream.New(srv.URL, nil, 0), nil)
	if _, err := svc.Upload(context.Background(), "tok", "", "resume.pdf", "application/pdf", strings.NewReader("data")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
}

func TestDeleteSurfacesUpstreamFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := NewResumeService(upstream.New(srv.URL, nil, 0), nil)
	err := svc.Delete(context.Background(), "tok", 5)
	if foyer.KindOf(err) != foyer.KindUpstream {
		t.Fatalf("kind = %v, want upstream_error", foyer.KindOf(err))
	}
}

func TestCheckGrammarDecodesAnalysis(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resumes/3/check-grammar" {
			t.Errorf("path = %s", r.URL.Path)
		}
		io.WriteString(w, `{"errors":[{"original":"teh","corrected":"the","context":"in teh middle","type":"spelling"}],"error_count":1}`)
	}))
	defer srv.Close()

	svc := NewResumeService(upstream.New(srv.URL, nil, 0), nil)
	analysis, err := svc.CheckGrammar(context.Background(), "tok", 3)
	if err != nil {
		t.Fatalf("CheckGrammar: %v", err)
	}
	if analysis.ErrorCount != 1 || len(analysis.Errors) != 1 {
		t.Errorf("analysis = %+v", analysis)
	}
}
