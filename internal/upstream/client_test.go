package upstream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	foyer "github.com/eugener/foyer/internal"
)

func TestDoDecodesPayload(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/api/v1/resumes/7" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":7,"owner_id":1,"title":"My Resume","content":"body text","created_at":"2023-01-01T00:00:00Z","updated_at":"2023-01-01T00:00:00Z"}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/v1", nil, 0)
	var out Resume
	err := c.Do(context.Background(), Call{Method: http.MethodGet, Path: "/resumes/7", Token: "tok-123"}, &out)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out.ID != 7 || out.Title != "My Resume" {
		t.Errorf("decoded = %+v", out)
	}
}

func TestDoQueryParameters(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("resume_id"); got != "3" {
			t.Errorf("resume_id = %q, want 3", got)
		}
		if r.ContentLength > 0 {
			t.Error("identifier must travel in the query, not the body")
		}
		io.WriteString(w, `{"id":1,"resume_id":3,"status":"scheduled"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, nil, 0)
	q := url.Values{}
	q.Set("resume_id", "3")
	var out Interview
	if err := c.Do(context.Background(), Call{Method: http.MethodPost, Path: "/interviews/", Query: q}, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out.ResumeID != 3 {
		t.Errorf("resume_id = %d", out.ResumeID)
	}
}

func TestDoVoidResultStillTranslatesFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"Resume not found"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, nil, 0)
	err := c.Do(context.Background(), Call{Method: http.MethodDelete, Path: "/resumes/99"}, nil)
	if foyer.KindOf(err) != foyer.KindUpstream {
		t.Fatalf("kind = %v, want upstream_error", foyer.KindOf(err))
	}
}

func TestDoVoidResultSuccess(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, nil, 0)
	if err := c.Do(context.Background(), Call{Method: http.MethodDelete, Path: "/resumes/1"}, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestDoDecodeError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `<html>definitely not json</html>`)
	}))
	defer srv.Close()

	c := New(srv.URL, nil, 0)
	var out User
	err := c.Do(context.Background(), Call{Method: http.MethodGet, Path: "/users/me"}, &out)
	if foyer.KindOf(err) != foyer.KindDecode {
		t.Fatalf("kind = %v, want decode_error", foyer.KindOf(err))
	}
}

func TestDoTransportFailure(t *testing.T) {
	t.Parallel()
	// Point at a closed port.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := New(srv.URL, nil, 0)
	err := c.Do(context.Background(), Call{Method: http.MethodGet, Path: "/users/me"}, nil)
	if foyer.KindOf(err) != foyer.KindUnavailable {
		t.Fatalf("kind = %v, want unavailable", foyer.KindOf(err))
	}
}

func TestDoPerCallTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	defer close(release)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := New(srv.URL, nil, 0)
	start := time.Now()
	err := c.Do(context.Background(), Call{Method: http.MethodGet, Path: "/slow", Timeout: 50 * time.Millisecond}, nil)
	if foyer.KindOf(err) != foyer.KindUnavailable {
		t.Fatalf("kind = %v, want unavailable on timeout", foyer.KindOf(err))
	}
	if time.Since(start) > 5*time.Second {
		t.Error("per-call timeout override was not applied")
	}
}

func TestDoFormBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("username") != "a@b.c" {
			t.Errorf("username = %q", r.PostForm.Get("username"))
		}
		io.WriteString(w, `{"access_token":"t","token_type":"bearer"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, nil, 0)
	call := Call{Method: http.MethodPost, Path: "/login/token"}.WithForm(url.Values{
		"username": {"a@b.c"},
		"password": {"pw"},
	})
	var tok Token
	if err := c.Do(context.Background(), call, &tok); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if tok.AccessToken != "t" {
		t.Errorf("access_token = %q", tok.AccessToken)
	}
}

func TestMultipartCarriesTitleAndFile(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "resume.pdf" {
			t.Errorf("title = %q", got)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "resume.pdf" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		if ct := hdr.Header.Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("part content type = %q, want original preserved", ct)
		}
		data, _ := io.ReadAll(f)
		if string(data) != "%PDF-1.4 fake" {
			t.Errorf("file bytes = %q", data)
		}
		io.WriteString(w, `{"id":1,"title":"resume.pdf","content":"extracted"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, nil, 0)
	call := Call{Method: http.MethodPost, Path: "/resumes/"}.
		WithMultipart("resume.pdf", "resume.pdf", "application/pdf", strings.NewReader("%PDF-1.4 fake"))
	var out Resume
	if err := c.Do(context.Background(), call, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out.Content != "extracted" {
		t.Errorf("content = %q", out.Content)
	}
}
