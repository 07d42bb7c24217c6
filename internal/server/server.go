// Package server implements the HTTP transport layer for the Foyer gateway.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eugener/foyer/internal/app"
	"github.com/eugener/foyer/internal/session"
	"github.com/eugener/foyer/internal/telemetry"
)

// ReadyChecker reports whether the system is ready to serve traffic.
type ReadyChecker func(ctx context.Context) error

// Deps holds all dependencies for the HTTP server.
type Deps struct {
	Sessions   *session.Store
	Auth       *app.AuthService
	Users      *app.UserService
	Resumes    *app.ResumeService
	Interviews *app.InterviewService
	Aggregator *app.Aggregator

	CookieName   string // session cookie name; "foyer_session" when empty
	CookieSecure bool

	ReadyCheck ReadyChecker        // nil = always ready (for tests)
	Metrics    *telemetry.Metrics  // nil = no metrics
	Registry   prometheus.Gatherer // nil = /metrics not mounted
}

// New creates an http.Handler with all routes and middleware wired.
func New(deps Deps) http.Handler {
	if deps.CookieName == "" {
		deps.CookieName = "foyer_session"
	}
	s := &server{deps: deps}

	r := chi.NewRouter()

	// Global middleware
	r.Use(s.recovery)
	r.Use(s.requestID)
	r.Use(s.logging)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	// System endpoints (no session)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// Browser-facing API; every route rides on a session cookie.
	r.Route("/api", func(r chi.Router) {
		r.Use(s.session)

		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		// Operations that need an attached upstream token.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/users/me", s.handleProfile)
			r.Put("/users/me", s.handleUpdateProfile)

			r.Get("/resumes", s.handleListResumes)
			r.Post("/resumes", s.handleUploadResume)
			r.Get("/resumes/{id}", s.handleGetResume)
			r.Delete("/resumes/{id}", s.handleDeleteResume)
			r.Post("/resumes/{id}/grammar", s.handleCheckGrammar)
			r.Post("/resumes/{id}/feedback", s.handleResumeFeedback)
			r.Post("/resumes/{id}/questions", s.handleGenerateQuestions)

			r.Post("/interviews", s.handleCreateInterview)
			r.Get("/interviews", s.handleInterviewHistory)
			r.Get("/interviews/{id}/results", s.handleInterviewResults)
			r.Post("/interviews/{id}/video-analysis", s.handleVideoAnalysis)

			r.Get("/my-page", s.handleMyPage)
		})
	})

	return r
}

type server struct {
	deps Deps
}
