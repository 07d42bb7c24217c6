// Package foyer defines domain types and context plumbing for the Foyer BFF.
// This package has no project imports -- it is the dependency root.
package foyer

import (
	"context"
	"time"
)

// --- Session ---

// Session correlates a browser's requests with an upstream access token.
// A session without a token is anonymous; attaching a token makes it
// authenticated. Values are immutable snapshots: mutations go through the
// session store, which replaces the whole value so concurrent readers never
// observe a half-written token.
type Session struct {
	ID        string
	Token     string // upstream bearer token; empty while anonymous
	CreatedAt time.Time
	LastSeen  time.Time
}

// Authenticated reports whether an upstream token is attached.
func (s *Session) Authenticated() bool { return s != nil && s.Token != "" }

// --- Context keys ---

type contextKey int

const ctxKeyMeta contextKey = 0

// requestMeta bundles per-request values into a single context allocation.
// The Session and Token fields are set later by the session and auth
// middleware via mutation of the same pointer, avoiding extra
// context.WithValue + Request.WithContext round trips.
type requestMeta struct {
	RequestID string
	Session   *Session
	Token     string // resolved upstream token for the current request
}

// metaFromContext returns the requestMeta stored in ctx, or nil.
func metaFromContext(ctx context.Context) *requestMeta {
	m, _ := ctx.Value(ctxKeyMeta).(*requestMeta)
	return m
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if m := metaFromContext(ctx); m != nil {
		return m.RequestID
	}
	return ""
}

// ContextWithRequestID returns a context carrying the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyMeta, &requestMeta{RequestID: id})
}

// SessionFromContext extracts the current session from context, or nil.
func SessionFromContext(ctx context.Context) *Session {
	if m := metaFromContext(ctx); m != nil {
		return m.Session
	}
	return nil
}

// ContextWithSession stores the session in the existing requestMeta if
// present, avoiding a new context.WithValue allocation. Falls back to
// creating new metadata if none exists (e.g., in tests).
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	if m := metaFromContext(ctx); m != nil {
		m.Session = s
		return ctx
	}
	return context.WithValue(ctx, ctxKeyMeta, &requestMeta{Session: s})
}

// TokenFromContext extracts the resolved upstream token from context.
// Empty when the request is unauthenticated.
func TokenFromContext(ctx context.Context) string {
	if m := metaFromContext(ctx); m != nil {
		return m.Token
	}
	return ""
}

// ContextWithToken stores the resolved upstream token for the current
// request. The token never leaves the process through logs or responses.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if m := metaFromContext(ctx); m != nil {
		m.Token = token
		return ctx
	}
	return context.WithValue(ctx, ctxKeyMeta, &requestMeta{Token: token})
}
