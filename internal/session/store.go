// Package session implements the bridge between browser session handles and
// upstream access tokens. The store is pure in-memory state: no network or
// disk I/O of its own. Expiry is delegated to the backing cache.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maypok86/otter/v2"

	foyer "github.com/eugener/foyer/internal"
)

// Store maps opaque session handles to sessions. Sessions are stored as
// immutable snapshots; writers replace the whole value, so concurrent
// Resolve calls never observe a half-written token. The mutex serializes
// the read-modify-write updates (Attach, the Get access touch) so an
// access-time refresh can never resurrect a snapshot without the token a
// concurrent login just attached.
type Store struct {
	cache *otter.Cache[string, *foyer.Session]
	now   func() time.Time
	mu    sync.Mutex
}

// New creates a Store. Sessions expire after ttl of inactivity; maxSessions
// bounds memory under session-flooding. The clock is injected for tests.
func New(ttl time.Duration, maxSessions int, now func() time.Time) (*Store, error) {
	if now == nil {
		now = time.Now
	}
	c, err := otter.New(&otter.Options[string, *foyer.Session]{
		MaximumSize:      maxSessions,
		ExpiryCalculator: otter.ExpiryAccessing[string, *foyer.Session](ttl),
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &Store{cache: c, now: now}, nil
}

// Create mints a new anonymous session with an opaque UUIDv7 handle.
func (s *Store) Create(_ context.Context) *foyer.Session {
	now := s.now()
	sess := &foyer.Session{
		ID:        uuid.Must(uuid.NewV7()).String(),
		CreatedAt: now,
		LastSeen:  now,
	}
	s.cache.Set(sess.ID, sess)
	return sess
}

// Get returns the session for a handle, or nil when unknown or expired.
// Access refreshes the session's LastSeen, mirroring the cache's
// access-based expiry. The returned snapshot must not be mutated.
func (s *Store) Get(id string) *foyer.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.cache.GetIfPresent(id)
	if !ok {
		return nil
	}
	next := *sess
	next.LastSeen = s.now()
	s.cache.Set(id, &next)
	return &next
}

// Resolve returns the upstream token for a session handle. It fails with an
// unauthenticated envelope when the session does not exist or carries no
// token; every protected operation calls this before any upstream work.
func (s *Store) Resolve(id string) (string, error) {
	sess, ok := s.cache.GetIfPresent(id)
	if !ok || !sess.Authenticated() {
		return "", foyer.E(foyer.KindUnauthenticated, "login required")
	}
	return sess.Token, nil
}

// Attach associates an upstream token with the session, transitioning it to
// authenticated. Re-login overwrites: the most recent attach wins. Attaching
// to an unknown or expired handle fails; the caller restarts the session.
func (s *Store) Attach(id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.cache.GetIfPresent(id)
	if !ok {
		return foyer.E(foyer.KindUnauthenticated, "session expired, log in again")
	}
	next := *sess
	next.Token = token
	next.LastSeen = s.now()
	s.cache.Set(id, &next)
	return nil
}

// Invalidate clears the token and terminates the session. Subsequent
// Resolve calls for the handle fail as unauthenticated.
func (s *Store) Invalidate(id string) {
	s.cache.Invalidate(id)
}

// Len estimates the number of live sessions, for metrics.
func (s *Store) Len() int {
	return s.cache.EstimatedSize()
}
