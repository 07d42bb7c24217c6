// Package storage defines persistence interfaces for the local identity store.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Member mirrors an upstream account locally. The upstream owns credentials
// and profile data; this table exists for operational queries (who has
// signed in through this deployment) and survives session churn.
type Member struct {
	ID          string
	Email       string
	Nickname    string
	CreatedAt   time.Time
	LastLoginAt time.Time
}

// Activity is one audit record of a member-facing event.
type Activity struct {
	ID          string
	MemberEmail string
	Kind        string // "signup", "login", "upload", ...
	Detail      string
	CreatedAt   time.Time
}

// MemberStore manages local member rows.
type MemberStore interface {
	// UpsertMember inserts the member or refreshes nickname/last-login
	// on email conflict. Idempotent on email; an empty nickname never
	// overwrites a stored one.
	UpsertMember(ctx context.Context, m *Member) error
	GetMemberByEmail(ctx context.Context, email string) (*Member, error)
	TouchLogin(ctx context.Context, email string, at time.Time) error
}

// ActivityStore persists audit activity in batches.
type ActivityStore interface {
	InsertActivity(ctx context.Context, records []Activity) error
}

// Store combines all storage interfaces.
type Store interface {
	MemberStore
	ActivityStore
	Ping(ctx context.Context) error
	Close() error
}
