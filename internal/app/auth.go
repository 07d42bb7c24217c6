// Package app implements the request-proxy services that turn inbound
// intents into outbound upstream calls, and the aggregator that composes
// them into multi-source views.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	foyer "github.com/eugener/foyer/internal"
	"github.com/eugener/foyer/internal/session"
	"github.com/eugener/foyer/internal/storage"
	"github.com/eugener/foyer/internal/upstream"
)

// ActivityRecorder records audit events asynchronously. Implementations
// must never block the request path.
type ActivityRecorder interface {
	Record(storage.Activity)
}

// SignupRequest is the inbound signup form.
type SignupRequest struct {
	Nickname        string `json:"nickname"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Terms           bool   `json:"terms"`
}

// AuthService bridges login/signup/logout between browser sessions and the
// upstream credential API.
type AuthService struct {
	upstream *upstream.Client
	sessions *session.Store
	members  storage.MemberStore
	activity ActivityRecorder
	now      func() time.Time
}

// NewAuthService wires an AuthService. members and activity may be nil in
// tests; the local identity store is best-effort and never fails a request.
func NewAuthService(client *upstream.Client, sessions *session.Store, members storage.MemberStore, activity ActivityRecorder) *AuthService {
	return &AuthService{
		upstream: client,
		sessions: sessions,
		members:  members,
		activity: activity,
		now:      time.Now,
	}
}

// Signup validates the form locally, then creates the account upstream.
// Local validation failures never reach the upstream client.
func (a *AuthService) Signup(ctx context.Context, req SignupRequest) (*upstream.User, error) {
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(req.Email)
	call, err := upstream.Call{
		Method:  http.MethodPost,
		Path:    "/users/",
		Timeout: 15 * time.Second,
	}.WithJSON(upstream.UserCreate{
		Email:    email,
		Password: req.Password,
		UserName: req.Nickname,
	})
	if err != nil {
		return nil, err
	}

	var user upstream.User
	if err := a.upstream.Do(ctx, call, &user); err != nil {
		return nil, err
	}

	a.recordSignup(ctx, email, user.UserName)
	return &user, nil
}

// validateSignup enforces the pre-upstream checks on the signup form.
func validateSignup(req SignupRequest) error {
	if !req.Terms {
		return foyer.E(foyer.KindValidation, "terms of service must be accepted")
	}
	if req.Password == "" || req.Password != req.ConfirmPassword {
		return foyer.E(foyer.KindValidation, "passwords do not match")
	}
	if req.Email == "" {
		return foyer.E(foyer.KindValidation, "email is required")
	}
	if req.Nickname == "" {
		return foyer.E(foyer.KindValidation, "nickname is required")
	}
	return nil
}

// Login exchanges credentials for an upstream token and attaches it to the
// caller's session. The token never travels back to the browser.
func (a *AuthService) Login(ctx context.Context, sessionID, email, password string) error {
	email = strings.ToLower(email)

	token, err := a.upstream.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.sessions.Attach(sessionID, token); err != nil {
		return err
	}

	a.recordLogin(ctx, email)
	return nil
}

// Logout clears the token and terminates the session.
func (a *AuthService) Logout(_ context.Context, sessionID string) {
	a.sessions.Invalidate(sessionID)
}

// recordSignup mirrors the new account locally and queues an audit record.
// Failures are logged, never surfaced: the upstream is the system of record.
func (a *AuthService) recordSignup(ctx context.Context, email, nickname string) {
	now := a.now()
	if a.members != nil {
		m := &storage.Member{
			ID:          uuid.Must(uuid.NewV7()).String(),
			Email:       email,
			Nickname:    nickname,
			CreatedAt:   now,
			LastLoginAt: now,
		}
		if err := a.members.UpsertMember(ctx, m); err != nil {
			slog.LogAttrs(ctx, slog.LevelWarn, "member upsert failed",
				slog.String("error", err.Error()),
			)
		}
	}
	a.recordActivity(email, "signup", "")
}

// recordLogin refreshes the mirrored member's last-login timestamp, leaving
// the nickname recorded at signup untouched. A member unseen locally (signed
// up before this deployment existed) gets a fresh row without a nickname.
func (a *AuthService) recordLogin(ctx context.Context, email string) {
	now := a.now()
	if a.members != nil {
		err := a.members.TouchLogin(ctx, email, now)
		if errors.Is(err, storage.ErrNotFound) {
			err = a.members.UpsertMember(ctx, &storage.Member{
				ID:          uuid.Must(uuid.NewV7()).String(),
				Email:       email,
				CreatedAt:   now,
				LastLoginAt: now,
			})
		}
		if err != nil {
			slog.LogAttrs(ctx, slog.LevelWarn, "member login record failed",
				slog.String("error", err.Error()),
			)
		}
	}
	a.recordActivity(email, "login", "")
}

func (a *AuthService) recordActivity(email, kind, detail string) {
	if a.activity == nil {
		return
	}
	a.activity.Record(storage.Activity{
		MemberEmail: email,
		Kind:        kind,
		Detail:      detail,
		CreatedAt:   a.now(),
	})
}
