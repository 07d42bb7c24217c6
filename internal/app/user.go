package app

import (
	"context"
	"net/http"
	"time"

	"github.com/eugener/foyer/internal/upstream"
)

// shortCallTimeout overrides the client's long default for cheap reads and
// writes; only AI analysis calls need the full budget.
const shortCallTimeout = 15 * time.Second

// UserService proxies profile operations for an authenticated session.
type UserService struct {
	upstream *upstream.Client
}

// NewUserService returns a UserService backed by the upstream client.
func NewUserService(client *upstream.Client) *UserService {
	return &UserService{upstream: client}
}

// Profile fetches the current user's profile.
func (u *UserService) Profile(ctx context.Context, token string) (*upstream.User, error) {
	var out upstream.User
	err := u.upstream.Do(ctx, upstream.Call{
		Method:  http.MethodGet,
		Path:    "/users/me",
		Token:   token,
		Timeout: shortCallTimeout,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile updates the current user's profile.
func (u *UserService) UpdateProfile(ctx context.Context, token string, update upstream.UserUpdate) (*upstream.User, error) {
	call, err := upstream.Call{
		Method:  http.MethodPut,
		Path:    "/users/me",
		Token:   token,
		Timeout: shortCallTimeout,
	}.WithJSON(update)
	if err != nil {
		return nil, err
	}

	var out upstream.User
	if err := u.upstream.Do(ctx, call, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
