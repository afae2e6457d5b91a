package ports

import (
	"context"

	"github.com/curationlink/board-api/internal/core/domain"
)

// ProfileInput is the profile settings form: the whole form is submitted as
// one unit.
type ProfileInput struct {
	DisplayName     string
	Username        string
	ProfileImageURL string
}

// UserService defines use-case operations for user profiles.
type UserService interface {
	// EnsureUser provisions a profile at first login: display name 未設定 and
	// username defaulting to the raw identity subject, both requiring later
	// edit. Returns the profile and whether it was just created.
	EnsureUser(ctx context.Context, id, email string) (*domain.User, bool, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// UpdateProfile replaces the editable profile fields. Fails with
	// domain.ErrUsernameTaken when the username belongs to another user.
	UpdateProfile(ctx context.Context, id string, input ProfileInput) (*domain.User, error)
	// WatchUser subscribes to changes on one profile. fn receives the
	// initial snapshot (nil when absent) and every subsequent change.
	WatchUser(ctx context.Context, id string, fn func(*domain.User)) (func(), error)
}
