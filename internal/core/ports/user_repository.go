package ports

import (
	"context"
	"time"

	"github.com/curationlink/board-api/internal/core/domain"
)

// UserRepository defines persistence operations for user profiles.
// Unlike boards and templates, user documents carry a caller-assigned
// identifier: the external identity provider's subject.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	// FindByID returns domain.ErrUserNotFound when no document exists.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Update applies a partial update; only non-nil patch fields change.
	Update(ctx context.Context, id string, patch domain.UserPatch, updatedAt time.Time) error
	// WatchByID subscribes to changes on one profile; same contract as
	// BoardRepository.WatchByID.
	WatchByID(ctx context.Context, id string, fn func(*domain.User)) (func(), error)
}
