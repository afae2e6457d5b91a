package ports

import (
	"context"
	"time"

	"github.com/curationlink/board-api/internal/core/domain"
)

// BoardRepository defines persistence operations for boards.
//
// FindByID returns domain.ErrBoardNotFound when no document exists; absence
// is a normal outcome distinguished from I/O failure by errors.Is.
type BoardRepository interface {
	// Create inserts a new board document and returns the assigned identifier.
	Create(ctx context.Context, b *domain.Board) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Board, error)
	// ListByUserID returns the user's boards sorted by updated_at descending.
	ListByUserID(ctx context.Context, userID string) ([]*domain.Board, error)
	// Update applies a partial update; only non-nil patch fields change.
	// updatedAt is always written.
	Update(ctx context.Context, id string, patch domain.BoardPatch, updatedAt time.Time) error
	// Delete removes the document. Idempotent: deleting a missing board is
	// not an error.
	Delete(ctx context.Context, id string) error

	// WatchByID subscribes to changes on one board. fn is invoked with the
	// initial snapshot (nil when absent) and on every subsequent
	// server-confirmed change; a delete delivers nil. The returned disposer
	// stops the subscription and releases the server-side cursor; it is
	// idempotent.
	WatchByID(ctx context.Context, id string, fn func(*domain.Board)) (func(), error)
	// WatchByUserID subscribes to the user's board list, re-delivering the
	// full sorted list on every change.
	WatchByUserID(ctx context.Context, userID string, fn func([]*domain.Board)) (func(), error)
}
