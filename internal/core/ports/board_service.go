package ports

import (
	"context"

	"github.com/curationlink/board-api/internal/core/domain"
)

// SaveBoardInput carries all data needed to create a board.
type SaveBoardInput struct {
	Title                string
	Items                []domain.BoardItem
	StyleBackgroundColor string
	StyleTextColor       string
	BackgroundImageURL   string
	UserID               string
}

// UpdateBoardInput carries a partial board update. Nil fields are left
// untouched. ActorID is the authenticated user and must match the owner.
type UpdateBoardInput struct {
	Title                *string
	Items                *[]domain.BoardItem
	StyleBackgroundColor *string
	StyleTextColor       *string
	BackgroundImageURL   *string
	ActorID              string
}

// BoardDetail is the public detail view: the board plus its owner's profile.
// Owner is nil when the profile cannot be resolved; the two documents arrive
// independently and consumers tolerate partial data.
type BoardDetail struct {
	Board *domain.Board
	Owner *domain.User
}

// ShareLink is the shareable representation of a board.
type ShareLink struct {
	// URL is the public board page under the configured app base URL.
	URL string
	// Text is the suggested share body (the board title).
	Text string
	// IntentURL is the prefilled X post URL including product hashtags.
	IntentURL string
	// ImageURL is the board's social preview image.
	ImageURL string
}

// BoardService defines use-case operations for boards.
type BoardService interface {
	CreateBoard(ctx context.Context, input SaveBoardInput) (*domain.Board, error)
	GetBoard(ctx context.Context, id string) (*BoardDetail, error)
	ListBoardsByUser(ctx context.Context, userID string) ([]*domain.Board, error)
	UpdateBoard(ctx context.Context, id string, input UpdateBoardInput) (*domain.Board, error)
	DeleteBoard(ctx context.Context, id, actorID string) error
	ShareBoard(ctx context.Context, id string) (*ShareLink, error)
	WatchBoard(ctx context.Context, id string, fn func(*domain.Board)) (func(), error)
	// WatchBoards subscribes to a user's board list, re-delivering the full
	// sorted list on every change.
	WatchBoards(ctx context.Context, userID string, fn func([]*domain.Board)) (func(), error)
}
