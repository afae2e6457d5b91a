package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/curationlink/board-api/internal/api/metrics"
	"github.com/curationlink/board-api/internal/core/domain"
	"github.com/curationlink/board-api/internal/core/ports"
)

// Style defaults applied when the editor did not set them.
const (
	defaultBackgroundColor = "#ffffff"
	defaultTextColor       = "#323232"
)

// shareHashtags are appended to every prefilled share post.
var shareHashtags = []string{"キュレーションリンク", "きゅれりん"}

type BoardService struct {
	boards     ports.BoardRepository
	users      ports.UserRepository
	renders    ports.RenderQueue
	appBaseURL string
	logger     zerolog.Logger
}

func NewBoardService(boards ports.BoardRepository, users ports.UserRepository, renders ports.RenderQueue, appBaseURL string, logger zerolog.Logger) *BoardService {
	return &BoardService{
		boards:     boards,
		users:      users,
		renders:    renders,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		logger:     logger,
	}
}

// CreateBoard persists a new board owned by input.UserID. The 21-item
// invariant is enforced here, not only in the editor.
func (s *BoardService) CreateBoard(ctx context.Context, input ports.SaveBoardInput) (*domain.Board, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	if len(input.Items) != domain.ItemCount {
		return nil, domain.ErrInvalidItemCount
	}

	now := time.Now().UTC()
	board := &domain.Board{
		Title:                input.Title,
		Items:                input.Items,
		StyleBackgroundColor: input.StyleBackgroundColor,
		StyleTextColor:       input.StyleTextColor,
		BackgroundImageURL:   input.BackgroundImageURL,
		UserID:               input.UserID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if board.StyleBackgroundColor == "" {
		board.StyleBackgroundColor = defaultBackgroundColor
	}
	if board.StyleTextColor == "" {
		board.StyleTextColor = defaultTextColor
	}

	id, err := s.boards.Create(ctx, board)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create board")
		return nil, err
	}
	board.ID = id

	metrics.BoardsCreatedTotal.WithLabelValues(creationSource(input.Items)).Inc()
	s.logger.Info().Str("board_id", id).Str("user_id", input.UserID).Msg("board created")
	s.warm(id)

	return board, nil
}

// GetBoard returns the board together with its owner's profile. The owner
// document is resolved independently; when it cannot be loaded the detail is
// returned with a nil owner rather than failing the whole read.
func (s *BoardService) GetBoard(ctx context.Context, id string) (*ports.BoardDetail, error) {
	board, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, board.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn().Err(err).Str("board_id", id).Str("user_id", board.UserID).Msg("owner lookup failed")
		}
		owner = nil
	}

	return &ports.BoardDetail{Board: board, Owner: owner}, nil
}

func (s *BoardService) ListBoardsByUser(ctx context.Context, userID string) ([]*domain.Board, error) {
	return s.boards.ListByUserID(ctx, userID)
}

// UpdateBoard applies a partial update on behalf of input.ActorID. Only the
// owner may mutate a board.
func (s *BoardService) UpdateBoard(ctx context.Context, id string, input ports.UpdateBoardInput) (*domain.Board, error) {
	board, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !board.OwnedBy(input.ActorID) {
		return nil, domain.ErrForbidden
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	if input.Items != nil && len(*input.Items) != domain.ItemCount {
		return nil, domain.ErrInvalidItemCount
	}

	patch := domain.BoardPatch{
		Title:                input.Title,
		Items:                input.Items,
		StyleBackgroundColor: input.StyleBackgroundColor,
		StyleTextColor:       input.StyleTextColor,
		BackgroundImageURL:   input.BackgroundImageURL,
	}
	if err := s.boards.Update(ctx, id, patch, time.Now().UTC()); err != nil {
		s.logger.Error().Err(err).Str("board_id", id).Msg("failed to update board")
		return nil, err
	}

	updated, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("board_id", id).Msg("board updated")
	s.warm(id)
	return updated, nil
}

// DeleteBoard removes the board. Deleting an already-absent board succeeds:
// the operation is idempotent from the caller's perspective.
func (s *BoardService) DeleteBoard(ctx context.Context, id, actorID string) error {
	board, err := s.boards.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrBoardNotFound) {
			return nil
		}
		return err
	}
	if !board.OwnedBy(actorID) {
		return domain.ErrForbidden
	}

	if err := s.boards.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("board_id", id).Msg("failed to delete board")
		return err
	}

	metrics.BoardsDeletedTotal.Inc()
	s.logger.Info().Str("board_id", id).Str("user_id", actorID).Msg("board deleted")
	return nil
}

// ShareBoard builds the shareable representation: the public page URL and a
// prefilled X post URL carrying the product hashtags.
func (s *BoardService) ShareBoard(ctx context.Context, id string) (*ports.ShareLink, error) {
	board, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pageURL := s.appBaseURL + "/boards/" + board.ID

	intent, _ := url.Parse("https://twitter.com/intent/tweet")
	q := url.Values{}
	q.Set("text", board.Title)
	q.Set("url", pageURL)
	q.Set("hashtags", strings.Join(shareHashtags, ","))
	intent.RawQuery = q.Encode()

	return &ports.ShareLink{
		URL:       pageURL,
		Text:      board.Title,
		IntentURL: intent.String(),
		ImageURL:  s.appBaseURL + "/api/og/board/" + board.ID,
	}, nil
}

func (s *BoardService) WatchBoard(ctx context.Context, id string, fn func(*domain.Board)) (func(), error) {
	return s.boards.WatchByID(ctx, id, fn)
}

func (s *BoardService) WatchBoards(ctx context.Context, userID string, fn func([]*domain.Board)) (func(), error) {
	return s.boards.WatchByUserID(ctx, userID, fn)
}

func (s *BoardService) warm(boardID string) {
	if s.renders != nil {
		s.renders.Enqueue(boardID)
	}
}

// creationSource classifies a new board for metrics: any pre-filled label
// means it came from a template.
func creationSource(items []domain.BoardItem) string {
	for _, it := range items {
		if it.Label != "" {
			return "template"
		}
	}
	return "scratch"
}
