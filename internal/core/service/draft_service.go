package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/curationlink/board-api/internal/core/domain"
	"github.com/curationlink/board-api/internal/core/ports"
)

// DraftService drives the board editing workflow against a short-lived draft
// store. Each draft belongs to exactly one user; all operations are gated on
// that ownership.
type DraftService struct {
	drafts    ports.DraftStore
	boards    ports.BoardService
	templates ports.TemplateRepository
	logger    zerolog.Logger
}

func NewDraftService(drafts ports.DraftStore, boards ports.BoardService, templates ports.TemplateRepository, logger zerolog.Logger) *DraftService {
	return &DraftService{drafts: drafts, boards: boards, templates: templates, logger: logger}
}

// Start opens a new editing session. With a boardID the existing board is
// loaded straight into the edit state (owner-gated); without one the session
// begins at mode selection.
func (s *DraftService) Start(ctx context.Context, userID, boardID string) (*domain.BoardDraft, error) {
	now := time.Now().UTC()
	draft := &domain.BoardDraft{
		ID:                   uuid.NewString(),
		UserID:               userID,
		State:                domain.DraftSelect,
		Items:                domain.NewBlankItems(),
		StyleBackgroundColor: defaultBackgroundColor,
		StyleTextColor:       defaultTextColor,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if boardID != "" {
		detail, err := s.boards.GetBoard(ctx, boardID)
		if err != nil {
			return nil, err
		}
		board := detail.Board
		if !board.OwnedBy(userID) {
			return nil, domain.ErrForbidden
		}
		draft.BoardID = board.ID
		draft.State = domain.DraftEdit
		draft.Title = board.Title
		draft.Items = append([]domain.BoardItem(nil), board.Items...)
		draft.StyleBackgroundColor = board.StyleBackgroundColor
		draft.StyleTextColor = board.StyleTextColor
		draft.BackgroundImageURL = board.BackgroundImageURL
	}

	if err := s.drafts.Put(ctx, draft); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to store draft")
		return nil, err
	}
	return draft, nil
}

func (s *DraftService) Get(ctx context.Context, draftID, userID string) (*domain.BoardDraft, error) {
	return s.load(ctx, draftID, userID)
}

// ChooseTemplate moves the draft into template browsing and returns the
// official templates for the picker.
func (s *DraftService) ChooseTemplate(ctx context.Context, draftID, userID string) (*domain.BoardDraft, []*domain.Template, error) {
	draft, err := s.load(ctx, draftID, userID)
	if err != nil {
		return nil, nil, err
	}
	if err := draft.Transition(domain.DraftTemplate); err != nil {
		return nil, nil, err
	}
	templates, err := s.templates.ListByType(ctx, domain.TemplateOfficial)
	if err != nil {
		return nil, nil, err
	}
	if err := s.store(ctx, draft); err != nil {
		return nil, nil, err
	}
	return draft, templates, nil
}

// ApplyTemplate copies the selected template's labels into the draft items
// with empty values, preserving order and count, and moves to edit.
func (s *DraftService) ApplyTemplate(ctx context.Context, draftID, userID, templateID string) (*domain.BoardDraft, error) {
	draft, err := s.load(ctx, draftID, userID)
	if err != nil {
		return nil, err
	}
	if draft.State != domain.DraftTemplate {
		return nil, domain.ErrInvalidTransition
	}
	template, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if err := draft.Transition(domain.DraftEdit); err != nil {
		return nil, err
	}
	draft.Items = domain.ItemsFromLabels(template.ItemLabels)
	if err := s.store(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// StartBlank moves straight to edit with 21 empty cells.
func (s *DraftService) StartBlank(ctx context.Context, draftID, userID string) (*domain.BoardDraft, error) {
	draft, err := s.load(ctx, draftID, userID)
	if err != nil {
		return nil, err
	}
	if draft.State != domain.DraftSelect {
		return nil, domain.ErrInvalidTransition
	}
	if err := draft.Transition(domain.DraftEdit); err != nil {
		return nil, err
	}
	draft.Items = domain.NewBlankItems()
	if err := s.store(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *DraftService) SetTitle(ctx context.Context, draftID, userID, title string) (*domain.BoardDraft, error) {
	draft, err := s.load(ctx, draftID, userID)
	if err != nil {
		return nil, err
	}
	if draft.State != domain.DraftEdit {
		return nil, domain.ErrInvalidTransition
	}
	draft.Title = title
	if err := s.store(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SetItem updates one cell. Label and value are independently editable; a
// nil sub-field is left untouched. No per-keystroke validation happens here,
// values accumulate until save.
func (s *DraftService) SetItem(ctx context.Context, draftID, userID string, index int, label, value *string) (*domain.BoardDraft, error) {
	draft, err := s.load(ctx, draftID, userID)
	if err != nil {
		return nil, err
	}
	if err := draft.SetItem(index, label, value); err != nil {
		return nil, err
	}
	if err := s.store(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SetStyle updates the customize-panel fields; each is independent.
func (s *DraftService) SetStyle(ctx context.Context, draftID, userID string, input ports.StyleInput) (*domain.BoardDraft, error) {
	draft, err := s.load(ctx, draftID, userID)
	if err != nil {
		return nil, err
	}
	if draft.State != domain.DraftEdit {
		return nil, domain.ErrInvalidTransition
	}
	if input.StyleBackgroundColor != nil {
		draft.StyleBackgroundColor = *input.StyleBackgroundColor
	}
	if input.StyleTextColor != nil {
		draft.StyleTextColor = *input.StyleTextColor
	}
	if input.BackgroundImageURL != nil {
		draft.BackgroundImageURL = *input.BackgroundImageURL
	}
	if err := s.store(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Back discards in-progress edits with no confirmation prompt and returns to
// mode selection.
func (s *DraftService) Back(ctx context.Context, draftID, userID string) (*domain.BoardDraft, error) {
	draft, err := s.load(ctx, draftID, userID)
	if err != nil {
		return nil, err
	}
	if err := draft.Reset(); err != nil {
		return nil, err
	}
	if err := s.store(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Save validates and persists the draft as a board, creating or updating
// depending on whether the session was opened on an existing board, then
// disposes of the draft.
func (s *DraftService) Save(ctx context.Context, draftID, userID string) (*domain.Board, error) {
	draft, err := s.load(ctx, draftID, userID)
	if err != nil {
		return nil, err
	}
	if err := draft.Transition(domain.DraftSaved); err != nil {
		return nil, err
	}

	var board *domain.Board
	if draft.BoardID == "" {
		board, err = s.boards.CreateBoard(ctx, ports.SaveBoardInput{
			Title:                draft.Title,
			Items:                draft.Items,
			StyleBackgroundColor: draft.StyleBackgroundColor,
			StyleTextColor:       draft.StyleTextColor,
			BackgroundImageURL:   draft.BackgroundImageURL,
			UserID:               userID,
		})
	} else {
		board, err = s.boards.UpdateBoard(ctx, draft.BoardID, ports.UpdateBoardInput{
			Title:                &draft.Title,
			Items:                &draft.Items,
			StyleBackgroundColor: &draft.StyleBackgroundColor,
			StyleTextColor:       &draft.StyleTextColor,
			BackgroundImageURL:   &draft.BackgroundImageURL,
			ActorID:              userID,
		})
	}
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, draft.ID); err != nil {
		// The draft will expire on its own; saving already succeeded.
		s.logger.Warn().Err(err).Str("draft_id", draft.ID).Msg("failed to delete saved draft")
	}
	return board, nil
}

func (s *DraftService) load(ctx context.Context, draftID, userID string) (*domain.BoardDraft, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return draft, nil
}

func (s *DraftService) store(ctx context.Context, draft *domain.BoardDraft) error {
	draft.UpdatedAt = time.Now().UTC()
	return s.drafts.Put(ctx, draft)
}
