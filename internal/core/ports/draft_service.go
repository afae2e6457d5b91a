package ports

import (
	"context"

	"github.com/curationlink/board-api/internal/core/domain"
)

// DraftStore persists in-progress editing sessions. Drafts are short-lived:
// implementations may expire them.
type DraftStore interface {
	Put(ctx context.Context, d *domain.BoardDraft) error
	// Get returns domain.ErrDraftNotFound when the draft does not exist or
	// has expired.
	Get(ctx context.Context, id string) (*domain.BoardDraft, error)
	Delete(ctx context.Context, id string) error
}

// StyleInput carries the customize-panel fields. Nil fields are left
// untouched; the three style fields are independently editable.
type StyleInput struct {
	StyleBackgroundColor *string
	StyleTextColor       *string
	BackgroundImageURL   *string
}

// DraftService drives the board editing workflow:
// select → template → edit → saved, with back edges to select.
// Every operation is owner-gated on userID.
type DraftService interface {
	// Start opens a new draft. With a boardID the existing board is loaded
	// straight into the edit state; without one the draft begins at select.
	Start(ctx context.Context, userID, boardID string) (*domain.BoardDraft, error)
	Get(ctx context.Context, draftID, userID string) (*domain.BoardDraft, error)
	// ChooseTemplate moves to the template state and returns the official
	// templates for the picker.
	ChooseTemplate(ctx context.Context, draftID, userID string) (*domain.BoardDraft, []*domain.Template, error)
	// ApplyTemplate copies the template's labels into the draft items with
	// empty values and moves to edit.
	ApplyTemplate(ctx context.Context, draftID, userID, templateID string) (*domain.BoardDraft, error)
	// StartBlank moves to edit with 21 empty items.
	StartBlank(ctx context.Context, draftID, userID string) (*domain.BoardDraft, error)
	SetTitle(ctx context.Context, draftID, userID, title string) (*domain.BoardDraft, error)
	SetItem(ctx context.Context, draftID, userID string, index int, label, value *string) (*domain.BoardDraft, error)
	SetStyle(ctx context.Context, draftID, userID string, input StyleInput) (*domain.BoardDraft, error)
	// Back discards in-progress edits and returns to select. No confirmation.
	Back(ctx context.Context, draftID, userID string) (*domain.BoardDraft, error)
	// Save validates and persists the board (create or update depending on
	// whether the draft carries a board ID), then disposes of the draft.
	Save(ctx context.Context, draftID, userID string) (*domain.Board, error)
}
