package domain

import (
	"errors"
	"time"
)

// DraftState represents where an in-progress board edit sits in the
// creation flow.
type DraftState string

const (
	// DraftSelect: choosing between a blank board and a template.
	DraftSelect DraftState = "select"
	// DraftTemplate: browsing official templates.
	DraftTemplate DraftState = "template"
	// DraftEdit: editing grid cells and customizing style.
	DraftEdit DraftState = "edit"
	// DraftSaved: terminal; the board has been persisted.
	DraftSaved DraftState = "saved"
)

// draftTransitions defines the allowed state machine transitions. "Back" to
// select is permitted from every non-terminal state and discards in-progress
// edits without confirmation.
var draftTransitions = map[DraftState][]DraftState{
	DraftSelect:   {DraftTemplate, DraftEdit},
	DraftTemplate: {DraftEdit, DraftSelect},
	DraftEdit:     {DraftSaved, DraftSelect},
}

var ErrInvalidTransition = errors.New("invalid draft state transition")
var ErrDraftNotFound = errors.New("draft not found")
var ErrItemIndexOutOfRange = errors.New("item index out of range")

// CanTransitionTo reports whether a transition from the current state to
// next is valid.
func (s DraftState) CanTransitionTo(next DraftState) bool {
	for _, allowed := range draftTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BoardDraft is the server-side editing session for one board. BoardID is
// empty while creating a new board and set when editing an existing one;
// Save creates or updates accordingly.
type BoardDraft struct {
	ID                   string      `json:"id"`
	UserID               string      `json:"user_id"`
	BoardID              string      `json:"board_id,omitempty"`
	State                DraftState  `json:"state"`
	Title                string      `json:"title"`
	Items                []BoardItem `json:"items"`
	StyleBackgroundColor string      `json:"style_background_color"`
	StyleTextColor       string      `json:"style_text_color"`
	BackgroundImageURL   string      `json:"background_image_url,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// Transition moves the draft to next, or fails with ErrInvalidTransition.
func (d *BoardDraft) Transition(next DraftState) error {
	if !d.State.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	d.State = next
	return nil
}

// Reset discards in-progress grid edits and returns the draft to select.
func (d *BoardDraft) Reset() error {
	if err := d.Transition(DraftSelect); err != nil {
		return err
	}
	d.Title = ""
	d.Items = NewBlankItems()
	return nil
}

// SetItem updates one cell's label and/or value in place. Nil means leave
// that sub-field untouched: label and value are independently editable.
func (d *BoardDraft) SetItem(index int, label, value *string) error {
	if d.State != DraftEdit {
		return ErrInvalidTransition
	}
	if index < 0 || index >= len(d.Items) {
		return ErrItemIndexOutOfRange
	}
	if label != nil {
		d.Items[index].Label = *label
	}
	if value != nil {
		d.Items[index].Value = *value
	}
	return nil
}
