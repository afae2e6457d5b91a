package domain

import (
	"errors"
	"time"
)

// ItemCount is the fixed number of cells on every board. Item order is
// meaningful: index i always maps to the same grid position.
const ItemCount = 21

var ErrBoardNotFound = errors.New("board not found")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidItemCount = errors.New("board must have exactly 21 items")
var ErrEmptyTitle = errors.New("board title must be non-empty")

// BoardItem is one grid cell: a theme label and the owner's answer.
type BoardItem struct {
	Label    string `json:"label" bson:"label"`
	Value    string `json:"value" bson:"value"`
	ImageURL string `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

// Board is a user's titled 21-cell preference grid with styling.
type Board struct {
	ID                   string      `json:"id" bson:"_id,omitempty"`
	Title                string      `json:"title" bson:"title"`
	Items                []BoardItem `json:"items" bson:"items"`
	StyleBackgroundColor string      `json:"style_background_color" bson:"style_background_color"`
	StyleTextColor       string      `json:"style_text_color" bson:"style_text_color"`
	BackgroundImageURL   string      `json:"background_image_url,omitempty" bson:"background_image_url,omitempty"`
	UserID               string      `json:"user_id" bson:"user_id"`
	CreatedAt            time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at" bson:"updated_at"`
}

// OwnedBy reports whether userID may mutate this board.
func (b *Board) OwnedBy(userID string) bool {
	return userID != "" && b.UserID == userID
}

// NewBlankItems returns the 21 empty cells used when starting from scratch.
func NewBlankItems() []BoardItem {
	items := make([]BoardItem, ItemCount)
	return items
}

// ItemsFromLabels converts template labels into board items with empty
// values, preserving order and count.
func ItemsFromLabels(labels []string) []BoardItem {
	items := make([]BoardItem, len(labels))
	for i, label := range labels {
		items[i] = BoardItem{Label: label}
	}
	return items
}

// BoardPatch carries a partial board update. Nil fields are left untouched;
// UpdatedAt is always refreshed by the service.
type BoardPatch struct {
	Title                *string      `bson:"title,omitempty"`
	Items                *[]BoardItem `bson:"items,omitempty"`
	StyleBackgroundColor *string      `bson:"style_background_color,omitempty"`
	StyleTextColor       *string      `bson:"style_text_color,omitempty"`
	BackgroundImageURL   *string      `bson:"background_image_url,omitempty"`
}
