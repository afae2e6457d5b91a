package domain

import (
	"errors"
	"strings"
	"time"
)

// TemplateType distinguishes curated templates from user-authored ones.
type TemplateType string

const (
	TemplateOfficial TemplateType = "official"
	TemplateCustom   TemplateType = "custom"
)

var ErrTemplateNotFound = errors.New("template not found")
var ErrBlankLabel = errors.New("template labels must be non-empty")

// Template is a reusable named set of 21 cell labels. Values are
// intentionally absent: applying a template copies its labels into a new
// board's items with empty values.
type Template struct {
	ID         string       `json:"id" bson:"_id,omitempty"`
	Title      string       `json:"title" bson:"title"`
	ItemLabels []string     `json:"item_labels" bson:"item_labels"`
	Type       TemplateType `json:"type" bson:"type"`
	CreatedBy  string       `json:"created_by,omitempty" bson:"created_by,omitempty"` // empty for system-seeded
	CreatedAt  time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" bson:"updated_at"`
}

// ValidateLabels enforces the creation-time invariant: exactly 21 labels,
// each non-blank after trimming.
func ValidateLabels(labels []string) error {
	if len(labels) != ItemCount {
		return ErrInvalidItemCount
	}
	for _, l := range labels {
		if strings.TrimSpace(l) == "" {
			return ErrBlankLabel
		}
	}
	return nil
}
