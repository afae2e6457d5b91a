package ports

import (
	"context"

	"github.com/curationlink/board-api/internal/core/domain"
)

// CreateTemplateInput carries all data needed to create a template.
// Type defaults to custom when empty; creating an official template requires
// the admin role.
type CreateTemplateInput struct {
	Title      string
	ItemLabels []string
	Type       domain.TemplateType
	CreatedBy  string
	ActorRole  string
}

// TemplateService defines use-case operations for templates.
type TemplateService interface {
	CreateTemplate(ctx context.Context, input CreateTemplateInput) (*domain.Template, error)
	GetTemplate(ctx context.Context, id string) (*domain.Template, error)
	// ListOfficialTemplates returns the curated templates shown in the
	// public picker.
	ListOfficialTemplates(ctx context.Context) ([]*domain.Template, error)
	DeleteTemplate(ctx context.Context, id, actorID string) error
}
