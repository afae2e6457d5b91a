package ports

import (
	"context"

	"github.com/curationlink/board-api/internal/core/domain"
)

// TemplateRepository defines persistence operations for templates.
type TemplateRepository interface {
	// Create inserts a new template document and returns the assigned identifier.
	Create(ctx context.Context, t *domain.Template) (string, error)
	// FindByID returns domain.ErrTemplateNotFound when no document exists.
	FindByID(ctx context.Context, id string) (*domain.Template, error)
	// ListByType returns templates of the given type sorted by updated_at
	// descending.
	ListByType(ctx context.Context, t domain.TemplateType) ([]*domain.Template, error)
	Delete(ctx context.Context, id string) error
}
