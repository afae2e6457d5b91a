package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/curationlink/board-api/internal/api/metrics"
	"github.com/curationlink/board-api/internal/core/domain"
	"github.com/curationlink/board-api/internal/core/ports"
)

type TemplateService struct {
	repo   ports.TemplateRepository
	logger zerolog.Logger
}

func NewTemplateService(repo ports.TemplateRepository, logger zerolog.Logger) *TemplateService {
	return &TemplateService{repo: repo, logger: logger}
}

// CreateTemplate persists a new template. Type defaults to custom; creating
// an official template requires the admin role. Labels are trimmed before
// storage and must all be non-empty.
func (s *TemplateService) CreateTemplate(ctx context.Context, input ports.CreateTemplateInput) (*domain.Template, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	if err := domain.ValidateLabels(input.ItemLabels); err != nil {
		return nil, err
	}

	templateType := input.Type
	if templateType == "" {
		templateType = domain.TemplateCustom
	}
	if templateType == domain.TemplateOfficial && input.ActorRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	labels := make([]string, len(input.ItemLabels))
	for i, l := range input.ItemLabels {
		labels[i] = strings.TrimSpace(l)
	}

	now := time.Now().UTC()
	template := &domain.Template{
		Title:      input.Title,
		ItemLabels: labels,
		Type:       templateType,
		CreatedBy:  input.CreatedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	id, err := s.repo.Create(ctx, template)
	if err != nil {
		s.logger.Error().Err(err).Str("created_by", input.CreatedBy).Msg("failed to create template")
		return nil, err
	}
	template.ID = id

	metrics.TemplatesCreatedTotal.WithLabelValues(string(templateType)).Inc()
	s.logger.Info().Str("template_id", id).Str("type", string(templateType)).Msg("template created")
	return template, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id string) (*domain.Template, error) {
	return s.repo.FindByID(ctx, id)
}

// ListOfficialTemplates returns the curated templates for the public picker.
func (s *TemplateService) ListOfficialTemplates(ctx context.Context) ([]*domain.Template, error) {
	return s.repo.ListByType(ctx, domain.TemplateOfficial)
}

// DeleteTemplate removes a custom template on behalf of its creator.
// System-seeded templates have no creator and cannot be deleted here.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id, actorID string) error {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if template.CreatedBy == "" || template.CreatedBy != actorID {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
