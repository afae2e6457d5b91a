package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/curationlink/board-api/internal/core/domain"
	"github.com/curationlink/board-api/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// EnsureUser returns the profile for the given identity subject, creating it
// on first login. A provisioned profile carries a placeholder display name
// and the raw subject as username, both requiring later edit.
func (s *UserService) EnsureUser(ctx context.Context, id, email string) (*domain.User, bool, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:          id,
		DisplayName: domain.DefaultDisplayName,
		Username:    id,
		Email:       email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			// Lost a first-login race with another device; the winner's
			// document is authoritative.
			return s.confirmExisting(ctx, id)
		}
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to provision user")
		return nil, false, err
	}

	s.logger.Info().Str("user_id", id).Msg("user provisioned at first login")
	return user, true, nil
}

func (s *UserService) confirmExisting(ctx context.Context, id string) (*domain.User, bool, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return user, false, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// UpdateProfile replaces the editable profile fields as one unit. The
// username constraint is re-asserted here and uniqueness is checked against
// other users' documents.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input ports.ProfileInput) (*domain.User, error) {
	if input.DisplayName == "" || len([]rune(input.DisplayName)) > 20 {
		return nil, domain.ErrInvalidProfile
	}
	if !domain.ValidUsername(input.Username) {
		return nil, domain.ErrInvalidProfile
	}

	holder, err := s.repo.FindByUsername(ctx, input.Username)
	if err == nil && holder.ID != id {
		return nil, domain.ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	patch := domain.UserPatch{
		DisplayName:     &input.DisplayName,
		Username:        &input.Username,
		ProfileImageURL: &input.ProfileImageURL,
	}
	if err := s.repo.Update(ctx, id, patch, time.Now().UTC()); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to update profile")
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *UserService) WatchUser(ctx context.Context, id string, fn func(*domain.User)) (func(), error) {
	return s.repo.WatchByID(ctx, id, fn)
}
