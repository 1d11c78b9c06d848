package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// UserService handles registration and profile updates
type UserService struct {
	repo   repositories.UserRepository
	events publisher
}

// NewUserService creates a new user service
func NewUserService(repo repositories.UserRepository, events providers.EventBus) *UserService {
	return &UserService{repo: repo, events: publisher{bus: events}}
}

// List retrieves users matching the filter
func (s *UserService) List(ctx context.Context, filter repositories.UserFilter) ([]entities.User, error) {
	return s.repo.List(ctx, filter)
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Register creates a user. Mobile number and email must not already be registered.
func (s *UserService) Register(ctx context.Context, user *entities.User) error {
	user.Email = strings.TrimSpace(user.Email)
	user.MobileNumber = strings.TrimSpace(user.MobileNumber)
	if user.MobileNumber == "" && user.Email == "" {
		return apperrors.NewInvalidInputError("mobile number or email is required")
	}
	if user.Password == "" {
		return apperrors.NewInvalidInputError("password is required")
	}
	if err := user.Validate(); err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}

	if err := s.ensureUnique(ctx, repositories.UserFilter{Email: user.Email}, user.Email != ""); err != nil {
		return err
	}
	if err := s.ensureUnique(ctx, repositories.UserFilter{MobileNumber: user.MobileNumber}, user.MobileNumber != ""); err != nil {
		return err
	}

	user.ID = uuid.NewString()
	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}

	s.events.publish(ctx, entities.NewMutationEvent(entities.CollectionUsers, entities.MutationActionCreated, user.ID).
		WithRefs(user.ID, ""))
	return nil
}

func (s *UserService) ensureUnique(ctx context.Context, filter repositories.UserFilter, check bool) error {
	if !check {
		return nil
	}
	existing, err := s.repo.List(ctx, filter)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return apperrors.NewConflictError("a user with these contact details already exists")
	}
	return nil
}

// Update replaces the stored user with the given full object
func (s *UserService) Update(ctx context.Context, user *entities.User) error {
	if user.ID == "" {
		return apperrors.NewInvalidInputError("user id is required")
	}
	if err := user.Validate(); err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	s.events.publish(ctx, entities.NewMutationEvent(entities.CollectionUsers, entities.MutationActionUpdated, user.ID).
		WithRefs(user.ID, ""))
	return nil
}
