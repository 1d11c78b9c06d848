package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// FavoriteService handles business logic for favorites
type FavoriteService struct {
	repo           repositories.FavoriteRepository
	accommodations repositories.AccommodationRepository
	events         publisher
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(
	repo repositories.FavoriteRepository,
	accommodations repositories.AccommodationRepository,
	events providers.EventBus,
) *FavoriteService {
	return &FavoriteService{
		repo:           repo,
		accommodations: accommodations,
		events:         publisher{bus: events},
	}
}

// List retrieves favorites matching the filter
func (s *FavoriteService) List(ctx context.Context, filter repositories.OwnershipFilter) ([]entities.Favorite, error) {
	return s.repo.List(ctx, filter)
}

// Create stores a favorite under a server-assigned id. A second favorite for
// the same user and accommodation is a conflict.
func (s *FavoriteService) Create(ctx context.Context, favorite *entities.Favorite) error {
	if err := favorite.Validate(); err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	if err := requireAccommodation(ctx, s.accommodations, favorite.AccommodationID); err != nil {
		return err
	}

	favorite.ID = uuid.NewString()
	if err := s.repo.Create(ctx, favorite); err != nil {
		return err
	}

	s.events.publish(ctx, entities.NewMutationEvent(entities.CollectionFavorites, entities.MutationActionCreated, favorite.ID).
		WithRefs(favorite.UserID, favorite.AccommodationID))
	return nil
}

// Delete removes a favorite
func (s *FavoriteService) Delete(ctx context.Context, id string) error {
	favorite, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.publish(ctx, entities.NewMutationEvent(entities.CollectionFavorites, entities.MutationActionDeleted, id).
		WithRefs(favorite.UserID, favorite.AccommodationID))
	return nil
}

// requireAccommodation turns a missing accommodation into an input error
func requireAccommodation(ctx context.Context, repo repositories.AccommodationRepository, id string) error {
	if _, err := repo.GetByID(ctx, id); err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return apperrors.NewInvalidInputError("unknown accommodation " + id)
		}
		return err
	}
	return nil
}
