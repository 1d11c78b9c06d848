package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/staybook/internal/application/join"
	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// AccommodationService handles listing, search and indexing of accommodations
type AccommodationService struct {
	repo       repositories.AccommodationRepository
	facilities repositories.FacilityRepository
	searchRepo repositories.AccommodationSearchRepository
	events     publisher
}

// NewAccommodationService creates a new accommodation service. searchRepo may be nil.
func NewAccommodationService(
	repo repositories.AccommodationRepository,
	facilities repositories.FacilityRepository,
	searchRepo repositories.AccommodationSearchRepository,
	events providers.EventBus,
) *AccommodationService {
	return &AccommodationService{
		repo:       repo,
		facilities: facilities,
		searchRepo: searchRepo,
		events:     publisher{bus: events},
	}
}

// List returns accommodations, narrowed by a free-text query and category when given
func (s *AccommodationService) List(ctx context.Context, params repositories.SearchParams) ([]entities.Accommodation, error) {
	params.Query = strings.TrimSpace(params.Query)
	if params.Query == "" && isAllCategory(params.Category) {
		return s.repo.List(ctx)
	}

	if s.searchRepo != nil {
		ids, err := s.searchRepo.Search(ctx, params)
		if err == nil {
			hits, err := s.repo.GetByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			// The index ranks candidates; the substring rules decide membership
			return join.SearchAndCategoryFilter(hits, params.Query, params.Category), nil
		}
		// Fall back to in-memory matching so search keeps working while the index is down
		log.Warn().Err(err).Str("query", params.Query).Msg("Search index unavailable, filtering in memory")
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return join.SearchAndCategoryFilter(all, params.Query, params.Category), nil
}

func isAllCategory(category string) bool {
	category = strings.TrimSpace(category)
	return category == "" || strings.EqualFold(category, join.CategoryAll)
}

// GetByID retrieves an accommodation by ID
func (s *AccommodationService) GetByID(ctx context.Context, id string) (*entities.Accommodation, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByIDs retrieves accommodations for ids; unknown ids are skipped
func (s *AccommodationService) GetByIDs(ctx context.Context, ids []string) ([]entities.Accommodation, error) {
	return s.repo.GetByIDs(ctx, ids)
}

// ListFacilities returns the facility reference data
func (s *AccommodationService) ListFacilities(ctx context.Context) ([]entities.Facility, error) {
	return s.facilities.List(ctx)
}

// Upsert validates and stores an accommodation, then indexes it
func (s *AccommodationService) Upsert(ctx context.Context, accommodation *entities.Accommodation) error {
	if accommodation.ID == "" {
		return apperrors.NewInvalidInputError("accommodation id is required")
	}
	if err := accommodation.Validate(); err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}

	if err := s.repo.Upsert(ctx, accommodation); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, accommodation); err != nil {
			log.Warn().Err(err).Str("accommodation_id", accommodation.ID).Msg("Failed to index accommodation")
		}
	}

	s.events.publish(ctx, entities.NewMutationEvent(entities.CollectionAccommodations, entities.MutationActionUpdated, accommodation.ID).
		WithRefs("", accommodation.ID))
	return nil
}

// UpsertFacility validates and stores a facility
func (s *AccommodationService) UpsertFacility(ctx context.Context, facility *entities.Facility) error {
	if facility.ID == "" {
		return apperrors.NewInvalidInputError("facility id is required")
	}
	if err := facility.Validate(); err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	return s.facilities.Upsert(ctx, facility)
}

// Reindex rebuilds the search index from the repository and returns the document count
func (s *AccommodationService) Reindex(ctx context.Context) (int, error) {
	if s.searchRepo == nil {
		return 0, apperrors.NewInvalidInputError("search index is not configured")
	}
	if err := s.searchRepo.EnsureCollection(ctx); err != nil {
		return 0, err
	}

	accommodations, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.searchRepo.BulkIndex(ctx, accommodations); err != nil {
		return 0, err
	}
	return len(accommodations), nil
}
