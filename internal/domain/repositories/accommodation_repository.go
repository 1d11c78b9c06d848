package repositories

import (
	"context"

	"github.com/zatekoja/staybook/internal/domain/entities"
)

// AccommodationRepository defines read access to listings and reference data
type AccommodationRepository interface {
	// List returns every accommodation
	List(ctx context.Context) ([]entities.Accommodation, error)

	// GetByID retrieves an accommodation by ID
	GetByID(ctx context.Context, id string) (*entities.Accommodation, error)

	// GetByIDs retrieves the accommodations for ids; missing ids are omitted
	GetByIDs(ctx context.Context, ids []string) ([]entities.Accommodation, error)

	// Upsert inserts or replaces an accommodation. Used by seeding only.
	Upsert(ctx context.Context, accommodation *entities.Accommodation) error
}

// FacilityRepository defines read access to facility reference data
type FacilityRepository interface {
	List(ctx context.Context) ([]entities.Facility, error)
	Upsert(ctx context.Context, facility *entities.Facility) error
}

// SearchParams are the inputs of an accommodation search
type SearchParams struct {
	Query    string
	Category string
}

// AccommodationSearchRepository defines the accommodation search index
type AccommodationSearchRepository interface {
	// EnsureCollection creates the index schema if needed
	EnsureCollection(ctx context.Context) error

	// Index adds or replaces a single accommodation document
	Index(ctx context.Context, accommodation *entities.Accommodation) error

	// BulkIndex adds or replaces many documents
	BulkIndex(ctx context.Context, accommodations []entities.Accommodation) error

	// Search returns matching accommodation IDs in relevance order
	Search(ctx context.Context, params SearchParams) ([]string, error)
}
