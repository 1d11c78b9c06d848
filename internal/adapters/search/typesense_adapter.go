package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	tsclient "github.com/zatekoja/staybook/internal/infrastructure/clients/typesense"
)

const (
	// CollectionName is the Typesense collection holding accommodations
	CollectionName = "accommodations"

	pageSize = 250
	maxPages = 40
)

// TypesenseAdapter implements accommodation search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.AccommodationSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// EnsureCollection creates the accommodations collection when missing
func (a *TypesenseAdapter) EnsureCollection(ctx context.Context) error {
	if _, err := a.client.Client().Collection(CollectionName).Retrieve(ctx); err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: CollectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "title", Type: "string", Infix: pointer.True()},
			{Name: "location", Type: "string", Infix: pointer.True()},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "price", Type: "float", Facet: pointer.True()},
			{Name: "rating", Type: "float"},
			{Name: "capacity", Type: "int32"},
		},
		DefaultSortingField: pointer.String("rating"),
	}

	if _, err := a.client.Client().Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}
	return nil
}

// Index adds or replaces an accommodation document
func (a *TypesenseAdapter) Index(ctx context.Context, accommodation *entities.Accommodation) error {
	_, err := a.client.Client().Collection(CollectionName).Documents().Upsert(ctx, buildDocument(accommodation))
	if err != nil {
		return fmt.Errorf("failed to index accommodation %s: %w", accommodation.ID, err)
	}
	return nil
}

// BulkIndex upserts every accommodation, stopping at the first failure
func (a *TypesenseAdapter) BulkIndex(ctx context.Context, accommodations []entities.Accommodation) error {
	for i := range accommodations {
		if err := a.Index(ctx, &accommodations[i]); err != nil {
			return err
		}
	}
	return nil
}

// Search returns the ids of accommodations whose title or location matches,
// reading every result page. Matching is infix and typo-free so the candidate
// set is a superset of a substring match.
func (a *TypesenseAdapter) Search(ctx context.Context, params repositories.SearchParams) ([]string, error) {
	ids := make([]string, 0)
	for page := 1; page <= maxPages; page++ {
		result, err := a.client.Client().Collection(CollectionName).Documents().Search(ctx, buildSearchParams(params, page))
		if err != nil {
			return nil, fmt.Errorf("failed to search accommodations: %w", err)
		}

		hits := hitIDs(result)
		ids = append(ids, hits...)
		if !hasMorePages(result, len(ids), len(hits)) {
			return ids, nil
		}
	}
	return nil, fmt.Errorf("search for %q exceeds %d results", params.Query, pageSize*maxPages)
}

func hitIDs(result *api.SearchResult) []string {
	if result == nil || result.Hits == nil {
		return nil
	}
	ids := make([]string, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		if id, ok := (*hit.Document)["id"].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// hasMorePages reports whether another page holds unread hits
func hasMorePages(result *api.SearchResult, collected, pageHits int) bool {
	if result == nil || result.Found == nil || pageHits == 0 {
		return false
	}
	return collected < *result.Found
}

func buildDocument(a *entities.Accommodation) map[string]interface{} {
	return map[string]interface{}{
		"id":       a.ID,
		"title":    a.Title,
		"location": a.Location,
		"category": a.Category,
		"price":    a.Price,
		"rating":   a.Rating,
		"capacity": a.Capacity,
	}
}

func buildSearchParams(params repositories.SearchParams, page int) *api.SearchCollectionParams {
	q := strings.TrimSpace(params.Query)
	if q == "" {
		q = "*"
	}

	searchParams := &api.SearchCollectionParams{
		Q:                   pointer.String(q),
		QueryBy:             pointer.String("title,location"),
		Infix:               pointer.String("always,always"),
		NumTypos:            pointer.String("0,0"),
		DropTokensThreshold: pointer.Int(0),
		Page:                pointer.Int(page),
		PerPage:             pointer.Int(pageSize),
	}

	category := strings.TrimSpace(params.Category)
	if category != "" && !strings.EqualFold(category, "All") {
		searchParams.FilterBy = pointer.String(fmt.Sprintf("category:=`%s`", category))
	}
	return searchParams
}
