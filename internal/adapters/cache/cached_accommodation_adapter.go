package cache

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	"github.com/zatekoja/staybook/internal/infrastructure/observability"
)

// Cache TTLs (in seconds)
const (
	accommodationByIDTTL  = 300
	accommodationsListTTL = 180
)

const accommodationsListKey = "accommodations:list"

func accommodationCacheKey(id string) string {
	return fmt.Sprintf("accommodation:%s", id)
}

// CachedAccommodationAdapter wraps an AccommodationRepository with read-through caching
type CachedAccommodationAdapter struct {
	adapter repositories.AccommodationRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

var _ repositories.AccommodationRepository = (*CachedAccommodationAdapter)(nil)

// NewCachedAccommodationAdapter creates a new cached accommodation adapter
func NewCachedAccommodationAdapter(adapter repositories.AccommodationRepository, cache providers.CacheProvider, metrics *observability.Metrics) *CachedAccommodationAdapter {
	return &CachedAccommodationAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// List retrieves every accommodation with caching
func (a *CachedAccommodationAdapter) List(ctx context.Context) ([]entities.Accommodation, error) {
	var cached []entities.Accommodation
	if a.lookup(ctx, accommodationsListKey, &cached) {
		return cached, nil
	}

	accommodations, err := a.adapter.List(ctx)
	if err != nil {
		return nil, err
	}
	a.store(ctx, accommodationsListKey, accommodations, accommodationsListTTL)
	return accommodations, nil
}

// GetByID retrieves an accommodation by ID with caching
func (a *CachedAccommodationAdapter) GetByID(ctx context.Context, id string) (*entities.Accommodation, error) {
	var cached entities.Accommodation
	if a.lookup(ctx, accommodationCacheKey(id), &cached) {
		return &cached, nil
	}

	accommodation, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.store(ctx, accommodationCacheKey(id), accommodation, accommodationByIDTTL)
	return accommodation, nil
}

// GetByIDs serves cached accommodations and fetches the rest in one call.
// Results follow the order of ids.
func (a *CachedAccommodationAdapter) GetByIDs(ctx context.Context, ids []string) ([]entities.Accommodation, error) {
	found := make(map[string]entities.Accommodation, len(ids))
	missing := make([]string, 0)
	for _, id := range ids {
		var cached entities.Accommodation
		if a.lookup(ctx, accommodationCacheKey(id), &cached) {
			found[id] = cached
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		fetched, err := a.adapter.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, accommodation := range fetched {
			found[accommodation.ID] = accommodation
			a.store(ctx, accommodationCacheKey(accommodation.ID), accommodation, accommodationByIDTTL)
		}
	}

	out := make([]entities.Accommodation, 0, len(found))
	for _, id := range ids {
		if accommodation, ok := found[id]; ok {
			out = append(out, accommodation)
		}
	}
	return out, nil
}

// Upsert writes through and invalidates the affected keys
func (a *CachedAccommodationAdapter) Upsert(ctx context.Context, accommodation *entities.Accommodation) error {
	if err := a.adapter.Upsert(ctx, accommodation); err != nil {
		return err
	}
	for _, key := range []string{accommodationCacheKey(accommodation.ID), accommodationsListKey} {
		if err := a.cache.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to invalidate accommodation cache")
		}
	}
	return nil
}

func (a *CachedAccommodationAdapter) lookup(ctx context.Context, key string, out interface{}) bool {
	data, err := a.cache.Get(ctx, key)
	if err != nil {
		observability.RecordCacheMiss(ctx, a.metrics, key)
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached accommodation data")
		observability.RecordCacheMiss(ctx, a.metrics, key)
		return false
	}
	observability.RecordCacheHit(ctx, a.metrics, key)
	return true
}

func (a *CachedAccommodationAdapter) store(ctx context.Context, key string, value interface{}, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to marshal accommodation data for cache")
		return
	}
	if err := a.cache.Set(ctx, key, data, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache accommodation data")
	}
}
