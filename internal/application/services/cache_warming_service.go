package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
)

const warmTopRated = 20

// CacheWarmingService keeps frequently read accommodations in the cache by
// reading them through the caching repository
type CacheWarmingService struct {
	accommodations repositories.AccommodationRepository
}

// NewCacheWarmingService creates a new cache warming service. accommodations should be the cached repository.
func NewCacheWarmingService(accommodations repositories.AccommodationRepository) *CacheWarmingService {
	return &CacheWarmingService{accommodations: accommodations}
}

// WarmCache loads the accommodation list and the top-rated listings
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	start := time.Now()

	all, err := s.accommodations.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm accommodation list: %w", err)
	}

	top := slices.Clone(all)
	slices.SortStableFunc(top, func(a, b entities.Accommodation) int {
		switch {
		case a.Rating > b.Rating:
			return -1
		case a.Rating < b.Rating:
			return 1
		default:
			return 0
		}
	})
	if len(top) > warmTopRated {
		top = top[:warmTopRated]
	}

	warmed := 0
	for _, acc := range top {
		if _, err := s.accommodations.GetByID(ctx, acc.ID); err != nil {
			log.Warn().Err(err).Str("accommodation_id", acc.ID).Msg("Failed to warm accommodation")
			continue
		}
		warmed++
	}

	log.Info().
		Int("listed", len(all)).
		Int("warmed", warmed).
		Dur("took", time.Since(start)).
		Msg("Cache warming completed")
	return nil
}

// StartPeriodicWarming warms once, then again every interval until ctx is done
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	if err := s.WarmCache(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial cache warming failed")
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Stopping cache warming service")
				return
			case <-ticker.C:
				if err := s.WarmCache(ctx); err != nil {
					log.Warn().Err(err).Msg("Periodic cache warming failed")
				}
			}
		}
	}()
	log.Info().Dur("interval", interval).Msg("Started periodic cache warming")
}
