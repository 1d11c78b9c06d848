package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/staybook/internal/adapters/search"
	"github.com/zatekoja/staybook/internal/adapters/wire"
	"github.com/zatekoja/staybook/internal/application/services"
	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	"github.com/zatekoja/staybook/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/staybook/internal/infrastructure/observability"
	"github.com/zatekoja/staybook/internal/infrastructure/storage"
	"github.com/zatekoja/staybook/pkg/config"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// seed imports a flat JSON document (the legacy data.json layout included)
// into the configured storage backend. Records that already exist are kept.
func main() {
	var source string
	flag.StringVar(&source, "file", "data/seed.json", "JSON document to import")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger("staybook-seed", cfg.Server.Environment)

	data, err := os.ReadFile(source)
	if err != nil {
		log.Fatal().Err(err).Str("file", source).Msg("Failed to read seed document")
	}
	dataset, err := wire.DecodeDataset(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to decode seed document")
	}

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer repos.Close()

	var searchRepo repositories.AccommodationSearchRepository
	if cfg.Typesense.Enabled {
		if tsClient, err := typesense.NewClient(&cfg.Typesense); err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, skipping indexing")
		} else {
			adapter := search.NewTypesenseAdapter(tsClient)
			if err := adapter.EnsureCollection(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to ensure Typesense collection")
			}
			searchRepo = adapter
		}
	}

	catalog := services.NewAccommodationService(repos.Accommodations, repos.Facilities, searchRepo, nil)

	for i := range dataset.Facilities {
		if err := catalog.UpsertFacility(ctx, &dataset.Facilities[i]); err != nil {
			log.Fatal().Err(err).Str("facility_id", dataset.Facilities[i].ID).Msg("Failed to seed facility")
		}
	}
	for i := range dataset.Accommodations {
		if err := catalog.Upsert(ctx, &dataset.Accommodations[i]); err != nil {
			log.Fatal().Err(err).Str("accommodation_id", dataset.Accommodations[i].ID).Msg("Failed to seed accommodation")
		}
	}

	// Join records keep their ids, so they go straight to the repositories
	created := map[string]int{
		entities.CollectionUsers:     seed(ctx, dataset.Users, repos.Users.Create),
		entities.CollectionFavorites: seed(ctx, dataset.Favorites, repos.Favorites.Create),
		entities.CollectionBookings:  seed(ctx, dataset.Bookings, repos.Bookings.Create),
		entities.CollectionComments:  seed(ctx, dataset.Comments, repos.Comments.Create),
	}

	log.Info().
		Int("facilities", len(dataset.Facilities)).
		Int("accommodations", len(dataset.Accommodations)).
		Interface("created", created).
		Msg("Seeding complete")
}

func seed[T any](ctx context.Context, records []T, create func(context.Context, *T) error) int {
	count := 0
	for i := range records {
		err := create(ctx, &records[i])
		switch {
		case err == nil:
			count++
		case apperrors.IsType(err, apperrors.ErrorTypeConflict):
			continue
		default:
			log.Fatal().Err(err).Msg("Failed to seed record")
		}
	}
	return count
}
