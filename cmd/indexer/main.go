package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/staybook/internal/adapters/search"
	"github.com/zatekoja/staybook/internal/application/services"
	"github.com/zatekoja/staybook/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/staybook/internal/infrastructure/observability"
	"github.com/zatekoja/staybook/internal/infrastructure/storage"
	"github.com/zatekoja/staybook/pkg/config"
)

func main() {
	var reset bool
	var scheduleFlag string
	flag.BoolVar(&reset, "reset", false, "delete the existing Typesense collection before reindexing")
	flag.StringVar(&scheduleFlag, "schedule", "", "cron schedule for repeated reindexing (e.g. \"@every 6h\", \"0 3 * * *\")")
	flag.Parse()

	schedule := strings.TrimSpace(scheduleFlag)
	if schedule == "" {
		schedule = strings.TrimSpace(os.Getenv("REINDEX_SCHEDULE"))
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger("staybook-indexer", cfg.Server.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := indexOnce(ctx, cfg, reset || os.Getenv("RESET_TYPESENSE") == "true"); err != nil {
		log.Error().Err(err).Msg("Reindex failed")
		if schedule == "" {
			os.Exit(1)
		}
	}
	if schedule == "" {
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if err := indexOnce(ctx, cfg, false); err != nil {
			log.Error().Err(err).Msg("Scheduled reindex failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", schedule).Msg("Invalid reindex schedule")
	}

	c.Start()
	log.Info().Str("schedule", schedule).Msg("Reindex scheduled")

	<-ctx.Done()
	log.Info().Msg("Reindexer shutting down")
	<-c.Stop().Done()
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool) error {
	repos, err := storage.Open(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer repos.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset {
		log.Info().Str("collection", search.CollectionName).Msg("Deleting search collection before reindex")
		if _, err := tsClient.Client().Collection(search.CollectionName).Delete(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to delete collection")
		}
	}

	service := services.NewAccommodationService(repos.Accommodations, repos.Facilities, search.NewTypesenseAdapter(tsClient), nil)
	count, err := service.Reindex(ctx)
	if err != nil {
		return err
	}

	log.Info().Int("accommodations", count).Msg("Reindex complete")
	return nil
}
