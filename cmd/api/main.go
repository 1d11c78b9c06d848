package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/staybook/internal/adapters/cache"
	"github.com/zatekoja/staybook/internal/adapters/events"
	"github.com/zatekoja/staybook/internal/adapters/search"
	"github.com/zatekoja/staybook/internal/api/handlers"
	"github.com/zatekoja/staybook/internal/api/middleware"
	"github.com/zatekoja/staybook/internal/api/routes"
	"github.com/zatekoja/staybook/internal/application/services"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	"github.com/zatekoja/staybook/internal/infrastructure/clients/redis"
	"github.com/zatekoja/staybook/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/staybook/internal/infrastructure/observability"
	"github.com/zatekoja/staybook/internal/infrastructure/storage"
	"github.com/zatekoja/staybook/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	repos, err := storage.Open(ctx, cfg, metrics)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer repos.Close()

	healthChecks := []handlers.HealthCheck{{Name: "storage", Check: repos.Ping}}

	// Redis is optional: without it the server runs uncached with an in-process event bus
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Redis client")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
			healthChecks = append(healthChecks, handlers.HealthCheck{Name: "redis", Check: redisClient.Ping})
			log.Info().Msg("Redis cache and event bus initialized")
		}
	}
	if eventBus == nil {
		eventBus = events.NewMemoryEventBus()
	}

	var accommodationRepo repositories.AccommodationRepository = repos.Accommodations
	if cacheProvider != nil {
		accommodationRepo = cache.NewCachedAccommodationAdapter(repos.Accommodations, cacheProvider, metrics)
		log.Info().Msg("Accommodation adapter wrapped with caching layer")
	}

	var searchRepo repositories.AccommodationSearchRepository
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Typesense client, search falls back to in-memory matching")
		} else {
			adapter := search.NewTypesenseAdapter(tsClient)
			if err := adapter.EnsureCollection(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to ensure Typesense collection")
			}
			searchRepo = adapter
		}
	}

	accommodationService := services.NewAccommodationService(accommodationRepo, repos.Facilities, searchRepo, eventBus)
	favoriteService := services.NewFavoriteService(repos.Favorites, accommodationRepo, eventBus)
	bookingService := services.NewBookingService(repos.Bookings, accommodationRepo, eventBus)
	commentService := services.NewCommentService(repos.Comments, accommodationRepo, eventBus)
	userService := services.NewUserService(repos.Users, eventBus)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		go services.NewCacheWarmingService(accommodationRepo).StartPeriodicWarming(ctx, 5*time.Minute)
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
	}

	router := routes.NewRouter(
		handlers.NewAccommodationHandler(accommodationService),
		handlers.NewFavoriteHandler(favoriteService),
		handlers.NewBookingHandler(bookingService),
		handlers.NewCommentHandler(commentService),
		handlers.NewUserHandler(userService),
		handlers.NewSSEHandler(eventBus),
		handlers.NewHealthHandler(healthChecks...),
		accommodationRepo,
		cacheMiddleware,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	// No write timeout: /events responses stream for the life of the connection
	server := &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     router.SetupRoutes(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("storage", cfg.Storage.Backend).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing event bus")
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
