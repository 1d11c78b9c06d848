// Package storage opens the configured collection backend.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/staybook/internal/adapters/database"
	"github.com/zatekoja/staybook/internal/adapters/document"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	"github.com/zatekoja/staybook/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/staybook/internal/infrastructure/observability"
	"github.com/zatekoja/staybook/pkg/config"
)

// Storage backends
const (
	BackendDocument = "document"
	BackendPostgres = "postgres"
)

// Repositories is the full set of collection repositories of one backend
type Repositories struct {
	Accommodations repositories.AccommodationRepository
	Facilities     repositories.FacilityRepository
	Users          repositories.UserRepository
	Favorites      repositories.FavoriteRepository
	Bookings       repositories.BookingRepository
	Comments       repositories.CommentRepository

	// Ping reports backend health
	Ping func(ctx context.Context) error

	close func() error
}

// Close releases the backend's resources
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open opens the backend selected by cfg.Storage.Backend
func Open(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (*Repositories, error) {
	switch cfg.Storage.Backend {
	case BackendDocument, "":
		store, err := document.Open(cfg.Storage.DocumentPath, metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to open document store: %w", err)
		}
		log.Info().Str("path", cfg.Storage.DocumentPath).Msg("Using document storage")
		return FromDocument(store), nil

	case BackendPostgres:
		client, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx, client); err != nil {
			client.Close()
			return nil, err
		}
		log.Info().Msg("Using PostgreSQL storage")
		return FromPostgres(client), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// FromDocument exposes a document store as repositories
func FromDocument(store *document.Store) *Repositories {
	return &Repositories{
		Accommodations: store.Accommodations(),
		Facilities:     store.Facilities(),
		Users:          store.Users(),
		Favorites:      store.Favorites(),
		Bookings:       store.Bookings(),
		Comments:       store.Comments(),
		Ping:           func(context.Context) error { return nil },
	}
}

// FromPostgres exposes a PostgreSQL client as repositories. Close closes the client.
func FromPostgres(client *postgres.Client) *Repositories {
	return &Repositories{
		Accommodations: database.NewAccommodationAdapter(client),
		Facilities:     database.NewFacilityAdapter(client),
		Users:          database.NewUserAdapter(client),
		Favorites:      database.NewFavoriteAdapter(client),
		Bookings:       database.NewBookingAdapter(client),
		Comments:       database.NewCommentAdapter(client),
		Ping:           client.Ping,
		close:          client.Close,
	}
}
