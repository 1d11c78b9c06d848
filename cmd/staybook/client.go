package main

import (
	"context"
	"fmt"
	"time"

	"github.com/zatekoja/staybook/internal/adapters/session"
	"github.com/zatekoja/staybook/internal/application/optimistic"
	appsession "github.com/zatekoja/staybook/internal/application/session"
	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/internal/infrastructure/clients/bookingapi"
	"github.com/zatekoja/staybook/internal/infrastructure/clients/redis"
	"github.com/zatekoja/staybook/internal/infrastructure/observability"
	"github.com/zatekoja/staybook/pkg/config"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// client bundles what every command needs
type client struct {
	cfg         *config.Config
	api         providers.DataAccessAPI
	session     *appsession.Manager
	coordinator *optimistic.Coordinator
	settle      time.Duration

	closers []func() error
}

func newClient(ctx context.Context, cfg *config.Config) (*client, error) {
	api := bookingapi.NewClient(&cfg.API)
	c := &client{cfg: cfg, api: api, settle: 2*cfg.API.Timeout() + time.Second}

	store, err := c.sessionStore(cfg)
	if err != nil {
		return nil, err
	}

	c.session = appsession.NewManager(store, api)
	if err := c.session.Init(ctx); err != nil {
		return nil, err
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return nil, err
	}
	c.coordinator, err = optimistic.NewCoordinator(api,
		optimistic.WithFees(cfg.Booking.Fees()),
		optimistic.WithMetrics(metrics),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *client) sessionStore(cfg *config.Config) (providers.SessionStore, error) {
	switch cfg.Session.Backend {
	case "redis":
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, redisClient.Close)
		return session.NewRedisStore(redisClient, cfg.Session.RedisKey), nil
	case "file", "":
		return session.NewFileStore(cfg.Session.FilePath), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

func (c *client) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// requireUser returns the signed-in user's id
func (c *client) requireUser() (string, error) {
	id := c.session.CurrentUserID()
	if id == "" {
		return "", apperrors.NewUnauthenticatedError("not signed in, run `staybook login` first")
	}
	return id, nil
}

func (c *client) accommodation(ctx context.Context, id string) (entities.Accommodation, error) {
	all, err := c.api.ListAccommodations(ctx)
	if err != nil {
		return entities.Accommodation{}, err
	}
	for _, a := range all {
		if a.ID == id {
			return a, nil
		}
	}
	return entities.Accommodation{}, apperrors.NewNotFoundError("accommodation " + id + " not found")
}

// wait blocks until h settles and returns the reconciled list
func wait[T any](ctx context.Context, c *client, h *optimistic.Handle[T], current []T) ([]T, optimistic.Result[T], error) {
	ctx, cancel := context.WithTimeout(ctx, c.settle)
	defer cancel()

	r, err := h.Wait(ctx)
	return r.Apply(current), r, err
}
