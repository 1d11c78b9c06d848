package services

import (
	"context"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/internal/infrastructure/observability"
)

// publisher fans mutation events out to the global and per-user channels.
// A nil bus disables publishing.
type publisher struct {
	bus providers.EventBus
}

func (p publisher) publish(ctx context.Context, event *entities.MutationEvent) {
	if p.bus == nil {
		return
	}

	logger := observability.LoggerFromContext(ctx)
	if err := p.bus.Publish(ctx, providers.EventChannelMutations, event); err != nil {
		// The write already succeeded; subscribers catch up on their next fetch.
		logger.Warn().Err(err).Str("collection", event.Collection).Str("entity_id", event.EntityID).Msg("Failed to publish mutation event")
		return
	}
	if event.UserID != "" {
		if err := p.bus.Publish(ctx, providers.GetUserChannel(event.UserID), event); err != nil {
			logger.Warn().Err(err).Str("user_id", event.UserID).Msg("Failed to publish user mutation event")
		}
	}
}
