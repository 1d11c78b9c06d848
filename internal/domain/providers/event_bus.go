package providers

import (
	"context"

	"github.com/zatekoja/staybook/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to mutation events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.MutationEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.MutationEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelMutations receives every mutation event
	EventChannelMutations = "staybook:mutations"

	// EventChannelUserPrefix is the prefix for per-user channels
	EventChannelUserPrefix = "staybook:user:"
)

// GetUserChannel returns the channel carrying one user's mutations
func GetUserChannel(userID string) string {
	return EventChannelUserPrefix + userID
}
