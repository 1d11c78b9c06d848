package events

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
)

var errBusClosed = errors.New("event bus closed")

// MemoryEventBus delivers events within the process. Used when Redis is disabled.
type MemoryEventBus struct {
	fanout *fanout
	closed atomic.Bool
}

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus() providers.EventBus {
	return &MemoryEventBus{fanout: newFanout()}
}

// Publish delivers event to current subscribers of channel
func (b *MemoryEventBus) Publish(ctx context.Context, channel string, event *entities.MutationEvent) error {
	if b.closed.Load() {
		return errBusClosed
	}
	b.fanout.broadcast(channel, event)
	return nil
}

// Subscribe subscribes to channel until ctx is done
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.MutationEvent, error) {
	if b.closed.Load() {
		return nil, errBusClosed
	}
	events, _ := b.fanout.add(channel)
	go func() {
		<-ctx.Done()
		b.fanout.remove(channel, events)
	}()
	return events, nil
}

// Unsubscribe closes every subscription on channel
func (b *MemoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.fanout.closeChannel(channel)
	return nil
}

// Close closes all subscriptions
func (b *MemoryEventBus) Close() error {
	b.closed.Store(true)
	b.fanout.closeAll()
	return nil
}
