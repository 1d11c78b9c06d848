package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
)

func receive(t *testing.T, ch <-chan *entities.MutationEvent) *entities.MutationEvent {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed")
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestMemoryEventBus_Fanout(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub1, err := bus.Subscribe(ctx, providers.EventChannelMutations)
	require.NoError(t, err)
	sub2, err := bus.Subscribe(ctx, providers.EventChannelMutations)
	require.NoError(t, err)

	event := entities.NewMutationEvent(entities.CollectionFavorites, entities.MutationActionCreated, "F1").WithRefs("u1", "A1")
	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelMutations, event))

	assert.Equal(t, "F1", receive(t, sub1).EntityID)
	assert.Equal(t, "u1", receive(t, sub2).UserID)
}

func TestMemoryEventBus_ContextCancelClosesSubscription(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := bus.Subscribe(ctx, "c")
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestMemoryEventBus_ClosedRejects(t *testing.T) {
	bus := NewMemoryEventBus()
	require.NoError(t, bus.Close())

	_, err := bus.Subscribe(context.Background(), "c")
	assert.Error(t, err)
	assert.Error(t, bus.Publish(context.Background(), "c", entities.NewMutationEvent("x", entities.MutationActionDeleted, "1")))
}

func TestFanout_RemoveReportsRemaining(t *testing.T) {
	f := newFanout()
	a, _ := f.add("c")
	b, count := f.add("c")
	assert.Equal(t, 2, count)

	assert.Equal(t, 1, f.remove("c", a))
	assert.Equal(t, 1, f.remove("c", a))
	assert.Equal(t, 0, f.remove("c", b))
}
