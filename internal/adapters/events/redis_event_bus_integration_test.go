//go:build integration

package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	redisclient "github.com/zatekoja/staybook/internal/infrastructure/clients/redis"
	"github.com/zatekoja/staybook/pkg/config"
)

func TestRedisEventBusFanoutIntegration(t *testing.T) {
	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	client, err := redisclient.NewClient(&config.RedisConfig{Host: host, Port: 6379})
	require.NoError(t, err)
	defer client.Close()

	bus := NewRedisEventBus(client)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := bus.Subscribe(ctx, providers.EventChannelMutations)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	event := entities.NewMutationEvent(entities.CollectionBookings, entities.MutationActionCreated, "B1")
	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelMutations, event))

	received := receive(t, sub)
	assert.Equal(t, event.ID, received.ID)
	assert.Equal(t, entities.CollectionBookings, received.Collection)
}
