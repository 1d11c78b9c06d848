package session

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	redisclient "github.com/zatekoja/staybook/internal/infrastructure/clients/redis"
)

// RedisStore persists the current user under a single Redis key
type RedisStore struct {
	client *redisclient.Client
	key    string
}

// NewRedisStore creates a session store backed by Redis
func NewRedisStore(client *redisclient.Client, key string) providers.SessionStore {
	return &RedisStore{client: client, key: key}
}

// GetCurrentUser returns the persisted user, or nil when the key is absent
func (s *RedisStore) GetCurrentUser(ctx context.Context) (*entities.User, error) {
	data, err := s.client.Client().Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var user entities.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &user, nil
}

// SetCurrentUser stores user without expiry. Nil deletes the key.
func (s *RedisStore) SetCurrentUser(ctx context.Context, user *entities.User) error {
	if user == nil {
		if err := s.client.Client().Del(ctx, s.key).Err(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Client().Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}
