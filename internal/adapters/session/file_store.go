package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/pkg/utils"
)

// FileStore persists the current user as a JSON file
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a session store backed by the file at path
func NewFileStore(path string) providers.SessionStore {
	return &FileStore{path: path}
}

// GetCurrentUser returns the persisted user, or nil when no session file exists
func (s *FileStore) GetCurrentUser(ctx context.Context) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
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

// SetCurrentUser writes user to the session file. Nil removes it.
func (s *FileStore) SetCurrentUser(ctx context.Context, user *entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user == nil {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := utils.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}
