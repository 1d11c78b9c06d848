package providers

import (
	"context"

	"github.com/zatekoja/staybook/internal/domain/entities"
)

// SessionStore persists the current authenticated user across restarts
type SessionStore interface {
	// GetCurrentUser returns the persisted user, or nil when signed out
	GetCurrentUser(ctx context.Context) (*entities.User, error)

	// SetCurrentUser persists user; nil clears the session
	SetCurrentUser(ctx context.Context, user *entities.User) error
}
