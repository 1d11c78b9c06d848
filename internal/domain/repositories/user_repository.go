package repositories

import (
	"context"

	"github.com/zatekoja/staybook/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// List retrieves users matching the filter
	List(ctx context.Context, filter UserFilter) ([]entities.User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// Update replaces a user
	Update(ctx context.Context, user *entities.User) error
}
