package repositories

import (
	"context"

	"github.com/zatekoja/staybook/internal/domain/entities"
)

// FavoriteRepository defines the interface for favorite operations
type FavoriteRepository interface {
	List(ctx context.Context, filter OwnershipFilter) ([]entities.Favorite, error)
	GetByID(ctx context.Context, id string) (*entities.Favorite, error)

	// Create inserts a favorite. Returns a CONFLICT error when the pair already exists.
	Create(ctx context.Context, favorite *entities.Favorite) error
	Delete(ctx context.Context, id string) error
}

// BookingRepository defines the interface for booking operations
type BookingRepository interface {
	List(ctx context.Context, filter OwnershipFilter) ([]entities.Booking, error)
	GetByID(ctx context.Context, id string) (*entities.Booking, error)
	Create(ctx context.Context, booking *entities.Booking) error
	Delete(ctx context.Context, id string) error
}

// CommentRepository defines the interface for comment operations
type CommentRepository interface {
	List(ctx context.Context, filter OwnershipFilter) ([]entities.Comment, error)
	Create(ctx context.Context, comment *entities.Comment) error
}
