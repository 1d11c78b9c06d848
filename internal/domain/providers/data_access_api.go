package providers

import (
	"context"

	"github.com/zatekoja/staybook/internal/domain/entities"
)

// CatalogAPI exposes the read-only collections
type CatalogAPI interface {
	ListAccommodations(ctx context.Context) ([]entities.Accommodation, error)
	ListFacilities(ctx context.Context) ([]entities.Facility, error)
}

// FavoritesAPI exposes the favorites collection
type FavoritesAPI interface {
	ListFavorites(ctx context.Context) ([]entities.Favorite, error)
	CreateFavorite(ctx context.Context, userID, accommodationID string) (*entities.Favorite, error)
	DeleteFavorite(ctx context.Context, id string) error
}

// BookingsAPI exposes the bookings collection
type BookingsAPI interface {
	ListBookings(ctx context.Context) ([]entities.Booking, error)
	CreateBooking(ctx context.Context, booking *entities.Booking) (*entities.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// CommentsAPI exposes the comments collection
type CommentsAPI interface {
	ListComments(ctx context.Context) ([]entities.Comment, error)
	CreateComment(ctx context.Context, comment *entities.Comment) (*entities.Comment, error)
}

// UsersAPI exposes the users collection
type UsersAPI interface {
	ListUsers(ctx context.Context) ([]entities.User, error)
	GetUser(ctx context.Context, id string) (*entities.User, error)
	UpdateUser(ctx context.Context, user *entities.User) (*entities.User, error)
}

// DataAccessAPI is the full REST collaborator the client talks to
type DataAccessAPI interface {
	CatalogAPI
	FavoritesAPI
	BookingsAPI
	CommentsAPI
	UsersAPI
}
