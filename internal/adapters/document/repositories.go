package document

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// Accommodations returns the accommodation repository view of the store
func (s *Store) Accommodations() repositories.AccommodationRepository {
	return &accommodationRepository{store: s}
}

// Facilities returns the facility repository view of the store
func (s *Store) Facilities() repositories.FacilityRepository {
	return &facilityRepository{store: s}
}

// Users returns the user repository view of the store
func (s *Store) Users() repositories.UserRepository {
	return &userRepository{store: s}
}

// Favorites returns the favorite repository view of the store
func (s *Store) Favorites() repositories.FavoriteRepository {
	return &favoriteRepository{store: s}
}

// Bookings returns the booking repository view of the store
func (s *Store) Bookings() repositories.BookingRepository {
	return &bookingRepository{store: s}
}

// Comments returns the comment repository view of the store
func (s *Store) Comments() repositories.CommentRepository {
	return &commentRepository{store: s}
}

type accommodationRepository struct{ store *Store }

func (r *accommodationRepository) List(ctx context.Context) ([]entities.Accommodation, error) {
	var out []entities.Accommodation
	err := r.store.read(ctx, "accommodations.list", func(d *entities.Dataset) error {
		out = append(make([]entities.Accommodation, 0, len(d.Accommodations)), d.Accommodations...)
		return nil
	})
	return out, err
}

func (r *accommodationRepository) GetByID(ctx context.Context, id string) (*entities.Accommodation, error) {
	var out *entities.Accommodation
	err := r.store.read(ctx, "accommodations.get", func(d *entities.Dataset) error {
		i := indexOf(d.Accommodations, func(a entities.Accommodation) bool { return a.ID == id })
		if i < 0 {
			return apperrors.NewNotFoundError(fmt.Sprintf("accommodation with id %s not found", id))
		}
		a := d.Accommodations[i]
		out = &a
		return nil
	})
	return out, err
}

func (r *accommodationRepository) GetByIDs(ctx context.Context, ids []string) ([]entities.Accommodation, error) {
	var out []entities.Accommodation
	err := r.store.read(ctx, "accommodations.get_many", func(d *entities.Dataset) error {
		byID := make(map[string]entities.Accommodation, len(d.Accommodations))
		for _, a := range d.Accommodations {
			byID[a.ID] = a
		}
		out = make([]entities.Accommodation, 0, len(ids))
		for _, id := range ids {
			if a, ok := byID[id]; ok {
				out = append(out, a)
			}
		}
		return nil
	})
	return out, err
}

func (r *accommodationRepository) Upsert(ctx context.Context, accommodation *entities.Accommodation) error {
	return r.store.write(ctx, "accommodations.upsert", func(d *entities.Dataset) error {
		d.Accommodations = upsert(d.Accommodations, *accommodation, func(a entities.Accommodation) bool { return a.ID == accommodation.ID })
		return nil
	})
}

type facilityRepository struct{ store *Store }

func (r *facilityRepository) List(ctx context.Context) ([]entities.Facility, error) {
	var out []entities.Facility
	err := r.store.read(ctx, "facilities.list", func(d *entities.Dataset) error {
		out = append(make([]entities.Facility, 0, len(d.Facilities)), d.Facilities...)
		return nil
	})
	return out, err
}

func (r *facilityRepository) Upsert(ctx context.Context, facility *entities.Facility) error {
	return r.store.write(ctx, "facilities.upsert", func(d *entities.Dataset) error {
		d.Facilities = upsert(d.Facilities, *facility, func(f entities.Facility) bool { return f.ID == facility.ID })
		return nil
	})
}

type userRepository struct{ store *Store }

func (r *userRepository) List(ctx context.Context, filter repositories.UserFilter) ([]entities.User, error) {
	var out []entities.User
	err := r.store.read(ctx, "users.list", func(d *entities.Dataset) error {
		out = make([]entities.User, 0, len(d.Users))
		for _, u := range d.Users {
			if filter.Email != "" && !strings.EqualFold(filter.Email, u.Email) {
				continue
			}
			if filter.MobileNumber != "" && filter.MobileNumber != u.MobileNumber {
				continue
			}
			out = append(out, u)
		}
		return nil
	})
	return out, err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	var out *entities.User
	err := r.store.read(ctx, "users.get", func(d *entities.Dataset) error {
		i := indexOf(d.Users, func(u entities.User) bool { return u.ID == id })
		if i < 0 {
			return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
		}
		u := d.Users[i]
		out = &u
		return nil
	})
	return out, err
}

func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	return r.store.write(ctx, "users.create", func(d *entities.Dataset) error {
		if indexOf(d.Users, func(u entities.User) bool { return u.ID == user.ID }) >= 0 {
			return apperrors.NewConflictError(fmt.Sprintf("user with id %s already exists", user.ID))
		}
		d.Users = append(d.Users, *user)
		return nil
	})
}

func (r *userRepository) Update(ctx context.Context, user *entities.User) error {
	return r.store.write(ctx, "users.update", func(d *entities.Dataset) error {
		i := indexOf(d.Users, func(u entities.User) bool { return u.ID == user.ID })
		if i < 0 {
			return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", user.ID))
		}
		d.Users[i] = *user
		return nil
	})
}

type favoriteRepository struct{ store *Store }

func (r *favoriteRepository) List(ctx context.Context, filter repositories.OwnershipFilter) ([]entities.Favorite, error) {
	var out []entities.Favorite
	err := r.store.read(ctx, "favorites.list", func(d *entities.Dataset) error {
		out = owned(d.Favorites, filter)
		return nil
	})
	return out, err
}

func (r *favoriteRepository) GetByID(ctx context.Context, id string) (*entities.Favorite, error) {
	var out *entities.Favorite
	err := r.store.read(ctx, "favorites.get", func(d *entities.Dataset) error {
		i := indexOf(d.Favorites, func(f entities.Favorite) bool { return f.ID == id })
		if i < 0 {
			return apperrors.NewNotFoundError(fmt.Sprintf("favorite with id %s not found", id))
		}
		f := d.Favorites[i]
		out = &f
		return nil
	})
	return out, err
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *entities.Favorite) error {
	return r.store.write(ctx, "favorites.create", func(d *entities.Dataset) error {
		if indexOf(d.Favorites, func(f entities.Favorite) bool {
			return f.Matches(favorite.UserID, favorite.AccommodationID)
		}) >= 0 {
			return apperrors.NewConflictError("accommodation is already a favorite of this user")
		}
		d.Favorites = append(d.Favorites, *favorite)
		return nil
	})
}

func (r *favoriteRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, "favorites.delete", func(d *entities.Dataset) error {
		var err error
		d.Favorites, err = remove(d.Favorites, func(f entities.Favorite) bool { return f.ID == id }, "favorite", id)
		return err
	})
}

type bookingRepository struct{ store *Store }

func (r *bookingRepository) List(ctx context.Context, filter repositories.OwnershipFilter) ([]entities.Booking, error) {
	var out []entities.Booking
	err := r.store.read(ctx, "bookings.list", func(d *entities.Dataset) error {
		out = owned(d.Bookings, filter)
		return nil
	})
	return out, err
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	var out *entities.Booking
	err := r.store.read(ctx, "bookings.get", func(d *entities.Dataset) error {
		i := indexOf(d.Bookings, func(b entities.Booking) bool { return b.ID == id })
		if i < 0 {
			return apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
		}
		b := d.Bookings[i]
		out = &b
		return nil
	})
	return out, err
}

func (r *bookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	return r.store.write(ctx, "bookings.create", func(d *entities.Dataset) error {
		if indexOf(d.Bookings, func(b entities.Booking) bool { return b.ID == booking.ID }) >= 0 {
			return apperrors.NewConflictError(fmt.Sprintf("booking with id %s already exists", booking.ID))
		}
		d.Bookings = append(d.Bookings, *booking)
		return nil
	})
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, "bookings.delete", func(d *entities.Dataset) error {
		var err error
		d.Bookings, err = remove(d.Bookings, func(b entities.Booking) bool { return b.ID == id }, "booking", id)
		return err
	})
}

type commentRepository struct{ store *Store }

func (r *commentRepository) List(ctx context.Context, filter repositories.OwnershipFilter) ([]entities.Comment, error) {
	var out []entities.Comment
	err := r.store.read(ctx, "comments.list", func(d *entities.Dataset) error {
		out = owned(d.Comments, filter)
		return nil
	})
	return out, err
}

func (r *commentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	return r.store.write(ctx, "comments.create", func(d *entities.Dataset) error {
		if indexOf(d.Comments, func(c entities.Comment) bool { return c.ID == comment.ID }) >= 0 {
			return apperrors.NewConflictError(fmt.Sprintf("comment with id %s already exists", comment.ID))
		}
		d.Comments = append(d.Comments, *comment)
		return nil
	})
}

type ownedRecord interface {
	entities.UserOwned
	entities.AccommodationScoped
}

func owned[T ownedRecord](items []T, filter repositories.OwnershipFilter) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if filter.Matches(item.OwnerID(), item.AccommodationRef()) {
			out = append(out, item)
		}
	}
	return out
}

func upsert[T any](items []T, item T, same func(T) bool) []T {
	if i := indexOf(items, same); i >= 0 {
		items[i] = item
		return items
	}
	return append(items, item)
}

func remove[T any](items []T, match func(T) bool, kind, id string) ([]T, error) {
	i := indexOf(items, match)
	if i < 0 {
		return items, apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", kind, id))
	}
	return slices.Delete(items, i, i+1), nil
}
