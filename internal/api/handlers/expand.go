package handlers

import (
	"context"

	"github.com/zatekoja/staybook/internal/api/loaders"
	"github.com/zatekoja/staybook/internal/domain/entities"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// FavoriteView is a favorite with its accommodation embedded
type FavoriteView struct {
	entities.Favorite
	Accommodation *entities.Accommodation `json:"accommodation"`
}

// BookingView is a booking with its accommodation embedded
type BookingView struct {
	entities.Booking
	Accommodation *entities.Accommodation `json:"accommodation"`
}

// expandAccommodations resolves the accommodation of every record through the
// request's batch loader. Dangling references embed as null.
func expandAccommodations[T any, V any](ctx context.Context, records []T, ref func(T) string, view func(T, *entities.Accommodation) V) ([]V, error) {
	l := loaders.For(ctx)
	if l == nil {
		return nil, apperrors.NewInternalError("accommodation loader unavailable", nil)
	}

	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = ref(rec)
	}
	accommodations, err := l.LoadAccommodations(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]V, len(records))
	for i, rec := range records {
		out[i] = view(rec, accommodations[i])
	}
	return out, nil
}

func favoriteView(f entities.Favorite, a *entities.Accommodation) FavoriteView {
	return FavoriteView{Favorite: f, Accommodation: a}
}

func bookingView(b entities.Booking, a *entities.Accommodation) BookingView {
	return BookingView{Booking: b, Accommodation: a}
}
