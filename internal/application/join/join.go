// Package join derives view models from already-fetched collections.
//
// Every function is pure: results preserve the order of the first input
// collection and inputs are never modified.
package join

import (
	"strings"

	"github.com/zatekoja/staybook/internal/domain/entities"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// CategoryAll matches every accommodation category
const CategoryAll = "All"

// AccommodationWithFavorite annotates an accommodation with one user's favorite status
type AccommodationWithFavorite struct {
	Accommodation entities.Accommodation
	IsFavorite    bool
}

// BookingWithAccommodation pairs a booking with its accommodation.
// Accommodation is nil when the reference dangles.
type BookingWithAccommodation struct {
	Booking       entities.Booking
	Accommodation *entities.Accommodation
}

// Renderable reports whether the pair can be displayed
func (b BookingWithAccommodation) Renderable() bool {
	return b.Accommodation != nil
}

// Err returns a DANGLING_REFERENCE error when the accommodation is missing
func (b BookingWithAccommodation) Err() error {
	if b.Accommodation != nil {
		return nil
	}
	return apperrors.NewDanglingReferenceError(
		"booking " + b.Booking.ID + " references unknown accommodation " + b.Booking.AccommodationID)
}

// CommentWithUser pairs a comment with its author. User is nil when the reference dangles.
type CommentWithUser struct {
	Comment entities.Comment
	User    *entities.User
}

// JoinFavoriteStatus marks each accommodation favorited by userID
func JoinFavoriteStatus(accommodations []entities.Accommodation, favorites []entities.Favorite, userID string) []AccommodationWithFavorite {
	favorited := make(map[string]struct{})
	for _, f := range favorites {
		if f.UserID == userID {
			favorited[f.AccommodationID] = struct{}{}
		}
	}

	out := make([]AccommodationWithFavorite, 0, len(accommodations))
	for _, a := range accommodations {
		_, ok := favorited[a.ID]
		out = append(out, AccommodationWithFavorite{Accommodation: a, IsFavorite: ok})
	}
	return out
}

// JoinBookingsWithAccommodation pairs every booking with its accommodation
func JoinBookingsWithAccommodation(bookings []entities.Booking, accommodations []entities.Accommodation) []BookingWithAccommodation {
	byID := indexByID(accommodations, func(a entities.Accommodation) string { return a.ID })

	out := make([]BookingWithAccommodation, 0, len(bookings))
	for _, b := range bookings {
		pair := BookingWithAccommodation{Booking: b}
		if a, ok := byID[b.AccommodationID]; ok {
			pair.Accommodation = &a
		}
		out = append(out, pair)
	}
	return out
}

// Renderable keeps only pairs whose accommodation resolved
func Renderable(pairs []BookingWithAccommodation) []BookingWithAccommodation {
	out := make([]BookingWithAccommodation, 0, len(pairs))
	for _, p := range pairs {
		if p.Renderable() {
			out = append(out, p)
		}
	}
	return out
}

// FilterByUser keeps records owned by userID
func FilterByUser[T entities.UserOwned](collection []T, userID string) []T {
	out := make([]T, 0)
	for _, item := range collection {
		if item.OwnerID() == userID {
			out = append(out, item)
		}
	}
	return out
}

// SearchAndCategoryFilter matches query against title or location and category
// exactly, both case-insensitively. An empty query or the "All" category match everything.
func SearchAndCategoryFilter(accommodations []entities.Accommodation, query, category string) []entities.Accommodation {
	q := strings.ToLower(strings.TrimSpace(query))
	category = strings.TrimSpace(category)
	anyCategory := category == "" || strings.EqualFold(category, CategoryAll)

	out := make([]entities.Accommodation, 0)
	for _, a := range accommodations {
		if q != "" &&
			!strings.Contains(strings.ToLower(a.Title), q) &&
			!strings.Contains(strings.ToLower(a.Location), q) {
			continue
		}
		if !anyCategory && !strings.EqualFold(a.Category, category) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// FavoriteAccommodations returns the accommodations userID favorited, in accommodation order
func FavoriteAccommodations(accommodations []entities.Accommodation, favorites []entities.Favorite, userID string) []entities.Accommodation {
	out := make([]entities.Accommodation, 0)
	for _, item := range JoinFavoriteStatus(accommodations, favorites, userID) {
		if item.IsFavorite {
			out = append(out, item.Accommodation)
		}
	}
	return out
}

// CommentsForAccommodation keeps comments about accommodationID
func CommentsForAccommodation(comments []entities.Comment, accommodationID string) []entities.Comment {
	out := make([]entities.Comment, 0)
	for _, c := range comments {
		if c.AccommodationID == accommodationID {
			out = append(out, c)
		}
	}
	return out
}

// JoinCommentsWithUser pairs every comment with its author
func JoinCommentsWithUser(comments []entities.Comment, users []entities.User) []CommentWithUser {
	byID := indexByID(users, func(u entities.User) string { return u.ID })

	out := make([]CommentWithUser, 0, len(comments))
	for _, c := range comments {
		pair := CommentWithUser{Comment: c}
		if u, ok := byID[c.UserID]; ok {
			pair.User = &u
		}
		out = append(out, pair)
	}
	return out
}

// FacilitiesFor resolves an accommodation's facility ids in listing order, skipping unknown ids
func FacilitiesFor(accommodation entities.Accommodation, facilities []entities.Facility) []entities.Facility {
	byID := indexByID(facilities, func(f entities.Facility) string { return f.ID })

	out := make([]entities.Facility, 0, len(accommodation.FacilityIDs))
	for _, id := range accommodation.FacilityIDs {
		if f, ok := byID[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

// AverageRating returns the mean comment rating, or 0 for no comments
func AverageRating(comments []entities.Comment) float64 {
	if len(comments) == 0 {
		return 0
	}
	total := 0
	for _, c := range comments {
		total += c.Rating
	}
	return float64(total) / float64(len(comments))
}

// indexByID keeps the first record seen for each key
func indexByID[T any](items []T, key func(T) string) map[string]T {
	index := make(map[string]T, len(items))
	for _, item := range items {
		k := key(item)
		if _, exists := index[k]; !exists {
			index[k] = item
		}
	}
	return index
}
