package join_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/staybook/internal/application/join"
	"github.com/zatekoja/staybook/internal/domain/entities"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

func scenarioAccommodations() []entities.Accommodation {
	return []entities.Accommodation{
		{ID: "A1", Title: "Sunrise Bungalow", Location: "Nha Trang", Price: 100, Rating: 4.2, Category: "Beach", Capacity: 2, FacilityIDs: []string{"f1", "f2"}},
		{ID: "A2", Title: "Pine Cabin", Location: "Da Lat", Price: 50, Rating: 3.8, Category: "Mountain", Capacity: 4, FacilityIDs: []string{"f2"}},
		{ID: "A3", Title: "Beach Villa", Location: "Phu Quoc", Price: 200, Rating: 4.9, Category: "Beach", Capacity: 6, FacilityIDs: []string{"f3", "f1"}},
	}
}

func TestJoinFavoriteStatus_Scenario(t *testing.T) {
	accoms := scenarioAccommodations()
	favorites := []entities.Favorite{{ID: "F1", UserID: "u1", AccommodationID: "A2"}}

	got := join.JoinFavoriteStatus(accoms, favorites, "u1")

	require.Len(t, got, 3)
	assert.Equal(t, "A1", got[0].Accommodation.ID)
	assert.False(t, got[0].IsFavorite)
	assert.Equal(t, "A2", got[1].Accommodation.ID)
	assert.True(t, got[1].IsFavorite)
	assert.Equal(t, "A3", got[2].Accommodation.ID)
	assert.False(t, got[2].IsFavorite)
}

func TestJoinFavoriteStatus_OtherUsersAndDuplicates(t *testing.T) {
	accoms := scenarioAccommodations()
	favorites := []entities.Favorite{
		{ID: "F1", UserID: "u2", AccommodationID: "A1"},
		{ID: "F2", UserID: "u1", AccommodationID: "A3"},
		{ID: "F3", UserID: "u1", AccommodationID: "A3"},
		{ID: "F4", UserID: "u1", AccommodationID: "gone"},
	}

	got := join.JoinFavoriteStatus(accoms, favorites, "u1")

	require.Len(t, got, len(accoms))
	flags := []bool{got[0].IsFavorite, got[1].IsFavorite, got[2].IsFavorite}
	assert.Equal(t, []bool{false, false, true}, flags)
}

func TestJoinFavoriteStatus_EmptyInputs(t *testing.T) {
	assert.Empty(t, join.JoinFavoriteStatus(nil, nil, "u1"))

	got := join.JoinFavoriteStatus(scenarioAccommodations(), nil, "u1")
	for _, item := range got {
		assert.False(t, item.IsFavorite)
	}
}

func TestJoinFavoriteStatus_DoesNotMutateInputs(t *testing.T) {
	accoms := scenarioAccommodations()
	favorites := []entities.Favorite{{ID: "F1", UserID: "u1", AccommodationID: "A2"}}
	accomsBefore := scenarioAccommodations()

	got := join.JoinFavoriteStatus(accoms, favorites, "u1")
	got[0].Accommodation.Title = "changed"
	got[0].Accommodation.FacilityIDs = nil

	assert.Equal(t, accomsBefore, accoms)
	assert.Equal(t, []entities.Favorite{{ID: "F1", UserID: "u1", AccommodationID: "A2"}}, favorites)
}

func TestJoinBookingsWithAccommodation_Dangling(t *testing.T) {
	accoms := scenarioAccommodations()
	bookings := []entities.Booking{
		{ID: "B1", UserID: "u1", AccommodationID: "A3"},
		{ID: "B2", UserID: "u1", AccommodationID: "missing"},
		{ID: "B3", UserID: "u1", AccommodationID: "A1"},
		{ID: "B4", UserID: "u1", AccommodationID: "also-missing"},
	}

	pairs := join.JoinBookingsWithAccommodation(bookings, accoms)

	require.Len(t, pairs, 4)
	dangling := 0
	for i, p := range pairs {
		assert.Equal(t, bookings[i].ID, p.Booking.ID)
		if p.Accommodation == nil {
			dangling++
			assert.True(t, apperrors.IsType(p.Err(), apperrors.ErrorTypeDanglingReference))
		} else {
			assert.Equal(t, p.Booking.AccommodationID, p.Accommodation.ID)
			assert.NoError(t, p.Err())
		}
	}
	assert.Equal(t, 2, dangling)

	renderable := join.Renderable(pairs)
	require.Len(t, renderable, 2)
	assert.Equal(t, "B1", renderable[0].Booking.ID)
	assert.Equal(t, "B3", renderable[1].Booking.ID)
}

func TestFilterByUser(t *testing.T) {
	favorites := []entities.Favorite{
		{ID: "F1", UserID: "u1", AccommodationID: "A1"},
		{ID: "F2", UserID: "u2", AccommodationID: "A1"},
		{ID: "F3", UserID: "u1", AccommodationID: "A2"},
	}
	bookings := []entities.Booking{{ID: "B1", UserID: "u2"}, {ID: "B2", UserID: "u1"}}
	comments := []entities.Comment{{ID: "C1", UserID: "u3"}}

	assert.Equal(t, []entities.Favorite{favorites[0], favorites[2]}, join.FilterByUser(favorites, "u1"))
	assert.Equal(t, []entities.Booking{bookings[1]}, join.FilterByUser(bookings, "u1"))
	assert.Empty(t, join.FilterByUser(comments, "u1"))
}

func TestSearchAndCategoryFilter(t *testing.T) {
	accoms := scenarioAccommodations()

	tests := []struct {
		name     string
		query    string
		category string
		want     []string
	}{
		{name: "villa in all categories", query: "villa", category: "All", want: []string{"A3"}},
		{name: "case insensitive query", query: "VILLA", category: "all", want: []string{"A3"}},
		{name: "matches location", query: "da lat", category: "All", want: []string{"A2"}},
		{name: "empty query and all", query: "", category: "All", want: []string{"A1", "A2", "A3"}},
		{name: "empty category acts as all", query: "", category: "", want: []string{"A1", "A2", "A3"}},
		{name: "category only", query: "", category: "beach", want: []string{"A1", "A3"}},
		{name: "both filters anded", query: "cabin", category: "Beach", want: []string{}},
		{name: "no match", query: "castle", category: "All", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := join.SearchAndCategoryFilter(accoms, tt.query, tt.category)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFavoriteAccommodations(t *testing.T) {
	favorites := []entities.Favorite{
		{ID: "F1", UserID: "u1", AccommodationID: "A3"},
		{ID: "F2", UserID: "u1", AccommodationID: "A1"},
		{ID: "F3", UserID: "u2", AccommodationID: "A2"},
	}

	got := join.FavoriteAccommodations(scenarioAccommodations(), favorites, "u1")
	assert.Equal(t, []string{"A1", "A3"}, ids(got))
}

func TestCommentsJoins(t *testing.T) {
	comments := []entities.Comment{
		{ID: "C1", UserID: "u1", AccommodationID: "A1", Rating: 5},
		{ID: "C2", UserID: "ghost", AccommodationID: "A1", Rating: 2},
		{ID: "C3", UserID: "u1", AccommodationID: "A2", Rating: 4},
	}
	users := []entities.User{{ID: "u1", FirstName: "An"}}

	forA1 := join.CommentsForAccommodation(comments, "A1")
	require.Len(t, forA1, 2)
	assert.InDelta(t, 3.5, join.AverageRating(forA1), 0.0001)
	assert.Equal(t, 0.0, join.AverageRating(nil))

	withUsers := join.JoinCommentsWithUser(forA1, users)
	require.Len(t, withUsers, 2)
	require.NotNil(t, withUsers[0].User)
	assert.Equal(t, "An", withUsers[0].User.FirstName)
	assert.Nil(t, withUsers[1].User)
}

func TestFacilitiesFor(t *testing.T) {
	facilities := []entities.Facility{
		{ID: "f1", Name: "Wifi"},
		{ID: "f2", Name: "Parking"},
		{ID: "f3", Name: "Pool"},
	}
	a := entities.Accommodation{ID: "A3", FacilityIDs: []string{"f3", "unknown", "f1"}}

	got := join.FacilitiesFor(a, facilities)
	require.Len(t, got, 2)
	assert.Equal(t, "Pool", got[0].Name)
	assert.Equal(t, "Wifi", got[1].Name)
}

func ids(accoms []entities.Accommodation) []string {
	out := make([]string, 0, len(accoms))
	for _, a := range accoms {
		out = append(out, a.ID)
	}
	return out
}
