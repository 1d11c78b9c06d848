package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

const legacyDocument = `{
  "facilities": [{"id": 1, "name": "Wifi", "category": "Internet"}],
  "users": [{"id": 1, "userId": "u1", "mobileNumber": "0241111111", "password": "secret", "firstName": "Ama"}],
  "accommodations": [
    {"id": "A1", "title": "Beach House", "location": "Accra", "price": 100, "rating": 4.5, "typeOfPlace": "Beach", "numberOfGuest": 4, "facilityIds": [1]},
    {"id": "A2", "title": "Cabin", "location": "Aburi", "price": 50, "rating": 4, "typeOfPlace": "Mountain", "numberOfGuest": 2}
  ],
  "bookings": [{"id": 7, "bookingId": "B1", "userId": "u1", "accomodationId": "A1", "paymentMethod": "cash", "totalPrice": 110}],
  "comments": [],
  "favorites": [{"id": 3, "favoriteId": "F1", "userId": "u1", "accomodationId": "A2"}]
}`

func openLegacy(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(legacyDocument), 0o644))
	store, err := Open(path, nil)
	require.NoError(t, err)
	return store, path
}

func TestOpen_LegacyDocument(t *testing.T) {
	store, _ := openLegacy(t)
	ctx := context.Background()

	favorites, err := store.Favorites().List(ctx, repositories.OwnershipFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "F1", favorites[0].ID)
	assert.Equal(t, "A2", favorites[0].AccommodationID)

	booking, err := store.Bookings().GetByID(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, "A1", booking.AccommodationID)

	accommodation, err := store.Accommodations().GetByID(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, accommodation.FacilityIDs)
}

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "none.json"), nil)
	require.NoError(t, err)
	assert.Empty(t, store.Snapshot().Accommodations)
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("["), 0o644))
	_, err := Open(path, nil)
	assert.Error(t, err)
}

func TestFavorites_UniquePairAndPersistence(t *testing.T) {
	store, path := openLegacy(t)
	ctx := context.Background()
	favorites := store.Favorites()

	err := favorites.Create(ctx, &entities.Favorite{ID: "F2", UserID: "u1", AccommodationID: "A2"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	require.NoError(t, favorites.Create(ctx, &entities.Favorite{ID: "F2", UserID: "u1", AccommodationID: "A1"}))
	require.NoError(t, favorites.Delete(ctx, "F1"))

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	got, err := reopened.Favorites().List(ctx, repositories.OwnershipFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entities.Favorite{ID: "F2", UserID: "u1", AccommodationID: "A1"}, got[0])
}

func TestDelete_NotFoundLeavesDocumentUntouched(t *testing.T) {
	store := NewMemoryStore(&entities.Dataset{Bookings: []entities.Booking{{ID: "B1", UserID: "u1"}}})
	ctx := context.Background()

	err := store.Bookings().Delete(ctx, "missing")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Len(t, store.Snapshot().Bookings, 1)

	require.NoError(t, store.Bookings().Delete(ctx, "B1"))
	assert.Empty(t, store.Snapshot().Bookings)
}

func TestOwnershipFilters(t *testing.T) {
	store := NewMemoryStore(&entities.Dataset{Comments: []entities.Comment{
		{ID: "C1", UserID: "u1", AccommodationID: "A1", Rating: 5},
		{ID: "C2", UserID: "u2", AccommodationID: "A1", Rating: 3},
		{ID: "C3", UserID: "u1", AccommodationID: "A2", Rating: 4},
	}})
	ctx := context.Background()

	byAccommodation, err := store.Comments().List(ctx, repositories.OwnershipFilter{AccommodationID: "A1"})
	require.NoError(t, err)
	assert.Len(t, byAccommodation, 2)

	both, err := store.Comments().List(ctx, repositories.OwnershipFilter{UserID: "u1", AccommodationID: "A2"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "C3", both[0].ID)
}

func TestUsers(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()
	users := store.Users()

	require.NoError(t, users.Create(ctx, &entities.User{ID: "u1", Email: "Ama@Example.com", MobileNumber: "024"}))
	assert.True(t, apperrors.IsType(users.Create(ctx, &entities.User{ID: "u1"}), apperrors.ErrorTypeConflict))

	found, err := users.List(ctx, repositories.UserFilter{Email: "ama@example.com"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, users.Update(ctx, &entities.User{ID: "u1", FirstName: "Ama"}))
	got, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ama", got.FirstName)

	assert.True(t, apperrors.IsType(users.Update(ctx, &entities.User{ID: "u9"}), apperrors.ErrorTypeNotFound))
}

func TestAccommodations_GetByIDsAndUpsert(t *testing.T) {
	store := NewMemoryStore(&entities.Dataset{Accommodations: []entities.Accommodation{
		{ID: "A1", Title: "One"}, {ID: "A2", Title: "Two"},
	}})
	ctx := context.Background()
	repo := store.Accommodations()

	got, err := repo.GetByIDs(ctx, []string{"A2", "missing", "A1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A2", got[0].ID)
	assert.Equal(t, "A1", got[1].ID)

	require.NoError(t, repo.Upsert(ctx, &entities.Accommodation{ID: "A1", Title: "Renamed"}))
	require.NoError(t, repo.Upsert(ctx, &entities.Accommodation{ID: "A3", Title: "Three"}))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Renamed", all[0].Title)
}

func TestReadsReturnCopies(t *testing.T) {
	store := NewMemoryStore(&entities.Dataset{Favorites: []entities.Favorite{{ID: "F1", UserID: "u1", AccommodationID: "A1"}}})
	ctx := context.Background()

	got, err := store.Favorites().List(ctx, repositories.OwnershipFilter{})
	require.NoError(t, err)
	got[0].UserID = "changed"

	again, err := store.Favorites().GetByID(ctx, "F1")
	require.NoError(t, err)
	assert.Equal(t, "u1", again.UserID)
}

func TestEmptyDocumentListsAreNotNil(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	accommodations, err := store.Accommodations().List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, accommodations)

	facilities, err := store.Facilities().List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, facilities)

	bookings, err := store.Bookings().List(ctx, repositories.OwnershipFilter{})
	require.NoError(t, err)
	assert.NotNil(t, bookings)
}

func TestCreate_DuplicateIDIsConflict(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	booking := &entities.Booking{ID: "B1", UserID: "u1", AccommodationID: "A1", PaymentMethod: "cash", TotalPrice: 110}
	require.NoError(t, store.Bookings().Create(ctx, booking))
	assert.True(t, apperrors.IsType(store.Bookings().Create(ctx, booking), apperrors.ErrorTypeConflict))

	comment := &entities.Comment{ID: "C1", UserID: "u1", AccommodationID: "A1", Rating: 5}
	require.NoError(t, store.Comments().Create(ctx, comment))
	assert.True(t, apperrors.IsType(store.Comments().Create(ctx, comment), apperrors.ErrorTypeConflict))
}
