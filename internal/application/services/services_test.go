package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/staybook/internal/adapters/document"
	"github.com/zatekoja/staybook/internal/adapters/events"
	"github.com/zatekoja/staybook/internal/application/services"
	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) EnsureCollection(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSearchRepository) Index(ctx context.Context, accommodation *entities.Accommodation) error {
	return m.Called(ctx, accommodation).Error(0)
}

func (m *MockSearchRepository) BulkIndex(ctx context.Context, accommodations []entities.Accommodation) error {
	return m.Called(ctx, accommodations).Error(0)
}

func (m *MockSearchRepository) Search(ctx context.Context, params repositories.SearchParams) ([]string, error) {
	args := m.Called(ctx, params)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func seededStore() *document.Store {
	return document.NewMemoryStore(&entities.Dataset{
		Accommodations: []entities.Accommodation{
			{ID: "A1", Title: "Seaside", Location: "Accra", Price: 100, Rating: 4.5, Category: "Beach", Capacity: 4},
			{ID: "A2", Title: "Cabin", Location: "Aburi", Price: 50, Rating: 4, Category: "Mountain", Capacity: 2},
			{ID: "A3", Title: "Beach Villa", Location: "Ada", Price: 200, Rating: 5, Category: "Beach", Capacity: 6},
		},
		Users: []entities.User{{ID: "u1", MobileNumber: "0241111111", Email: "ama@example.com", Password: "secret"}},
	})
}

func subscribe(t *testing.T, bus providers.EventBus, channel string) <-chan *entities.MutationEvent {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ch, err := bus.Subscribe(ctx, channel)
	require.NoError(t, err)
	return ch
}

func nextEvent(t *testing.T, ch <-chan *entities.MutationEvent) *entities.MutationEvent {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("no event published")
		return nil
	}
}

func TestAccommodationService_ListWithoutSearchIndex(t *testing.T) {
	store := seededStore()
	svc := services.NewAccommodationService(store.Accommodations(), store.Facilities(), nil, nil)
	ctx := context.Background()

	all, err := svc.List(ctx, repositories.SearchParams{Category: "All"})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	villas, err := svc.List(ctx, repositories.SearchParams{Query: "villa", Category: "All"})
	require.NoError(t, err)
	require.Len(t, villas, 1)
	assert.Equal(t, "A3", villas[0].ID)

	beach, err := svc.List(ctx, repositories.SearchParams{Category: "beach"})
	require.NoError(t, err)
	assert.Len(t, beach, 2)
}

func TestAccommodationService_ListUsesSearchIndexOrder(t *testing.T) {
	store := seededStore()
	search := new(MockSearchRepository)
	search.On("Search", mock.Anything, repositories.SearchParams{Query: "a", Category: "Beach"}).
		Return([]string{"A3", "A1"}, nil)

	svc := services.NewAccommodationService(store.Accommodations(), store.Facilities(), search, nil)
	got, err := svc.List(context.Background(), repositories.SearchParams{Query: " a ", Category: "Beach"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A3", got[0].ID)
	assert.Equal(t, "A1", got[1].ID)
	search.AssertExpectations(t)
}

func TestAccommodationService_SearchHitsFollowSubstringRules(t *testing.T) {
	store := seededStore()
	search := new(MockSearchRepository)
	// A loose index match returns a record the substring rule rejects
	search.On("Search", mock.Anything, repositories.SearchParams{Query: "illa", Category: "All"}).
		Return([]string{"A2", "A3"}, nil)

	svc := services.NewAccommodationService(store.Accommodations(), store.Facilities(), search, nil)
	got, err := svc.List(context.Background(), repositories.SearchParams{Query: "illa", Category: "All"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A3", got[0].ID)
	search.AssertExpectations(t)
}

func TestAccommodationService_SearchFailureFallsBack(t *testing.T) {
	store := seededStore()
	search := new(MockSearchRepository)
	search.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("index down"))

	svc := services.NewAccommodationService(store.Accommodations(), store.Facilities(), search, nil)
	got, err := svc.List(context.Background(), repositories.SearchParams{Query: "ABURI"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A2", got[0].ID)
}

func TestAccommodationService_UpsertIndexesAndValidates(t *testing.T) {
	store := seededStore()
	search := new(MockSearchRepository)
	search.On("Index", mock.Anything, mock.MatchedBy(func(a *entities.Accommodation) bool { return a.ID == "A4" })).Return(nil)

	svc := services.NewAccommodationService(store.Accommodations(), store.Facilities(), search, nil)
	ctx := context.Background()

	err := svc.Upsert(ctx, &entities.Accommodation{ID: "A5", Title: "Free", Price: 0, Capacity: 1})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidInput))

	require.NoError(t, svc.Upsert(ctx, &entities.Accommodation{ID: "A4", Title: "Loft", Price: 80, Rating: 3, Capacity: 2}))
	search.AssertExpectations(t)
}

func TestAccommodationService_Reindex(t *testing.T) {
	store := seededStore()
	search := new(MockSearchRepository)
	search.On("EnsureCollection", mock.Anything).Return(nil)
	search.On("BulkIndex", mock.Anything, mock.MatchedBy(func(a []entities.Accommodation) bool { return len(a) == 3 })).Return(nil)

	svc := services.NewAccommodationService(store.Accommodations(), store.Facilities(), search, nil)
	count, err := svc.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = services.NewAccommodationService(store.Accommodations(), store.Facilities(), nil, nil).Reindex(context.Background())
	assert.Error(t, err)
}

func TestFavoriteService_CreateConflictAndEvents(t *testing.T) {
	store := seededStore()
	bus := events.NewMemoryEventBus()
	defer bus.Close()
	userEvents := subscribe(t, bus, providers.GetUserChannel("u1"))

	svc := services.NewFavoriteService(store.Favorites(), store.Accommodations(), bus)
	ctx := context.Background()

	favorite := &entities.Favorite{UserID: "u1", AccommodationID: "A2"}
	require.NoError(t, svc.Create(ctx, favorite))
	assert.NotEmpty(t, favorite.ID)

	event := nextEvent(t, userEvents)
	assert.Equal(t, entities.CollectionFavorites, event.Collection)
	assert.Equal(t, entities.MutationActionCreated, event.Action)
	assert.Equal(t, favorite.ID, event.EntityID)

	err := svc.Create(ctx, &entities.Favorite{UserID: "u1", AccommodationID: "A2"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	err = svc.Create(ctx, &entities.Favorite{UserID: "u1", AccommodationID: "nope"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidInput))

	require.NoError(t, svc.Delete(ctx, favorite.ID))
	assert.Equal(t, entities.MutationActionDeleted, nextEvent(t, userEvents).Action)

	err = svc.Delete(ctx, favorite.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestBookingService_CreateValidatesAndStamps(t *testing.T) {
	store := seededStore()
	svc := services.NewBookingService(store.Bookings(), store.Accommodations(), nil)
	ctx := context.Background()

	err := svc.Create(ctx, &entities.Booking{UserID: "u1", AccommodationID: "A1", PaymentMethod: "cash"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidInput), "total price must be positive")

	err = svc.Create(ctx, &entities.Booking{UserID: "u1", AccommodationID: "A1", PaymentMethod: "bitcoin", TotalPrice: 110})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidInput))

	err = svc.Create(ctx, &entities.Booking{UserID: "u1", AccommodationID: "A9", PaymentMethod: "cash", TotalPrice: 110})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidInput), "unknown accommodation")

	booking := &entities.Booking{UserID: "u1", AccommodationID: "A1", PaymentMethod: "card", TotalPrice: 110}
	require.NoError(t, svc.Create(ctx, booking))
	assert.NotEmpty(t, booking.ID)
	_, err = time.Parse(entities.BookingDateLayout, booking.BookingDate)
	assert.NoError(t, err)
	_, err = time.Parse(entities.BookingTimeLayout, booking.BookingTime)
	assert.NoError(t, err)

	mine, err := svc.List(ctx, repositories.OwnershipFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, svc.Delete(ctx, booking.ID))
	_, err = svc.GetByID(ctx, booking.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestCommentService_Create(t *testing.T) {
	store := seededStore()
	svc := services.NewCommentService(store.Comments(), store.Accommodations(), nil)
	ctx := context.Background()

	err := svc.Create(ctx, &entities.Comment{UserID: "u1", AccommodationID: "A1", Text: "ok", Rating: 6})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidInput))

	comment := &entities.Comment{UserID: "u1", AccommodationID: "A1", Text: "  Lovely stay ", Rating: 5}
	require.NoError(t, svc.Create(ctx, comment))
	assert.Equal(t, "Lovely stay", comment.Text)

	got, err := svc.List(ctx, repositories.OwnershipFilter{AccommodationID: "A1"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUserService_RegisterAndUpdate(t *testing.T) {
	store := seededStore()
	svc := services.NewUserService(store.Users(), nil)
	ctx := context.Background()

	err := svc.Register(ctx, &entities.User{Email: "AMA@example.com", Password: "x"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	err = svc.Register(ctx, &entities.User{Password: "x"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidInput))

	user := &entities.User{MobileNumber: "0243333333", Password: "pw", FirstName: "Yaw"}
	require.NoError(t, svc.Register(ctx, user))
	assert.NotEmpty(t, user.ID)

	user.LastName = "Mensah"
	require.NoError(t, svc.Update(ctx, user))
	got, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yaw Mensah", got.FullName())

	err = svc.Update(ctx, &entities.User{ID: "ghost"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestCacheWarmingService_ReadsThroughRepository(t *testing.T) {
	store := seededStore()
	svc := services.NewCacheWarmingService(store.Accommodations())
	assert.NoError(t, svc.WarmCache(context.Background()))
}
