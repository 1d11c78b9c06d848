package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/zatekoja/staybook/internal/adapters/document"
	"github.com/zatekoja/staybook/internal/adapters/events"
	"github.com/zatekoja/staybook/internal/api/handlers"
	"github.com/zatekoja/staybook/internal/api/routes"
	"github.com/zatekoja/staybook/internal/application/services"
	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	"github.com/zatekoja/staybook/pkg/config"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

func testDataset() *entities.Dataset {
	return &entities.Dataset{
		Accommodations: []entities.Accommodation{
			{ID: "A1", Title: "Seaside", Location: "Accra", Price: 100, Rating: 4.5, Category: "Beach", Capacity: 4},
			{ID: "A2", Title: "Cabin", Location: "Aburi", Price: 50, Rating: 4, Category: "Mountain", Capacity: 2},
		},
		Users: []entities.User{
			{ID: "u1", Email: "ama@example.com", Password: "secret"},
			{ID: "u2", Email: "kofi@example.com", Password: "secret"},
		},
		Favorites: []entities.Favorite{{ID: "F1", UserID: "u1", AccommodationID: "A2"}},
		Bookings: []entities.Booking{
			{ID: "B1", UserID: "u1", AccommodationID: "A1", PaymentMethod: "cash", TotalPrice: 110},
			{ID: "B2", UserID: "u1", AccommodationID: "A404", PaymentMethod: "card", TotalPrice: 60},
			{ID: "B3", UserID: "u2", AccommodationID: "A2", PaymentMethod: "cash", TotalPrice: 60},
		},
	}
}

// newAPIServer serves the Data Access API over an in-memory document.
// wrap, when set, intercepts requests before the router.
func newAPIServer(t *testing.T, wrap func(http.Handler) http.Handler) (*httptest.Server, *document.Store) {
	t.Helper()

	store := document.NewMemoryStore(testDataset())
	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	router := routes.NewRouter(
		handlers.NewAccommodationHandler(services.NewAccommodationService(store.Accommodations(), store.Facilities(), nil, bus)),
		handlers.NewFavoriteHandler(services.NewFavoriteService(store.Favorites(), store.Accommodations(), bus)),
		handlers.NewBookingHandler(services.NewBookingService(store.Bookings(), store.Accommodations(), bus)),
		handlers.NewCommentHandler(services.NewCommentService(store.Comments(), store.Accommodations(), bus)),
		handlers.NewUserHandler(services.NewUserService(store.Users(), bus)),
		nil,
		handlers.NewHealthHandler(),
		store.Accommodations(),
		nil,
		nil,
		nil,
	)

	handler := router.SetupRoutes()
	if wrap != nil {
		handler = wrap(handler)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, store
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		API:     config.APIClientConfig{BaseURL: baseURL, TimeoutSeconds: 2},
		Session: config.SessionConfig{Backend: "file", FilePath: filepath.Join(t.TempDir(), "session.json")},
		Booking: config.BookingConfig{KayakFee: 5, ParkingFee: 5, PaymentMethod: "cash"},
	}
}

// run executes one staybook invocation and returns what it printed
func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp(func(ctx *cli.Context) (*client, error) {
		return newClient(ctx.Context, cfg)
	})
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.RunContext(context.Background(), append([]string{"staybook"}, args...))
	return out.String(), err
}

func login(t *testing.T, cfg *config.Config) {
	t.Helper()
	out, err := run(t, cfg, "login", "--email", "ama@example.com", "--password", "secret")
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as ama@example.com")
}

func TestFavoriteCommand_AddThenRemove(t *testing.T) {
	server, store := newAPIServer(t, nil)
	cfg := testConfig(t, server.URL)
	login(t, cfg)

	out, err := run(t, cfg, "favorite", "A1")
	require.NoError(t, err)
	assert.Contains(t, out, "Added to favorites (2 saved)")

	saved, err := store.Favorites().List(context.Background(), repositories.OwnershipFilter{UserID: "u1", AccommodationID: "A1"})
	require.NoError(t, err)
	require.Len(t, saved, 1)

	out, err = run(t, cfg, "favorite", "A1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed from favorites (1 saved)")

	saved, err = store.Favorites().List(context.Background(), repositories.OwnershipFilter{UserID: "u1", AccommodationID: "A1"})
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestBookCommand_ServerErrorRollsBack(t *testing.T) {
	server, store := newAPIServer(t, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == "/bookings" {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	cfg := testConfig(t, server.URL)
	login(t, cfg)

	out, err := run(t, cfg, "book", "A1", "--payment", "card")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "booking not saved")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
	assert.Contains(t, out, "110.00")
	assert.NotContains(t, out, "Booked")

	bookings, err := store.Bookings().List(context.Background(), repositories.OwnershipFilter{})
	require.NoError(t, err)
	assert.Len(t, bookings, 3)
}

func TestBookCommand_Commits(t *testing.T) {
	server, store := newAPIServer(t, nil)
	cfg := testConfig(t, server.URL)
	login(t, cfg)

	out, err := run(t, cfg, "book", "A2", "--partial")
	require.NoError(t, err)
	assert.Contains(t, out, "Due now")
	assert.Contains(t, out, "Booked Cabin")

	bookings, err := store.Bookings().List(context.Background(), repositories.OwnershipFilter{AccommodationID: "A2", UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, 60.0, bookings[0].TotalPrice)
}

func TestBookingsCommand_SkipsDanglingBookings(t *testing.T) {
	server, _ := newAPIServer(t, nil)
	cfg := testConfig(t, server.URL)
	login(t, cfg)

	out, err := run(t, cfg, "bookings")
	require.NoError(t, err)
	assert.Contains(t, out, "B1")
	assert.Contains(t, out, "Seaside")
	assert.NotContains(t, out, "B2", "booking of a missing accommodation is skipped")
	assert.NotContains(t, out, "B3", "other users' bookings are hidden")
}

func TestCancelCommand(t *testing.T) {
	server, store := newAPIServer(t, nil)
	cfg := testConfig(t, server.URL)
	login(t, cfg)

	out, err := run(t, cfg, "cancel", "B1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled booking B1")

	_, err = store.Bookings().GetByID(context.Background(), "B1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestListCommand_SearchAndFavoriteMarkers(t *testing.T) {
	server, _ := newAPIServer(t, nil)
	cfg := testConfig(t, server.URL)
	login(t, cfg)

	out, err := run(t, cfg, "list", "--q", "CAB")
	require.NoError(t, err)
	assert.Contains(t, out, "Cabin")
	assert.NotContains(t, out, "Seaside")

	var marked bool
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Cabin") {
			marked = strings.HasPrefix(line, "*")
		}
	}
	assert.True(t, marked, "favorited accommodation carries a marker")

	out, err = run(t, cfg, "list", "--max-price", "60")
	require.NoError(t, err)
	assert.NotContains(t, out, "Seaside")
}

func TestMutatingCommands_SignedOutMakeNoRequests(t *testing.T) {
	var requests atomic.Int32
	server, _ := newAPIServer(t, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			next.ServeHTTP(w, r)
		})
	})
	cfg := testConfig(t, server.URL)

	_, err := run(t, cfg, "favorite", "A1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated))

	_, err = run(t, cfg, "comment", "A1", "--rating", "5", "--text", "Lovely")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated))

	_, err = run(t, cfg, "cancel", "B1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated))

	assert.Equal(t, int32(0), requests.Load())
}
