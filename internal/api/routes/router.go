package routes

import (
	"net/http"

	"github.com/zatekoja/staybook/internal/api/handlers"
	"github.com/zatekoja/staybook/internal/api/loaders"
	"github.com/zatekoja/staybook/internal/api/middleware"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	"github.com/zatekoja/staybook/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	accommodationHandler *handlers.AccommodationHandler
	favoriteHandler      *handlers.FavoriteHandler
	bookingHandler       *handlers.BookingHandler
	commentHandler       *handlers.CommentHandler
	userHandler          *handlers.UserHandler
	sseHandler           *handlers.SSEHandler
	healthHandler        *handlers.HealthHandler

	accommodationRepo repositories.AccommodationRepository
	cacheMiddleware   *middleware.CacheMiddleware
	allowedOrigins    []string
	metrics           *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	accommodationHandler *handlers.AccommodationHandler,
	favoriteHandler *handlers.FavoriteHandler,
	bookingHandler *handlers.BookingHandler,
	commentHandler *handlers.CommentHandler,
	userHandler *handlers.UserHandler,
	sseHandler *handlers.SSEHandler,
	healthHandler *handlers.HealthHandler,
	accommodationRepo repositories.AccommodationRepository,
	cacheMiddleware *middleware.CacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                  http.NewServeMux(),
		accommodationHandler: accommodationHandler,
		favoriteHandler:      favoriteHandler,
		bookingHandler:       bookingHandler,
		commentHandler:       commentHandler,
		userHandler:          userHandler,
		sseHandler:           sseHandler,
		healthHandler:        healthHandler,
		accommodationRepo:    accommodationRepo,
		cacheMiddleware:      cacheMiddleware,
		allowedOrigins:       allowedOrigins,
		metrics:              metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Catalog
	r.mux.HandleFunc("GET /accommodations", r.accommodationHandler.ListAccommodations)
	r.mux.HandleFunc("GET /accommodations/{id}", r.accommodationHandler.GetAccommodation)
	r.mux.HandleFunc("GET /facilities", r.accommodationHandler.ListFacilities)

	// Favorites
	r.mux.HandleFunc("GET /favorites", r.favoriteHandler.ListFavorites)
	r.mux.HandleFunc("POST /favorites", r.favoriteHandler.CreateFavorite)
	r.mux.HandleFunc("DELETE /favorites/{id}", r.favoriteHandler.DeleteFavorite)

	// Bookings
	r.mux.HandleFunc("GET /bookings", r.bookingHandler.ListBookings)
	r.mux.HandleFunc("POST /bookings", r.bookingHandler.CreateBooking)
	r.mux.HandleFunc("GET /bookings/{id}", r.bookingHandler.GetBooking)
	r.mux.HandleFunc("DELETE /bookings/{id}", r.bookingHandler.DeleteBooking)

	// Comments
	r.mux.HandleFunc("GET /comments", r.commentHandler.ListComments)
	r.mux.HandleFunc("POST /comments", r.commentHandler.CreateComment)

	// Users
	r.mux.HandleFunc("GET /users", r.userHandler.ListUsers)
	r.mux.HandleFunc("POST /users", r.userHandler.RegisterUser)
	r.mux.HandleFunc("GET /users/{id}", r.userHandler.GetUser)
	r.mux.HandleFunc("PUT /users/{id}", r.userHandler.UpdateUser)

	if r.sseHandler != nil {
		r.mux.HandleFunc("GET /events", r.sseHandler.StreamMutations)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = loaders.Middleware(r.accommodationRepo)(handler)
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
