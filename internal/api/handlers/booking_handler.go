package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/staybook/internal/adapters/wire"
	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
)

// BookingService is the bookings behaviour the handler depends on
type BookingService interface {
	List(ctx context.Context, filter repositories.OwnershipFilter) ([]entities.Booking, error)
	GetByID(ctx context.Context, id string) (*entities.Booking, error)
	Create(ctx context.Context, booking *entities.Booking) error
	Delete(ctx context.Context, id string) error
}

// BookingHandler handles booking requests
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// ListBookings handles GET /bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.List(r.Context(), ownershipFilter(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if !expandsAccommodation(r) {
		respondWithJSON(w, http.StatusOK, bookings)
		return
	}

	views, err := expandAccommodations(r.Context(), bookings, entities.Booking.AccommodationRef, bookingView)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, views)
}

// GetBooking handles GET /bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if !expandsAccommodation(r) {
		respondWithJSON(w, http.StatusOK, booking)
		return
	}

	views, err := expandAccommodations(r.Context(), []entities.Booking{*booking}, entities.Booking.AccommodationRef, bookingView)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, views[0])
}

// CreateBooking handles POST /bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := decodeBody(w, r, wire.DecodeBooking)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.service.Create(r.Context(), &booking); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, booking)
}

// DeleteBooking handles DELETE /bookings/{id}
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{})
}
