package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// BookingService handles business logic for bookings
type BookingService struct {
	repo           repositories.BookingRepository
	accommodations repositories.AccommodationRepository
	events         publisher
	now            func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	repo repositories.BookingRepository,
	accommodations repositories.AccommodationRepository,
	events providers.EventBus,
) *BookingService {
	return &BookingService{
		repo:           repo,
		accommodations: accommodations,
		events:         publisher{bus: events},
		now:            time.Now,
	}
}

// List retrieves bookings matching the filter
func (s *BookingService) List(ctx context.Context, filter repositories.OwnershipFilter) ([]entities.Booking, error) {
	return s.repo.List(ctx, filter)
}

// GetByID retrieves a booking by ID
func (s *BookingService) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and stores a booking. Missing date or time are stamped with the current time.
func (s *BookingService) Create(ctx context.Context, booking *entities.Booking) error {
	if err := booking.Validate(); err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	if err := requireAccommodation(ctx, s.accommodations, booking.AccommodationID); err != nil {
		return err
	}

	now := s.now()
	if booking.BookingDate == "" {
		booking.BookingDate = now.Format(entities.BookingDateLayout)
	}
	if booking.BookingTime == "" {
		booking.BookingTime = now.Format(entities.BookingTimeLayout)
	}

	booking.ID = uuid.NewString()
	if err := s.repo.Create(ctx, booking); err != nil {
		return err
	}

	s.events.publish(ctx, entities.NewMutationEvent(entities.CollectionBookings, entities.MutationActionCreated, booking.ID).
		WithRefs(booking.UserID, booking.AccommodationID))
	return nil
}

// Delete cancels a booking
func (s *BookingService) Delete(ctx context.Context, id string) error {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.publish(ctx, entities.NewMutationEvent(entities.CollectionBookings, entities.MutationActionDeleted, id).
		WithRefs(booking.UserID, booking.AccommodationID))
	return nil
}
