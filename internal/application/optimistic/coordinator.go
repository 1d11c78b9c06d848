// Package optimistic applies favorite, booking and comment mutations to a
// caller-owned list immediately and reconciles them once the Data Access API
// answers.
//
// Each operation returns the optimistically updated list and a Handle. When
// the handle settles, the owner passes the list it holds at that moment to
// Result.Apply. Mutations on the same entity key run in issue order; the
// coordinator never touches the owner's list itself.
package optimistic

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/internal/infrastructure/observability"
	"github.com/zatekoja/staybook/pkg/config"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// PlaceholderPrefix marks identifiers assigned locally before the server answers
const PlaceholderPrefix = "tmp-"

// IsPlaceholder reports whether id was assigned locally
func IsPlaceholder(id string) bool {
	return strings.HasPrefix(id, PlaceholderPrefix)
}

// MutationAPI is the part of the Data Access API the coordinator writes through
type MutationAPI interface {
	providers.FavoritesAPI
	providers.BookingsAPI
	providers.CommentsAPI
}

// PaymentOption selects how much of the total is charged at checkout
type PaymentOption string

const (
	PaymentFull    PaymentOption = "full"
	PaymentPartial PaymentOption = "partial"
)

// Charges is the price breakdown of a booking
type Charges struct {
	NightlyPrice float64
	Fees         []config.Fee
	Total        float64
}

// AmountDue returns what is charged now for the given option
func (c Charges) AmountDue(option PaymentOption) float64 {
	if option == PaymentPartial {
		return math.Ceil(c.Total * 0.5)
	}
	return c.Total
}

// FavoriteToggle is the outcome of ToggleFavorite
type FavoriteToggle struct {
	Next   []entities.Favorite
	Added  bool
	Handle *Handle[entities.Favorite]
}

// BookingSubmission is the outcome of CreateBooking
type BookingSubmission struct {
	Next    []entities.Booking
	Booking entities.Booking
	Charges Charges
	// ReferenceNumber is shown to the user only; the server identifier is authoritative.
	ReferenceNumber string
	Handle          *Handle[entities.Booking]
}

// BookingCancellation is the outcome of CancelBooking
type BookingCancellation struct {
	Next      []entities.Booking
	Cancelled entities.Booking
	Handle    *Handle[entities.Booking]
}

// CommentSubmission is the outcome of PostComment
type CommentSubmission struct {
	Next    []entities.Comment
	Comment entities.Comment
	Handle  *Handle[entities.Comment]
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithFees sets the fixed charges added to every booking
func WithFees(fees []config.Fee) Option {
	return func(c *Coordinator) {
		c.fees = slices.Clone(fees)
	}
}

// WithClock overrides the time source used to stamp bookings
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// WithRand sets the random source for reference numbers
func WithRand(r *rand.Rand) Option {
	return func(c *Coordinator) {
		c.rng = r
	}
}

// WithMetrics records mutation outcomes
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// Coordinator performs optimistic mutations against the Data Access API
type Coordinator struct {
	api     MutationAPI
	fees    []config.Fee
	now     func() time.Time
	metrics *observability.Metrics

	rngMu sync.Mutex
	rng   *rand.Rand

	queue *keyQueue
	ids   *idMap
}

// NewCoordinator creates a coordinator writing through api
func NewCoordinator(api MutationAPI, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		api:   api,
		now:   time.Now,
		queue: newKeyQueue(),
		ids:   newIDMap(placeholderCapacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, fee := range c.fees {
		if fee.Amount < 0 {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf("fee %q must not be negative", fee.Name))
		}
	}
	return c, nil
}

// ToggleFavorite adds the (userID, accommodationID) favorite when absent from
// current and removes it when present
func (c *Coordinator) ToggleFavorite(ctx context.Context, current []entities.Favorite, userID, accommodationID string) (FavoriteToggle, error) {
	if userID == "" {
		return FavoriteToggle{Next: current}, apperrors.NewUnauthenticatedError("sign in to manage favorites")
	}
	if accommodationID == "" {
		return FavoriteToggle{Next: current}, apperrors.NewInvalidInputError("accommodation id is required")
	}

	key := "favorite:" + userID + ":" + accommodationID
	i := slices.IndexFunc(current, func(f entities.Favorite) bool { return f.Matches(userID, accommodationID) })

	if i < 0 {
		placeholder := entities.Favorite{
			ID:              newPlaceholderID(),
			UserID:          userID,
			AccommodationID: accommodationID,
		}
		h := launch(ctx, c, "favorite.add", key, func(ctx context.Context) Result[entities.Favorite] {
			created, err := c.api.CreateFavorite(ctx, userID, accommodationID)
			if err != nil {
				return rolledBackCreate(placeholder, networkFailure("add favorite", err), favoriteID)
			}
			c.ids.set(placeholder.ID, created.ID)
			return committedCreate(placeholder.ID, *created, favoriteID)
		})
		return FavoriteToggle{Next: appended(current, placeholder), Added: true, Handle: h}, nil
	}

	existing := current[i]
	h := launch(ctx, c, "favorite.remove", key, func(ctx context.Context) Result[entities.Favorite] {
		return c.deleteFavorite(ctx, existing, i)
	})
	return FavoriteToggle{Next: removedAt(current, i), Handle: h}, nil
}

func (c *Coordinator) deleteFavorite(ctx context.Context, existing entities.Favorite, index int) Result[entities.Favorite] {
	serverID, ok := c.ids.resolve(existing.ID)
	if !ok {
		return committedDelete(existing, []string{existing.ID}, favoriteID)
	}
	ids := []string{existing.ID, serverID}
	if err := c.api.DeleteFavorite(ctx, serverID); err != nil {
		restored := existing
		restored.ID = serverID
		return rolledBackDelete(restored, index, ids, networkFailure("remove favorite", err), favoriteID)
	}
	c.ids.forget(existing.ID)
	return committedDelete(existing, ids, favoriteID)
}

// CreateBooking books accommodation for userID. The total is the nightly
// price plus every configured fee.
func (c *Coordinator) CreateBooking(ctx context.Context, current []entities.Booking, accommodation entities.Accommodation, userID, paymentMethod string) (BookingSubmission, error) {
	if userID == "" {
		return BookingSubmission{Next: current}, apperrors.NewUnauthenticatedError("sign in to book")
	}
	if accommodation.ID == "" {
		return BookingSubmission{Next: current}, apperrors.NewInvalidInputError("accommodation id is required")
	}
	if accommodation.Price <= 0 {
		return BookingSubmission{Next: current}, apperrors.NewInvalidInputError(
			fmt.Sprintf("accommodation %s has non-positive price %.2f", accommodation.ID, accommodation.Price))
	}

	charges := c.Charges(accommodation.Price)
	now := c.now()
	placeholder := entities.Booking{
		ID:              newPlaceholderID(),
		UserID:          userID,
		AccommodationID: accommodation.ID,
		BookingDate:     now.Format(entities.BookingDateLayout),
		BookingTime:     now.Format(entities.BookingTimeLayout),
		PaymentMethod:   strings.ToLower(strings.TrimSpace(paymentMethod)),
		TotalPrice:      charges.Total,
	}
	if err := placeholder.Validate(); err != nil {
		return BookingSubmission{Next: current}, apperrors.NewInvalidInputError(err.Error())
	}

	h := launch(ctx, c, "booking.create", "booking:"+placeholder.ID, func(ctx context.Context) Result[entities.Booking] {
		req := placeholder
		req.ID = ""
		created, err := c.api.CreateBooking(ctx, &req)
		if err != nil {
			return rolledBackCreate(placeholder, networkFailure("create booking", err), bookingID)
		}
		c.ids.set(placeholder.ID, created.ID)
		return committedCreate(placeholder.ID, *created, bookingID)
	})

	return BookingSubmission{
		Next:            appended(current, placeholder),
		Booking:         placeholder,
		Charges:         charges,
		ReferenceNumber: c.referenceNumber(),
		Handle:          h,
	}, nil
}

// CancelBooking removes booking id from current and deletes it on the server
func (c *Coordinator) CancelBooking(ctx context.Context, current []entities.Booking, id string) (BookingCancellation, error) {
	i := slices.IndexFunc(current, func(b entities.Booking) bool { return b.ID == id })
	if i < 0 {
		return BookingCancellation{Next: current}, apperrors.NewNotFoundError("booking " + id + " is not in the list")
	}

	existing := current[i]
	h := launch(ctx, c, "booking.cancel", "booking:"+id, func(ctx context.Context) Result[entities.Booking] {
		serverID, ok := c.ids.resolve(existing.ID)
		if !ok {
			return committedDelete(existing, []string{existing.ID}, bookingID)
		}
		ids := []string{existing.ID, serverID}
		if err := c.api.DeleteBooking(ctx, serverID); err != nil {
			restored := existing
			restored.ID = serverID
			return rolledBackDelete(restored, i, ids, networkFailure("cancel booking", err), bookingID)
		}
		c.ids.forget(existing.ID)
		return committedDelete(existing, ids, bookingID)
	})

	return BookingCancellation{Next: removedAt(current, i), Cancelled: existing, Handle: h}, nil
}

// PostComment publishes a review of accommodationID
func (c *Coordinator) PostComment(ctx context.Context, current []entities.Comment, userID, accommodationID, text string, rating int) (CommentSubmission, error) {
	if userID == "" {
		return CommentSubmission{Next: current}, apperrors.NewUnauthenticatedError("sign in to review")
	}

	placeholder := entities.Comment{
		ID:              newPlaceholderID(),
		UserID:          userID,
		AccommodationID: accommodationID,
		Text:            strings.TrimSpace(text),
		Rating:          rating,
	}
	if err := placeholder.Validate(); err != nil {
		return CommentSubmission{Next: current}, apperrors.NewInvalidInputError(err.Error())
	}

	h := launch(ctx, c, "comment.create", "comment:"+placeholder.ID, func(ctx context.Context) Result[entities.Comment] {
		req := placeholder
		req.ID = ""
		created, err := c.api.CreateComment(ctx, &req)
		if err != nil {
			return rolledBackCreate(placeholder, networkFailure("post comment", err), commentID)
		}
		return committedCreate(placeholder.ID, *created, commentID)
	})

	return CommentSubmission{Next: appended(current, placeholder), Comment: placeholder, Handle: h}, nil
}

// Charges computes the booking total for a nightly price
func (c *Coordinator) Charges(nightlyPrice float64) Charges {
	total := nightlyPrice
	for _, fee := range c.fees {
		total += fee.Amount
	}
	return Charges{NightlyPrice: nightlyPrice, Fees: slices.Clone(c.fees), Total: total}
}

// referenceNumber draws a 14-digit, zero-padded display reference
func (c *Coordinator) referenceNumber() string {
	var n int64
	if c.rng != nil {
		c.rngMu.Lock()
		n = c.rng.Int64N(1e14)
		c.rngMu.Unlock()
	} else {
		n = rand.Int64N(1e14)
	}
	return fmt.Sprintf("%014d", n)
}

// launch runs settle once every earlier mutation on key has settled
func launch[T any](ctx context.Context, c *Coordinator, kind, key string, settle func(context.Context) Result[T]) *Handle[T] {
	h := newHandle[T]()
	wait, release := c.queue.enqueue(key)

	go func() {
		defer release()
		if wait != nil {
			<-wait
		}

		result := settle(ctx)
		if result.State == RolledBack {
			observability.LoggerFromContext(ctx).Warn().
				Err(result.Err).
				Str("mutation", kind).
				Msg("optimistic mutation rolled back")
		}
		observability.RecordMutationOutcome(ctx, c.metrics, kind, result.State.String())
		h.resolve(result)
	}()

	return h
}

func networkFailure(action string, err error) error {
	if apperrors.IsType(err, apperrors.ErrorTypeNetwork) {
		return err
	}
	return apperrors.NewNetworkError(action, err)
}

func newPlaceholderID() string {
	return PlaceholderPrefix + uuid.NewString()
}

func favoriteID(f entities.Favorite) string { return f.ID }
func bookingID(b entities.Booking) string { return b.ID }
func commentID(c entities.Comment) string { return c.ID }
