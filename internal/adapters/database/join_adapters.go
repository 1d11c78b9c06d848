package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	"github.com/zatekoja/staybook/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

// ownedBy applies an OwnershipFilter as equality conditions
func ownedBy(ds *goqu.SelectDataset, filter repositories.OwnershipFilter) *goqu.SelectDataset {
	if filter.UserID != "" {
		ds = ds.Where(goqu.Ex{"user_id": filter.UserID})
	}
	if filter.AccommodationID != "" {
		ds = ds.Where(goqu.Ex{"accommodation_id": filter.AccommodationID})
	}
	return ds
}

func deleteByID(ctx context.Context, client *postgres.Client, db *goqu.Database, table, kind, id string) error {
	query, args, err := db.Delete(table).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to delete %s", kind), err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", kind, id))
	}
	return nil
}

// FavoriteAdapter implements the FavoriteRepository interface
type FavoriteAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFavoriteAdapter creates a new favorite adapter
func NewFavoriteAdapter(client *postgres.Client) repositories.FavoriteRepository {
	return &FavoriteAdapter{client: client, db: newDialect(client)}
}

// List retrieves favorites matching the filter
func (a *FavoriteAdapter) List(ctx context.Context, filter repositories.OwnershipFilter) ([]entities.Favorite, error) {
	query, args, err := ownedBy(a.db.Select("id", "user_id", "accommodation_id").From("favorites"), filter).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query favorites", err)
	}
	defer rows.Close()

	favorites := []entities.Favorite{}
	for rows.Next() {
		var f entities.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.AccommodationID); err != nil {
			return nil, apperrors.NewInternalError("failed to scan favorite", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate favorites", err)
	}
	return favorites, nil
}

// GetByID retrieves a favorite by ID
func (a *FavoriteAdapter) GetByID(ctx context.Context, id string) (*entities.Favorite, error) {
	query, args, err := a.db.Select("id", "user_id", "accommodation_id").
		From("favorites").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	f := &entities.Favorite{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&f.ID, &f.UserID, &f.AccommodationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("favorite with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get favorite", err)
	}
	return f, nil
}

// Create inserts a favorite; the (user_id, accommodation_id) constraint rejects duplicates
func (a *FavoriteAdapter) Create(ctx context.Context, favorite *entities.Favorite) error {
	query, args, err := a.db.Insert("favorites").Rows(goqu.Record{
		"id":               favorite.ID,
		"user_id":          favorite.UserID,
		"accommodation_id": favorite.AccommodationID,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("accommodation is already a favorite of this user")
		}
		return apperrors.NewInternalError("failed to create favorite", err)
	}
	return nil
}

// Delete removes a favorite
func (a *FavoriteAdapter) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, a.client, a.db, "favorites", "favorite", id)
}

var bookingColumns = []interface{}{
	"id", "user_id", "accommodation_id", "booking_date",
	"booking_time", "payment_method", "total_price",
}

// BookingAdapter implements the BookingRepository interface
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{client: client, db: newDialect(client)}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row scanner, b *entities.Booking) error {
	return row.Scan(
		&b.ID,
		&b.UserID,
		&b.AccommodationID,
		&b.BookingDate,
		&b.BookingTime,
		&b.PaymentMethod,
		&b.TotalPrice,
	)
}

// List retrieves bookings matching the filter
func (a *BookingAdapter) List(ctx context.Context, filter repositories.OwnershipFilter) ([]entities.Booking, error) {
	query, args, err := ownedBy(a.db.Select(bookingColumns...).From("bookings"), filter).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query bookings", err)
	}
	defer rows.Close()

	bookings := []entities.Booking{}
	for rows.Next() {
		var b entities.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate bookings", err)
	}
	return bookings, nil
}

// GetByID retrieves a booking by ID
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From("bookings").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	b := &entities.Booking{}
	err = scanBooking(a.client.DB().QueryRowContext(ctx, query, args...), b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get booking", err)
	}
	return b, nil
}

// Create inserts a booking
func (a *BookingAdapter) Create(ctx context.Context, booking *entities.Booking) error {
	query, args, err := a.db.Insert("bookings").Rows(goqu.Record{
		"id":               booking.ID,
		"user_id":          booking.UserID,
		"accommodation_id": booking.AccommodationID,
		"booking_date":     booking.BookingDate,
		"booking_time":     booking.BookingTime,
		"payment_method":   booking.PaymentMethod,
		"total_price":      booking.TotalPrice,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("booking with id %s already exists", booking.ID))
		}
		return apperrors.NewInternalError("failed to create booking", err)
	}
	return nil
}

// Delete removes a booking
func (a *BookingAdapter) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, a.client, a.db, "bookings", "booking", id)
}

// CommentAdapter implements the CommentRepository interface
type CommentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCommentAdapter creates a new comment adapter
func NewCommentAdapter(client *postgres.Client) repositories.CommentRepository {
	return &CommentAdapter{client: client, db: newDialect(client)}
}

// List retrieves comments matching the filter
func (a *CommentAdapter) List(ctx context.Context, filter repositories.OwnershipFilter) ([]entities.Comment, error) {
	query, args, err := ownedBy(
		a.db.Select("id", "user_id", "accommodation_id", "text", "rating").From("comments"),
		filter,
	).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query comments", err)
	}
	defer rows.Close()

	comments := []entities.Comment{}
	for rows.Next() {
		var c entities.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.AccommodationID, &c.Text, &c.Rating); err != nil {
			return nil, apperrors.NewInternalError("failed to scan comment", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate comments", err)
	}
	return comments, nil
}

// Create inserts a comment
func (a *CommentAdapter) Create(ctx context.Context, comment *entities.Comment) error {
	query, args, err := a.db.Insert("comments").Rows(goqu.Record{
		"id":               comment.ID,
		"user_id":          comment.UserID,
		"accommodation_id": comment.AccommodationID,
		"text":             comment.Text,
		"rating":           comment.Rating,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("comment with id %s already exists", comment.ID))
		}
		return apperrors.NewInternalError("failed to create comment", err)
	}
	return nil
}
