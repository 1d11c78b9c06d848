package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/staybook/internal/infrastructure/clients/postgres"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS facilities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		mobile_number TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		password TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		profile_image TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS accommodations (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL CHECK (price > 0),
		rating DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (rating BETWEEN 0 AND 5),
		category TEXT NOT NULL DEFAULT '',
		capacity INTEGER NOT NULL CHECK (capacity > 0),
		image TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS accommodation_facilities (
		accommodation_id TEXT NOT NULL REFERENCES accommodations(id) ON DELETE CASCADE,
		facility_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (accommodation_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		accommodation_id TEXT NOT NULL,
		UNIQUE (user_id, accommodation_id)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		accommodation_id TEXT NOT NULL,
		booking_date TEXT NOT NULL DEFAULT '',
		booking_time TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL,
		total_price DOUBLE PRECISION NOT NULL CHECK (total_price > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		accommodation_id TEXT NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_accommodation ON comments (accommodation_id)`,
}

// EnsureSchema creates the collection tables when they do not exist
func EnsureSchema(ctx context.Context, client *postgres.Client) error {
	for _, stmt := range schema {
		if _, err := client.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	log.Info().Int("statements", len(schema)).Msg("Database schema ensured")
	return nil
}

func newDialect(client *postgres.Client) *goqu.Database {
	return goqu.New("postgres", client.DB())
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
