package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	"github.com/zatekoja/staybook/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

var accommodationColumns = []interface{}{
	"id", "title", "description", "location", "price",
	"rating", "category", "capacity", "image",
}

// AccommodationAdapter implements the AccommodationRepository interface
type AccommodationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAccommodationAdapter creates a new accommodation adapter
func NewAccommodationAdapter(client *postgres.Client) repositories.AccommodationRepository {
	return &AccommodationAdapter{
		client: client,
		db:     newDialect(client),
	}
}

// List returns every accommodation
func (a *AccommodationAdapter) List(ctx context.Context) ([]entities.Accommodation, error) {
	query, args, err := a.db.Select(accommodationColumns...).
		From("accommodations").
		Order(goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.query(ctx, query, args, nil)
}

// GetByID retrieves an accommodation by ID
func (a *AccommodationAdapter) GetByID(ctx context.Context, id string) (*entities.Accommodation, error) {
	accommodations, err := a.GetByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(accommodations) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("accommodation with id %s not found", id))
	}
	return &accommodations[0], nil
}

// GetByIDs retrieves the accommodations for ids in the order given
func (a *AccommodationAdapter) GetByIDs(ctx context.Context, ids []string) ([]entities.Accommodation, error) {
	if len(ids) == 0 {
		return []entities.Accommodation{}, nil
	}

	query, args, err := a.db.Select(accommodationColumns...).
		From("accommodations").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	found, err := a.query(ctx, query, args, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]entities.Accommodation, len(found))
	for _, acc := range found {
		byID[acc.ID] = acc
	}
	ordered := make([]entities.Accommodation, 0, len(found))
	for _, id := range ids {
		if acc, ok := byID[id]; ok {
			ordered = append(ordered, acc)
		}
	}
	return ordered, nil
}

func (a *AccommodationAdapter) query(ctx context.Context, query string, args []interface{}, ids []string) ([]entities.Accommodation, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query accommodations", err)
	}
	defer rows.Close()

	accommodations := []entities.Accommodation{}
	for rows.Next() {
		var acc entities.Accommodation
		if err := rows.Scan(
			&acc.ID,
			&acc.Title,
			&acc.Description,
			&acc.Location,
			&acc.Price,
			&acc.Rating,
			&acc.Category,
			&acc.Capacity,
			&acc.Image,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan accommodation", err)
		}
		acc.FacilityIDs = []string{}
		accommodations = append(accommodations, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate accommodations", err)
	}
	if len(accommodations) == 0 {
		return accommodations, nil
	}

	facilities, err := a.facilityIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range accommodations {
		if refs, ok := facilities[accommodations[i].ID]; ok {
			accommodations[i].FacilityIDs = refs
		}
	}
	return accommodations, nil
}

// facilityIDs loads ordered facility references, restricted to ids when given
func (a *AccommodationAdapter) facilityIDs(ctx context.Context, ids []string) (map[string][]string, error) {
	ds := a.db.Select("accommodation_id", "facility_id").
		From("accommodation_facilities").
		Order(goqu.I("accommodation_id").Asc(), goqu.I("position").Asc())
	if len(ids) > 0 {
		ds = ds.Where(goqu.Ex{"accommodation_id": ids})
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query accommodation facilities", err)
	}
	defer rows.Close()

	refs := make(map[string][]string)
	for rows.Next() {
		var accommodationID, facilityID string
		if err := rows.Scan(&accommodationID, &facilityID); err != nil {
			return nil, apperrors.NewInternalError("failed to scan accommodation facility", err)
		}
		refs[accommodationID] = append(refs[accommodationID], facilityID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate accommodation facilities", err)
	}
	return refs, nil
}

// Upsert inserts or replaces an accommodation together with its facility list
func (a *AccommodationAdapter) Upsert(ctx context.Context, accommodation *entities.Accommodation) error {
	record := goqu.Record{
		"id":          accommodation.ID,
		"title":       accommodation.Title,
		"description": accommodation.Description,
		"location":    accommodation.Location,
		"price":       accommodation.Price,
		"rating":      accommodation.Rating,
		"category":    accommodation.Category,
		"capacity":    accommodation.Capacity,
		"image":       accommodation.Image,
	}

	upsertQuery, upsertArgs, err := a.db.Insert("accommodations").
		Rows(record).
		OnConflict(goqu.DoUpdate("id", record)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	clearQuery, clearArgs, err := a.db.Delete("accommodation_facilities").
		Where(goqu.Ex{"accommodation_id": accommodation.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	return a.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertQuery, upsertArgs...); err != nil {
			return apperrors.NewInternalError("failed to upsert accommodation", err)
		}
		if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return apperrors.NewInternalError("failed to clear accommodation facilities", err)
		}
		if len(accommodation.FacilityIDs) == 0 {
			return nil
		}

		rows := make([]interface{}, 0, len(accommodation.FacilityIDs))
		for i, facilityID := range accommodation.FacilityIDs {
			rows = append(rows, goqu.Record{
				"accommodation_id": accommodation.ID,
				"facility_id":      facilityID,
				"position":         i,
			})
		}
		linkQuery, linkArgs, err := a.db.Insert("accommodation_facilities").Rows(rows...).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build insert query", err)
		}
		if _, err := tx.ExecContext(ctx, linkQuery, linkArgs...); err != nil {
			return apperrors.NewInternalError("failed to link accommodation facilities", err)
		}
		return nil
	})
}

func (a *AccommodationAdapter) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit transaction", err)
	}
	return nil
}

// FacilityAdapter implements the FacilityRepository interface
type FacilityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) repositories.FacilityRepository {
	return &FacilityAdapter{
		client: client,
		db:     newDialect(client),
	}
}

// List returns every facility
func (a *FacilityAdapter) List(ctx context.Context) ([]entities.Facility, error) {
	query, args, err := a.db.Select("id", "name", "category").
		From("facilities").
		Order(goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query facilities", err)
	}
	defer rows.Close()

	facilities := []entities.Facility{}
	for rows.Next() {
		var f entities.Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.Category); err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}
		facilities = append(facilities, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate facilities", err)
	}
	return facilities, nil
}

// Upsert inserts or replaces a facility
func (a *FacilityAdapter) Upsert(ctx context.Context, facility *entities.Facility) error {
	record := goqu.Record{
		"id":       facility.ID,
		"name":     facility.Name,
		"category": facility.Category,
	}
	query, args, err := a.db.Insert("facilities").
		Rows(record).
		OnConflict(goqu.DoUpdate("id", record)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert facility", err)
	}
	return nil
}
