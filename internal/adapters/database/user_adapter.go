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

var userColumns = []interface{}{
	"id", "mobile_number", "email", "password",
	"first_name", "last_name", "profile_image",
}

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{client: client, db: newDialect(client)}
}

func scanUser(row scanner, u *entities.User) error {
	return row.Scan(
		&u.ID,
		&u.MobileNumber,
		&u.Email,
		&u.Password,
		&u.FirstName,
		&u.LastName,
		&u.ProfileImage,
	)
}

func userRecord(u *entities.User) goqu.Record {
	return goqu.Record{
		"id":            u.ID,
		"mobile_number": u.MobileNumber,
		"email":         u.Email,
		"password":      u.Password,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"profile_image": u.ProfileImage,
	}
}

// List retrieves users matching the filter
func (a *UserAdapter) List(ctx context.Context, filter repositories.UserFilter) ([]entities.User, error) {
	ds := a.db.Select(userColumns...).From("users")
	if filter.Email != "" {
		ds = ds.Where(goqu.Func("LOWER", goqu.C("email")).Eq(goqu.Func("LOWER", filter.Email)))
	}
	if filter.MobileNumber != "" {
		ds = ds.Where(goqu.Ex{"mobile_number": filter.MobileNumber})
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query users", err)
	}
	defer rows.Close()

	users := []entities.User{}
	for rows.Next() {
		var u entities.User
		if err := scanUser(rows, &u); err != nil {
			return nil, apperrors.NewInternalError("failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate users", err)
	}
	return users, nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).From("users").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	u := &entities.User{}
	err = scanUser(a.client.DB().QueryRowContext(ctx, query, args...), u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return u, nil
}

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	query, args, err := a.db.Insert("users").Rows(userRecord(user)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("user with id %s already exists", user.ID))
		}
		return apperrors.NewInternalError("failed to create user", err)
	}
	return nil
}

// Update replaces a user
func (a *UserAdapter) Update(ctx context.Context, user *entities.User) error {
	record := userRecord(user)
	delete(record, "id")

	query, args, err := a.db.Update("users").Set(record).Where(goqu.Ex{"id": user.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", user.ID))
	}
	return nil
}
