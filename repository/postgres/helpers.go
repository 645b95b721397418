package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/eisengo/backend/domain"
)

// Postgres unique_violation, mapped to duplicate error codes by constraint name.
const uniqueViolation = "23505"

// Constraint names from the migrations in assets/migrations.
const (
	usernameConstraint   = "users_username_key"
	emailConstraint      = "users_email_key"
	ownerTitleConstraint = "tasks_owner_title_key"
)

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case usernameConstraint:
		return domain.ErrDuplicateUsername
	case emailConstraint:
		return domain.ErrDuplicateEmail
	case ownerTitleConstraint:
		return domain.ErrDuplicateTitle
	}
	return err
}
