package postgresql

import (
	"errors"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Unique constraints of 00001_init.sql and the domain conflict each one means.
var uniqueViolations = map[string]error{
	"organizations_email_key":                organization.ErrEmailExists,
	"users_email_organization_key":           user.ErrUserEmailExists,
	"employees_employee_id_organization_key": employee.ErrEmployeeIDExists,
	"employees_email_organization_key":       employee.ErrEmailExists,
}

// mapPostgresError turns constraint violations into domain errors; other errors pass through.
func mapPostgresError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if mapped, ok := uniqueViolations[pgErr.ConstraintName]; ok {
			return mapped
		}
	case pgerrcode.ForeignKeyViolation:
		if pgErr.ConstraintName == "employees_manager_id_fkey" {
			return employee.ErrManagerNotFound
		}
	case pgerrcode.InvalidTextRepresentation:
		// A malformed uuid can never match a row.
		return errInvalidID
	}
	return err
}

var errInvalidID = errors.New("invalid identifier")

// notFoundOr maps a missing row, or an id that is not a uuid, to sentinel.
func notFoundOr(err error, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	mapped := mapPostgresError(err)
	if errors.Is(mapped, errInvalidID) {
		return sentinel
	}
	return mapped
}
