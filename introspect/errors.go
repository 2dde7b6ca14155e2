package introspect

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Common introspection error types
var (
	// ErrEntityNotFound is returned when a named entity does not exist
	ErrEntityNotFound = errors.New("entity not found")

	// ErrPermissionDenied is returned when the catalog refuses access
	ErrPermissionDenied = errors.New("permission denied")
)

// ConvertError maps database-specific errors onto introspection errors.
// Errors without a mapping pass through unchanged so callers can still
// unwrap driver details.
func ConvertError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrEntityNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01": // undefined_table
			return fmt.Errorf("%w: %s", ErrEntityNotFound, pgErr.Message)
		case "3F000": // invalid_schema_name
			return fmt.Errorf("%w: %s", ErrEntityNotFound, pgErr.Message)
		case "42501": // insufficient_privilege
			return fmt.Errorf("%w: %s", ErrPermissionDenied, pgErr.Message)
		}
	}

	return err
}

// IsEntityNotFound returns true if the error is ErrEntityNotFound
func IsEntityNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}

// IsPermissionDenied returns true if the error is ErrPermissionDenied
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
