// Package dberr maps storage-driver failures onto the service error
// taxonomy at the data boundary, so repos surface typed kinds and callers
// never inspect driver errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/mediaflowhq/mediaflow-backend/internal/platform/apierr"
)

const uniqueViolation = "23505"

// Map converts gorm/pgx sentinel errors: record-not-found becomes NotFound
// with notFoundMsg, a unique violation becomes Conflict, anything else
// passes through untouched.
func Map(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(notFoundMsg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apierr.Conflict("record already exists: " + pgErr.ConstraintName)
	}
	return err
}
