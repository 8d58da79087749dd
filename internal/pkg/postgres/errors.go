package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeInvalidTextRep      = "22P02"
	codeStringTooLong       = "22001"
	codeNumericOutOfRange   = "22003"
)

// MapError translates driver errors into apperr kinds. Unknown errors are
// returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%s (%s): %w", pgErr.Detail, pgErr.ConstraintName, apperr.ErrUniqueness)
	case codeForeignKeyViolation:
		return fmt.Errorf("%s (%s): %w", pgErr.Detail, pgErr.ConstraintName, apperr.ErrReferential)
	case codeCheckViolation, codeNotNullViolation, codeInvalidTextRep, codeStringTooLong, codeNumericOutOfRange:
		return fmt.Errorf("%s: %w", pgErr.Message, apperr.ErrConstraint)
	}
	return err
}

// IsNoRows reports whether err is sql.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
