package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
)

// Коды ошибок PostgreSQL, которые переводятся в ошибки ядра.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
)

// mapError переводит ошибку драйвера в таксономию apperr и добавляет op.
// sql.ErrNoRows становится NotFound для entity/key, нарушения ограничений
// становятся Conflict или Validation, остальное оборачивается в StorageError.
func mapError(op, entity string, key any, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperr.NotFound(entity, key))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, apperr.Conflict(entity, "violates %s", pgErr.ConstraintName))
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, apperr.Validation(pgErr.ConstraintName, "references a missing record"))
		case pgCheckViolation:
			return fmt.Errorf("%s: %w", op, apperr.Validation(pgErr.ConstraintName, "check constraint failed"))
		case pgNumericOutOfRange:
			return fmt.Errorf("%s: %w", op, apperr.Validation(entity, "numeric value out of range"))
		}
	}
	return apperr.Storage(op, err)
}

// isUniqueViolation сообщает, нарушено ли ограничение уникальности constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}

// expectAffected возвращает NotFound, если запрос не затронул ни одной строки.
func expectAffected(op, entity string, key any, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.NotFound(entity, key))
	}
	return nil
}
