package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
)

// withTx выполняет fn в одной транзакции. Любая ошибка fn или фиксации
// откатывает транзакцию целиком. Ошибки fn возвращаются как есть,
// сбои начала и фиксации оборачиваются в StorageError.
func (s *Storage) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage(op, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, apperr.Storage(op, rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return apperr.Storage(op, err)
	}
	return nil
}
