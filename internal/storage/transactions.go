package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alqaqa03/gym1/internal/models"
)

// CreateTransaction сохраняет финансовую операцию.
func (s *Storage) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	const op = "storage.CreateTransaction"

	select {
	case <-ctx.Done():
		return models.Transaction{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.DB.QueryRowContext(ctx, `INSERT INTO transactions
			(transaction_type, category, amount, description, date, created_by, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		string(tx.Type), string(tx.Category), tx.Amount, tx.Description, tx.Date,
		nullInt64(tx.CreatedBy), nullString(tx.ReferenceID),
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return models.Transaction{}, mapError(op, "transaction", nil, err)
	}
	return tx, nil
}

// ListTransactionsBetween возвращает операции с датой в [from, to] по возрастанию даты.
func (s *Storage) ListTransactionsBetween(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
	const op = "storage.ListTransactionsBetween"

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, transaction_type, category, amount, description,
			date, created_by, reference_id, created_at
		FROM transactions
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, id`, from, to)
	if err != nil {
		return nil, mapError(op, "transaction", nil, err)
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var (
			t             models.Transaction
			typ, category string
			createdBy     sql.NullInt64
			reference     sql.NullString
		)
		err := rows.Scan(&t.ID, &typ, &category, &t.Amount, &t.Description, &t.Date, &createdBy, &reference, &t.CreatedAt)
		if err != nil {
			return nil, mapError(op, "transaction", nil, err)
		}
		t.Type = models.TransactionType(typ)
		t.Category = models.TransactionCategory(category)
		t.CreatedBy = int64Ptr(createdBy)
		t.ReferenceID = reference.String
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, "transaction", nil, err)
	}
	return txs, nil
}
