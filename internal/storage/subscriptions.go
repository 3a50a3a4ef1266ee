package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
	"github.com/alqaqa03/gym1/internal/models"
)

const subscriptionColumns = `s.id, s.member_id, s.subscription_type, s.start_date, s.end_date, s.amount,
	s.payment_status, s.created_at, s.created_by, s.payment_reference, s.notes`

func scanSubscription(row rowScanner, extra ...any) (models.Subscription, error) {
	var (
		sub              models.Subscription
		typ, status      string
		reference, notes sql.NullString
		createdBy        sql.NullInt64
	)
	dest := []any{&sub.ID, &sub.MemberID, &typ, &sub.StartDate, &sub.EndDate, &sub.Amount,
		&status, &sub.CreatedAt, &createdBy, &reference, &notes}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Subscription{}, err
	}
	sub.Type = models.MembershipType(typ)
	sub.PaymentStatus = models.PaymentStatus(status)
	sub.CreatedBy = int64Ptr(createdBy)
	sub.PaymentReference = reference.String
	sub.Notes = notes.String
	return sub, nil
}

// CreateSubscriptionForMember в одной транзакции создаёт оплаченную подписку
// и переносит окно участника на окно подписки. Если участника нет, возвращается
// ValidationError. Любая ошибка откатывает обе записи.
func (s *Storage) CreateSubscriptionForMember(ctx context.Context, n models.NewSubscription) (models.Subscription, error) {
	const op = "storage.CreateSubscriptionForMember"

	select {
	case <-ctx.Done():
		return models.Subscription{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	sub := models.Subscription{
		MemberID:         n.MemberID,
		Type:             n.Type,
		StartDate:        n.StartDate,
		EndDate:          n.EndDate,
		Amount:           n.Amount,
		PaymentStatus:    models.PaymentPaid,
		CreatedBy:        n.CreatedBy,
		PaymentReference: n.PaymentReference,
		Notes:            n.Notes,
	}

	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		var memberID int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM members WHERE id = $1 FOR UPDATE`, n.MemberID).Scan(&memberID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, apperr.Validation("member_id", "member %d does not exist", n.MemberID))
		}
		if err != nil {
			return mapError(op, "member", n.MemberID, err)
		}

		err = tx.QueryRowContext(ctx, `INSERT INTO subscriptions
				(member_id, subscription_type, start_date, end_date, amount, payment_status,
				 created_by, payment_reference, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at`,
			sub.MemberID, string(sub.Type), sub.StartDate, sub.EndDate, sub.Amount, string(sub.PaymentStatus),
			nullInt64(sub.CreatedBy), nullString(sub.PaymentReference), nullString(sub.Notes),
		).Scan(&sub.ID, &sub.CreatedAt)
		if err != nil {
			return mapError(op, "subscription", nil, err)
		}

		_, err = tx.ExecContext(ctx, `UPDATE members SET start_date = $2, end_date = $3 WHERE id = $1`,
			sub.MemberID, sub.StartDate, sub.EndDate)
		if err != nil {
			return mapError(op, "member", sub.MemberID, err)
		}
		return nil
	})
	if err != nil {
		return models.Subscription{}, err
	}
	return sub, nil
}

// GetSubscription возвращает подписку по ID.
func (s *Storage) GetSubscription(ctx context.Context, id int64) (models.Subscription, error) {
	const op = "storage.GetSubscription"

	select {
	case <-ctx.Done():
		return models.Subscription{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions s WHERE s.id = $1`, id)
	sub, err := scanSubscription(row)
	if err != nil {
		return models.Subscription{}, mapError(op, "subscription", id, err)
	}
	return sub, nil
}

// ListMemberSubscriptions возвращает подписки участника по возрастанию даты начала.
func (s *Storage) ListMemberSubscriptions(ctx context.Context, memberID int64) ([]models.Subscription, error) {
	const op = "storage.ListMemberSubscriptions"

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions s
		WHERE s.member_id = $1
		ORDER BY s.start_date, s.id`, memberID)
	if err != nil {
		return nil, mapError(op, "subscription", nil, err)
	}
	defer rows.Close()

	subs := []models.Subscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, mapError(op, "subscription", nil, err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, "subscription", nil, err)
	}
	return subs, nil
}

// ListSubscriptions возвращает подписки с именами участников по убыванию даты начала.
// current: окно не закончилось к now; expired: закончилось.
func (s *Storage) ListSubscriptions(ctx context.Context, state models.SubscriptionStateFilter, now time.Time) ([]models.SubscriptionView, error) {
	const op = "storage.ListSubscriptions"

	query := `SELECT ` + subscriptionColumns + `, m.full_name
		FROM subscriptions s JOIN members m ON m.id = s.member_id`
	args := []any{}
	switch state {
	case models.SubscriptionsCurrent:
		query += ` WHERE s.end_date >= $1`
		args = append(args, now)
	case models.SubscriptionsExpired:
		query += ` WHERE s.end_date < $1`
		args = append(args, now)
	}
	query += ` ORDER BY s.start_date DESC, s.id DESC`

	return s.querySubscriptionViews(ctx, op, query, args...)
}

// ListSubscriptionsStartedBetween возвращает подписки, начавшиеся в [from, to].
func (s *Storage) ListSubscriptionsStartedBetween(ctx context.Context, from, to time.Time) ([]models.SubscriptionView, error) {
	const op = "storage.ListSubscriptionsStartedBetween"

	query := `SELECT ` + subscriptionColumns + `, m.full_name
		FROM subscriptions s JOIN members m ON m.id = s.member_id
		WHERE s.start_date BETWEEN $1 AND $2
		ORDER BY s.start_date DESC, s.id DESC`
	return s.querySubscriptionViews(ctx, op, query, from, to)
}

func (s *Storage) querySubscriptionViews(ctx context.Context, op, query string, args ...any) ([]models.SubscriptionView, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, "subscription", nil, err)
	}
	defer rows.Close()

	views := []models.SubscriptionView{}
	for rows.Next() {
		var name string
		sub, err := scanSubscription(rows, &name)
		if err != nil {
			return nil, mapError(op, "subscription", nil, err)
		}
		views = append(views, models.SubscriptionView{Subscription: sub, MemberName: name})
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, "subscription", nil, err)
	}
	return views, nil
}

// UpdatePaymentStatus меняет статус оплаты подписки, не трогая окно участника.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus) error {
	const op = "storage.UpdatePaymentStatus"

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE subscriptions SET payment_status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return mapError(op, "subscription", id, err)
	}
	return expectAffected(op, "subscription", id, res)
}

// RevenueByDay суммирует оплаченные подписки по календарным дням начала.
// Дни считаются в часовом поясе from, а не в поясе сессии PostgreSQL.
func (s *Storage) RevenueByDay(ctx context.Context, from, to time.Time) ([]models.DailyRevenue, error) {
	const op = "storage.RevenueByDay"

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT start_date, amount
		FROM subscriptions
		WHERE start_date BETWEEN $1 AND $2 AND payment_status = 'paid'
		ORDER BY start_date`, from, to)
	if err != nil {
		return nil, mapError(op, "subscription", nil, err)
	}
	defer rows.Close()

	loc := from.Location()
	revenue := []models.DailyRevenue{}
	for rows.Next() {
		var (
			start  time.Time
			amount float64
		)
		if err := rows.Scan(&start, &amount); err != nil {
			return nil, mapError(op, "subscription", nil, err)
		}
		y, m, d := start.In(loc).Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		if n := len(revenue); n > 0 && revenue[n-1].Date.Equal(day) {
			revenue[n-1].Amount += amount
			continue
		}
		revenue = append(revenue, models.DailyRevenue{Date: day, Amount: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, "subscription", nil, err)
	}
	return revenue, nil
}
