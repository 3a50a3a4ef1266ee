// Package report содержит финансовый баланс, сводку главного экрана
// и отчёты по посещениям, подпискам и выручке.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
	"github.com/alqaqa03/gym1/internal/lib/period"
	"github.com/alqaqa03/gym1/internal/lib/sl"
	"github.com/alqaqa03/gym1/internal/models"
)

// ExpiringWithin окно, в котором членство считается скоро истекающим.
const ExpiringWithin = 7 * 24 * time.Hour

// Repository определяет методы хранилища, нужные отчётам.
type Repository interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	ListTransactionsBetween(ctx context.Context, from, to time.Time) ([]models.Transaction, error)
	DashboardStats(ctx context.Context, now, dayStart, soon time.Time) (models.DashboardStats, error)
	ListAttendanceBetween(ctx context.Context, from, to time.Time) ([]models.AttendanceView, error)
	ListSubscriptionsStartedBetween(ctx context.Context, from, to time.Time) ([]models.SubscriptionView, error)
	RevenueByDay(ctx context.Context, from, to time.Time) ([]models.DailyRevenue, error)
}

// Service собирает отчёты. Все суммы считаются на лету.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Location возвращает часовой пояс, в котором разбираются даты отчётов.
func (s *Service) Location() *time.Location {
	return s.now().Location()
}

// RecordTransaction сохраняет финансовую операцию после проверки типа и статьи.
func (s *Service) RecordTransaction(ctx context.Context, createdBy *int64, req models.DummyTransaction) (models.Transaction, error) {
	const op = "services.report.RecordTransaction"

	date, err := models.ParseDate("date", req.Date, s.Location())
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}
	tx, err := models.NewTransaction(req.Type, req.Category, req.Amount, req.Description, date)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}
	tx.CreatedBy = createdBy
	tx.ReferenceID = req.ReferenceID

	tx, err = s.repo.CreateTransaction(ctx, tx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("transaction recorded",
		sl.Op(op),
		slog.Int64("transaction_id", tx.ID),
		slog.String("type", string(tx.Type)),
		slog.Float64("amount", tx.Amount),
	)
	return tx, nil
}

// Transactions возвращает операции за период.
func (s *Service) Transactions(ctx context.Context, r models.DateRange) ([]models.Transaction, error) {
	const op = "services.report.Transactions"

	if err := validateRange(r); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	txs, err := s.repo.ListTransactionsBetween(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return txs, nil
}

// BalanceSheet считает доходы, расходы и прибыль за период включительно.
func (s *Service) BalanceSheet(ctx context.Context, r models.DateRange) (models.BalanceSheet, error) {
	const op = "services.report.BalanceSheet"

	txs, err := s.Transactions(ctx, r)
	if err != nil {
		return models.BalanceSheet{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.NewBalanceSheet(r.Start, r.End, txs), nil
}

// Dashboard возвращает сводку главного экрана на текущий момент.
func (s *Service) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	const op = "services.report.Dashboard"

	now := s.now()
	stats, err := s.repo.DashboardStats(ctx, now, period.StartOfDay(now), now.Add(ExpiringWithin))
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

// Attendance возвращает посещения с входом в пределах периода.
func (s *Service) Attendance(ctx context.Context, r models.DateRange) ([]models.AttendanceView, error) {
	const op = "services.report.Attendance"

	if err := validateRange(r); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	views, err := s.repo.ListAttendanceBetween(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return views, nil
}

// Subscriptions возвращает подписки, начавшиеся в пределах периода.
func (s *Service) Subscriptions(ctx context.Context, r models.DateRange) ([]models.SubscriptionView, error) {
	const op = "services.report.Subscriptions"

	if err := validateRange(r); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	views, err := s.repo.ListSubscriptionsStartedBetween(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	for i := range views {
		views[i] = views[i].Subscription.ViewAt(views[i].MemberName, now)
	}
	return views, nil
}

// Revenue суммирует оплаченные подписки по дням начала.
func (s *Service) Revenue(ctx context.Context, r models.DateRange) (models.RevenueReport, error) {
	const op = "services.report.Revenue"

	if err := validateRange(r); err != nil {
		return models.RevenueReport{}, fmt.Errorf("%s: %w", op, err)
	}
	days, err := s.repo.RevenueByDay(ctx, r.Start, r.End)
	if err != nil {
		return models.RevenueReport{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.NewRevenueReport(r, days), nil
}

func validateRange(r models.DateRange) error {
	if r.Start.IsZero() || r.End.IsZero() {
		return apperr.Validation("from", "period bounds are required")
	}
	if r.End.Before(r.Start) {
		return apperr.Validation("to", "must not be before from")
	}
	return nil
}
