// Package subscription содержит бизнес-логику продажи и учёта подписок.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alqaqa03/gym1/internal/lib/sl"
	"github.com/alqaqa03/gym1/internal/metrics"
	"github.com/alqaqa03/gym1/internal/models"
)

// Repository определяет методы хранилища, нужные сервису подписок.
type Repository interface {
	// CreateSubscriptionForMember атомарно создаёт подписку и переносит окно участника.
	CreateSubscriptionForMember(ctx context.Context, n models.NewSubscription) (models.Subscription, error)
	GetSubscription(ctx context.Context, id int64) (models.Subscription, error)
	GetMember(ctx context.Context, id int64) (models.Member, error)
	ListMemberSubscriptions(ctx context.Context, memberID int64) ([]models.Subscription, error)
	ListSubscriptions(ctx context.Context, state models.SubscriptionStateFilter, now time.Time) ([]models.SubscriptionView, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status models.PaymentStatus) error
}

// Service реализует создание подписок и работу со статусом оплаты.
type Service struct {
	repo    Repository
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newRef  func() string
}

// NewService создает новый экземпляр Service. m может быть nil.
func NewService(repo Repository, log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		log:     log,
		metrics: m,
		now:     time.Now,
		newRef:  func() string { return uuid.NewString() },
	}
}

// Create оформляет оплаченную подписку и переносит на неё окно участника.
// Без даты окончания окно вычисляется по длительности категории, без номера
// платежа генерируется уникальный номер квитанции.
func (s *Service) Create(ctx context.Context, createdBy *int64, req models.DummySubscription) (models.SubscriptionView, error) {
	const op = "services.subscription.Create"

	n, err := s.fromRequest(req)
	if err != nil {
		return models.SubscriptionView{}, fmt.Errorf("%s: %w", op, err)
	}
	n.CreatedBy = createdBy
	if err := n.Validate(); err != nil {
		return models.SubscriptionView{}, fmt.Errorf("%s: %w", op, err)
	}
	if n.PaymentReference == "" {
		n.PaymentReference = s.newRef()
	}

	sub, err := s.repo.CreateSubscriptionForMember(ctx, n)
	if err != nil {
		s.log.Error("failed to create subscription", sl.Op(op), slog.Int64("member_id", n.MemberID), sl.Err(err))
		return models.SubscriptionView{}, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.SubscriptionCreated(string(sub.Type))
	s.log.Info("subscription created",
		sl.Op(op),
		slog.Int64("subscription_id", sub.ID),
		slog.Int64("member_id", sub.MemberID),
		slog.String("payment_reference", sub.PaymentReference),
	)
	return sub.ViewAt("", s.now()), nil
}

// Get возвращает подписку по ID с производным состоянием.
func (s *Service) Get(ctx context.Context, id int64) (models.SubscriptionView, error) {
	const op = "services.subscription.Get"

	sub, err := s.repo.GetSubscription(ctx, id)
	if err != nil {
		return models.SubscriptionView{}, fmt.Errorf("%s: %w", op, err)
	}
	return sub.ViewAt("", s.now()), nil
}

// ListForMember возвращает подписки участника по возрастанию даты начала.
func (s *Service) ListForMember(ctx context.Context, memberID int64) ([]models.SubscriptionView, error) {
	const op = "services.subscription.ListForMember"

	m, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	subs, err := s.repo.ListMemberSubscriptions(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	views := make([]models.SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, sub.ViewAt(m.FullName, now))
	}
	return views, nil
}

// List возвращает подписки всех участников по фильтру all, current или expired.
func (s *Service) List(ctx context.Context, state string) ([]models.SubscriptionView, error) {
	const op = "services.subscription.List"

	filter, err := models.ParseSubscriptionStateFilter(state)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	views, err := s.repo.ListSubscriptions(ctx, filter, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range views {
		views[i] = views[i].Subscription.ViewAt(views[i].MemberName, now)
	}
	return views, nil
}

// SetPaymentStatus меняет статус оплаты. Окно участника не меняется.
func (s *Service) SetPaymentStatus(ctx context.Context, id int64, status string) error {
	const op = "services.subscription.SetPaymentStatus"

	st, err := models.ParsePaymentStatus(status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdatePaymentStatus(ctx, id, st); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("payment status changed", sl.Op(op), slog.Int64("subscription_id", id), slog.String("status", status))
	return nil
}

func (s *Service) fromRequest(req models.DummySubscription) (models.NewSubscription, error) {
	typ, err := models.ParseMembershipType(req.Type)
	if err != nil {
		return models.NewSubscription{}, err
	}
	loc := s.now().Location()
	start, err := models.ParseDate("start_date", req.StartDate, loc)
	if err != nil {
		return models.NewSubscription{}, err
	}
	end := typ.DefaultEnd(start)
	if req.EndDate != "" {
		if end, err = models.ParseDate("end_date", req.EndDate, loc); err != nil {
			return models.NewSubscription{}, err
		}
	}
	return models.NewSubscription{
		MemberID:         req.MemberID,
		Type:             typ,
		StartDate:        start,
		EndDate:          end,
		Amount:           req.Amount,
		Notes:            req.Notes,
		PaymentReference: req.PaymentReference,
	}, nil
}
