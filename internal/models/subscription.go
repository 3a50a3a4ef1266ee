package models

import (
	"time"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
	"github.com/alqaqa03/gym1/internal/lib/period"
)

// PaymentStatus: закрытый набор статусов оплаты подписки.
type PaymentStatus string

const (
	PaymentPaid      PaymentStatus = "paid"
	PaymentPending   PaymentStatus = "pending"
	PaymentCancelled PaymentStatus = "cancelled"
)

// ParsePaymentStatus разбирает сохранённое значение статуса оплаты.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(s); st {
	case PaymentPaid, PaymentPending, PaymentCancelled:
		return st, nil
	}
	return "", apperr.Validation("payment_status", "unknown value %q", s)
}

func (s PaymentStatus) String() string { return string(s) }

// Subscription: оплачиваемый период участника. Окно подписки независимо
// от текущего окна участника и может от него отличаться.
type Subscription struct {
	ID               int64          `json:"id"`
	MemberID         int64          `json:"member_id"`
	Type             MembershipType `json:"type"`
	StartDate        time.Time      `json:"start_date"`
	EndDate          time.Time      `json:"end_date"`
	Amount           float64        `json:"amount"`
	PaymentStatus    PaymentStatus  `json:"payment_status"`
	CreatedAt        time.Time      `json:"created_at"`
	CreatedBy        *int64         `json:"created_by,omitempty"`
	PaymentReference string         `json:"payment_reference,omitempty"`
	Notes            string         `json:"notes,omitempty"`
}

// IsActive сообщает, действует ли подписка в момент now. Статус оплаты
// важнее дат: неоплаченная или отменённая подписка не активна никогда.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.PaymentStatus == PaymentPaid && period.Within(now, s.StartDate, s.EndDate)
}

// DaysRemaining возвращает число полных дней до окончания подписки, 0 после него.
func (s *Subscription) DaysRemaining(now time.Time) int {
	return period.WholeDaysUntil(now, s.EndDate)
}

// SubscriptionView: подписка с именем участника и производным состоянием,
// в том виде, в каком её показывают списки и отчёты.
type SubscriptionView struct {
	Subscription
	MemberName    string `json:"member_name"`
	Active        bool   `json:"active"`
	DaysRemaining int    `json:"days_remaining"`
}

// ViewAt дополняет подписку производным состоянием на момент now.
func (s Subscription) ViewAt(memberName string, now time.Time) SubscriptionView {
	return SubscriptionView{
		Subscription:  s,
		MemberName:    memberName,
		Active:        s.IsActive(now),
		DaysRemaining: s.DaysRemaining(now),
	}
}

// NewSubscription: входные данные транзакции создания подписки.
type NewSubscription struct {
	MemberID         int64
	Type             MembershipType
	StartDate        time.Time
	EndDate          time.Time
	Amount           float64
	Notes            string
	PaymentReference string
	CreatedBy        *int64
}

// Validate проверяет входные данные, не требующие обращения к хранилищу.
func (n NewSubscription) Validate() error {
	if n.MemberID <= 0 {
		return apperr.Validation("member_id", "must reference an existing member")
	}
	if _, err := ParseMembershipType(string(n.Type)); err != nil {
		return err
	}
	if n.EndDate.Before(n.StartDate) {
		return apperr.Validation("end_date", "must not be before start_date")
	}
	return checkAmount(n.Amount)
}

// DummySubscription используется для приёма данных подписки из JSON-запроса.
// Если EndDate не задана, она вычисляется по длительности категории.
type DummySubscription struct {
	MemberID         int64   `json:"member_id" validate:"required,gt=0"`
	Type             string  `json:"type" validate:"required"`
	StartDate        string  `json:"start_date" validate:"required"`
	EndDate          string  `json:"end_date,omitempty"`
	Amount           float64 `json:"amount" validate:"gte=0,lt=100000000"`
	PaymentReference string  `json:"payment_reference,omitempty" validate:"max=100"`
	Notes            string  `json:"notes,omitempty" validate:"max=255"`
}

// SubscriptionStateFilter: фильтр списка подписок по окну.
type SubscriptionStateFilter string

const (
	SubscriptionsAll     SubscriptionStateFilter = "all"
	SubscriptionsCurrent SubscriptionStateFilter = "current"
	SubscriptionsExpired SubscriptionStateFilter = "expired"
)

// ParseSubscriptionStateFilter разбирает фильтр; пустая строка означает all.
func ParseSubscriptionStateFilter(s string) (SubscriptionStateFilter, error) {
	switch f := SubscriptionStateFilter(s); f {
	case "":
		return SubscriptionsAll, nil
	case SubscriptionsAll, SubscriptionsCurrent, SubscriptionsExpired:
		return f, nil
	}
	return "", apperr.Validation("state", "unknown value %q", s)
}
