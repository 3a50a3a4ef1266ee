// Package models содержит доменные записи зала: участников, подписки, посещения,
// сотрудников и финансовые операции, а также производное состояние,
// которое вычисляется из дат относительно переданного момента now.
//
// Перечисления хранятся строками и разбираются только через Parse-функции,
// которые отвергают неизвестные значения.
package models

import (
	"time"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
	"github.com/alqaqa03/gym1/internal/lib/period"
)

// MembershipType: категория членства или расчётного периода подписки.
type MembershipType string

const (
	MembershipDaily      MembershipType = "daily"
	MembershipWeekly     MembershipType = "weekly"
	MembershipMonthly    MembershipType = "monthly"
	MembershipQuarterly  MembershipType = "quarterly"
	MembershipSemiAnnual MembershipType = "semi_annual"
	MembershipAnnual     MembershipType = "annual"
)

var membershipSpans = map[MembershipType]period.Span{
	MembershipDaily:      {Days: 1},
	MembershipWeekly:     {Days: 7},
	MembershipMonthly:    {Months: 1},
	MembershipQuarterly:  {Months: 3},
	MembershipSemiAnnual: {Months: 6},
	MembershipAnnual:     {Years: 1},
}

// ParseMembershipType разбирает сохранённое строковое значение категории.
func ParseMembershipType(s string) (MembershipType, error) {
	t := MembershipType(s)
	if _, ok := membershipSpans[t]; !ok {
		return "", apperr.Validation("membership_type", "unknown value %q", s)
	}
	return t, nil
}

// Span возвращает номинальную длительность категории.
func (t MembershipType) Span() period.Span {
	return membershipSpans[t]
}

func (t MembershipType) String() string { return string(t) }

// DefaultEnd возвращает дату окончания окна, начинающегося в start, по длительности категории.
func (t MembershipType) DefaultEnd(start time.Time) time.Time {
	return t.Span().EndFrom(start)
}
