package models

import (
	"time"

	"github.com/alqaqa03/gym1/internal/lib/period"
)

// Member: участник зала и его текущее окно членства.
//
// Флаг Active не зависит от дат: участника можно деактивировать,
// пока окно ещё действует. Start <= End ожидается, но не проверяется при записи.
type Member struct {
	ID                int64          `json:"id"`
	FullName          string         `json:"full_name"`
	Phone             string         `json:"phone"`
	Email             string         `json:"email,omitempty"`
	BiometricTemplate []byte         `json:"-"`
	MembershipType    MembershipType `json:"membership_type"`
	StartDate         time.Time      `json:"start_date"`
	EndDate           time.Time      `json:"end_date"`
	EmergencyContact  string         `json:"emergency_contact,omitempty"`
	MedicalNotes      string         `json:"medical_notes,omitempty"`
	Active            bool           `json:"active"`
	CreatedAt         time.Time      `json:"created_at"`
	CreatedBy         *int64         `json:"created_by,omitempty"`
}

// Enrolled сообщает, сохранён ли для участника биометрический шаблон.
func (m *Member) Enrolled() bool {
	return len(m.BiometricTemplate) > 0
}

// IsMembershipValid сообщает, действует ли членство в момент now:
// участник активен и now лежит в [StartDate, EndDate] включительно.
// Результат нельзя кешировать: он меняется вместе со временем.
func (m *Member) IsMembershipValid(now time.Time) bool {
	return m.Active && period.Within(now, m.StartDate, m.EndDate)
}

// DaysUntilExpiry возвращает число полных дней до окончания окна, 0 после него.
func (m *Member) DaysUntilExpiry(now time.Time) int {
	return period.WholeDaysUntil(now, m.EndDate)
}

// MemberStatus: участник вместе с производным состоянием на момент запроса.
type MemberStatus struct {
	*Member
	Valid           bool `json:"membership_valid"`
	DaysUntilExpiry int  `json:"days_until_expiry"`
	Enrolled        bool `json:"biometric_enrolled"`
}

// StatusAt вычисляет производное состояние участника на момент now.
func (m *Member) StatusAt(now time.Time) MemberStatus {
	return MemberStatus{
		Member:          m,
		Valid:           m.IsMembershipValid(now),
		DaysUntilExpiry: m.DaysUntilExpiry(now),
		Enrolled:        m.Enrolled(),
	}
}

// DummyMember используется для приёма данных участника из JSON-запроса
// до валидации и преобразования в Member. Даты приходят строками 2006-01-02.
type DummyMember struct {
	FullName          string `json:"full_name" validate:"required,max=100"`
	Phone             string `json:"phone" validate:"required,max=20"`
	Email             string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	BiometricTemplate []byte `json:"biometric_template,omitempty"`
	MembershipType    string `json:"membership_type" validate:"required"`
	StartDate         string `json:"start_date" validate:"required"`
	EndDate           string `json:"end_date,omitempty"`
	EmergencyContact  string `json:"emergency_contact,omitempty" validate:"max=100"`
	MedicalNotes      string `json:"medical_notes,omitempty"`
}

// MemberFilter задаёт поиск участников.
type MemberFilter struct {
	Search     string // подстрока имени, телефона или почты, без учёта регистра
	ActiveOnly bool
	Limit      int
	Offset     int
}
