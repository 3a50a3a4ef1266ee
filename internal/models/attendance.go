package models

import (
	"time"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
	"github.com/alqaqa03/gym1/internal/lib/period"
)

// AttendanceRecord: пара вход/выход участника. Запись без CheckOut считается открытой.
type AttendanceRecord struct {
	ID                  int64      `json:"id"`
	MemberID            int64      `json:"member_id"`
	CheckIn             time.Time  `json:"check_in"`
	CheckOut            *time.Time `json:"check_out,omitempty"`
	FingerprintVerified bool       `json:"fingerprint_verified"`
	RecordedBy          *int64     `json:"recorded_by,omitempty"`
	Notes               string     `json:"notes,omitempty"`
}

// Open сообщает, что участник ещё не отметил выход.
func (a *AttendanceRecord) Open() bool {
	return a.CheckOut == nil
}

// Duration возвращает длительность визита. ok == false, пока выход не отмечен:
// такое значение нельзя трактовать как нулевую длительность.
func (a *AttendanceRecord) Duration() (d time.Duration, ok bool) {
	if a.CheckOut == nil {
		return 0, false
	}
	return a.CheckOut.Sub(a.CheckIn), true
}

// Hours возвращает длительность визита в часах (секунды / 3600).
func (a *AttendanceRecord) Hours() (float64, bool) {
	d, ok := a.Duration()
	if !ok {
		return 0, false
	}
	return d.Seconds() / 3600, true
}

// AttendanceView: запись посещения с именем участника для списков и отчётов.
type AttendanceView struct {
	AttendanceRecord
	MemberName    string   `json:"member_name"`
	DurationHours *float64 `json:"duration_hours,omitempty"`
}

// NewAttendanceView дополняет запись именем участника и длительностью, если она определена.
func NewAttendanceView(rec AttendanceRecord, memberName string) AttendanceView {
	v := AttendanceView{AttendanceRecord: rec, MemberName: memberName}
	if h, ok := rec.Hours(); ok {
		v.DurationHours = &h
	}
	return v
}

// AttendanceWindow: окно списка посещений, как на экране посещений.
type AttendanceWindow string

const (
	WindowToday AttendanceWindow = "today"
	WindowWeek  AttendanceWindow = "week"
	WindowMonth AttendanceWindow = "month"
)

// ParseAttendanceWindow разбирает окно; пустая строка означает today.
func ParseAttendanceWindow(s string) (AttendanceWindow, error) {
	switch w := AttendanceWindow(s); w {
	case "":
		return WindowToday, nil
	case WindowToday, WindowWeek, WindowMonth:
		return w, nil
	}
	return "", apperr.Validation("window", "unknown value %q", s)
}

// CheckInRequest: данные отметки входа из JSON-запроса.
// Candidate: снятый сканером отпечаток, сверяется с шаблоном участника.
type CheckInRequest struct {
	MemberID  int64  `json:"member_id" validate:"required,gt=0"`
	Candidate []byte `json:"candidate,omitempty"`
	Notes     string `json:"notes,omitempty" validate:"max=255"`
}

// CheckOutRequest: данные отметки выхода из JSON-запроса.
type CheckOutRequest struct {
	MemberID int64 `json:"member_id" validate:"required,gt=0"`
}

// Since возвращает начало окна относительно now: полночь для today,
// 7 суток назад для week и 30 суток назад для month.
func (w AttendanceWindow) Since(now time.Time) time.Time {
	switch w {
	case WindowWeek:
		return now.AddDate(0, 0, -7)
	case WindowMonth:
		return now.AddDate(0, 0, -30)
	default:
		return period.StartOfDay(now)
	}
}
