// Package period содержит календарную арифметику для окон членства и подписок:
// подсчёт полных оставшихся дней и вычисление даты окончания по длительности тарифа.
package period

import "time"

const day = 24 * time.Hour

// WholeDaysUntil возвращает количество полных дней от now до end.
// Если now позже end, результат 0. Дробный остаток отбрасывается, а не округляется.
func WholeDaysUntil(now, end time.Time) int {
	if now.After(end) {
		return 0
	}
	return int(end.Sub(now) / day)
}

// Within сообщает, попадает ли t в отрезок [start, end] включительно с обеих сторон.
func Within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// Span: номинальная длительность тарифа в календарных единицах.
type Span struct {
	Years  int
	Months int
	Days   int
}

// EndFrom возвращает дату окончания окна, начинающегося в start.
func (s Span) EndFrom(start time.Time) time.Time {
	return start.AddDate(s.Years, s.Months, s.Days)
}

// StartOfDay возвращает полночь дня t в его часовом поясе.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
