package models

import (
	"strings"
	"time"

	"github.com/alqaqa03/gym1/internal/lib/apperr"
)

// DateLayout формат дат во входных данных API.
const DateLayout = "2006-01-02"

// ParseDate разбирает дату формата DateLayout в часовом поясе loc.
func ParseDate(field, s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, apperr.Validation(field, "expected date in format YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// ParseDateRange разбирает период отчёта. Правая граница включает весь день to.
func ParseDateRange(from, to string, loc *time.Location) (DateRange, error) {
	start, err := ParseDate("from", from, loc)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate("to", to, loc)
	if err != nil {
		return DateRange{}, err
	}
	if end.Before(start) {
		return DateRange{}, apperr.Validation("to", "must not be before from")
	}
	return DateRange{Start: start, End: end.AddDate(0, 0, 1).Add(-time.Nanosecond)}, nil
}
