package models

import (
	"time"

	"restaurant-backend/internal/apperr"
)

// Wire date layouts. Dates cross the boundary as DD.MM.YYYY and
// DD.MM.YYYY HH:MM text, not RFC 3339.
const (
	DateLayout     = "02.01.2006"
	DateTimeLayout = "02.01.2006 15:04"
)

// FormatDate renders t as DD.MM.YYYY
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime renders t as DD.MM.YYYY HH:MM
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// ParseDate parses a DD.MM.YYYY value
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid date %q, expected DD.MM.YYYY", s)
	}
	return t, nil
}

// ParseDateTime parses a DD.MM.YYYY HH:MM value, falling back to date-only
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(DateTimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid datetime %q, expected DD.MM.YYYY HH:MM", s)
	}
	return t, nil
}

// SameDay reports whether a and b fall on the same calendar date
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
