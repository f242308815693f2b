package domain

import (
	"fmt"
	"time"
)

// DayLayout is the canonical calendar-date format used as the primary time
// key throughout the system.
const DayLayout = "2006-01-02"

// DayKey is a canonical local calendar date string (YYYY-MM-DD). It is the
// identifier of one study day. DayKeys are produced by the dayclock package,
// never by formatting time.Now directly, so that the configured day-boundary
// rule is always honored.
type DayKey string

// ParseDayKey validates s as a YYYY-MM-DD date string.
func ParseDayKey(s string) (DayKey, error) {
	if _, err := time.Parse(DayLayout, s); err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayKey(s), nil
}

// DayKeyOf returns the civil calendar date of t in t's own location.
func DayKeyOf(t time.Time) DayKey {
	return DayKey(t.Format(DayLayout))
}

// Time returns the day as midnight UTC, for date arithmetic only.
// A zero time is returned for malformed keys.
func (d DayKey) Time() time.Time {
	t, err := time.Parse(DayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the key n calendar days after d (negative n goes back).
func (d DayKey) AddDays(n int) DayKey {
	return DayKeyOf(d.Time().AddDate(0, 0, n))
}

// Next returns the following calendar day.
func (d DayKey) Next() DayKey { return d.AddDays(1) }

// Prev returns the preceding calendar day.
func (d DayKey) Prev() DayKey { return d.AddDays(-1) }

// Before reports whether d falls strictly before other. The canonical
// format makes lexicographic order equal to chronological order.
func (d DayKey) Before(other DayKey) bool { return d < other }

// After reports whether d falls strictly after other.
func (d DayKey) After(other DayKey) bool { return d > other }

// Valid reports whether d is a well-formed YYYY-MM-DD key.
func (d DayKey) Valid() bool {
	_, err := time.Parse(DayLayout, string(d))
	return err == nil
}
