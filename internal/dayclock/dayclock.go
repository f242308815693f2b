// Package dayclock resolves which study day a wall-clock instant belongs
// to. A study day runs boundary-to-boundary rather than midnight-to-
// midnight: once the configured boundary passes, the next calendar date is
// "today". Resolution is total: bad rules and missing sunset data fall back
// to the fixed default instead of erroring.
package dayclock

import (
	"time"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
)

// DefaultHour and DefaultMinute form the fallback boundary (18:00 local),
// used for zero/malformed rules and for the sunset rule when no sunset
// instant is available.
const (
	DefaultHour   = 18
	DefaultMinute = 0
)

// Rule describes when a study day rolls over to the next one.
type Rule struct {
	Kind   domain.BoundaryKind
	Hour   int
	Minute int
}

// FixedTime returns a rule that rolls the day over at hour:minute local time.
func FixedTime(hour, minute int) Rule {
	return Rule{Kind: domain.BoundaryFixed, Hour: hour, Minute: minute}
}

// SunsetRule returns a rule that rolls the day over at local sunset.
func SunsetRule() Rule {
	return Rule{Kind: domain.BoundarySunset}
}

// FromSettings builds the rule configured in s.
func FromSettings(s domain.Settings) Rule {
	if s.Boundary == domain.BoundarySunset {
		return SunsetRule()
	}
	return FixedTime(s.FixedHour, s.FixedMinute)
}

// Resolve returns the study day that now belongs to. sunset, when non-nil,
// is the sunset instant for now's civil date and is only consulted under
// the sunset rule. At or after the boundary the next calendar date is
// returned; a boundary at exactly civil midnight tracks the calendar date.
func Resolve(now time.Time, rule Rule, sunset *time.Time) domain.DayKey {
	day := domain.DayKeyOf(now)
	b := BoundaryFor(now, rule, sunset)
	if b.Hour() == 0 && b.Minute() == 0 && b.Second() == 0 {
		return day
	}
	if !now.Before(b) {
		return day.Next()
	}
	return day
}

// BoundaryFor returns the rollover instant for now's civil date in now's
// location. Sunset instants from a different civil date are ignored so a
// stale lookup can never push resolution a full day off.
func BoundaryFor(now time.Time, rule Rule, sunset *time.Time) time.Time {
	if rule.Kind == domain.BoundarySunset {
		if sunset != nil {
			s := sunset.In(now.Location())
			if domain.DayKeyOf(s) == domain.DayKeyOf(now) {
				return s
			}
		}
		return at(now, DefaultHour, DefaultMinute)
	}
	h, m := rule.Hour, rule.Minute
	if h < 0 || h > 23 || m < 0 || m > 59 {
		h, m = DefaultHour, DefaultMinute
	}
	return at(now, h, m)
}

// Until returns the duration from now until the next rollover. After the
// boundary has passed the remainder of the civil date is counted toward
// the following day's boundary, approximated with the same clock time.
func Until(now time.Time, rule Rule, sunset *time.Time) time.Duration {
	b := BoundaryFor(now, rule, sunset)
	if now.Before(b) {
		return b.Sub(now)
	}
	return b.AddDate(0, 0, 1).Sub(now)
}

func at(now time.Time, hour, minute int) time.Time {
	y, mo, d := now.Date()
	return time.Date(y, mo, d, hour, minute, 0, 0, now.Location())
}
