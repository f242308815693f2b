package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayKey_Valid(t *testing.T) {
	d, err := ParseDayKey("2026-08-24")
	require.NoError(t, err)
	assert.Equal(t, DayKey("2026-08-24"), d)
}

func TestParseDayKey_Invalid(t *testing.T) {
	for _, s := range []string{"", "2026-8-24", "24-08-2026", "2026-13-01", "not a date", "2026-02-30"} {
		_, err := ParseDayKey(s)
		assert.Error(t, err, "input=%q", s)
	}
}

func TestDayKeyOf_UsesLocalCivilDate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	// 23:30 local on the 24th is already the 25th in UTC.
	d := DayKeyOf(time.Date(2026, 8, 24, 23, 30, 0, 0, loc))
	assert.Equal(t, DayKey("2026-08-24"), d)
}

func TestDayKey_NextPrev(t *testing.T) {
	d := DayKey("2026-08-31")
	assert.Equal(t, DayKey("2026-09-01"), d.Next())
	assert.Equal(t, DayKey("2026-08-30"), d.Prev())
	assert.Equal(t, d, d.Next().Prev())
}

func TestDayKey_AddDays_AcrossYearBoundary(t *testing.T) {
	assert.Equal(t, DayKey("2027-01-02"), DayKey("2025-12-31").AddDays(367))
	assert.Equal(t, DayKey("2025-12-31"), DayKey("2026-01-01").AddDays(-1))
}

func TestDayKey_Ordering(t *testing.T) {
	a := DayKey("2026-08-24")
	b := DayKey("2026-09-01")
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
}

func TestDayKey_Valid(t *testing.T) {
	assert.True(t, DayKey("2026-08-24").Valid())
	assert.False(t, DayKey("garbage").Valid())
	assert.False(t, DayKey("").Valid())
}
