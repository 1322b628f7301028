package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

func TestCalendar_Weekends(t *testing.T) {
	loc := mustLocation(t)
	cal := New(loc, nil)

	// 2026-08-22 is a Saturday, 2026-08-23 a Sunday.
	saturday := time.Date(2026, 8, 22, 12, 0, 0, 0, loc)
	sunday := time.Date(2026, 8, 23, 12, 0, 0, 0, loc)
	monday := time.Date(2026, 8, 24, 12, 0, 0, 0, loc)

	assert.True(t, cal.IsNonTradingDay(saturday))
	assert.True(t, cal.IsNonTradingDay(sunday))
	assert.False(t, cal.IsNonTradingDay(monday))
}

func TestCalendar_WeekendRegardlessOfHolidayList(t *testing.T) {
	loc := mustLocation(t)
	// Empty and populated holiday lists agree on weekends.
	empty := New(loc, nil)
	populated := New(loc, []time.Time{time.Date(2026, 1, 26, 0, 0, 0, 0, loc)})

	saturday := time.Date(2026, 8, 22, 0, 0, 0, 0, loc)
	assert.True(t, empty.IsNonTradingDay(saturday))
	assert.True(t, populated.IsNonTradingDay(saturday))
}

func TestCalendar_WeekdayHoliday(t *testing.T) {
	loc := mustLocation(t)
	// 2026-01-26 (Republic Day) is a Monday.
	cal, err := NewFromStrings(loc, []string{"2026-01-26"})
	require.NoError(t, err)

	holiday := time.Date(2026, 1, 26, 9, 30, 0, 0, loc)
	dayAfter := time.Date(2026, 1, 27, 9, 30, 0, 0, loc)

	assert.True(t, cal.IsNonTradingDay(holiday))
	assert.False(t, cal.IsNonTradingDay(dayAfter))
}

func TestCalendar_NormalizesAcrossTimezones(t *testing.T) {
	loc := mustLocation(t)
	cal, err := NewFromStrings(loc, []string{"2026-01-26"})
	require.NoError(t, err)

	// 2026-01-25 21:00 UTC is already 2026-01-26 in IST.
	utcEvening := time.Date(2026, 1, 25, 21, 0, 0, 0, time.UTC)
	assert.True(t, cal.IsNonTradingDay(utcEvening))
}

func TestCalendar_TotalForUnlistedDates(t *testing.T) {
	loc := mustLocation(t)
	cal := New(loc, nil)

	// No holiday entry means not a holiday, any year.
	assert.False(t, cal.IsNonTradingDay(time.Date(1991, 7, 24, 0, 0, 0, 0, loc)))  // Wednesday
	assert.False(t, cal.IsNonTradingDay(time.Date(2050, 12, 22, 0, 0, 0, 0, loc))) // Thursday
}

func TestNewFromStrings_InvalidDate(t *testing.T) {
	loc := mustLocation(t)
	_, err := NewFromStrings(loc, []string{"26-01-2026"})
	assert.Error(t, err)
}
