package calendar_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calendar-engine/calendar"
)

// =============================================================================
// NAVIGATION
// =============================================================================

func TestIsTradingDay(t *testing.T) {
	cal := newTestCalendar(t)

	tests := []struct {
		date string
		want bool
	}{
		{"2023-12-22", true},  // Friday
		{"2023-12-23", false}, // Saturday
		{"2023-12-25", false}, // Christmas Day
		{"2023-12-27", true},
		{"2023-04-07", false}, // Good Friday
	}
	for _, tt := range tests {
		got, err := cal.IsTradingDay(d(tt.date))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.date)
	}
}

func TestAddTradingDays_SkipsWeekendAndHolidays(t *testing.T) {
	// GIVEN: Dec 23-24 2023 is a weekend, Dec 25-26 are public holidays
	// WHEN: Adding 3 trading days to Friday Dec 22
	// THEN: The result is Dec 29 (27, 28, 29 consumed)

	cal := newTestCalendar(t)

	got, err := cal.AddTradingDays(d("2023-12-22"), 3)

	require.NoError(t, err)
	assert.Equal(t, d("2023-12-29"), got)
}

func TestAddTradingDays_NonTradingStart(t *testing.T) {
	cal := newTestCalendar(t)

	got, err := cal.AddTradingDays(d("2023-12-25"), 0)
	require.NoError(t, err)
	assert.Equal(t, d("2023-12-27"), got, "n=0 resolves to the next trading day")

	got, err = cal.AddTradingDays(d("2023-12-25"), 1)
	require.NoError(t, err)
	assert.Equal(t, d("2023-12-28"), got, "forward counts from the next trading day")

	got, err = cal.AddTradingDays(d("2023-12-25"), -1)
	require.NoError(t, err)
	assert.Equal(t, d("2023-12-21"), got, "backward counts from the previous trading day")

	got, err = cal.AddTradingDays(d("2023-12-22"), 0)
	require.NoError(t, err)
	assert.Equal(t, d("2023-12-22"), got)
}

func TestAddTradingDays_RoundTrip(t *testing.T) {
	// GIVEN: Any trading day d
	// WHEN: Moving n trading days and then -n
	// THEN: The result is d again

	cal := newTestCalendar(t)
	days, err := cal.Days(d("2023-11-01"), d("2024-01-31"))
	require.NoError(t, err)

	for day := range days {
		if !day.IsTradingDay {
			continue
		}
		for _, n := range []int{1, 3, 10, -1, -3, -10} {
			moved, err := cal.AddTradingDays(day.Date, n)
			require.NoError(t, err)
			back, err := cal.AddTradingDays(moved, -n)
			require.NoError(t, err)
			assert.Equal(t, day.Date, back, "%s %+d", day.Date, n)
		}
	}
}

func TestNextAndPreviousTradingDay(t *testing.T) {
	cal := newTestCalendar(t)

	next, err := cal.NextTradingDay(d("2023-12-22"))
	require.NoError(t, err)
	assert.Equal(t, d("2023-12-27"), next)

	prev, err := cal.PreviousTradingDay(d("2023-12-27"))
	require.NoError(t, err)
	assert.Equal(t, d("2023-12-22"), prev)

	prev, err = cal.PreviousTradingDay(d("2023-04-10"))
	require.NoError(t, err)
	assert.Equal(t, d("2023-04-06"), prev, "skips Easter")
}

func TestNavigation_OutOfRange(t *testing.T) {
	cal := newTestCalendar(t)
	var oor *calendar.OutOfRangeError

	_, err := cal.NextTradingDay(d("2024-12-31"))
	assert.ErrorAs(t, err, &oor, "no trading day after the last built day")

	_, err = cal.PreviousTradingDay(d("2023-01-01"))
	assert.ErrorAs(t, err, &oor)

	_, err = cal.IsTradingDay(d("2025-01-01"))
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)

	_, err = cal.AddTradingDays(d("2024-12-31"), 1)
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)

	_, err = cal.AddTradingDays(d("2023-01-03"), -5)
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)

	_, err = cal.IsTradingDay(calendar.Date{})
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)
}

// =============================================================================
// COUNTING
// =============================================================================

func TestCountTradingDays(t *testing.T) {
	cal := newTestCalendar(t)

	n, err := cal.CountTradingDays(d("2023-12-22"), d("2023-12-29"))
	require.NoError(t, err)
	assert.Equal(t, 4, n, "22, 27, 28, 29")

	n, err = cal.CountTradingDays(d("2023-12-25"), d("2023-12-25"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = cal.CountTradingDays(d("2023-12-29"), d("2023-12-22"))
	require.NoError(t, err, "inverted range is not an error")
	assert.Equal(t, 0, n)

	_, err = cal.CountTradingDays(d("2022-12-01"), d("2023-01-31"))
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)

	_, err = cal.CountTradingDays(calendar.Date{}, d("2023-01-31"))
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)
}

func TestCountTradingDays_MatchesIndexLen(t *testing.T) {
	cal := newTestCalendar(t)

	n, err := cal.CountTradingDays(d("2023-01-01"), d("2024-12-31"))

	require.NoError(t, err)
	assert.Equal(t, cal.Index().Len(), n)
}

// =============================================================================
// NTH TRADING DAY OF MONTH
// =============================================================================

func TestNthTradingDayOfMonth(t *testing.T) {
	// GIVEN: December 2023 (Dec 1 is a Friday; 25, 26 are holidays)
	// WHEN: Asking for the 5th trading day
	// THEN: Dec 1, 4, 5, 6, 7 -> Dec 7

	cal := newTestCalendar(t)

	got, ok, err := cal.NthTradingDayOfMonth(2023, 12, 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, d("2023-12-07"), got)

	got, ok, err = cal.NthTradingDayOfMonth(2023, 12, 19)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, d("2023-12-29"), got)

	_, ok, err = cal.NthTradingDayOfMonth(2023, 12, 20)
	require.NoError(t, err)
	assert.False(t, ok, "December 2023 has 19 trading days")
}

func TestNthLastTradingDayOfMonth(t *testing.T) {
	cal := newTestCalendar(t)

	got, ok, err := cal.NthLastTradingDayOfMonth(2023, 12, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, d("2023-12-29"), got)

	got, ok, err = cal.NthLastTradingDayOfMonth(2023, 12, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, d("2023-12-28"), got)
}

func TestNthTradingDayOfMonth_InvalidInput(t *testing.T) {
	cal := newTestCalendar(t)

	_, _, err := cal.NthTradingDayOfMonth(2023, 13, 1)
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)

	_, _, err = cal.NthTradingDayOfMonth(2023, 12, 0)
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)

	_, _, err = cal.NthTradingDayOfMonth(2030, 1, 1)
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)
}

func TestNthTradingDayOfMonth_PartialMonth(t *testing.T) {
	// GIVEN: A calendar built from 2023-12-15 to 2024-06-30
	// WHEN: Asking for ordinals in December 2023 and in June 2024
	// THEN: Only the partial December is out of range; June is whole

	cfg := calendar.DefaultBuildConfig(d("2023-12-15"), d("2024-06-30"))
	cal, err := calendar.Build(context.Background(), cfg, christmas2023())
	require.NoError(t, err)

	var oor *calendar.OutOfRangeError
	_, ok, err := cal.NthTradingDayOfMonth(2023, 12, 1)
	require.ErrorAs(t, err, &oor)
	assert.False(t, ok)
	assert.Equal(t, d("2023-12-01"), oor.Date)

	got, ok, err := cal.NthLastTradingDayOfMonth(2024, 6, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, d("2024-06-28"), got)

	short := calendar.DefaultBuildConfig(d("2023-01-01"), d("2023-12-15"))
	cal, err = calendar.Build(context.Background(), short, christmas2023())
	require.NoError(t, err)

	_, _, err = cal.NthLastTradingDayOfMonth(2023, 12, 1)
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, d("2023-12-31"), oor.Date)
}

func TestTradingDaysIn(t *testing.T) {
	cal := newTestCalendar(t)

	got := cal.Index().TradingDaysIn(calendar.Period{Start: d("2023-12-23"), End: d("2023-12-27")})
	assert.Equal(t, []calendar.Date{d("2023-12-27")}, got)

	assert.Empty(t, cal.Index().TradingDaysIn(calendar.Period{Start: d("2023-12-23"), End: d("2023-12-26")}))
}
