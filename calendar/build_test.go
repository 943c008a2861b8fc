/*
build_test.go - Tests for calendar construction

Covers config validation at build start, cancellation, version
fingerprints, jurisdiction scoping and the navigation fields written by
the ordered indexing pass. Shared fixtures for the other calendar tests
live here too.
*/
package calendar_test

import (
	"context"
	"slices"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calendar-engine/calendar"
)

// =============================================================================
// TEST INFRASTRUCTURE
// =============================================================================

func holiday(date, name string, j calendar.Jurisdiction) calendar.Holiday {
	return calendar.Holiday{Date: d(date), Name: name, Jurisdiction: j}
}

// christmas2023 is Easter and Christmas 2023, national.
func christmas2023() []calendar.Holiday {
	return []calendar.Holiday{
		holiday("2023-04-07", "Good Friday", calendar.JurisdictionNational),
		holiday("2023-04-10", "Easter Monday", calendar.JurisdictionNational),
		holiday("2023-12-25", "Christmas Day", calendar.JurisdictionNational),
		holiday("2023-12-26", "Boxing Day", calendar.JurisdictionNational),
	}
}

func testConfig() calendar.BuildConfig {
	return calendar.DefaultBuildConfig(d("2023-01-01"), d("2024-12-31"))
}

// newTestCalendar builds 2023-2024 with the christmas2023 holidays.
func newTestCalendar(t *testing.T) *calendar.Calendar {
	t.Helper()
	cal, err := calendar.Build(context.Background(), testConfig(), christmas2023())
	require.NoError(t, err)
	return cal
}

func day(t *testing.T, cal *calendar.Calendar, s string) calendar.CalendarDay {
	t.Helper()
	got, err := cal.Day(d(s))
	require.NoError(t, err)
	return got
}

// =============================================================================
// BUILD
// =============================================================================

func TestBuild_DerivesEveryDay(t *testing.T) {
	cal := newTestCalendar(t)

	assert.Equal(t, 731, cal.Len())
	assert.Equal(t, 4, cal.HolidayDates())
	assert.Equal(t, []calendar.Date{d("2023-07-03"), d("2024-07-01")}, cal.Anchors())

	first := day(t, cal, "2023-01-01")
	assert.Equal(t, 20230101, first.DateKey)
	assert.True(t, first.PreviousDate.IsZero(), "no day before the range")
	assert.True(t, first.PreviousTradingDate.IsZero())
	assert.Equal(t, d("2023-01-02"), first.NextDate)

	last := day(t, cal, "2024-12-31")
	assert.True(t, last.NextDate.IsZero(), "no day after the range")
	assert.True(t, last.NextTradingDate.IsZero())
}

func TestBuild_InvalidConfigIsFatal(t *testing.T) {
	cfg := testConfig()
	cfg.RetailPattern = "444"

	cal, err := calendar.Build(context.Background(), cfg, nil)

	assert.Nil(t, cal)
	assert.ErrorIs(t, err, calendar.ErrInvalidConfig)

	cfg = testConfig()
	cfg.FiscalStartMonth = 13
	_, err = calendar.Build(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, calendar.ErrInvalidConfig)

	cfg = calendar.DefaultBuildConfig(d("2024-01-01"), d("2023-01-01"))
	_, err = calendar.Build(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, calendar.ErrInvalidConfig)
}

func TestBuild_InvalidHolidayRejected(t *testing.T) {
	_, err := calendar.Build(context.Background(), testConfig(), []calendar.Holiday{
		holiday("2023-12-25", "", calendar.JurisdictionNational),
	})
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)
}

func TestBuild_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cal, err := calendar.Build(ctx, testConfig(), christmas2023())

	assert.Nil(t, cal)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_VersionIsStable(t *testing.T) {
	// GIVEN: The same config and holidays in a different order
	// WHEN: Building twice
	// THEN: Both builds share a version; changing a holiday changes it

	a := newTestCalendar(t)

	reversed := christmas2023()
	slices.Reverse(reversed)
	cfg := testConfig()
	cfg.Workers = 2
	b, err := calendar.Build(context.Background(), cfg, reversed)
	require.NoError(t, err)
	assert.Equal(t, a.Version(), b.Version())

	fewer := christmas2023()[:3]
	c, err := calendar.Build(context.Background(), testConfig(), fewer)
	require.NoError(t, err)
	assert.NotEqual(t, a.Version(), c.Version())
}

func TestBuild_JurisdictionScope(t *testing.T) {
	cfg := testConfig()
	cfg.Jurisdictions = []calendar.Jurisdiction{calendar.JurisdictionNational, calendar.JurisdictionNSW}

	cal, err := calendar.Build(context.Background(), cfg, []calendar.Holiday{
		holiday("2023-11-07", "Melbourne Cup", calendar.JurisdictionVIC),
		holiday("2023-10-02", "Labour Day", calendar.JurisdictionNSW),
	})
	require.NoError(t, err)

	trading, err := cal.IsTradingDay(d("2023-11-07"))
	require.NoError(t, err)
	assert.True(t, trading, "VIC holiday is out of scope")

	labour := day(t, cal, "2023-10-02")
	assert.False(t, labour.IsTradingDay)
	assert.True(t, labour.IsHoliday)
	assert.False(t, labour.IsHolidayNational)
	assert.Equal(t, []string{"Labour Day"}, labour.HolidayNames)
	assert.Equal(t, []calendar.Jurisdiction{calendar.JurisdictionNSW}, labour.HolidayJurisdictions)
}

func TestBuild_HolidayAttributes(t *testing.T) {
	cal := newTestCalendar(t)

	xmas := day(t, cal, "2023-12-25")
	assert.True(t, xmas.IsHoliday)
	assert.True(t, xmas.IsHolidayNational)
	assert.False(t, xmas.IsTradingDay)
	assert.Equal(t, []string{"Christmas Day"}, xmas.HolidayNames)
	assert.Zero(t, xmas.TradingDayOrdinal)
	assert.Zero(t, xmas.TradingDayOfMonth)

	saturday := day(t, cal, "2023-12-23")
	assert.False(t, saturday.IsHoliday)
	assert.False(t, saturday.IsTradingDay)
}

func TestBuild_Navigation(t *testing.T) {
	// GIVEN: December 2023 with Christmas and Boxing Day off
	// WHEN: Reading the navigation fields of Friday Dec 22
	// THEN: It is the 16th of 19 trading days and points across the break

	cal := newTestCalendar(t)
	fri := day(t, cal, "2023-12-22")

	assert.True(t, fri.IsTradingDay)
	assert.Equal(t, d("2023-12-27"), fri.NextTradingDate)
	assert.Equal(t, d("2023-12-21"), fri.PreviousTradingDate)
	assert.Equal(t, d("2023-12-23"), fri.NextDate)
	assert.Equal(t, 16, fri.TradingDayOfMonth)
	assert.Equal(t, 19, fri.TradingDaysInMonth)
	assert.True(t, decimal.RequireFromString("0.8421").Equal(fri.TradingDayProgress), fri.TradingDayProgress.String())

	ordinal, ok := cal.Index().Ordinal(d("2023-12-22"))
	require.True(t, ok)
	assert.Equal(t, ordinal, fri.TradingDayOrdinal)

	last := day(t, cal, "2023-12-29")
	assert.Equal(t, 19, last.TradingDayOfMonth)
	assert.True(t, decimal.NewFromInt(1).Equal(last.TradingDayProgress))
}

func TestBuild_PeriodTotalsMatchCounts(t *testing.T) {
	cal := newTestCalendar(t)

	t.Run("fiscal year inside the range", func(t *testing.T) {
		want, err := cal.CountTradingDays(d("2023-07-01"), d("2024-06-30"))
		require.NoError(t, err)
		assert.Equal(t, want, day(t, cal, "2023-10-10").TradingDaysInFiscalYear)
	})

	t.Run("fiscal year clipped by the range start", func(t *testing.T) {
		want, err := cal.CountTradingDays(d("2023-01-01"), d("2023-06-30"))
		require.NoError(t, err)
		assert.Equal(t, want, day(t, cal, "2023-01-03").TradingDaysInFiscalYear)
	})

	t.Run("retail period", func(t *testing.T) {
		p1 := day(t, cal, "2023-07-03")
		assert.Equal(t, 20, p1.TradingDaysInRetailPeriod)
		assert.Equal(t, 1, p1.TradingDayOfRetailPeriod)
	})
}

func TestCalendar_OrdinalsAscend(t *testing.T) {
	cal := newTestCalendar(t)
	idx := cal.Index()

	days, err := cal.Days(d("2023-01-01"), d("2024-12-31"))
	require.NoError(t, err)

	prev, count := 0, 0
	for day := range days {
		if !day.IsTradingDay {
			assert.Zero(t, day.TradingDayOrdinal)
			continue
		}
		count++
		assert.Equal(t, prev+1, day.TradingDayOrdinal, day.Date.String())
		at, ok := idx.At(day.TradingDayOrdinal)
		require.True(t, ok)
		assert.Equal(t, day.Date, at)
		prev = day.TradingDayOrdinal
	}
	assert.Equal(t, idx.Len(), count)
}

func TestCalendar_DaysRange(t *testing.T) {
	cal := newTestCalendar(t)

	days, err := cal.Days(d("2023-12-24"), d("2023-12-26"))
	require.NoError(t, err)
	var got []calendar.Date
	for day := range days {
		got = append(got, day.Date)
	}
	assert.Equal(t, []calendar.Date{d("2023-12-24"), d("2023-12-25"), d("2023-12-26")}, got)

	_, err = cal.Days(d("2022-12-31"), d("2023-01-05"))
	assert.ErrorIs(t, err, calendar.ErrOutOfRange)

	_, err = cal.Days(d("2023-02-01"), d("2023-01-01"))
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)

	_, err = cal.Day(calendar.Date{})
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)

	_, err = cal.Day(d("2025-01-01"))
	var oor *calendar.OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, d("2024-12-31"), oor.End)
}

func TestCalendar_AllYieldsEveryDay(t *testing.T) {
	cal := newTestCalendar(t)

	var got []calendar.Date
	for day := range cal.All() {
		got = append(got, day.Date)
	}

	require.Len(t, got, cal.Len())
	assert.Equal(t, d("2023-01-01"), got[0])
	assert.Equal(t, d("2024-12-31"), got[len(got)-1])
}

func TestBuildConfig_Location(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "Australia/Sydney", cfg.Location().String())

	cfg.TimezoneLabel = "Nowhere/Invalid"
	assert.Equal(t, time.UTC, cfg.Location())
}
