package holidays_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/holidays"
)

var (
	ctx = context.Background()
	d   = calendar.MustParseDate
)

func byName(hs []calendar.Holiday, j calendar.Jurisdiction) map[string]calendar.Date {
	out := make(map[string]calendar.Date)
	for _, h := range hs {
		if h.Jurisdiction == j {
			out[h.Name] = h.Date
		}
	}
	return out
}

func TestNationalRules_2023(t *testing.T) {
	hs, err := holidays.NewNationalRules().Holidays(ctx, d("2023-01-01"), d("2023-12-31"))
	require.NoError(t, err)

	nat := byName(hs, calendar.JurisdictionNational)
	assert.Len(t, hs, 7)
	assert.Equal(t, d("2023-01-02"), nat["New Year's Day"], "Sunday moves to Monday")
	assert.Equal(t, d("2023-01-26"), nat["Australia Day"])
	assert.Equal(t, d("2023-04-07"), nat["Good Friday"])
	assert.Equal(t, d("2023-04-10"), nat["Easter Monday"])
	assert.Equal(t, d("2023-04-25"), nat["Anzac Day"])
	assert.Equal(t, d("2023-12-25"), nat["Christmas Day"])
	assert.Equal(t, d("2023-12-26"), nat["Boxing Day"])

	for _, h := range hs {
		assert.NoError(t, h.Validate())
		assert.NotEmpty(t, h.ID)
	}
}

func TestNationalRules_ChristmasOnSunday(t *testing.T) {
	// GIVEN: Christmas 2022 falls on a Sunday
	// WHEN: Computing the observed dates
	// THEN: Christmas moves to Tuesday 27th, Boxing Day stays on Monday 26th

	hs, err := holidays.NewNationalRules().Holidays(ctx, d("2022-12-01"), d("2022-12-31"))
	require.NoError(t, err)

	nat := byName(hs, calendar.JurisdictionNational)
	assert.Equal(t, d("2022-12-27"), nat["Christmas Day"])
	assert.Equal(t, d("2022-12-26"), nat["Boxing Day"])
}

func TestAustralianRules_StateHolidays(t *testing.T) {
	hs, err := holidays.NewAustralianRules().Holidays(ctx, d("2023-01-01"), d("2023-12-31"))
	require.NoError(t, err)

	assert.Equal(t, d("2023-11-07"), byName(hs, calendar.JurisdictionVIC)["Melbourne Cup"])
	assert.Equal(t, d("2023-10-02"), byName(hs, calendar.JurisdictionNSW)["Labour Day"])
	assert.Equal(t, d("2023-03-06"), byName(hs, calendar.JurisdictionWA)["Labour Day"])
	assert.Equal(t, d("2023-03-13"), byName(hs, calendar.JurisdictionVIC)["Labour Day"])
	assert.Equal(t, d("2023-06-12"), byName(hs, calendar.JurisdictionNSW)["King's Birthday"])
	assert.NotContains(t, byName(hs, calendar.JurisdictionNSW), "Melbourne Cup")
}

func TestRules_RangeFilterAndErrors(t *testing.T) {
	hs, err := holidays.NewNationalRules().Holidays(ctx, d("2023-04-01"), d("2023-04-30"))
	require.NoError(t, err)
	assert.Len(t, hs, 3, "Good Friday, Easter Monday, Anzac Day")

	_, err = holidays.NewNationalRules().Holidays(ctx, d("2023-12-31"), d("2023-01-01"))
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = holidays.NewNationalRules().Holidays(cancelled, d("2023-01-01"), d("2023-12-31"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRules_AgreeWithBusinessCalendar(t *testing.T) {
	src := holidays.NewNationalRules()
	bc := src.BusinessCalendar()

	hs, err := src.Holidays(ctx, d("2023-01-01"), d("2024-12-31"))
	require.NoError(t, err)
	for _, h := range hs {
		at := time.Date(h.Date.Year(), h.Date.Month(), h.Date.Day(), 12, 0, 0, 0, time.UTC)
		assert.False(t, bc.IsWorkday(at), "%s %s", h.Name, h.Date)
	}

	assert.True(t, bc.IsWorkday(time.Date(2023, time.December, 27, 12, 0, 0, 0, time.UTC)))
}
