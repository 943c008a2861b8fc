package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calendar-engine/calendar"
)

var auFiscal = calendar.FiscalDeriver{StartMonth: time.July}

func TestFiscalDeriver_FirstDayOfYear(t *testing.T) {
	// GIVEN: The Australian July fiscal year
	// WHEN: Deriving July 1 2023
	// THEN: It is day 1 of FY2024, named by the year it ends in

	attrs := auFiscal.Derive(d("2023-07-01"))

	assert.Equal(t, 2024, attrs.FiscalYearNum)
	assert.Equal(t, 1, attrs.FiscalHalfNum)
	assert.Equal(t, 1, attrs.FiscalQuarterNum)
	assert.Equal(t, 1, attrs.FiscalMonthNum)
	assert.Equal(t, 1, attrs.FiscalWeekNum)
	assert.Equal(t, 1, attrs.FiscalDayOfYear)
	assert.Equal(t, d("2023-07-01"), attrs.FiscalYearStart)
	assert.Equal(t, d("2024-06-30"), attrs.FiscalYearEnd)
	assert.Equal(t, "FY2024", attrs.FiscalYearDesc)
	assert.Equal(t, "FY2024 Q1", attrs.FiscalQuarterDesc)
	assert.Equal(t, "FY2024 M01", attrs.FiscalMonthDesc)
}

func TestFiscalDeriver_LastDayOfLeapYear(t *testing.T) {
	attrs := auFiscal.Derive(d("2024-06-30"))

	assert.Equal(t, 2024, attrs.FiscalYearNum)
	assert.Equal(t, 2, attrs.FiscalHalfNum)
	assert.Equal(t, 4, attrs.FiscalQuarterNum)
	assert.Equal(t, 12, attrs.FiscalMonthNum)
	assert.Equal(t, 366, attrs.FiscalDayOfYear)
	assert.Equal(t, 53, attrs.FiscalWeekNum)
}

func TestFiscalDeriver_MidYear(t *testing.T) {
	attrs := auFiscal.Derive(d("2024-02-29"))

	assert.Equal(t, 8, attrs.FiscalMonthNum)
	assert.Equal(t, 3, attrs.FiscalQuarterNum)
	assert.Equal(t, d("2024-01-01"), attrs.FiscalQuarterStart)
	assert.Equal(t, d("2024-03-31"), attrs.FiscalQuarterEnd)
	assert.Equal(t, 60, attrs.FiscalDayOfQuarter)
	assert.Equal(t, d("2024-02-01"), attrs.FiscalMonthStart)
	assert.Equal(t, d("2024-02-29"), attrs.FiscalMonthEnd)
}

func TestFiscalDeriver_YearNamed(t *testing.T) {
	fy := auFiscal.YearNamed(2024)
	assert.Equal(t, d("2023-07-01"), fy.Start)
	assert.Equal(t, d("2024-06-30"), fy.End)

	calendarYear := calendar.FiscalDeriver{StartMonth: time.January}
	fy = calendarYear.YearNamed(2024)
	assert.Equal(t, d("2024-01-01"), fy.Start)
	assert.Equal(t, d("2024-12-31"), fy.End)
	assert.Equal(t, 2024, calendarYear.Derive(d("2024-05-01")).FiscalYearNum)
}

func TestSameDayPreviousFiscalYear(t *testing.T) {
	tests := []struct {
		name string
		date string
		n    int
		want string
	}{
		{"leap day clamps to Feb 28", "2024-02-29", 1, "2023-02-28"},
		{"two years back", "2023-08-15", 2, "2021-08-15"},
		{"first day of fiscal year", "2024-07-01", 1, "2023-07-01"},
		{"zero years is identity", "2023-12-22", 0, "2023-12-22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auFiscal.SameDayPreviousFiscalYear(d(tt.date), tt.n)
			require.NoError(t, err)
			assert.Equal(t, d(tt.want), got)
		})
	}
}

func TestSameDayPreviousFiscalYear_InvalidInput(t *testing.T) {
	_, err := auFiscal.SameDayPreviousFiscalYear(d("2024-02-29"), -1)
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)

	_, err = auFiscal.SameDayPreviousFiscalYear(calendar.Date{}, 1)
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)
}
