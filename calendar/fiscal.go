package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// FISCAL DERIVER - Australian July-June fiscal year
// =============================================================================

// FiscalAttributes are the fiscal-year attributes of a date. The fiscal
// year is named by the calendar year it ends in (FY2024 = Jul 2023 - Jun 2024).
type FiscalAttributes struct {
	FiscalYearNum      int    `json:"fiscal_year_num"`
	FiscalHalfNum      int    `json:"fiscal_half_num"`
	FiscalQuarterNum   int    `json:"fiscal_quarter_num"`
	FiscalMonthNum     int    `json:"fiscal_month_num"`
	FiscalWeekNum      int    `json:"fiscal_week_num"`
	FiscalDayOfYear    int    `json:"fiscal_day_of_year"`
	FiscalDayOfQuarter int    `json:"fiscal_day_of_quarter"`
	FiscalYearStart    Date   `json:"fiscal_year_start"`
	FiscalYearEnd      Date   `json:"fiscal_year_end"`
	FiscalQuarterStart Date   `json:"fiscal_quarter_start"`
	FiscalQuarterEnd   Date   `json:"fiscal_quarter_end"`
	FiscalMonthStart   Date   `json:"fiscal_month_start"`
	FiscalMonthEnd     Date   `json:"fiscal_month_end"`
	FiscalYearDesc     string `json:"fiscal_year_desc"`
	FiscalQuarterDesc  string `json:"fiscal_quarter_desc"`
	FiscalMonthDesc    string `json:"fiscal_month_desc"`
}

// FiscalDeriver computes FiscalAttributes for fiscal years starting on the
// 1st of StartMonth.
type FiscalDeriver struct {
	StartMonth time.Month
}

// YearStart returns the first day of the fiscal year containing d.
func (f FiscalDeriver) YearStart(d Date) Date {
	year := d.Year()
	if d.Month() < f.StartMonth {
		year--
	}
	return StartOfMonth(year, f.StartMonth)
}

// Year returns the fiscal year containing d.
func (f FiscalDeriver) Year(d Date) Period {
	start := f.YearStart(d)
	return Period{Start: start, End: start.AddYears(1).AddDays(-1)}
}

// YearNamed returns the fiscal year whose number (end year) is fy.
func (f FiscalDeriver) YearNamed(fy int) Period {
	if f.StartMonth == time.January {
		return f.Year(EndOfYear(fy))
	}
	return f.Year(StartOfMonth(fy, f.StartMonth).AddDays(-1))
}

// MonthPeriod returns fiscal month m (1-12) of the fiscal year starting at yearStart.
func (f FiscalDeriver) MonthPeriod(yearStart Date, m int) Period {
	start := yearStart.AddMonths(m - 1)
	return Period{Start: start, End: start.AddMonths(1).AddDays(-1)}
}

// Derive returns the fiscal attributes of d.
func (f FiscalDeriver) Derive(d Date) FiscalAttributes {
	year := f.Year(d)
	months := MonthsBetween(year.Start, d)
	days := DaysBetween(year.Start, d)

	quarter := months/3 + 1
	month := months%12 + 1
	quarterStart := year.Start.AddMonths((quarter - 1) * 3)
	monthPeriod := f.MonthPeriod(year.Start, month)
	fy := year.End.Year()

	return FiscalAttributes{
		FiscalYearNum:      fy,
		FiscalHalfNum:      (quarter-1)/2 + 1,
		FiscalQuarterNum:   quarter,
		FiscalMonthNum:     month,
		FiscalWeekNum:      days/7 + 1,
		FiscalDayOfYear:    days + 1,
		FiscalDayOfQuarter: DaysBetween(quarterStart, d) + 1,
		FiscalYearStart:    year.Start,
		FiscalYearEnd:      year.End,
		FiscalQuarterStart: quarterStart,
		FiscalQuarterEnd:   quarterStart.AddMonths(3).AddDays(-1),
		FiscalMonthStart:   monthPeriod.Start,
		FiscalMonthEnd:     monthPeriod.End,
		FiscalYearDesc:     fmt.Sprintf("FY%d", fy),
		FiscalQuarterDesc:  fmt.Sprintf("FY%d Q%d", fy, quarter),
		FiscalMonthDesc:    fmt.Sprintf("FY%d M%02d", fy, month),
	}
}

// SameDayPreviousFiscalYear returns the date with the same fiscal month and
// day of month n fiscal years before d. When the target month is shorter
// (Feb 29 into a non-leap year) the result is clamped to its last day.
func (f FiscalDeriver) SameDayPreviousFiscalYear(d Date, n int) (Date, error) {
	if err := requireDate("date", d); err != nil {
		return Date{}, err
	}
	if n < 0 {
		return Date{}, &InvalidInputError{Field: "years", Reason: "must not be negative"}
	}
	if n == 0 {
		return d, nil
	}
	start := f.YearStart(d)
	target := f.MonthPeriod(start.AddYears(-n), MonthsBetween(start, d)%12+1)
	return target.At(d.Day() - 1), nil
}
