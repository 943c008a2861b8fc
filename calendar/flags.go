package calendar

// =============================================================================
// RELATIVE FLAGS - Evaluated against a caller-supplied "today"
// =============================================================================

// RelativeFlags describe where a day sits relative to today. They are
// recomputed per query and never stored on the CalendarDay.
//
// Windows: last N days is [today-N, today-1]; rolling windows end on
// today inclusive and start the day after today minus 12 (or 3) months.
type RelativeFlags struct {
	Today Date `json:"today"`

	IsCurrentDate       bool `json:"is_current_date"`
	IsCurrentMonth      bool `json:"is_current_month"`
	IsCurrentQuarter    bool `json:"is_current_quarter"`
	IsCurrentYear       bool `json:"is_current_year"`
	IsCurrentFiscalYear bool `json:"is_current_fiscal_year"`

	IsLast7Days  bool `json:"is_last_7_days"`
	IsLast30Days bool `json:"is_last_30_days"`
	IsLast90Days bool `json:"is_last_90_days"`

	IsPreviousMonth   bool `json:"is_previous_month"`
	IsPreviousQuarter bool `json:"is_previous_quarter"`

	IsRolling12Months bool `json:"is_rolling_12_months"`
	IsRollingQuarter  bool `json:"is_rolling_quarter"`

	IsYearToDate       bool `json:"is_year_to_date"`
	IsFiscalYearToDate bool `json:"is_fiscal_year_to_date"`
	IsQuarterToDate    bool `json:"is_quarter_to_date"`
	IsMonthToDate      bool `json:"is_month_to_date"`
}

// RelativeFlagsFor compares day against today using only attributes
// already present on both.
func RelativeFlagsFor(day, today *CalendarDay) RelativeFlags {
	d, t := day.Date, today.Date
	notAfter := !d.After(t)

	sameMonth := day.MonthStart.Equal(today.MonthStart)
	sameQuarter := day.QuarterStart.Equal(today.QuarterStart)
	sameYear := day.Year == today.Year
	sameFiscal := day.FiscalYearNum == today.FiscalYearNum

	lastDays := func(n int) bool {
		return !d.Before(t.AddDays(-n)) && d.Before(t)
	}
	rolling := func(months int) bool {
		return d.After(monthsBack(t, months)) && notAfter
	}

	return RelativeFlags{
		Today: t,

		IsCurrentDate:       d.Equal(t),
		IsCurrentMonth:      sameMonth,
		IsCurrentQuarter:    sameQuarter,
		IsCurrentYear:       sameYear,
		IsCurrentFiscalYear: sameFiscal,

		IsLast7Days:  lastDays(7),
		IsLast30Days: lastDays(30),
		IsLast90Days: lastDays(90),

		IsPreviousMonth:   day.MonthStart.Equal(today.MonthStart.AddMonths(-1)),
		IsPreviousQuarter: day.QuarterStart.Equal(today.QuarterStart.AddMonths(-3)),

		IsRolling12Months: rolling(12),
		IsRollingQuarter:  rolling(3),

		IsYearToDate:       sameYear && notAfter,
		IsFiscalYearToDate: sameFiscal && notAfter,
		IsQuarterToDate:    sameQuarter && notAfter,
		IsMonthToDate:      sameMonth && notAfter,
	}
}

// monthsBack returns d moved back n months, clamped to the end of the
// target month.
func monthsBack(d Date, n int) Date {
	return Month(StartOfMonth(d.Year(), d.Month()).AddMonths(-n)).At(d.Day() - 1)
}
