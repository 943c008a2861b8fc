package calendar

import (
	"fmt"
	"time"

	weekly "github.com/therootcompany/golib/time/calendar"
)

// =============================================================================
// GREGORIAN DERIVER - Standard calendar attributes
// =============================================================================

// GregorianAttributes are the standard calendar attributes of a date.
type GregorianAttributes struct {
	Year         int    `json:"year"`
	QuarterNum   int    `json:"quarter_num"`
	MonthNum     int    `json:"month_num"`
	MonthName    string `json:"month_name"`
	MonthShort   string `json:"month_short"`
	DayOfMonth   int    `json:"day_of_month"`
	DayOfQuarter int    `json:"day_of_quarter"`
	DayOfYear    int    `json:"day_of_year"`
	DaysInMonth  int    `json:"days_in_month"`
	IsLeapYear   bool   `json:"is_leap_year"`

	// DayOfWeekNum is 0=Sunday..6=Saturday regardless of week start.
	DayOfWeekNum int    `json:"day_of_week_num"`
	DayName      string `json:"day_name"`
	DayShort     string `json:"day_short"`

	ISOYear      int `json:"iso_year"`
	ISOWeekNum   int `json:"iso_week_num"`
	ISODayOfWeek int `json:"iso_day_of_week"`

	// Calendar week under the configured week start; week 1 holds Jan 1.
	WeekOfYear   int  `json:"week_of_year"`
	DayOfWeekPos int  `json:"day_of_week_pos"`
	WeekStart    Date `json:"week_start"`
	WeekEnd      Date `json:"week_end"`

	// WeekdayOfMonth is the occurrence of this weekday in the month (2nd Tuesday = 2).
	WeekdayOfMonth       int  `json:"weekday_of_month"`
	IsLastWeekdayOfMonth bool `json:"is_last_weekday_of_month"`

	MonthStart   Date `json:"month_start"`
	MonthEnd     Date `json:"month_end"`
	QuarterStart Date `json:"quarter_start"`
	QuarterEnd   Date `json:"quarter_end"`
	YearStart    Date `json:"year_start"`
	YearEnd      Date `json:"year_end"`

	IsWeekday bool `json:"is_weekday"`
	IsWeekend bool `json:"is_weekend"`

	YearMonth   string `json:"year_month"`
	MonthDesc   string `json:"month_desc"`
	QuarterDesc string `json:"quarter_desc"`
	ISOWeekDesc string `json:"iso_week_desc"`
	DateDesc    string `json:"date_desc"`
}

// GregorianDeriver computes GregorianAttributes. WeekStart sets the
// calendar-week convention (time.Sunday by default).
type GregorianDeriver struct {
	WeekStart time.Weekday
}

// Derive returns the Gregorian attributes of d.
func (g GregorianDeriver) Derive(d Date) GregorianAttributes {
	year, month := d.Year(), d.Month()
	quarter := (int(month)-1)/3 + 1
	quarterStart := StartOfMonth(year, time.Month((quarter-1)*3+1))
	isoYear, isoWeek := d.ISOWeek()

	pos := (int(d.Weekday()) - int(g.WeekStart) + 7) % 7
	jan1 := StartOfYear(year)
	jan1Pos := (int(jan1.Weekday()) - int(g.WeekStart) + 7) % 7
	weekStart := d.AddDays(-pos)

	nth := weekly.NthWeekday(d.Time())

	return GregorianAttributes{
		Year:         year,
		QuarterNum:   quarter,
		MonthNum:     int(month),
		MonthName:    month.String(),
		MonthShort:   month.String()[:3],
		DayOfMonth:   d.Day(),
		DayOfQuarter: DaysBetween(quarterStart, d) + 1,
		DayOfYear:    d.YearDay(),
		DaysInMonth:  DaysIn(year, month),
		IsLeapYear:   IsLeapYear(year),

		DayOfWeekNum: int(d.Weekday()),
		DayName:      d.Weekday().String(),
		DayShort:     d.Weekday().String()[:3],

		ISOYear:      isoYear,
		ISOWeekNum:   isoWeek,
		ISODayOfWeek: (int(d.Weekday())+6)%7 + 1,

		WeekOfYear:   (d.YearDay()-1+jan1Pos)/7 + 1,
		DayOfWeekPos: pos + 1,
		WeekStart:    weekStart,
		WeekEnd:      weekStart.AddDays(6),

		WeekdayOfMonth:       nth,
		IsLastWeekdayOfMonth: weekly.NthWeekdayFromEnd(d.Time()) == 1,

		MonthStart:   StartOfMonth(year, month),
		MonthEnd:     EndOfMonth(year, month),
		QuarterStart: quarterStart,
		QuarterEnd:   quarterStart.AddMonths(3).AddDays(-1),
		YearStart:    StartOfYear(year),
		YearEnd:      EndOfYear(year),

		IsWeekday: d.IsWeekday(),
		IsWeekend: d.IsWeekend(),

		YearMonth:   fmt.Sprintf("%04d-%02d", year, int(month)),
		MonthDesc:   fmt.Sprintf("%s %d", month, year),
		QuarterDesc: fmt.Sprintf("Q%d %d", quarter, year),
		ISOWeekDesc: fmt.Sprintf("%04d-W%02d", isoYear, isoWeek),
		DateDesc:    fmt.Sprintf("%s, %d%s %s %d", d.Weekday(), d.Day(), weekly.GetSuffixEnglish(d.Day()), month, year),
	}
}

// Quarter returns the Gregorian quarter containing d.
func Quarter(d Date) Period {
	q := (int(d.Month()) - 1) / 3
	start := StartOfMonth(d.Year(), time.Month(q*3+1))
	return Period{Start: start, End: start.AddMonths(3).AddDays(-1)}
}

// Month returns the Gregorian month containing d.
func Month(d Date) Period {
	return Period{Start: StartOfMonth(d.Year(), d.Month()), End: EndOfMonth(d.Year(), d.Month())}
}
