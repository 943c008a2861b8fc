/*
Package calendar provides the multi-calendar date dimension engine.

PURPOSE:
  Given a date range, a holiday fact set and a handful of anchor rules,
  this package deterministically derives every attribute of a date under
  three parallel calendar systems and answers business-day navigation
  and cross-calendar mapping queries.

CALENDAR SYSTEMS:
  - Gregorian: standard calendar, ISO weeks, configurable week start
  - Fiscal:    Australian July-June fiscal year, named by its end year
  - Retail:    52/53-week 4-4-5 family year anchored to the first
               Monday of July

KEY CONCEPTS IN THIS FILE (date.go):
  - Date: a calendar day with no time-of-day component
  - Date arithmetic helpers shared by every deriver

DATA FLOW:
  Spine -> {Gregorian, Fiscal, Retail} derivers -> {BusinessDayIndex,
  SeasonClassifier} -> Mapper / RelativeFlags

USAGE:
  cfg := calendar.DefaultBuildConfig(
      calendar.NewDate(2020, time.July, 1),
      calendar.NewDate(2030, time.June, 30),
  )
  cal, err := calendar.Build(ctx, cfg, holidays)
  day, err := cal.Day(calendar.NewDate(2023, time.December, 22))
  next, err := cal.AddTradingDays(day.Date, 3)

SEE ALSO:
  - build.go: Calendar construction
  - business.go: BusinessDayIndex
  - mapper.go: CrossCalendarMapper
*/
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// DATE - Day-granularity time abstraction
// =============================================================================

// DateLayout is the wire format of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day. The zero value means "no date" and is rejected
// by every operation that needs one.
type Date struct {
	t time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current date in loc (UTC when loc is nil).
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(time.Now().In(loc))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &InvalidInputError{Field: "date", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", s)}
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromKey converts a YYYYMMDD integer back into a Date.
func FromKey(key int) (Date, error) {
	y, m, d := key/10000, (key/100)%100, key%100
	if m < 1 || m > 12 || d < 1 || d > DaysIn(y, time.Month(m)) {
		return Date{}, &InvalidInputError{Field: "date_key", Reason: fmt.Sprintf("%d is not a valid YYYYMMDD key", key)}
	}
	return NewDate(y, time.Month(m), d), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int { return d.t.Compare(other.t) }

// Arithmetic. AddMonths and AddYears normalise like time.AddDate, so only
// call them on dates whose day exists in the target month.
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{t: d.t.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) YearDay() int          { return d.t.YearDay() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) Time() time.Time       { return d.t }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (d Date) IsWeekday() bool { return !d.IsWeekend() }

// ISOWeek returns the ISO 8601 year and week number.
func (d Date) ISOWeek() (year, week int) { return d.t.ISOWeek() }

// Key returns the YYYYMMDD integer surrogate key.
func (d Date) Key() int { return d.Year()*10000 + int(d.Month())*100 + d.Day() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Empty text is the zero Date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// DATE UTILITIES
// =============================================================================

// DaysBetween returns the signed number of days from -> to.
func DaysBetween(from, to Date) int { return int(to.t.Sub(from.t).Hours() / 24) }

// MonthsBetween returns the signed number of whole calendar months between
// the months containing from and to (day of month is ignored).
func MonthsBetween(from, to Date) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

func StartOfYear(year int) Date                    { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date                      { return NewDate(year, time.December, 31) }
func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }
func EndOfMonth(year int, month time.Month) Date {
	return NewDate(year, month+1, 1).AddDays(-1)
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int { return EndOfMonth(year, month).Day() }

func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
