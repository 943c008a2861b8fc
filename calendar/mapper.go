/*
mapper.go - Cross-calendar date mapping

PURPOSE:
  Maps a date from one calendar system to the aligned period of another,
  optionally keeping its relative position inside the period.

ALIGNMENT:
  Fiscal month 1 is Gregorian month 7 (for a July fiscal start); retail
  period p lines up with Gregorian month ((p+5) mod 12)+1, so P01 is July
  and P07 is January. Fiscal <-> Retail always goes through Gregorian.

POSITION:
  preserveDay=true keeps the zero-based day offset inside the source
  period (day of month, or days since the retail period start) and
  applies it to the target period, clamped to the target length.
  preserveDay=false returns the first day of the target period.

INVERTIBILITY:
  Clamping is lossy: mapping Jan 31 into a 4-week period and back does not
  return Jan 31. Round trips are only identity for preserveDay=false on
  periods that line up 1:1. This is expected behaviour.
*/
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// System identifies a calendar system.
type System string

const (
	SystemGregorian System = "gregorian"
	SystemFiscal    System = "fiscal"
	SystemRetail    System = "retail"
)

// ParseSystem accepts a system name case-insensitively.
func ParseSystem(s string) (System, error) {
	switch sys := System(strings.ToLower(strings.TrimSpace(s))); sys {
	case SystemGregorian, SystemFiscal, SystemRetail:
		return sys, nil
	case "calendar", "standard":
		return SystemGregorian, nil
	default:
		return "", &InvalidInputError{Field: "system", Reason: fmt.Sprintf("unknown calendar system %q", s)}
	}
}

// retailFirstMonth is the Gregorian month aligned with retail period 1.
const retailFirstMonth = time.July

// Mapper maps dates between calendar systems inside a bounded range.
type Mapper struct {
	bounds Period
	fiscal FiscalDeriver
	retail *RetailDeriver
}

// NewMapper creates a mapper whose results must fall inside bounds.
func NewMapper(bounds Period, fiscal FiscalDeriver, retail *RetailDeriver) *Mapper {
	return &Mapper{bounds: bounds, fiscal: fiscal, retail: retail}
}

// Map returns the date aligned with d in the target system. ok is false
// when the result, or d itself, lies outside the built range.
func (m *Mapper) Map(d Date, source, target System, preserveDay bool) (Date, bool, error) {
	if err := requireDate("date", d); err != nil {
		return Date{}, false, err
	}
	if _, err := ParseSystem(string(source)); err != nil {
		return Date{}, false, err
	}
	if _, err := ParseSystem(string(target)); err != nil {
		return Date{}, false, err
	}
	if !m.bounds.Contains(d) {
		return Date{}, false, nil
	}
	if source == target {
		return d, true, nil
	}

	// Fiscal <-> Retail composes through Gregorian.
	if source != SystemGregorian && target != SystemGregorian {
		g, ok, err := m.Map(d, source, SystemGregorian, preserveDay)
		if err != nil || !ok {
			return Date{}, false, err
		}
		return m.Map(g, SystemGregorian, target, preserveDay)
	}

	src := m.periodOf(d, source)
	dst := m.aligned(src, source, target)

	result := dst.Start
	if preserveDay {
		result = dst.At(src.Offset(d))
	}
	if !m.bounds.Contains(result) {
		return Date{}, false, nil
	}
	return result, true, nil
}

// periodOf returns the period of d in its own system.
func (m *Mapper) periodOf(d Date, sys System) Period {
	switch sys {
	case SystemFiscal:
		year := m.fiscal.Year(d)
		return m.fiscal.MonthPeriod(year.Start, MonthsBetween(year.Start, d)%12+1)
	case SystemRetail:
		attrs := m.retail.Derive(d)
		return Period{Start: attrs.RetailPeriodStart, End: attrs.RetailPeriodEnd}
	default:
		return Month(d)
	}
}

// aligned returns the target-system period lined up with src. Exactly one
// of source and target is Gregorian.
func (m *Mapper) aligned(src Period, source, target System) Period {
	switch {
	case target == SystemFiscal:
		// Fiscal months coincide with Gregorian months.
		year := m.fiscal.Year(src.Start)
		return m.fiscal.MonthPeriod(year.Start, MonthsBetween(year.Start, src.Start)%12+1)
	case source == SystemFiscal:
		return Month(src.Start)
	case target == SystemRetail:
		month := src.Start.Month()
		period := (int(month)-int(retailFirstMonth)+12)%12 + 1
		ry := src.Start.Year()
		if month >= retailFirstMonth {
			ry++
		}
		return m.retail.PeriodIn(m.retail.YearNamed(ry), period)
	default: // retail -> gregorian
		attrs := m.retail.Derive(src.Start)
		month := time.Month((attrs.RetailPeriodNum-1+int(retailFirstMonth)-1)%12 + 1)
		year := attrs.RetailYearNum
		if month >= retailFirstMonth {
			year--
		}
		return Month(StartOfMonth(year, month))
	}
}
