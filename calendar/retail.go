package calendar

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// =============================================================================
// RETAIL PATTERN - Weeks-per-period grouping of a retail quarter
// =============================================================================

// Pattern names the weeks in each of the three periods of a retail quarter.
type Pattern string

const (
	Pattern445 Pattern = "445"
	Pattern454 Pattern = "454"
	Pattern544 Pattern = "544"
)

const (
	weeksPerYear = 52
	leapWeek     = 53
	periodsPerYr = 12
)

// Patterns lists the supported retail patterns.
var Patterns = []Pattern{Pattern445, Pattern454, Pattern544}

// ParsePattern accepts "445", "4-4-5" and similar spellings of a
// supported pattern.
func ParsePattern(s string) (Pattern, error) {
	p := Pattern(strings.NewReplacer("-", "", " ", "").Replace(s))
	if !slices.Contains(Patterns, p) {
		return "", unsupportedPattern(s)
	}
	return p, nil
}

func unsupportedPattern(s string) error {
	return &ConfigError{Field: "retail_pattern", Reason: fmt.Sprintf("%q is not one of 445, 454, 544", s)}
}

// WeekTable maps retail week numbers 1..53 to period numbers 1..12.
// Index 0 is unused.
type WeekTable [leapWeek + 1]int

// Table builds the week-to-period lookup for the pattern. Week 53 always
// belongs to period 12. Weeks past the pattern's coverage stay 0, which
// Validate reports.
func (p Pattern) Table() WeekTable {
	var t WeekTable
	week := 1
	for period := 1; period <= periodsPerYr; period++ {
		n := int(p[(period-1)%3] - '0')
		for i := 0; i < n && week <= weeksPerYear; i++ {
			t[week] = period
			week++
		}
	}
	t[leapWeek] = periodsPerYr
	return t
}

// Validate checks that the pattern is supported and that its table is
// total over weeks 1..53 with contiguous, non-decreasing periods.
func (p Pattern) Validate() error {
	if !slices.Contains(Patterns, p) {
		return unsupportedPattern(string(p))
	}
	t := p.Table()
	prev := 1
	for week := 1; week <= leapWeek; week++ {
		period := t[week]
		if period == 0 {
			return &ConfigError{Field: "retail_pattern", Reason: fmt.Sprintf("pattern %s leaves week %d without a period", p, week)}
		}
		if period != prev && period != prev+1 {
			return &ConfigError{Field: "retail_pattern", Reason: fmt.Sprintf("pattern %s jumps from period %d to %d at week %d", p, prev, period, week)}
		}
		prev = period
	}
	if t[weeksPerYear] != periodsPerYr {
		return &ConfigError{Field: "retail_pattern", Reason: fmt.Sprintf("pattern %s ends week 52 in period %d", p, t[weeksPerYear])}
	}
	return nil
}

// =============================================================================
// RETAIL DERIVER - 52/53-week year anchored to the first Monday of July
// =============================================================================

// RetailAttributes are the retail-calendar attributes of a date.
type RetailAttributes struct {
	RetailYearNum      int    `json:"retail_year_num"`
	RetailHalfNum      int    `json:"retail_half_num"`
	RetailQuarterNum   int    `json:"retail_quarter_num"`
	RetailPeriodNum    int    `json:"retail_period_num"`
	RetailWeekNum      int    `json:"retail_week_num"`
	RetailWeekOfPeriod int    `json:"retail_week_of_period"`
	RetailWeeksInYear  int    `json:"retail_weeks_in_year"`
	RetailDayOfYear    int    `json:"retail_day_of_year"`
	RetailDayOfPeriod  int    `json:"retail_day_of_period"`
	IsLeapWeek         bool   `json:"is_leap_week"`
	RetailYearStart    Date   `json:"retail_year_start"`
	RetailYearEnd      Date   `json:"retail_year_end"`
	RetailQuarterStart Date   `json:"retail_quarter_start"`
	RetailQuarterEnd   Date   `json:"retail_quarter_end"`
	RetailPeriodStart  Date   `json:"retail_period_start"`
	RetailPeriodEnd    Date   `json:"retail_period_end"`
	RetailYearDesc     string `json:"retail_year_desc"`
	RetailQuarterDesc  string `json:"retail_quarter_desc"`
	RetailPeriodDesc   string `json:"retail_period_desc"`
	RetailWeekDesc     string `json:"retail_week_desc"`
}

// RetailDeriver computes RetailAttributes under a validated pattern.
type RetailDeriver struct {
	pattern Pattern
	table   WeekTable
	first   [periodsPerYr + 2]int // first week of each period; [13] = 53
}

// NewRetailDeriver validates the pattern and precomputes its tables.
func NewRetailDeriver(p Pattern) (*RetailDeriver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r := &RetailDeriver{pattern: p, table: p.Table()}
	for week := weeksPerYear; week >= 1; week-- {
		r.first[r.table[week]] = week
	}
	r.first[periodsPerYr+1] = weeksPerYear + 1
	return r, nil
}

// Pattern returns the active pattern.
func (r *RetailDeriver) Pattern() Pattern { return r.pattern }

// PeriodOfWeek returns the period number of a retail week (1..53).
func (r *RetailDeriver) PeriodOfWeek(week int) int {
	if week < 1 || week > leapWeek {
		return 0
	}
	return r.table[week]
}

// RetailAnchor returns the retail-year anchor in the given calendar year:
// the Monday that falls within July 1-7.
func RetailAnchor(year int) Date {
	jul1 := NewDate(year, time.July, 1)
	return jul1.AddDays((int(time.Monday) - int(jul1.Weekday()) + 7) % 7)
}

// RetailAnchors scans the day spine for every anchor in [start, end].
func RetailAnchors(start, end Date) ([]Date, error) {
	days, err := Spine(start, end, GrainDay)
	if err != nil {
		return nil, err
	}
	var anchors []Date
	for d := range days {
		if d.Month() == time.July && d.Day() <= 7 && d.Weekday() == time.Monday {
			anchors = append(anchors, d)
		}
	}
	return anchors, nil
}

// Year returns the retail year containing d. The end is the day before the
// next anchor, so a 53rd week appears exactly when the next anchor is 371
// days away.
func (r *RetailDeriver) Year(d Date) Period {
	start := RetailAnchor(d.Year())
	if d.Before(start) {
		start = RetailAnchor(d.Year() - 1)
	}
	return Period{Start: start, End: RetailAnchor(start.Year() + 1).AddDays(-1)}
}

// YearNamed returns the retail year whose number is ry.
func (r *RetailDeriver) YearNamed(ry int) Period {
	start := RetailAnchor(ry - 1)
	return Period{Start: start, End: RetailAnchor(ry).AddDays(-1)}
}

// PeriodIn returns period p (1..12) of the given retail year.
func (r *RetailDeriver) PeriodIn(year Period, p int) Period {
	start := year.Start.AddDays(7 * (r.first[p] - 1))
	end := year.Start.AddDays(7*(r.first[p+1]-1) - 1)
	if p == periodsPerYr {
		end = year.End
	}
	return Period{Start: start, End: end}
}

// Derive returns the retail attributes of d.
func (r *RetailDeriver) Derive(d Date) RetailAttributes {
	year := r.Year(d)
	days := DaysBetween(year.Start, d)
	week := days/7 + 1
	period := r.table[week]
	quarter := (period-1)/3 + 1
	periodSpan := r.PeriodIn(year, period)
	quarterStart := r.PeriodIn(year, (quarter-1)*3+1).Start
	quarterEnd := r.PeriodIn(year, quarter*3).End
	ry := year.Start.AddDays(363).Year()

	return RetailAttributes{
		RetailYearNum:      ry,
		RetailHalfNum:      (quarter-1)/2 + 1,
		RetailQuarterNum:   quarter,
		RetailPeriodNum:    period,
		RetailWeekNum:      week,
		RetailWeekOfPeriod: week - r.first[period] + 1,
		RetailWeeksInYear:  year.Length() / 7,
		RetailDayOfYear:    days + 1,
		RetailDayOfPeriod:  periodSpan.Offset(d) + 1,
		IsLeapWeek:         week == leapWeek,
		RetailYearStart:    year.Start,
		RetailYearEnd:      year.End,
		RetailQuarterStart: quarterStart,
		RetailQuarterEnd:   quarterEnd,
		RetailPeriodStart:  periodSpan.Start,
		RetailPeriodEnd:    periodSpan.End,
		RetailYearDesc:     fmt.Sprintf("RY%d", ry),
		RetailQuarterDesc:  fmt.Sprintf("RY%d Q%d", ry, quarter),
		RetailPeriodDesc:   fmt.Sprintf("RY%d P%02d", ry, period),
		RetailWeekDesc:     fmt.Sprintf("RY%d W%02d", ry, week),
	}
}
