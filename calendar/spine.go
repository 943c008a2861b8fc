package calendar

import (
	"fmt"
	"iter"
	"strings"
	"time"
)

// =============================================================================
// DATE SPINE - Ordered date generator
// =============================================================================

// Grain is the unit a spine steps by.
type Grain string

const (
	GrainDay     Grain = "day"
	GrainWeek    Grain = "week"
	GrainMonth   Grain = "month"
	GrainQuarter Grain = "quarter"
	GrainYear    Grain = "year"
)

// ParseGrain accepts the grain names case-insensitively; "" means day.
func ParseGrain(s string) (Grain, error) {
	switch g := Grain(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return GrainDay, nil
	case GrainDay, GrainWeek, GrainMonth, GrainQuarter, GrainYear:
		return g, nil
	default:
		return "", &InvalidInputError{Field: "grain", Reason: fmt.Sprintf("unknown grain %q", s)}
	}
}

// Spine returns the ascending sequence of grain boundaries b with
// start <= b <= end. Week boundaries are ISO Mondays. The sequence is
// restartable: every range over it starts again from the first boundary.
func Spine(start, end Date, grain Grain) (iter.Seq[Date], error) {
	if err := requireDate("start", start); err != nil {
		return nil, err
	}
	if err := requireDate("end", end); err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}
	first, step, err := spineStep(start, grain)
	if err != nil {
		return nil, err
	}
	return func(yield func(Date) bool) {
		for i, d := 0, first; !d.After(end); i, d = i+1, step(first, i+1) {
			if !yield(d) {
				return
			}
		}
	}, nil
}

// Days is Spine at day grain for callers that already validated the range.
func Days(start, end Date) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := start; !d.After(end); d = d.AddDays(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// spineStep returns the first boundary on or after start and a function
// computing the i-th boundary from the first. Boundaries are computed from
// the first one rather than chained so month steps never drift.
func spineStep(start Date, grain Grain) (Date, func(Date, int) Date, error) {
	switch grain {
	case GrainDay, "":
		return start, func(f Date, i int) Date { return f.AddDays(i) }, nil
	case GrainWeek:
		back := (int(start.Weekday()) - int(time.Monday) + 7) % 7
		first := start.AddDays(-back)
		if first.Before(start) {
			first = first.AddDays(7)
		}
		return first, func(f Date, i int) Date { return f.AddDays(7 * i) }, nil
	case GrainMonth:
		return ceilUnit(start, StartOfMonth(start.Year(), start.Month()), 1)
	case GrainQuarter:
		q := time.Month((int(start.Month())-1)/3*3 + 1)
		return ceilUnit(start, StartOfMonth(start.Year(), q), 3)
	case GrainYear:
		return ceilUnit(start, StartOfYear(start.Year()), 12)
	default:
		return Date{}, nil, &InvalidInputError{Field: "grain", Reason: fmt.Sprintf("unknown grain %q", grain)}
	}
}

func ceilUnit(start, floor Date, months int) (Date, func(Date, int) Date, error) {
	first := floor
	if first.Before(start) {
		first = first.AddMonths(months)
	}
	return first, func(f Date, i int) Date { return f.AddMonths(months * i) }, nil
}
