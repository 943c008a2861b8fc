/*
business.go - Trading-day index and navigation

PURPOSE:
  Holds the ordered sequence of trading days of one calendar build and
  answers navigation and counting queries against it.

ORDINALS:
  The i-th trading day in the built range has ordinal i (1-based).
  ordinal(a) < ordinal(b) iff a < b, for trading days only. Any holiday
  change shifts every later ordinal, so the index is rebuilt in full with
  the calendar and never patched.

BOUNDS:
  The calendar is bounded. Queries about dates outside [start, end], and
  navigation that would leave it, fail with OutOfRangeError. Month
  queries that find too few trading days return ok=false instead.

SEE ALSO:
  - build.go: builds the index after the parallel derivation pass
  - day.go: per-day navigation fields materialized from the index
*/
package calendar

import (
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// BUSINESS DAY INDEX
// =============================================================================

// BusinessDayIndex is the read-only trading-day ordinal sequence.
type BusinessDayIndex struct {
	start   Date
	end     Date
	trading []Date
	ordinal map[int]int
}

func newBusinessDayIndex(start, end Date) *BusinessDayIndex {
	return &BusinessDayIndex{start: start, end: end, ordinal: make(map[int]int)}
}

// push appends the next trading day. Days must arrive in ascending order.
func (b *BusinessDayIndex) push(d Date) int {
	b.trading = append(b.trading, d)
	b.ordinal[d.Key()] = len(b.trading)
	return len(b.trading)
}

// Len returns the number of trading days in the index.
func (b *BusinessDayIndex) Len() int { return len(b.trading) }

// Bounds returns the built range.
func (b *BusinessDayIndex) Bounds() Period { return Period{Start: b.start, End: b.end} }

// Ordinal returns the 1-based ordinal of a trading day.
func (b *BusinessDayIndex) Ordinal(d Date) (int, bool) {
	o, ok := b.ordinal[d.Key()]
	return o, ok
}

// At returns the trading day with the given ordinal.
func (b *BusinessDayIndex) At(ordinal int) (Date, bool) {
	if ordinal < 1 || ordinal > len(b.trading) {
		return Date{}, false
	}
	return b.trading[ordinal-1], true
}

func (b *BusinessDayIndex) check(op string, d Date) error {
	if err := requireDate("date", d); err != nil {
		return err
	}
	if d.Before(b.start) || d.After(b.end) {
		return &OutOfRangeError{Op: op, Date: d, Start: b.start, End: b.end}
	}
	return nil
}

// IsTradingDay reports whether d is a weekday that is not a holiday.
func (b *BusinessDayIndex) IsTradingDay(d Date) (bool, error) {
	if err := b.check("is trading day", d); err != nil {
		return false, err
	}
	_, ok := b.ordinal[d.Key()]
	return ok, nil
}

// NextTradingDay returns the first trading day strictly after d.
func (b *BusinessDayIndex) NextTradingDay(d Date) (Date, error) {
	if err := b.check("next trading day", d); err != nil {
		return Date{}, err
	}
	i := b.upper(d)
	if i == len(b.trading) {
		return Date{}, &OutOfRangeError{Op: "next trading day", Date: d, Start: b.start, End: b.end}
	}
	return b.trading[i], nil
}

// PreviousTradingDay returns the last trading day strictly before d.
func (b *BusinessDayIndex) PreviousTradingDay(d Date) (Date, error) {
	if err := b.check("previous trading day", d); err != nil {
		return Date{}, err
	}
	i := b.lower(d) - 1
	if i < 0 {
		return Date{}, &OutOfRangeError{Op: "previous trading day", Date: d, Start: b.start, End: b.end}
	}
	return b.trading[i], nil
}

// AddTradingDays moves n trading days from d. For n == 0 it returns d when
// d trades, else the next trading day. Otherwise a non-trading d is first
// resolved to the next (n > 0) or previous (n < 0) trading day, and the
// result is the trading day n ordinals from there.
func (b *BusinessDayIndex) AddTradingDays(d Date, n int) (Date, error) {
	if err := b.check("add trading days", d); err != nil {
		return Date{}, err
	}
	if n == 0 {
		if _, ok := b.ordinal[d.Key()]; ok {
			return d, nil
		}
		return b.NextTradingDay(d)
	}

	from, ok := b.ordinal[d.Key()]
	if !ok {
		var anchor Date
		var err error
		if n > 0 {
			anchor, err = b.NextTradingDay(d)
		} else {
			anchor, err = b.PreviousTradingDay(d)
		}
		if err != nil {
			return Date{}, err
		}
		from = b.ordinal[anchor.Key()]
	}

	target, ok := b.At(from + n)
	if !ok {
		return Date{}, &OutOfRangeError{
			Op:    fmt.Sprintf("add %d trading days", n),
			Date:  d,
			Start: b.start,
			End:   b.end,
		}
	}
	return target, nil
}

// CountTradingDays counts trading days in [from, to]. It returns 0 when
// to is before from.
func (b *BusinessDayIndex) CountTradingDays(from, to Date) (int, error) {
	if err := requireDate("from", from); err != nil {
		return 0, err
	}
	if err := requireDate("to", to); err != nil {
		return 0, err
	}
	if to.Before(from) {
		return 0, nil
	}
	if err := b.check("count trading days", from); err != nil {
		return 0, err
	}
	if err := b.check("count trading days", to); err != nil {
		return 0, err
	}
	return b.upper(to) - b.lower(from), nil
}

// NthTradingDayOfMonth returns the n-th trading day (1-based) of the month.
// ok is false when the month has fewer than n trading days. The whole
// month must lie inside the index.
func (b *BusinessDayIndex) NthTradingDayOfMonth(year, month, n int) (Date, bool, error) {
	lo, hi, err := b.monthSpan(year, month, n)
	if err != nil || n > hi-lo {
		return Date{}, false, err
	}
	return b.trading[lo+n-1], true, nil
}

// NthLastTradingDayOfMonth counts from the end of the month: n=1 is the
// last trading day.
func (b *BusinessDayIndex) NthLastTradingDayOfMonth(year, month, n int) (Date, bool, error) {
	lo, hi, err := b.monthSpan(year, month, n)
	if err != nil || n > hi-lo {
		return Date{}, false, err
	}
	return b.trading[hi-n], true, nil
}

// TradingDaysIn returns the trading days within p, clipped to the index.
func (b *BusinessDayIndex) TradingDaysIn(p Period) []Date {
	lo, hi := b.lower(p.Start), b.upper(p.End)
	if hi <= lo {
		return nil
	}
	out := make([]Date, hi-lo)
	copy(out, b.trading[lo:hi])
	return out
}

func (b *BusinessDayIndex) monthSpan(year, month, n int) (int, int, error) {
	if month < 1 || month > 12 {
		return 0, 0, &InvalidInputError{Field: "month", Reason: fmt.Sprintf("%d is outside 1-12", month)}
	}
	if n < 1 {
		return 0, 0, &InvalidInputError{Field: "n", Reason: "must be a positive ordinal"}
	}
	m := Period{Start: StartOfMonth(year, time.Month(month)), End: EndOfMonth(year, time.Month(month))}
	// Ordinals within a partially built month would count from the range edge.
	if m.Start.Before(b.start) {
		return 0, 0, &OutOfRangeError{Op: "nth trading day of month", Date: m.Start, Start: b.start, End: b.end}
	}
	if m.End.After(b.end) {
		return 0, 0, &OutOfRangeError{Op: "nth trading day of month", Date: m.End, Start: b.start, End: b.end}
	}
	return b.lower(m.Start), b.upper(m.End), nil
}

// lower returns the index of the first trading day on or after d.
func (b *BusinessDayIndex) lower(d Date) int {
	return sort.Search(len(b.trading), func(i int) bool { return !b.trading[i].Before(d) })
}

// upper returns the index of the first trading day strictly after d.
func (b *BusinessDayIndex) upper(d Date) int {
	return sort.Search(len(b.trading), func(i int) bool { return b.trading[i].After(d) })
}
