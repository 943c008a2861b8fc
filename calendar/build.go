/*
build.go - Calendar construction and the read-only Calendar facade

PURPOSE:
  Turns a BuildConfig and a holiday fact set into an immutable Calendar:
  one CalendarDay per date plus the BusinessDayIndex, season classifier
  and cross-calendar mapper built over the same range.

BUILD SEQUENCE:
  1. Validate the config (fatal; nothing is derived on failure)
  2. Index holidays, scoped to the configured jurisdictions
  3. Derive Gregorian, fiscal, retail, holiday and season attributes
     in parallel chunks (each date is independent)
  4. One ordered pass assigns trading-day ordinals and navigation
  5. Fingerprint config + holidays as the calendar version

REBUILDS:
  A holiday change shifts every later trading-day ordinal, so callers
  rebuild the whole Calendar and swap it in. There is no incremental
  update.

SEE ALSO:
  - business.go: BusinessDayIndex
  - day.go: CalendarDay fields
  - api/scheduler.go: rebuilds on holiday changes
*/
package calendar

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"iter"
	"log"
	"runtime"
	"slices"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// deriveChunk is the number of consecutive dates one worker derives.
const deriveChunk = 366

// Calendar is one immutable build of the date dimension. It is safe for
// concurrent readers.
type Calendar struct {
	cfg       BuildConfig
	days      []CalendarDay
	index     *BusinessDayIndex
	holidays  *HolidaySet
	seasons   *SeasonClassifier
	mapper    *Mapper
	gregorian GregorianDeriver
	fiscal    FiscalDeriver
	retail    *RetailDeriver
	version   string
	builtAt   time.Time
}

// Build validates cfg and derives the calendar for [cfg.Start, cfg.End].
func Build(ctx context.Context, cfg BuildConfig, holidays []Holiday) (*Calendar, error) {
	began := time.Now()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	retail, err := NewRetailDeriver(cfg.RetailPattern)
	if err != nil {
		return nil, err
	}
	hs, err := NewHolidaySet(holidays, cfg.Jurisdictions)
	if err != nil {
		return nil, fmt.Errorf("index holidays: %w", err)
	}

	fiscal := FiscalDeriver{StartMonth: cfg.FiscalStartMonth}
	c := &Calendar{
		cfg:       cfg,
		holidays:  hs,
		seasons:   NewSeasonClassifier(hs),
		gregorian: GregorianDeriver{WeekStart: cfg.WeekStart},
		fiscal:    fiscal,
		retail:    retail,
		mapper:    NewMapper(Period{Start: cfg.Start, End: cfg.End}, fiscal, retail),
	}

	if err := c.deriveAll(ctx); err != nil {
		return nil, err
	}
	c.index = indexDays(c.days, cfg.Start, cfg.End)
	c.version = fingerprint(cfg, holidays)
	c.builtAt = time.Now()

	log.Printf("[Builder] Built %d days (%s to %s), %d trading days, version %s in %v",
		len(c.days), cfg.Start, cfg.End, c.index.Len(), c.version, time.Since(began).Round(time.Millisecond))
	return c, nil
}

func (c *Calendar) deriveAll(ctx context.Context) error {
	n := DaysBetween(c.cfg.Start, c.cfg.End) + 1
	c.days = make([]CalendarDay, n)

	workers := c.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += deriveChunk {
		hi := min(lo+deriveChunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				c.days[i] = c.derive(c.cfg.Start.AddDays(i))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("derive calendar days: %w", err)
	}
	return nil
}

// derive computes every per-date attribute except navigation.
func (c *Calendar) derive(d Date) CalendarDay {
	day := CalendarDay{
		Date:                d,
		DateKey:             d.Key(),
		GregorianAttributes: c.gregorian.Derive(d),
		FiscalAttributes:    c.fiscal.Derive(d),
		RetailAttributes:    c.retail.Derive(d),
	}
	for _, h := range c.holidays.On(d) {
		day.HolidayNames = append(day.HolidayNames, h.Name)
		day.HolidayJurisdictions = append(day.HolidayJurisdictions, h.Jurisdiction)
	}
	day.IsHoliday = c.holidays.IsHoliday(d)
	day.IsHolidayNational = c.holidays.IsNational(d)
	day.IsTradingDay = day.IsWeekday && !day.IsHoliday
	day.Season, day.Proximity = c.seasons.Classify(d)
	return day
}

// indexDays runs the ordered pass: ordinals, per-period positions and
// totals, and previous/next pointers. days must be ascending and contiguous.
func indexDays(days []CalendarDay, start, end Date) *BusinessDayIndex {
	idx := newBusinessDayIndex(start, end)
	totals := newTradingCounters()
	for i := range days {
		if days[i].IsTradingDay {
			totals.add(days[i].keys())
		}
	}

	running := newTradingCounters()
	var prevTrading Date
	for i := range days {
		day := &days[i]
		k := day.keys()
		nav := Navigation{
			PreviousTradingDate:        prevTrading,
			TradingDaysInMonth:         totals.month[k.month],
			TradingDaysInQuarter:       totals.quarter[k.quarter],
			TradingDaysInFiscalQuarter: totals.fiscalQuarter[k.fiscalQuarter],
			TradingDaysInFiscalYear:    totals.fiscalYear[k.fiscalYear],
			TradingDaysInRetailPeriod:  totals.retailPeriod[k.retailPeriod],
		}
		if i > 0 {
			nav.PreviousDate = days[i-1].Date
		}
		if i < len(days)-1 {
			nav.NextDate = days[i+1].Date
		}
		if day.IsTradingDay {
			running.add(k)
			nav.TradingDayOrdinal = idx.push(day.Date)
			nav.TradingDayOfMonth = running.month[k.month]
			nav.TradingDayOfQuarter = running.quarter[k.quarter]
			nav.TradingDayOfFiscalQuarter = running.fiscalQuarter[k.fiscalQuarter]
			nav.TradingDayOfFiscalYear = running.fiscalYear[k.fiscalYear]
			nav.TradingDayOfRetailPeriod = running.retailPeriod[k.retailPeriod]
			prevTrading = day.Date
		}
		nav.TradingDayProgress = progress(running.month[k.month], nav.TradingDaysInMonth)
		day.Navigation = nav
	}

	var nextTrading Date
	for i := len(days) - 1; i >= 0; i-- {
		days[i].NextTradingDate = nextTrading
		if days[i].IsTradingDay {
			nextTrading = days[i].Date
		}
	}
	return idx
}

// fingerprint identifies a build by its config and holiday facts.
func fingerprint(cfg BuildConfig, holidays []Holiday) string {
	lines := make([]string, 0, len(holidays))
	for _, h := range holidays {
		lines = append(lines, fmt.Sprintf("%s|%s|%s", h.Date, h.Name, h.Jurisdiction))
	}
	sort.Strings(lines)

	sum := sha256.New()
	fmt.Fprintf(sum, "%s|%s|%s|%d|%d|%v\n",
		cfg.Start, cfg.End, cfg.RetailPattern, cfg.FiscalStartMonth, cfg.WeekStart, cfg.Jurisdictions)
	for _, l := range lines {
		fmt.Fprintln(sum, l)
	}
	return hex.EncodeToString(sum.Sum(nil))[:12]
}

// =============================================================================
// CALENDAR - Read-only lookups
// =============================================================================

func (c *Calendar) Config() BuildConfig              { return c.cfg }
func (c *Calendar) Version() string                  { return c.version }
func (c *Calendar) BuiltAt() time.Time               { return c.builtAt }
func (c *Calendar) Bounds() Period                   { return Period{Start: c.cfg.Start, End: c.cfg.End} }
func (c *Calendar) Len() int                         { return len(c.days) }
func (c *Calendar) Index() *BusinessDayIndex         { return c.index }
func (c *Calendar) HolidayDates() int                { return c.holidays.Len() }
func (c *Calendar) HolidaysOn(d Date) []Holiday      { return c.holidays.On(d) }
func (c *Calendar) RetailPattern() Pattern           { return c.retail.Pattern() }
func (c *Calendar) Location() *time.Location         { return c.cfg.Location() }
func (c *Calendar) Today() Date                      { return Today(c.cfg.Location()) }
func (c *Calendar) GoodFriday(year int) (Date, bool) { return c.seasons.GoodFriday(year) }

// Day returns the CalendarDay of d.
func (c *Calendar) Day(d Date) (CalendarDay, error) {
	if err := requireDate("date", d); err != nil {
		return CalendarDay{}, err
	}
	if !c.Bounds().Contains(d) {
		return CalendarDay{}, &OutOfRangeError{Op: "lookup day", Date: d, Start: c.cfg.Start, End: c.cfg.End}
	}
	return c.days[DaysBetween(c.cfg.Start, d)], nil
}

// DeriveCalendarDay is Day under its interface name.
func (c *Calendar) DeriveCalendarDay(d Date) (CalendarDay, error) { return c.Day(d) }

// Days returns the days in [from, to] in ascending order.
func (c *Calendar) Days(from, to Date) (iter.Seq[CalendarDay], error) {
	if err := c.checkRange("list days", from, to); err != nil {
		return nil, err
	}
	lo, hi := DaysBetween(c.cfg.Start, from), DaysBetween(c.cfg.Start, to)
	return func(yield func(CalendarDay) bool) {
		for i := lo; i <= hi; i++ {
			if !yield(c.days[i]) {
				return
			}
		}
	}, nil
}

// All yields every built day in ascending order.
func (c *Calendar) All() iter.Seq[CalendarDay] {
	return slices.Values(c.days)
}

// Anchors returns the retail-year anchors inside the built range.
func (c *Calendar) Anchors() []Date {
	anchors, _ := RetailAnchors(c.cfg.Start, c.cfg.End)
	return anchors
}

func (c *Calendar) checkRange(op string, from, to Date) error {
	if err := requireDate("from", from); err != nil {
		return err
	}
	if err := requireDate("to", to); err != nil {
		return err
	}
	if from.After(to) {
		return &InvalidRangeError{Start: from, End: to}
	}
	for _, d := range []Date{from, to} {
		if !c.Bounds().Contains(d) {
			return &OutOfRangeError{Op: op, Date: d, Start: c.cfg.Start, End: c.cfg.End}
		}
	}
	return nil
}

// =============================================================================
// CALENDAR - Business days
// =============================================================================

func (c *Calendar) IsTradingDay(d Date) (bool, error)       { return c.index.IsTradingDay(d) }
func (c *Calendar) NextTradingDay(d Date) (Date, error)     { return c.index.NextTradingDay(d) }
func (c *Calendar) PreviousTradingDay(d Date) (Date, error) { return c.index.PreviousTradingDay(d) }
func (c *Calendar) AddTradingDays(d Date, n int) (Date, error) {
	return c.index.AddTradingDays(d, n)
}
func (c *Calendar) CountTradingDays(from, to Date) (int, error) {
	return c.index.CountTradingDays(from, to)
}
func (c *Calendar) NthTradingDayOfMonth(year, month, n int) (Date, bool, error) {
	return c.index.NthTradingDayOfMonth(year, month, n)
}
func (c *Calendar) NthLastTradingDayOfMonth(year, month, n int) (Date, bool, error) {
	return c.index.NthLastTradingDayOfMonth(year, month, n)
}

// =============================================================================
// CALENDAR - Seasons, mapping, relative flags
// =============================================================================

// ClassifySeason returns the retail season and holiday proximity of d.
func (c *Calendar) ClassifySeason(d Date) (Season, Proximity, error) {
	if err := requireDate("date", d); err != nil {
		return "", ProximityNone, err
	}
	s, p := c.seasons.Classify(d)
	return s, p, nil
}

// SeasonDates returns the dates in [from, to] classified as season.
func (c *Calendar) SeasonDates(season Season, from, to Date) (iter.Seq[Date], error) {
	days, err := c.Days(from, to)
	if err != nil {
		return nil, err
	}
	return func(yield func(Date) bool) {
		for day := range days {
			if day.Season == season && !yield(day.Date) {
				return
			}
		}
	}, nil
}

// MapAcrossCalendars maps d from source to target. ok is false when no
// aligned date exists inside the built range.
func (c *Calendar) MapAcrossCalendars(d Date, source, target System, preserveDay bool) (Date, bool, error) {
	return c.mapper.Map(d, source, target, preserveDay)
}

// SameDayPreviousFiscalYear matches fiscal month and day n fiscal years back.
func (c *Calendar) SameDayPreviousFiscalYear(d Date, n int) (Date, error) {
	return c.fiscal.SameDayPreviousFiscalYear(d, n)
}

// RelativeFlags evaluates d against today. Either date may fall outside
// the built range; such days are derived on the fly.
func (c *Calendar) RelativeFlags(d, today Date) (RelativeFlags, error) {
	if err := requireDate("date", d); err != nil {
		return RelativeFlags{}, err
	}
	if err := requireDate("today", today); err != nil {
		return RelativeFlags{}, err
	}
	day, now := c.lookupOrDerive(d), c.lookupOrDerive(today)
	return RelativeFlagsFor(&day, &now), nil
}

func (c *Calendar) lookupOrDerive(d Date) CalendarDay {
	if day, err := c.Day(d); err == nil {
		return day
	}
	return c.derive(d)
}
