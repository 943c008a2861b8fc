/*
Package holidays provides HolidaySource implementations that feed the
calendar engine.

PURPOSE:
  The engine never decides what is a holiday. These sources stand in for
  the ingestion side: a rule-based generator for Australian public
  holidays, a CSV file used as the local fallback copy, and a chain that
  tries sources in order.

SOURCES:
  RulesSource: computes AU national and state holidays with rickar/cal
  CSVFile:     reads/writes date,name,jurisdiction CSV (csvutil)
  Chain:       first source that answers wins; optional CSV write-back

SEE ALSO:
  - calendar/store.go: HolidaySource interface
  - api/handlers.go: POST /api/holidays/defaults
*/
package holidays

import (
	"context"
	"fmt"
	"strings"
	"time"

	cal "github.com/rickar/cal/v2"

	"github.com/warp/calendar-engine/calendar"
)

// =============================================================================
// RULES - Holiday definitions with the jurisdictions that observe them
// =============================================================================

// Rule is one holiday definition observed by a set of jurisdictions.
type Rule struct {
	Holiday       *cal.Holiday
	Jurisdictions []calendar.Jurisdiction
}

var (
	// Saturday and Sunday holidays move to the following Monday.
	weekendToMonday = []cal.AltDay{{Day: time.Saturday, Offset: 2}, {Day: time.Sunday, Offset: 1}}
	// Christmas and Boxing Day on a weekend move two days so they never collide.
	christmasWeekend = []cal.AltDay{{Day: time.Saturday, Offset: 2}, {Day: time.Sunday, Offset: 2}}

	national = []calendar.Jurisdiction{calendar.JurisdictionNational}
)

// Australian holiday definitions.
var (
	NewYear = &cal.Holiday{
		Name: "New Year's Day", Type: cal.ObservancePublic,
		Month: time.January, Day: 1, Observed: weekendToMonday, Func: cal.CalcDayOfMonth,
	}
	AustraliaDay = &cal.Holiday{
		Name: "Australia Day", Type: cal.ObservancePublic,
		Month: time.January, Day: 26, Observed: weekendToMonday, Func: cal.CalcDayOfMonth,
	}
	GoodFriday = &cal.Holiday{
		Name: "Good Friday", Type: cal.ObservancePublic,
		Offset: -2, Func: cal.CalcEasterOffset,
	}
	EasterSaturday = &cal.Holiday{
		Name: "Easter Saturday", Type: cal.ObservancePublic,
		Offset: -1, Func: cal.CalcEasterOffset,
	}
	EasterMonday = &cal.Holiday{
		Name: "Easter Monday", Type: cal.ObservancePublic,
		Offset: 1, Func: cal.CalcEasterOffset,
	}
	AnzacDay = &cal.Holiday{
		Name: "Anzac Day", Type: cal.ObservancePublic,
		Month: time.April, Day: 25, Func: cal.CalcDayOfMonth,
	}
	KingsBirthday = &cal.Holiday{
		Name: "King's Birthday", Type: cal.ObservancePublic,
		Month: time.June, Weekday: time.Monday, Offset: 2, Func: cal.CalcWeekdayOffset,
	}
	LabourDayOctober = &cal.Holiday{
		Name: "Labour Day", Type: cal.ObservancePublic,
		Month: time.October, Weekday: time.Monday, Offset: 1, Func: cal.CalcWeekdayOffset,
	}
	LabourDayMarchFirst = &cal.Holiday{
		Name: "Labour Day", Type: cal.ObservancePublic,
		Month: time.March, Weekday: time.Monday, Offset: 1, Func: cal.CalcWeekdayOffset,
	}
	LabourDayMarchSecond = &cal.Holiday{
		Name: "Labour Day", Type: cal.ObservancePublic,
		Month: time.March, Weekday: time.Monday, Offset: 2, Func: cal.CalcWeekdayOffset,
	}
	LabourDayMay = &cal.Holiday{
		Name: "Labour Day", Type: cal.ObservancePublic,
		Month: time.May, Weekday: time.Monday, Offset: 1, Func: cal.CalcWeekdayOffset,
	}
	CanberraDay = &cal.Holiday{
		Name: "Canberra Day", Type: cal.ObservancePublic,
		Month: time.March, Weekday: time.Monday, Offset: 2, Func: cal.CalcWeekdayOffset,
	}
	MelbourneCup = &cal.Holiday{
		Name: "Melbourne Cup", Type: cal.ObservancePublic,
		Month: time.November, Weekday: time.Tuesday, Offset: 1, Func: cal.CalcWeekdayOffset,
	}
	ChristmasDay = &cal.Holiday{
		Name: "Christmas Day", Type: cal.ObservancePublic,
		Month: time.December, Day: 25, Observed: christmasWeekend, Func: cal.CalcDayOfMonth,
	}
	BoxingDay = &cal.Holiday{
		Name: "Boxing Day", Type: cal.ObservancePublic,
		Month: time.December, Day: 26, Observed: christmasWeekend, Func: cal.CalcDayOfMonth,
	}
)

// NationalRules are the holidays every jurisdiction observes, marked with
// the explicit national jurisdiction.
func NationalRules() []Rule {
	return []Rule{
		{Holiday: NewYear, Jurisdictions: national},
		{Holiday: AustraliaDay, Jurisdictions: national},
		{Holiday: GoodFriday, Jurisdictions: national},
		{Holiday: EasterMonday, Jurisdictions: national},
		{Holiday: AnzacDay, Jurisdictions: national},
		{Holiday: ChristmasDay, Jurisdictions: national},
		{Holiday: BoxingDay, Jurisdictions: national},
	}
}

// StateRules are holidays observed by some states and territories only.
func StateRules() []Rule {
	j := func(js ...calendar.Jurisdiction) []calendar.Jurisdiction { return js }
	return []Rule{
		{Holiday: EasterSaturday, Jurisdictions: j(calendar.JurisdictionACT, calendar.JurisdictionNSW, calendar.JurisdictionNT,
			calendar.JurisdictionQLD, calendar.JurisdictionSA, calendar.JurisdictionVIC)},
		{Holiday: KingsBirthday, Jurisdictions: j(calendar.JurisdictionACT, calendar.JurisdictionNSW, calendar.JurisdictionNT,
			calendar.JurisdictionSA, calendar.JurisdictionTAS, calendar.JurisdictionVIC)},
		{Holiday: LabourDayOctober, Jurisdictions: j(calendar.JurisdictionACT, calendar.JurisdictionNSW, calendar.JurisdictionSA)},
		{Holiday: LabourDayMarchFirst, Jurisdictions: j(calendar.JurisdictionWA)},
		{Holiday: LabourDayMarchSecond, Jurisdictions: j(calendar.JurisdictionVIC, calendar.JurisdictionTAS)},
		{Holiday: LabourDayMay, Jurisdictions: j(calendar.JurisdictionQLD, calendar.JurisdictionNT)},
		{Holiday: CanberraDay, Jurisdictions: j(calendar.JurisdictionACT)},
		{Holiday: MelbourneCup, Jurisdictions: j(calendar.JurisdictionVIC)},
	}
}

// =============================================================================
// RULES SOURCE
// =============================================================================

// RulesSource computes holiday facts from rules, emitting each holiday on
// its observed date.
type RulesSource struct {
	Rules []Rule
}

// NewAustralianRules returns national and state rules.
func NewAustralianRules() *RulesSource {
	return &RulesSource{Rules: append(NationalRules(), StateRules()...)}
}

// NewNationalRules returns only the national rules.
func NewNationalRules() *RulesSource {
	return &RulesSource{Rules: NationalRules()}
}

// Holidays implements calendar.HolidaySource.
func (s *RulesSource) Holidays(ctx context.Context, from, to calendar.Date) ([]calendar.Holiday, error) {
	span := calendar.Period{Start: from, End: to}
	if err := span.Validate(); err != nil {
		return nil, err
	}
	var out []calendar.Holiday
	for year := from.Year(); year <= to.Year(); year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, r := range s.Rules {
			_, observed := r.Holiday.Calc(year)
			if observed.IsZero() {
				continue
			}
			d := calendar.DateOf(observed)
			if !span.Contains(d) {
				continue
			}
			for _, j := range r.Jurisdictions {
				h := calendar.Holiday{Date: d, Name: r.Holiday.Name, Jurisdiction: j}
				h.ID = ruleID(h)
				out = append(out, h)
			}
		}
	}
	return out, nil
}

// BusinessCalendar returns a rickar/cal business calendar holding the
// rules, for callers that want cal's own workday checks.
func (s *RulesSource) BusinessCalendar() *cal.BusinessCalendar {
	bc := cal.NewBusinessCalendar()
	for _, r := range s.Rules {
		bc.AddHoliday(r.Holiday)
	}
	return bc
}

func ruleID(h calendar.Holiday) string {
	slug := strings.ToLower(strings.NewReplacer(" ", "-", "'", "").Replace(h.Name))
	return fmt.Sprintf("%s-%s-%s", strings.ToLower(string(h.Jurisdiction)), h.Date, slug)
}
