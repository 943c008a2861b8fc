package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// =============================================================================
// HOLIDAY - Externally supplied holiday facts
// =============================================================================

// Jurisdiction is a canonical Australian jurisdiction code.
type Jurisdiction string

const (
	JurisdictionNational Jurisdiction = "NAT"
	JurisdictionACT      Jurisdiction = "ACT"
	JurisdictionNSW      Jurisdiction = "NSW"
	JurisdictionNT       Jurisdiction = "NT"
	JurisdictionQLD      Jurisdiction = "QLD"
	JurisdictionSA       Jurisdiction = "SA"
	JurisdictionTAS      Jurisdiction = "TAS"
	JurisdictionVIC      Jurisdiction = "VIC"
	JurisdictionWA       Jurisdiction = "WA"
)

// Jurisdictions lists every known code, national first.
var Jurisdictions = []Jurisdiction{
	JurisdictionNational,
	JurisdictionACT, JurisdictionNSW, JurisdictionNT, JurisdictionQLD,
	JurisdictionSA, JurisdictionTAS, JurisdictionVIC, JurisdictionWA,
}

var jurisdictionAliases = map[string]Jurisdiction{
	"nat":                          JurisdictionNational,
	"national":                     JurisdictionNational,
	"au":                           JurisdictionNational,
	"aus":                          JurisdictionNational,
	"australia":                    JurisdictionNational,
	"act":                          JurisdictionACT,
	"australian capital territory": JurisdictionACT,
	"nsw":                          JurisdictionNSW,
	"new south wales":              JurisdictionNSW,
	"nt":                           JurisdictionNT,
	"northern territory":           JurisdictionNT,
	"qld":                          JurisdictionQLD,
	"queensland":                   JurisdictionQLD,
	"sa":                           JurisdictionSA,
	"south australia":              JurisdictionSA,
	"tas":                          JurisdictionTAS,
	"tasmania":                     JurisdictionTAS,
	"vic":                          JurisdictionVIC,
	"victoria":                     JurisdictionVIC,
	"wa":                           JurisdictionWA,
	"western australia":            JurisdictionWA,
}

// ParseJurisdiction decodes a jurisdiction string. Matching ignores case,
// surrounding space, an "AU-" prefix and underscores.
func ParseJurisdiction(s string) (Jurisdiction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimPrefix(key, "au-")
	key = strings.ReplaceAll(key, "_", " ")
	if j, ok := jurisdictionAliases[key]; ok {
		return j, nil
	}
	return "", &InvalidInputError{Field: "jurisdiction", Reason: fmt.Sprintf("unknown jurisdiction %q", s)}
}

// Holiday is one holiday fact. Many holidays may share a date.
type Holiday struct {
	ID           string       `json:"id,omitempty"`
	Date         Date         `json:"date"`
	Name         string       `json:"name"`
	Jurisdiction Jurisdiction `json:"jurisdiction"`
}

// Validate rejects holidays missing a date or name.
func (h Holiday) Validate() error {
	if err := requireDate("holiday date", h.Date); err != nil {
		return err
	}
	if strings.TrimSpace(h.Name) == "" {
		return &InvalidInputError{Field: "holiday name", Reason: "name is required"}
	}
	if _, err := ParseJurisdiction(string(h.Jurisdiction)); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// HOLIDAY SET - Date-indexed view over the facts
// =============================================================================

// HolidaySet indexes holidays by date key. A nil scope counts every
// jurisdiction.
type HolidaySet struct {
	byDate map[int][]Holiday
}

// NewHolidaySet indexes holidays, keeping only those in scope.
func NewHolidaySet(holidays []Holiday, scope []Jurisdiction) (*HolidaySet, error) {
	allowed := make(map[Jurisdiction]bool, len(scope))
	for _, j := range scope {
		allowed[j] = true
	}
	hs := &HolidaySet{byDate: make(map[int][]Holiday)}
	for _, h := range holidays {
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("holiday %q on %s: %w", h.Name, h.Date, err)
		}
		j, _ := ParseJurisdiction(string(h.Jurisdiction))
		h.Jurisdiction = j
		if len(allowed) > 0 && !allowed[j] {
			continue
		}
		hs.byDate[h.Date.Key()] = append(hs.byDate[h.Date.Key()], h)
	}
	for k := range hs.byDate {
		sort.Slice(hs.byDate[k], func(a, b int) bool {
			x, y := hs.byDate[k][a], hs.byDate[k][b]
			if x.Jurisdiction != y.Jurisdiction {
				return x.Jurisdiction < y.Jurisdiction
			}
			return x.Name < y.Name
		})
	}
	return hs, nil
}

// IsHoliday reports whether at least one holiday falls on d.
func (hs *HolidaySet) IsHoliday(d Date) bool { return len(hs.byDate[d.Key()]) > 0 }

// On returns the holidays on d.
func (hs *HolidaySet) On(d Date) []Holiday { return hs.byDate[d.Key()] }

// IsNational reports an explicit national holiday on d.
func (hs *HolidaySet) IsNational(d Date) bool {
	for _, h := range hs.byDate[d.Key()] {
		if h.Jurisdiction == JurisdictionNational {
			return true
		}
	}
	return false
}

// Len returns the number of distinct holiday dates.
func (hs *HolidaySet) Len() int { return len(hs.byDate) }

// GoodFridays derives Good Friday per year as the earliest Friday holiday
// in March or April.
func (hs *HolidaySet) GoodFridays() map[int]Date {
	out := make(map[int]Date)
	for _, hols := range hs.byDate {
		d := hols[0].Date
		if d.Weekday() != time.Friday || (d.Month() != time.March && d.Month() != time.April) {
			continue
		}
		if cur, ok := out[d.Year()]; !ok || d.Before(cur) {
			out[d.Year()] = d
		}
	}
	return out
}
