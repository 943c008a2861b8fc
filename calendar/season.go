package calendar

import (
	"time"
)

// =============================================================================
// RETAIL SEASONS - Marketing season and holiday proximity labels
// =============================================================================

// Season is a retail marketing season. Exactly one applies to every date.
type Season string

const (
	SeasonChristmas    Season = "Christmas Season"
	SeasonBackToSchool Season = "Back to School"
	SeasonEaster       Season = "Easter Season"
	SeasonEOFY         Season = "EOFY Sales"
	SeasonRegular      Season = "Regular Season"
)

// Seasons lists every season in rule priority order.
var Seasons = []Season{SeasonChristmas, SeasonBackToSchool, SeasonEaster, SeasonEOFY, SeasonRegular}

// Slug is the short URL form of the season, e.g. "back-to-school".
func (s Season) Slug() string {
	switch s {
	case SeasonChristmas:
		return "christmas"
	case SeasonBackToSchool:
		return "back-to-school"
	case SeasonEaster:
		return "easter"
	case SeasonEOFY:
		return "eofy"
	case SeasonRegular:
		return "regular"
	}
	return ""
}

// ParseSeason matches a season by its label or its slug.
func ParseSeason(s string) (Season, bool) {
	for _, season := range Seasons {
		if s == string(season) || s == season.Slug() {
			return season, true
		}
	}
	return "", false
}

// Proximity labels days around Christmas. The empty value means none.
type Proximity string

const (
	ProximityNone              Proximity = ""
	ProximityChristmasEve      Proximity = "Christmas Eve Period"
	ProximityBoxingDay         Proximity = "Boxing Day"
	ProximityPostChristmasSale Proximity = "Post-Christmas Sale"
)

// SeasonClassifier labels dates with a season and proximity. Easter
// depends on Good Friday, derived from the holiday facts.
type SeasonClassifier struct {
	goodFridays map[int]Date
}

// NewSeasonClassifier derives Good Friday for every year in the set.
func NewSeasonClassifier(hs *HolidaySet) *SeasonClassifier {
	return &SeasonClassifier{goodFridays: hs.GoodFridays()}
}

// GoodFriday returns the derived Good Friday of year, if one is on file.
func (c *SeasonClassifier) GoodFriday(year int) (Date, bool) {
	d, ok := c.goodFridays[year]
	return d, ok
}

// Classify returns the season and proximity of d. Season rules are
// evaluated in priority order; proximity is independent.
func (c *SeasonClassifier) Classify(d Date) (Season, Proximity) {
	return c.season(d), proximity(d)
}

func (c *SeasonClassifier) season(d Date) Season {
	m, day := d.Month(), d.Day()
	switch {
	case m == time.November || (m == time.December && day <= 24):
		return SeasonChristmas
	case (m == time.January && day >= 15) || (m == time.February && day <= 15):
		return SeasonBackToSchool
	}
	if gf, ok := c.goodFridays[d.Year()]; ok {
		if (Period{Start: gf.AddDays(-21), End: gf.AddDays(1)}).Contains(d) {
			return SeasonEaster
		}
	}
	if m == time.June {
		return SeasonEOFY
	}
	return SeasonRegular
}

func proximity(d Date) Proximity {
	if d.Month() != time.December {
		return ProximityNone
	}
	switch day := d.Day(); {
	case day >= 20 && day <= 24:
		return ProximityChristmasEve
	case day == 26:
		return ProximityBoxingDay
	case day >= 27:
		return ProximityPostChristmasSale
	}
	return ProximityNone
}
