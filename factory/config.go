/*
Package factory provides JSON to Go calendar configuration conversion.

PURPOSE:
  Converts JSON build definitions into calendar.BuildConfig values. This
  lets operators change the range, retail pattern or jurisdiction scope
  of the date dimension without code changes, and lets the store record
  exactly which configuration produced each build.

JSON SCHEMA:
  {
    "start_date": "2020-07-01",
    "end_date": "2030-06-30",
    "retail_pattern": "445",
    "fiscal_start_month": 7,
    "week_start": "sunday",
    "timezone": "Australia/Sydney",
    "jurisdictions": ["NAT", "NSW"]
  }

DEFAULTS:
  retail_pattern 445, fiscal_start_month 7, week_start sunday,
  timezone Australia/Sydney, jurisdictions empty (all holidays count).

USAGE:
  f := factory.NewConfigFactory()
  cfg, err := f.ParseBuildConfig(factory.AustralianRetailJSON("2020-07-01", "2030-06-30", "445"))

SEE ALSO:
  - calendar/config.go: BuildConfig and its validation
  - store/sqlite/sqlite.go: build runs store the JSON form
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/warp/calendar-engine/calendar"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// BuildConfigJSON is the JSON representation of a calendar build.
type BuildConfigJSON struct {
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	RetailPattern    string   `json:"retail_pattern,omitempty"`
	FiscalStartMonth int      `json:"fiscal_start_month,omitempty"` // Month 1-12
	WeekStart        string   `json:"week_start,omitempty"`         // sunday..saturday or 0-6
	Timezone         string   `json:"timezone,omitempty"`
	Jurisdictions    []string `json:"jurisdictions,omitempty"`
	Workers          int      `json:"workers,omitempty"`
}

// =============================================================================
// CONFIG FACTORY
// =============================================================================

// ConfigFactory converts JSON build definitions to BuildConfig.
type ConfigFactory struct{}

// NewConfigFactory creates a new config factory.
func NewConfigFactory() *ConfigFactory {
	return &ConfigFactory{}
}

// ParseBuildConfig parses a JSON string into a validated BuildConfig.
func (f *ConfigFactory) ParseBuildConfig(jsonStr string) (calendar.BuildConfig, error) {
	var cj BuildConfigJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return calendar.BuildConfig{}, fmt.Errorf("failed to parse calendar config JSON: %w", err)
	}
	return f.FromJSON(cj)
}

// FromJSON converts BuildConfigJSON to a validated BuildConfig, applying defaults.
func (f *ConfigFactory) FromJSON(cj BuildConfigJSON) (calendar.BuildConfig, error) {
	start, err := calendar.ParseDate(cj.StartDate)
	if err != nil {
		return calendar.BuildConfig{}, &calendar.ConfigError{Field: "start_date", Reason: err.Error()}
	}
	end, err := calendar.ParseDate(cj.EndDate)
	if err != nil {
		return calendar.BuildConfig{}, &calendar.ConfigError{Field: "end_date", Reason: err.Error()}
	}

	cfg := calendar.DefaultBuildConfig(start, end)

	if cj.RetailPattern != "" {
		if cfg.RetailPattern, err = calendar.ParsePattern(cj.RetailPattern); err != nil {
			return calendar.BuildConfig{}, err
		}
	}
	if cj.FiscalStartMonth != 0 {
		cfg.FiscalStartMonth = time.Month(cj.FiscalStartMonth)
	}
	if cj.WeekStart != "" {
		if cfg.WeekStart, err = ParseWeekday(cj.WeekStart); err != nil {
			return calendar.BuildConfig{}, err
		}
	}
	if cj.Timezone != "" {
		cfg.TimezoneLabel = cj.Timezone
	}
	for _, s := range cj.Jurisdictions {
		j, err := calendar.ParseJurisdiction(s)
		if err != nil {
			return calendar.BuildConfig{}, &calendar.ConfigError{Field: "jurisdictions", Reason: err.Error()}
		}
		cfg.Jurisdictions = append(cfg.Jurisdictions, j)
	}
	cfg.Workers = cj.Workers

	if err := cfg.Validate(); err != nil {
		return calendar.BuildConfig{}, err
	}
	return cfg, nil
}

// ToJSON converts a BuildConfig to BuildConfigJSON.
func (f *ConfigFactory) ToJSON(cfg calendar.BuildConfig) BuildConfigJSON {
	cj := BuildConfigJSON{
		StartDate:        cfg.Start.String(),
		EndDate:          cfg.End.String(),
		RetailPattern:    string(cfg.RetailPattern),
		FiscalStartMonth: int(cfg.FiscalStartMonth),
		WeekStart:        strings.ToLower(cfg.WeekStart.String()),
		Timezone:         cfg.TimezoneLabel,
		Workers:          cfg.Workers,
	}
	for _, j := range cfg.Jurisdictions {
		cj.Jurisdictions = append(cj.Jurisdictions, string(j))
	}
	return cj
}

// Marshal renders a BuildConfig as a JSON string.
func (f *ConfigFactory) Marshal(cfg calendar.BuildConfig) (string, error) {
	b, err := json.Marshal(f.ToJSON(cfg))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseWeekday accepts a weekday name ("sunday", "Mon") or number 0-6.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, &calendar.ConfigError{Field: "week_start", Reason: fmt.Sprintf("%d is outside 0-6", n)}
		}
		return time.Weekday(n), nil
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return wd, nil
		}
	}
	return 0, &calendar.ConfigError{Field: "week_start", Reason: fmt.Sprintf("unknown weekday %q", s)}
}

// =============================================================================
// PRESETS
// =============================================================================

// AustralianRetailJSON returns the standard AU retail build definition.
func AustralianRetailJSON(start, end, pattern string) string {
	return fmt.Sprintf(`{
		"start_date": %q,
		"end_date": %q,
		"retail_pattern": %q,
		"fiscal_start_month": 7,
		"week_start": "sunday",
		"timezone": "Australia/Sydney"
	}`, start, end, pattern)
}

// StateRetailJSON scopes the AU retail build to national holidays plus
// one state's.
func StateRetailJSON(start, end, pattern, state string) string {
	return fmt.Sprintf(`{
		"start_date": %q,
		"end_date": %q,
		"retail_pattern": %q,
		"fiscal_start_month": 7,
		"week_start": "monday",
		"timezone": "Australia/Sydney",
		"jurisdictions": ["NAT", %q]
	}`, start, end, pattern, state)
}
