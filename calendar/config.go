package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// BUILD CONFIG - Typed parameters of one calendar build
// =============================================================================

// BuildConfig parameterises a calendar build.
type BuildConfig struct {
	Start            Date
	End              Date
	RetailPattern    Pattern
	FiscalStartMonth time.Month
	// WeekStart is the first day of the Gregorian calendar week.
	WeekStart time.Weekday
	// TimezoneLabel names the zone used to resolve "today" for callers.
	TimezoneLabel string
	// Jurisdictions restricts which holidays count; empty counts all.
	Jurisdictions []Jurisdiction
	// Workers bounds parallel derivation; <= 0 picks a default.
	Workers int
}

// DefaultBuildConfig returns the Australian retail defaults for a range.
func DefaultBuildConfig(start, end Date) BuildConfig {
	return BuildConfig{
		Start:            start,
		End:              end,
		RetailPattern:    Pattern445,
		FiscalStartMonth: time.July,
		WeekStart:        time.Sunday,
		TimezoneLabel:    "Australia/Sydney",
	}
}

// Validate checks every field. Errors are ConfigErrors and fatal for a build.
func (c BuildConfig) Validate() error {
	if c.Start.IsZero() || c.End.IsZero() {
		return &ConfigError{Field: "range", Reason: "start_date and end_date are required"}
	}
	if c.Start.After(c.End) {
		return &ConfigError{Field: "range", Reason: (&InvalidRangeError{Start: c.Start, End: c.End}).Error()}
	}
	if c.FiscalStartMonth < time.January || c.FiscalStartMonth > time.December {
		return &ConfigError{Field: "fiscal_start_month", Reason: fmt.Sprintf("%d is outside 1-12", c.FiscalStartMonth)}
	}
	if c.WeekStart < time.Sunday || c.WeekStart > time.Saturday {
		return &ConfigError{Field: "week_start", Reason: fmt.Sprintf("%d is outside 0-6", c.WeekStart)}
	}
	if err := c.RetailPattern.Validate(); err != nil {
		return err
	}
	for _, j := range c.Jurisdictions {
		if _, err := ParseJurisdiction(string(j)); err != nil {
			return &ConfigError{Field: "jurisdictions", Reason: err.Error()}
		}
	}
	return nil
}

// Location resolves TimezoneLabel, falling back to UTC.
func (c BuildConfig) Location() *time.Location {
	if c.TimezoneLabel == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.TimezoneLabel)
	if err != nil {
		return time.UTC
	}
	return loc
}
