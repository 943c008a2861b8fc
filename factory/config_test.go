package factory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/factory"
)

func TestParseBuildConfig_Defaults(t *testing.T) {
	f := factory.NewConfigFactory()

	cfg, err := f.ParseBuildConfig(`{"start_date": "2020-07-01", "end_date": "2030-06-30"}`)

	require.NoError(t, err)
	assert.Equal(t, calendar.MustParseDate("2020-07-01"), cfg.Start)
	assert.Equal(t, calendar.MustParseDate("2030-06-30"), cfg.End)
	assert.Equal(t, calendar.Pattern445, cfg.RetailPattern)
	assert.Equal(t, time.July, cfg.FiscalStartMonth)
	assert.Equal(t, time.Sunday, cfg.WeekStart)
	assert.Equal(t, "Australia/Sydney", cfg.TimezoneLabel)
	assert.Empty(t, cfg.Jurisdictions)
}

func TestParseBuildConfig_Presets(t *testing.T) {
	f := factory.NewConfigFactory()

	cfg, err := f.ParseBuildConfig(factory.AustralianRetailJSON("2023-01-01", "2024-12-31", "454"))
	require.NoError(t, err)
	assert.Equal(t, calendar.Pattern454, cfg.RetailPattern)

	cfg, err = f.ParseBuildConfig(factory.StateRetailJSON("2023-01-01", "2024-12-31", "5-4-4", "victoria"))
	require.NoError(t, err)
	assert.Equal(t, calendar.Pattern544, cfg.RetailPattern)
	assert.Equal(t, time.Monday, cfg.WeekStart)
	assert.Equal(t, []calendar.Jurisdiction{calendar.JurisdictionNational, calendar.JurisdictionVIC}, cfg.Jurisdictions)
}

func TestParseBuildConfig_Invalid(t *testing.T) {
	f := factory.NewConfigFactory()

	tests := map[string]string{
		"bad pattern":    factory.AustralianRetailJSON("2023-01-01", "2024-12-31", "444"),
		"not a pattern":  factory.AustralianRetailJSON("2023-01-01", "2024-12-31", "4x5"),
		"inverted range": `{"start_date": "2024-01-01", "end_date": "2023-01-01"}`,
		"missing start":  `{"end_date": "2023-01-01"}`,
		"fiscal month":   `{"start_date": "2023-01-01", "end_date": "2024-01-01", "fiscal_start_month": 13}`,
		"week start":     `{"start_date": "2023-01-01", "end_date": "2024-01-01", "week_start": "someday"}`,
		"jurisdiction":   `{"start_date": "2023-01-01", "end_date": "2024-01-01", "jurisdictions": ["Atlantis"]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.ParseBuildConfig(in)
			assert.ErrorIs(t, err, calendar.ErrInvalidConfig)
		})
	}

	_, err := f.ParseBuildConfig(`{not json`)
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	// GIVEN: A non-default build config
	// WHEN: Marshalling to JSON and parsing it back
	// THEN: The same config comes back

	f := factory.NewConfigFactory()
	cfg, err := f.ParseBuildConfig(factory.StateRetailJSON("2023-01-01", "2024-12-31", "454", "NSW"))
	require.NoError(t, err)

	s, err := f.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, s, `"week_start":"monday"`)

	back, err := f.ParseBuildConfig(s)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
	}{
		{"sunday", time.Sunday},
		{"Monday", time.Monday},
		{"wed", time.Wednesday},
		{"thurs", time.Thursday},
		{"6", time.Saturday},
		{"0", time.Sunday},
	}
	for _, tt := range tests {
		got, err := factory.ParseWeekday(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"7", "-1", "mo", "funday"} {
		_, err := factory.ParseWeekday(bad)
		assert.ErrorIs(t, err, calendar.ErrInvalidConfig, bad)
	}
}
