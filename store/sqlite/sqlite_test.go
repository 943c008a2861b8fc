package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/store/sqlite"
)

var (
	ctx = context.Background()
	d   = calendar.MustParseDate
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func holiday(date, name string, j calendar.Jurisdiction) calendar.Holiday {
	return calendar.Holiday{Date: d(date), Name: name, Jurisdiction: j}
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestStore_SaveAndQueryHolidays(t *testing.T) {
	s := newStore(t)

	err := s.SaveHolidays(ctx, []calendar.Holiday{
		holiday("2023-12-26", "Boxing Day", calendar.JurisdictionNational),
		holiday("2023-12-25", "Christmas Day", "national"),
		holiday("2023-11-07", "Melbourne Cup", calendar.JurisdictionVIC),
	})
	require.NoError(t, err)

	dec, err := s.Holidays(ctx, d("2023-12-01"), d("2023-12-31"))
	require.NoError(t, err)
	require.Len(t, dec, 2)
	assert.Equal(t, "Christmas Day", dec[0].Name, "ordered by date")
	assert.Equal(t, calendar.JurisdictionNational, dec[0].Jurisdiction)
	assert.Equal(t, "2023-12-25|NAT|Christmas Day", dec[0].ID)

	all, err := s.AllHolidays(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_UpsertOnNaturalKey(t *testing.T) {
	// GIVEN: A stored holiday
	// WHEN: The same date, name and jurisdiction is saved again
	// THEN: There is still one row but the revision moves

	s := newStore(t)
	xmas := holiday("2023-12-25", "Christmas Day", calendar.JurisdictionNational)

	require.NoError(t, s.SaveHolidays(ctx, []calendar.Holiday{xmas}))
	first, err := s.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1:1", first)

	require.NoError(t, s.SaveHolidays(ctx, []calendar.Holiday{xmas}))
	second, err := s.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2:1", second)
}

func TestStore_SaveRejectsWholeBatch(t *testing.T) {
	s := newStore(t)

	err := s.SaveHolidays(ctx, []calendar.Holiday{
		holiday("2023-12-25", "Christmas Day", calendar.JurisdictionNational),
		holiday("2023-12-26", "Boxing Day", "Atlantis"),
	})
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)

	all, err := s.AllHolidays(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	fp, err := s.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0:0", fp)
}

func TestStore_DeleteHoliday(t *testing.T) {
	s := newStore(t)
	xmas := holiday("2023-12-25", "Christmas Day", calendar.JurisdictionNational)
	require.NoError(t, s.SaveHolidays(ctx, []calendar.Holiday{xmas}))

	require.NoError(t, s.DeleteHoliday(ctx, calendar.HolidayID(xmas)))

	err := s.DeleteHoliday(ctx, calendar.HolidayID(xmas))
	assert.ErrorIs(t, err, calendar.ErrNotFound)

	fp, err := s.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2:0", fp)
}

// =============================================================================
// BUILDS AND MATERIALIZED DAYS
// =============================================================================

func TestStore_BuildRuns(t *testing.T) {
	s := newStore(t)
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveBuild(ctx, sqlite.BuildRun{
		ID: "b1", Version: "v1", ConfigJSON: "{}", Start: d("2023-01-01"), End: d("2024-12-31"),
		Days: 731, TradingDays: 500, Status: "completed", Duration: 120 * time.Millisecond, CreatedAt: base,
	}))
	require.NoError(t, s.SaveBuild(ctx, sqlite.BuildRun{
		ID: "b2", Version: "v2", ConfigJSON: "{}", Start: d("2023-01-01"), End: d("2024-12-31"),
		Status: "failed", Error: "boom", CreatedAt: base.Add(time.Minute),
	}))

	runs, err := s.ListBuilds(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b2", runs[0].ID, "newest first")
	assert.Equal(t, "boom", runs[0].Error)
	assert.Equal(t, 731, runs[1].Days)
	assert.Equal(t, 120*time.Millisecond, runs[1].Duration)
	assert.Empty(t, runs[1].HolidayFingerprint)
	assert.Equal(t, d("2024-12-31"), runs[1].End)

	runs, err = s.ListBuilds(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestStore_SaveAndGetDays(t *testing.T) {
	cfg := calendar.DefaultBuildConfig(d("2023-12-01"), d("2023-12-31"))
	cal, err := calendar.Build(ctx, cfg, []calendar.Holiday{
		holiday("2023-12-25", "Christmas Day", calendar.JurisdictionNational),
	})
	require.NoError(t, err)
	days, err := cal.Days(d("2023-12-01"), d("2023-12-31"))
	require.NoError(t, err)

	s := newStore(t)
	n, err := s.SaveDays(ctx, cal.Version(), days)
	require.NoError(t, err)
	assert.Equal(t, 31, n)

	got, version, ok, err := s.GetDay(ctx, d("2023-12-25"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cal.Version(), version)
	assert.Equal(t, d("2023-12-25"), got.Date)
	assert.True(t, got.IsHoliday)
	assert.False(t, got.IsTradingDay)
	assert.Equal(t, []string{"Christmas Day"}, got.HolidayNames)

	_, _, ok, err = s.GetDay(ctx, d("2024-01-01"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Reset(ctx))
	_, _, ok, err = s.GetDay(ctx, d("2023-12-25"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ImplementsHolidayStore(t *testing.T) {
	var _ calendar.HolidayStore = newStore(t)
}
