package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/calendar/store"
)

var ctx = context.Background()

func holiday(date, name string, j calendar.Jurisdiction) calendar.Holiday {
	return calendar.Holiday{Date: calendar.MustParseDate(date), Name: name, Jurisdiction: j}
}

func TestMemory_SaveAndQuery(t *testing.T) {
	m := store.NewMemory(holiday("2023-12-25", "Christmas Day", calendar.JurisdictionNational))

	err := m.SaveHolidays(ctx, []calendar.Holiday{
		holiday("2023-12-26", "Boxing Day", calendar.JurisdictionNational),
		holiday("2023-04-07", "Good Friday", "national"),
	})
	require.NoError(t, err)

	all, err := m.AllHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Good Friday", all[0].Name, "ordered by date")
	assert.Equal(t, calendar.JurisdictionNational, all[0].Jurisdiction)
	assert.Equal(t, "2023-04-07|NAT|Good Friday", all[0].ID)

	dec, err := m.Holidays(ctx, calendar.MustParseDate("2023-12-01"), calendar.MustParseDate("2023-12-31"))
	require.NoError(t, err)
	assert.Len(t, dec, 2)
}

func TestMemory_SaveIsAtomic(t *testing.T) {
	// GIVEN: A batch with one invalid holiday
	// WHEN: Saving it
	// THEN: Nothing is stored and the fingerprint is unchanged

	m := store.NewMemory()
	before, err := m.Fingerprint(ctx)
	require.NoError(t, err)

	err = m.SaveHolidays(ctx, []calendar.Holiday{
		holiday("2023-12-25", "Christmas Day", calendar.JurisdictionNational),
		holiday("2023-12-26", "", calendar.JurisdictionNational),
	})
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)

	all, err := m.AllHolidays(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	after, err := m.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMemory_UpsertAndFingerprint(t *testing.T) {
	m := store.NewMemory()
	xmas := holiday("2023-12-25", "Christmas Day", calendar.JurisdictionNational)

	require.NoError(t, m.SaveHolidays(ctx, []calendar.Holiday{xmas}))
	require.NoError(t, m.SaveHolidays(ctx, []calendar.Holiday{xmas}))

	fp, err := m.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2:1", fp, "same fact saved twice is one row")
}

func TestMemory_Delete(t *testing.T) {
	xmas := holiday("2023-12-25", "Christmas Day", calendar.JurisdictionNational)
	m := store.NewMemory(xmas)

	require.NoError(t, m.DeleteHoliday(ctx, calendar.HolidayID(xmas)))

	all, err := m.AllHolidays(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	err = m.DeleteHoliday(ctx, "nope")
	assert.ErrorIs(t, err, calendar.ErrNotFound)

	fp, err := m.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1:0", fp)
}

func TestMemory_ImplementsHolidayStore(t *testing.T) {
	var _ calendar.HolidayStore = store.NewMemory()
}
