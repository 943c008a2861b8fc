package holidays_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/holidays"
)

type failingSource struct{ err error }

func (f failingSource) Holidays(context.Context, calendar.Date, calendar.Date) ([]calendar.Holiday, error) {
	return nil, f.err
}

var errUpstream = errors.New("upstream unavailable")

func TestChain_FallsBack(t *testing.T) {
	static := holidays.Static{
		{Date: d("2023-12-25"), Name: "Christmas Day", Jurisdiction: calendar.JurisdictionNational},
		{Date: d("2024-12-25"), Name: "Christmas Day", Jurisdiction: calendar.JurisdictionNational},
	}
	chain := &holidays.Chain{Sources: []calendar.HolidaySource{failingSource{errUpstream}, static}}

	hs, err := chain.Holidays(ctx, d("2023-01-01"), d("2023-12-31"))

	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, d("2023-12-25"), hs[0].Date)
}

func TestChain_PersistsFallbackCopy(t *testing.T) {
	// GIVEN: A chain whose first source answers and a CSV fallback
	// WHEN: The first source succeeds
	// THEN: Its answer is written to the CSV, which serves the next run alone

	file := &holidays.CSVFile{Path: filepath.Join(t.TempDir(), "holidays.csv")}
	chain := &holidays.Chain{
		Sources: []calendar.HolidaySource{holidays.NewNationalRules(), file},
		Persist: file,
	}

	live, err := chain.Holidays(ctx, d("2023-01-01"), d("2023-12-31"))
	require.NoError(t, err)

	offline := &holidays.Chain{Sources: []calendar.HolidaySource{failingSource{errUpstream}, file}}
	cached, err := offline.Holidays(ctx, d("2023-01-01"), d("2023-12-31"))
	require.NoError(t, err)
	assert.Len(t, cached, len(live))
}

func TestChain_AllFail(t *testing.T) {
	chain := &holidays.Chain{Sources: []calendar.HolidaySource{failingSource{errUpstream}}}

	_, err := chain.Holidays(ctx, d("2023-01-01"), d("2023-12-31"))
	assert.ErrorIs(t, err, holidays.ErrNoSource)
	assert.ErrorIs(t, err, errUpstream)

	_, err = (&holidays.Chain{}).Holidays(ctx, d("2023-01-01"), d("2023-12-31"))
	assert.ErrorIs(t, err, holidays.ErrNoSource)
}
