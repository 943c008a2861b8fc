package holidays_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/holidays"
)

func TestDecodeCSV(t *testing.T) {
	in := "date,name,jurisdiction\n" +
		"2023-12-25,Christmas Day,national\n" +
		"2023-11-07,Melbourne Cup,AU-VIC\n"

	hs, err := holidays.DecodeCSV(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, calendar.JurisdictionNational, hs[0].Jurisdiction)
	assert.Equal(t, calendar.JurisdictionVIC, hs[1].Jurisdiction)
	assert.Equal(t, "2023-11-07|VIC|Melbourne Cup", hs[1].ID)
}

func TestDecodeCSV_ReportsLine(t *testing.T) {
	tests := map[string]string{
		"unknown jurisdiction": "date,name,jurisdiction\n2023-12-25,Christmas Day,Atlantis\n",
		"bad date":             "date,name,jurisdiction\n25/12/2023,Christmas Day,NAT\n",
		"missing name":         "date,name,jurisdiction\n2023-12-25,,NAT\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := holidays.DecodeCSV(strings.NewReader(in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestCSVFile_RoundTrip(t *testing.T) {
	// GIVEN: A CSV file saved from holiday facts
	// WHEN: Reading back a sub-range
	// THEN: Only the facts in range come back, unchanged

	file := &holidays.CSVFile{Path: filepath.Join(t.TempDir(), "holidays.csv")}
	saved := []calendar.Holiday{
		{Date: d("2023-04-07"), Name: "Good Friday", Jurisdiction: calendar.JurisdictionNational},
		{Date: d("2023-12-25"), Name: "Christmas Day", Jurisdiction: calendar.JurisdictionNational},
		{Date: d("2024-01-26"), Name: "Australia Day", Jurisdiction: calendar.JurisdictionNational},
	}
	require.NoError(t, file.Save(saved))

	got, err := file.Holidays(ctx, d("2023-01-01"), d("2023-12-31"))

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Good Friday", got[0].Name)
	assert.True(t, d("2023-12-25").Equal(got[1].Date))
}

func TestCSVFile_Missing(t *testing.T) {
	file := &holidays.CSVFile{Path: filepath.Join(t.TempDir(), "absent.csv")}

	_, err := file.Holidays(ctx, d("2023-01-01"), d("2023-12-31"))

	assert.Error(t, err)
}
