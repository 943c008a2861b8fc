package holidays

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"

	"github.com/warp/calendar-engine/calendar"
)

// =============================================================================
// CSV FILE - Local fallback copy of the holiday facts
// =============================================================================

// csvRecord is one line of a holiday CSV: date,name,jurisdiction.
type csvRecord struct {
	Date         string `csv:"date"`
	Name         string `csv:"name"`
	Jurisdiction string `csv:"jurisdiction"`
}

// CSVFile is a holiday CSV on disk.
type CSVFile struct {
	Path string
}

// Holidays implements calendar.HolidaySource.
func (f *CSVFile) Holidays(_ context.Context, from, to calendar.Date) ([]calendar.Holiday, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open holiday csv: %w", err)
	}
	defer file.Close()

	all, err := DecodeCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	span := calendar.Period{Start: from, End: to}
	out := all[:0]
	for _, h := range all {
		if span.Contains(h.Date) {
			out = append(out, h)
		}
	}
	return out, nil
}

// Save replaces the file with holidays. The write goes through a temp
// file and a rename so readers never see a partial file.
func (f *CSVFile) Save(holidays []calendar.Holiday) error {
	data, err := EncodeCSV(holidays)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".holidays-*.csv")
	if err != nil {
		return fmt.Errorf("create temp holiday csv: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write holiday csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close holiday csv: %w", err)
	}
	return os.Rename(tmp.Name(), f.Path)
}

// DecodeCSV parses a headed date,name,jurisdiction CSV. Jurisdiction
// strings are decoded to canonical codes; an unknown one fails the file.
func DecodeCSV(r io.Reader) ([]calendar.Holiday, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var records []csvRecord
	if err := csvutil.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode holiday csv: %w", err)
	}

	out := make([]calendar.Holiday, 0, len(records))
	for i, rec := range records {
		d, err := calendar.ParseDate(rec.Date)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		j, err := calendar.ParseJurisdiction(rec.Jurisdiction)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		h := calendar.Holiday{Date: d, Name: rec.Name, Jurisdiction: j}
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		h.ID = calendar.HolidayID(h)
		out = append(out, h)
	}
	return out, nil
}

// EncodeCSV renders holidays with a header row.
func EncodeCSV(holidays []calendar.Holiday) ([]byte, error) {
	records := make([]csvRecord, len(holidays))
	for i, h := range holidays {
		records[i] = csvRecord{Date: h.Date.String(), Name: h.Name, Jurisdiction: string(h.Jurisdiction)}
	}
	data, err := csvutil.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode holiday csv: %w", err)
	}
	return data, nil
}
