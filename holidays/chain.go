package holidays

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/warp/calendar-engine/calendar"
)

// =============================================================================
// CHAIN - Ordered fallback across sources
// =============================================================================

// ErrNoSource is returned when every source in a chain failed.
var ErrNoSource = errors.New("no holiday source available")

// Chain asks each source in turn and returns the first answer. When
// Persist is set, a successful answer from any source but the last is
// written to it so the next run can fall back to it.
type Chain struct {
	Sources []calendar.HolidaySource
	Persist *CSVFile
}

// Holidays implements calendar.HolidaySource. There are no retries; a
// failing source is logged and skipped.
func (c *Chain) Holidays(ctx context.Context, from, to calendar.Date) ([]calendar.Holiday, error) {
	var errs []error
	for i, src := range c.Sources {
		hs, err := src.Holidays(ctx, from, to)
		if err != nil {
			log.Printf("[Holidays] Source %d (%T) failed: %v", i, src, err)
			errs = append(errs, err)
			continue
		}
		if c.Persist != nil && i < len(c.Sources)-1 {
			if err := c.Persist.Save(hs); err != nil {
				log.Printf("[Holidays] Failed to persist fallback copy to %s: %v", c.Persist.Path, err)
			}
		}
		return hs, nil
	}
	if len(errs) == 0 {
		return nil, ErrNoSource
	}
	return nil, fmt.Errorf("%w: %w", ErrNoSource, errors.Join(errs...))
}

// Static is a fixed fact set, filtered to the requested range.
type Static []calendar.Holiday

// Holidays implements calendar.HolidaySource.
func (s Static) Holidays(_ context.Context, from, to calendar.Date) ([]calendar.Holiday, error) {
	span := calendar.Period{Start: from, End: to}
	var out []calendar.Holiday
	for _, h := range s {
		if span.Contains(h.Date) {
			out = append(out, h)
		}
	}
	return out, nil
}
