/*
store.go - Persistence interface for holiday facts

PURPOSE:
  Defines the interface between the calendar engine and wherever the
  holiday facts live. The engine itself only consumes a resolved
  []Holiday; stores feed builds and let the scheduler detect changes.

KEY INTERFACES:
  HolidaySource: read a resolved fact set for a range
  HolidayStore:  HolidaySource plus writes and change detection

FINGERPRINT:
  Fingerprint returns a value that changes whenever the stored fact set
  changes. The rebuild scheduler compares fingerprints instead of
  diffing holiday lists.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - calendar/store/memory.go: In-memory for testing

SEE ALSO:
  - holidays/: rule-based and CSV sources
  - api/scheduler.go: fingerprint polling
*/
package calendar

import "context"

// HolidaySource supplies the holiday facts for [from, to].
type HolidaySource interface {
	Holidays(ctx context.Context, from, to Date) ([]Holiday, error)
}

// HolidayStore persists holiday facts.
type HolidayStore interface {
	HolidaySource

	// SaveHolidays upserts holidays keyed by (date, name, jurisdiction).
	// Either all are written or none are.
	SaveHolidays(ctx context.Context, holidays []Holiday) error

	// DeleteHoliday removes one holiday by ID.
	DeleteHoliday(ctx context.Context, id string) error

	// AllHolidays returns every stored holiday ordered by date.
	AllHolidays(ctx context.Context) ([]Holiday, error)

	// Fingerprint changes whenever the stored fact set changes.
	Fingerprint(ctx context.Context) (string, error)
}

// HolidayID is the stable identifier of a holiday fact.
func HolidayID(h Holiday) string {
	return h.Date.String() + "|" + string(h.Jurisdiction) + "|" + h.Name
}
