/*
errors.go - Centralized error types for the calendar engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (api, store, scheduler) classify errors with errors.Is against
  the sentinels and errors.As against the structured types.

ERROR CATEGORIES:
  1. Invalid input  - zero dates, month outside 1-12, bad ordinals
  2. Out of range   - navigation beyond the built calendar
  3. Configuration  - non-total retail pattern, bad fiscal month; fatal
                      at build start, no partial data is produced

NOT FOUND:
  Absence is an expected outcome ("this month has no 25th trading day",
  "no Good Friday on file for 2031") and is returned as an ok=false
  value, not an error. ErrNotFound exists for layers that must turn a
  missing value into an error (HTTP 404, store lookups).

SEE ALSO:
  - business.go: OutOfRangeError producers
  - config.go: ConfigError producers
*/
package calendar

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for null or out-of-domain arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfRange is returned when navigation leaves the built calendar.
	ErrOutOfRange = errors.New("date outside built calendar range")

	// ErrNotFound marks a missing value at layers that need an error.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig is returned when a BuildConfig cannot produce a calendar.
	ErrInvalidConfig = errors.New("invalid calendar configuration")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError describes a rejected argument.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// InvalidRangeError is returned when a range has its start after its end.
type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s is after end %s", e.Start, e.End)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidInput }

// OutOfRangeError reports navigation past the calendar bounds.
type OutOfRangeError struct {
	Op    string
	Date  Date
	Start Date
	End   Date
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %s is outside calendar [%s, %s]", e.Op, e.Date, e.Start, e.End)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// ConfigError reports an unusable BuildConfig field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidConfig)
}

// IsOutOfRange returns true if the error is a bounded-calendar miss.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// IsNotFound returns true if the error indicates a missing value.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func requireDate(field string, d Date) error {
	if d.IsZero() {
		return &InvalidInputError{Field: field, Reason: "date is required"}
	}
	return nil
}
