package calendar

// =============================================================================
// PERIOD - Inclusive date interval shared by every calendar system
// =============================================================================

// Period is an inclusive date interval [Start, End].
//
// Examples:
//   - Gregorian month:   Jul 1 - Jul 31
//   - Fiscal year 2024:  Jul 1 2023 - Jun 30 2024
//   - Retail period P01: Jul 3 2023 - Jul 30 2023 (4 weeks)
type Period struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Contains returns true if the date is within the period [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Length returns the number of days in the period.
func (p Period) Length() int {
	return DaysBetween(p.Start, p.End) + 1
}

// Offset returns the zero-based position of d inside the period.
func (p Period) Offset(d Date) int {
	return DaysBetween(p.Start, d)
}

// At returns the day at a zero-based offset, clamped to the period.
func (p Period) At(offset int) Date {
	if offset < 0 {
		offset = 0
	}
	if last := p.Length() - 1; offset > last {
		offset = last
	}
	return p.Start.AddDays(offset)
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// Validate rejects inverted or open periods.
func (p Period) Validate() error {
	if err := requireDate("start", p.Start); err != nil {
		return err
	}
	if err := requireDate("end", p.End); err != nil {
		return err
	}
	if p.Start.After(p.End) {
		return &InvalidRangeError{Start: p.Start, End: p.End}
	}
	return nil
}
