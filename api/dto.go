/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the calendar model from the external API contract. The main difference
  is NULL handling: the engine uses the zero Date and empty strings for
  "no value", the API renders them as JSON null.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Calendar:  CalendarInfoDTO, BuildRunDTO
  Days:      DayDTO, SeasonDTO
  Trading:   TradingDayDTO, DateResultDTO, CountDTO
  Mapping:   MapResultDTO
  Holidays:  HolidayDTO, CreateHolidayRequest, DefaultHolidaysRequest
  Scenarios: ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: BuildConfigJSON type
*/
package api

import (
	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/factory"
	"github.com/warp/calendar-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CalendarInfoDTO describes the active calendar build.
type CalendarInfoDTO struct {
	Version       string                  `json:"version"`
	BuiltAt       string                  `json:"built_at"`
	Config        factory.BuildConfigJSON `json:"config"`
	Days          int                     `json:"days"`
	TradingDays   int                     `json:"trading_days"`
	HolidayDates  int                     `json:"holiday_dates"`
	RetailAnchors []string                `json:"retail_anchors"`
	Today         string                  `json:"today"`
}

// BuildRunDTO is one recorded build.
type BuildRunDTO struct {
	ID          string `json:"id"`
	Version     string `json:"version"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Days        int    `json:"days"`
	TradingDays int    `json:"trading_days"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
	CreatedAt   string `json:"created_at"`
}

// DayDTO is a CalendarDay with NULLs rendered explicitly. The outer
// fields shadow the embedded ones of the same JSON name.
type DayDTO struct {
	calendar.CalendarDay

	HolidayProximity    *string `json:"holiday_proximity"`
	NextDate            *string `json:"next_date"`
	PreviousDate        *string `json:"previous_date"`
	NextTradingDate     *string `json:"next_trading_date"`
	PreviousTradingDate *string `json:"previous_trading_date"`
	TradingDayOrdinal   *int    `json:"trading_day_ordinal"`
	TradingDayOfMonth   *int    `json:"trading_day_of_month"`
}

// SeasonDTO is the season classification of one date.
type SeasonDTO struct {
	Date             string  `json:"date"`
	RetailSeason     string  `json:"retail_season"`
	HolidayProximity *string `json:"holiday_proximity"`
}

// SeasonInfoDTO names a season and the slug used in URLs.
type SeasonInfoDTO struct {
	Season string `json:"season"`
	Slug   string `json:"slug"`
}

// TradingDayDTO answers "is this a trading day".
type TradingDayDTO struct {
	Date         string `json:"date"`
	IsTradingDay bool   `json:"is_trading_day"`
	Ordinal      *int   `json:"trading_day_ordinal"`
}

// DateResultDTO carries a single computed date. Date is null when the
// computation has no result.
type DateResultDTO struct {
	Input string  `json:"input,omitempty"`
	Date  *string `json:"date"`
	Found bool    `json:"found"`
}

// CountDTO is a trading-day count.
type CountDTO struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

// MapResultDTO is a cross-calendar mapping.
type MapResultDTO struct {
	Date        string  `json:"date"`
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	PreserveDay bool    `json:"preserve_day"`
	Result      *string `json:"result"`
	Found       bool    `json:"found"`
}

// HolidayDTO represents a holiday fact.
type HolidayDTO struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Name         string `json:"name"`
	Jurisdiction string `json:"jurisdiction"`
}

// CreateHolidayRequest is the request to add holidays. Either a single
// holiday or a batch in Holidays.
type CreateHolidayRequest struct {
	Date         string       `json:"date"`
	Name         string       `json:"name"`
	Jurisdiction string       `json:"jurisdiction"`
	Holidays     []HolidayDTO `json:"holidays,omitempty"`
}

// DefaultHolidaysRequest asks for rule-based AU holidays.
type DefaultHolidaysRequest struct {
	FromYear     int  `json:"from_year"`
	ToYear       int  `json:"to_year"`
	NationalOnly bool `json:"national_only"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"` // "national", "state" or "season"
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toDayDTO(d calendar.CalendarDay) DayDTO {
	return DayDTO{
		CalendarDay:         d,
		HolidayProximity:    proximityPtr(d.Proximity),
		NextDate:            datePtr(d.NextDate),
		PreviousDate:        datePtr(d.PreviousDate),
		NextTradingDate:     datePtr(d.NextTradingDate),
		PreviousTradingDate: datePtr(d.PreviousTradingDate),
		TradingDayOrdinal:   ordinalPtr(d.TradingDayOrdinal),
		TradingDayOfMonth:   ordinalPtr(d.TradingDayOfMonth),
	}
}

func toHolidayDTO(h calendar.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:           h.ID,
		Date:         h.Date.String(),
		Name:         h.Name,
		Jurisdiction: string(h.Jurisdiction),
	}
}

func toBuildRunDTO(r sqlite.BuildRun) BuildRunDTO {
	return BuildRunDTO{
		ID:          r.ID,
		Version:     r.Version,
		StartDate:   r.Start.String(),
		EndDate:     r.End.String(),
		Days:        r.Days,
		TradingDays: r.TradingDays,
		Status:      r.Status,
		Error:       r.Error,
		DurationMS:  r.Duration.Milliseconds(),
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func datePtr(d calendar.Date) *string {
	if d.IsZero() {
		return nil
	}
	s := d.String()
	return &s
}

func proximityPtr(p calendar.Proximity) *string {
	if p == calendar.ProximityNone {
		return nil
	}
	s := string(p)
	return &s
}

func ordinalPtr(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
