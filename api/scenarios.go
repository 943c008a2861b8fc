/*
scenarios.go - Demo holiday scenarios for testing and demonstrations

PURPOSE:

	Provides pre-built holiday sets that populate the database with
	realistic facts for demos and tests. Each scenario resets the store,
	writes its holidays and rebuilds the calendar.

AVAILABLE SCENARIOS:

	au-national:    Rule-based national holidays for the configured range
	nsw-2023:       National + NSW holidays for calendar year 2023
	christmas-2023: Only the 2023 Easter and Christmas holidays, small
	                enough to reason about trading-day arithmetic by hand

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "christmas-2023"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function returning the holiday facts
 3. Add case to scenarioHolidays

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Rebuild
  - holidays/rules.go: Rule-based AU holidays
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/holidays"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "au-national",
		Name:        "Australian National",
		Description: "National public holidays for every year of the configured calendar",
		Category:    "national",
	},
	{
		ID:          "nsw-2023",
		Name:        "New South Wales 2023",
		Description: "National and NSW public holidays for 2023",
		Category:    "state",
	},
	{
		ID:          "christmas-2023",
		Name:        "Easter and Christmas 2023",
		Description: "Good Friday, Easter Monday, Christmas Day and Boxing Day 2023 only",
		Category:    "season",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.scenarioMu.Lock()
	current := h.currentScenario
	h.scenarioMu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	facts, err := h.scenarioHolidays(ctx, req.ScenarioID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown scenario", err)
		return
	}

	cal, err := h.loadScenario(ctx, req.ScenarioID, facts)
	if err != nil {
		writeDomainError(w, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "loaded",
		"scenario": req.ScenarioID,
		"holidays": len(facts),
		"version":  cal.Version(),
	})
}

// ResetDatabase clears holidays and build history, then rebuilds an
// all-weekdays calendar.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if _, err := h.loadScenario(r.Context(), "", nil); err != nil {
		writeDomainError(w, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) loadScenario(ctx context.Context, id string, facts []calendar.Holiday) (*calendar.Calendar, error) {
	h.scenarioMu.Lock()
	defer h.scenarioMu.Unlock()

	if err := h.Store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset store: %w", err)
	}
	h.currentScenario = ""

	if len(facts) > 0 {
		if err := h.Store.SaveHolidays(ctx, facts); err != nil {
			return nil, err
		}
	}
	cal, err := h.Rebuild(ctx)
	if err != nil {
		return nil, err
	}

	h.currentScenario = id
	return cal, nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) scenarioHolidays(ctx context.Context, id string) ([]calendar.Holiday, error) {
	switch id {
	case "au-national":
		return holidays.NewNationalRules().Holidays(ctx,
			calendar.StartOfYear(h.cfg.Start.Year()), calendar.EndOfYear(h.cfg.End.Year()))
	case "nsw-2023":
		return nsw2023Holidays(ctx)
	case "christmas-2023":
		return christmas2023Holidays(), nil
	default:
		return nil, fmt.Errorf("scenario %q: %w", id, calendar.ErrNotFound)
	}
}

func nsw2023Holidays(ctx context.Context) ([]calendar.Holiday, error) {
	all, err := holidays.NewAustralianRules().Holidays(ctx, calendar.StartOfYear(2023), calendar.EndOfYear(2023))
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, hol := range all {
		if hol.Jurisdiction == calendar.JurisdictionNational || hol.Jurisdiction == calendar.JurisdictionNSW {
			out = append(out, hol)
		}
	}
	return out, nil
}

func christmas2023Holidays() []calendar.Holiday {
	return []calendar.Holiday{
		{Date: calendar.NewDate(2023, 4, 7), Name: "Good Friday", Jurisdiction: calendar.JurisdictionNational},
		{Date: calendar.NewDate(2023, 4, 10), Name: "Easter Monday", Jurisdiction: calendar.JurisdictionNational},
		{Date: calendar.NewDate(2023, 12, 25), Name: "Christmas Day", Jurisdiction: calendar.JurisdictionNational},
		{Date: calendar.NewDate(2023, 12, 26), Name: "Boxing Day", Jurisdiction: calendar.JurisdictionNational},
	}
}
