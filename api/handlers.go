/*
handlers.go - HTTP API handlers for the calendar engine

PURPOSE:
  Exposes the built calendar via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the calendar package. Also owns
  the build lifecycle: loading holidays, building, swapping the active
  calendar and recording the run.

ENDPOINTS:
  Calendar:
    GET    /api/calendar                       Active build info
    POST   /api/calendar/rebuild               Rebuild from stored holidays
    GET    /api/calendar/builds                Recorded build runs

  Days:
    GET    /api/days?from=&to=                 Calendar days in a range
    GET    /api/days/{date}                    One calendar day
    GET    /api/days/{date}/flags?today=       Relative flags
    GET    /api/days/{date}/season             Season and proximity
    GET    /api/days/{date}/previous-fiscal-year?years=

  Trading days:
    GET    /api/trading/{date}                 Trading day check + ordinal
    GET    /api/trading/{date}/next            Next trading day
    GET    /api/trading/{date}/previous        Previous trading day
    GET    /api/trading/{date}/add?n=          Add trading days
    GET    /api/trading/count?from=&to=        Count trading days
    GET    /api/trading/nth?year=&month=&n=&from_end=

  Mapping and seasons:
    GET    /api/map?date=&source=&target=&preserve_day=
    GET    /api/seasons/{season}/dates?from=&to=

  Holidays:
    GET    /api/holidays                       List holidays
    POST   /api/holidays                       Add holiday(s)
    DELETE /api/holidays/{id}                  Delete holiday
    POST   /api/holidays/defaults              Add rule-based AU holidays

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Holiday facts, build runs, materialized days
  - ConfigFactory: BuildConfig <-> JSON
  - Cache / Warehouse: optional, nil disables
  The active calendar sits behind an atomic pointer. Requests read it
  without locking; a rebuild swaps it in one store.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input, invalid configuration
  - 404: Resource not found
  - 422: Date outside the built calendar
  - 503: No calendar built yet
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo holiday scenarios
  - scheduler.go: Fingerprint-driven rebuilds
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/calendar-engine/cache"
	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/factory"
	"github.com/warp/calendar-engine/holidays"
	"github.com/warp/calendar-engine/store/sqlite"
	"github.com/warp/calendar-engine/store/warehouse"
)

// maxDaysPerRequest bounds GET /api/days.
const maxDaysPerRequest = 3660

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         *sqlite.Store
	ConfigFactory *factory.ConfigFactory
	Cache         *cache.RedisClient
	Warehouse     *warehouse.Publisher

	// Materialize writes calendar_days after every successful build.
	Materialize bool
	// AutoRebuild rebuilds right after holiday writes through the API.
	AutoRebuild bool

	cfg     calendar.BuildConfig
	current atomic.Pointer[calendar.Calendar]

	buildMu     sync.Mutex
	fingerprint string

	scenarioMu      sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler building calendars with cfg.
func NewHandler(store *sqlite.Store, cfg calendar.BuildConfig) *Handler {
	return &Handler{
		Store:         store,
		ConfigFactory: factory.NewConfigFactory(),
		AutoRebuild:   true,
		cfg:           cfg,
	}
}

// Calendar returns the active calendar, or nil before the first build.
func (h *Handler) Calendar() *calendar.Calendar {
	return h.current.Load()
}

// Fingerprint returns the holiday fingerprint the active calendar was
// built from.
func (h *Handler) Fingerprint() string {
	h.buildMu.Lock()
	defer h.buildMu.Unlock()
	return h.fingerprint
}

// Rebuild builds a new calendar from the stored holidays and makes it
// active. A failed build leaves the previous calendar in place.
func (h *Handler) Rebuild(ctx context.Context) (*calendar.Calendar, error) {
	h.buildMu.Lock()
	defer h.buildMu.Unlock()

	began := time.Now()
	run := sqlite.BuildRun{
		ID:        fmt.Sprintf("build-%d", began.UnixNano()),
		Start:     h.cfg.Start,
		End:       h.cfg.End,
		CreatedAt: began,
	}

	var (
		cal *calendar.Calendar
		fp  string
	)
	configJSON, err := h.ConfigFactory.Marshal(h.cfg)
	if err != nil {
		err = fmt.Errorf("encode build config: %w", err)
	} else {
		run.ConfigJSON = configJSON
		cal, fp, err = h.build(ctx)
	}
	run.Duration = time.Since(began)
	run.HolidayFingerprint = fp
	if err != nil {
		run.Status = "failed"
		run.Error = err.Error()
		if saveErr := h.Store.SaveBuild(ctx, run); saveErr != nil {
			log.Printf("[Builder] Failed to record build run: %v", saveErr)
		}
		return nil, err
	}

	run.Status = "completed"
	run.Version = cal.Version()
	run.Days = cal.Len()
	run.TradingDays = cal.Index().Len()
	run.HolidayDates = cal.HolidayDates()
	if err := h.Store.SaveBuild(ctx, run); err != nil {
		log.Printf("[Builder] Failed to record build run: %v", err)
	}

	h.current.Store(cal)
	h.fingerprint = fp
	h.publish(ctx, cal)
	return cal, nil
}

func (h *Handler) build(ctx context.Context) (*calendar.Calendar, string, error) {
	fp, err := h.Store.Fingerprint(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("fingerprint holidays: %w", err)
	}
	facts, err := h.Store.Holidays(ctx, h.cfg.Start, h.cfg.End)
	if err != nil {
		return nil, fp, fmt.Errorf("load holidays: %w", err)
	}
	cal, err := calendar.Build(ctx, h.cfg, facts)
	if err != nil {
		return nil, fp, err
	}
	return cal, fp, nil
}

// publish pushes a fresh build to the optional downstream copies.
// Failures are logged; the in-memory calendar is the source of truth.
func (h *Handler) publish(ctx context.Context, cal *calendar.Calendar) {
	if h.Materialize {
		if n, err := h.Store.SaveDays(ctx, cal.Version(), cal.All()); err != nil {
			log.Printf("[Builder] Failed to materialize days: %v", err)
		} else {
			log.Printf("[Builder] Materialized %d days for version %s", n, cal.Version())
		}
	}
	if h.Warehouse != nil {
		if n, err := h.Warehouse.Publish(ctx, cal.Version(), cal.All()); err != nil {
			log.Printf("[Warehouse] Publish failed after %d rows: %v", n, err)
		} else {
			log.Printf("[Warehouse] Published %d dim_date rows for version %s", n, cal.Version())
		}
	}
}

// active returns the active calendar or writes 503.
func (h *Handler) active(w http.ResponseWriter) (*calendar.Calendar, bool) {
	cal := h.current.Load()
	if cal == nil {
		writeError(w, http.StatusServiceUnavailable, "Calendar not built yet", nil)
		return nil, false
	}
	return cal, true
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// GetCalendar returns information about the active build.
// GET /api/calendar
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}

	anchors := cal.Anchors()
	dto := CalendarInfoDTO{
		Version:       cal.Version(),
		BuiltAt:       cal.BuiltAt().UTC().Format(time.RFC3339),
		Config:        h.ConfigFactory.ToJSON(cal.Config()),
		Days:          cal.Len(),
		TradingDays:   cal.Index().Len(),
		HolidayDates:  cal.HolidayDates(),
		RetailAnchors: make([]string, len(anchors)),
		Today:         cal.Today().String(),
	}
	for i, a := range anchors {
		dto.RetailAnchors[i] = a.String()
	}

	writeJSON(w, http.StatusOK, dto)
}

// RebuildCalendar rebuilds the calendar from the stored holidays.
// POST /api/calendar/rebuild
func (h *Handler) RebuildCalendar(w http.ResponseWriter, r *http.Request) {
	cal, err := h.Rebuild(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to rebuild calendar", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "rebuilt",
		"version":      cal.Version(),
		"days":         cal.Len(),
		"trading_days": cal.Index().Len(),
	})
}

// ListBuilds returns recent build runs.
// GET /api/calendar/builds
func (h *Handler) ListBuilds(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 20)
	if err != nil {
		writeDomainError(w, "Invalid limit", err)
		return
	}
	runs, err := h.Store.ListBuilds(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list builds", err)
		return
	}

	dtos := make([]BuildRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toBuildRunDTO(run)
	}
	writeJSON(w, http.StatusOK, map[string]any{"builds": dtos})
}

// =============================================================================
// DAY HANDLERS
// =============================================================================

// ListDays returns calendar days in [from, to].
// GET /api/days?from=&to=
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}
	from, to, err := rangeParams(r)
	if err != nil {
		writeDomainError(w, "Invalid range", err)
		return
	}
	if calendar.DaysBetween(from, to) >= maxDaysPerRequest {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Range exceeds %d days", maxDaysPerRequest), nil)
		return
	}

	days, err := cal.Days(from, to)
	if err != nil {
		writeDomainError(w, "Failed to list days", err)
		return
	}
	dtos := []DayDTO{}
	for day := range days {
		dtos = append(dtos, toDayDTO(day))
	}
	writeJSON(w, http.StatusOK, map[string]any{"version": cal.Version(), "days": dtos})
}

// GetDay returns one calendar day. Before the first build it falls back
// to the materialized calendar_days copy.
// GET /api/days/{date}
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	d, err := pathDate(r)
	if err != nil {
		writeDomainError(w, "Invalid date", err)
		return
	}

	ctx := r.Context()
	cal := h.current.Load()
	if cal == nil {
		h.getMaterializedDay(w, r, d)
		return
	}
	if day, hit := h.Cache.GetDay(ctx, cal.Version(), d); hit {
		writeJSON(w, http.StatusOK, toDayDTO(day))
		return
	}
	day, err := cal.DeriveCalendarDay(d)
	if err != nil {
		writeDomainError(w, "Failed to get day", err)
		return
	}
	h.Cache.PutDay(ctx, cal.Version(), day)

	writeJSON(w, http.StatusOK, toDayDTO(day))
}

// getMaterializedDay serves a day from calendar_days while no calendar is
// active, e.g. during the first build after a restart.
func (h *Handler) getMaterializedDay(w http.ResponseWriter, r *http.Request, d calendar.Date) {
	day, version, found, err := h.Store.GetDay(r.Context(), d)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read materialized day", err)
		return
	}
	if !found {
		writeError(w, http.StatusServiceUnavailable, "Calendar not built yet", nil)
		return
	}
	w.Header().Set("X-Calendar-Version", version)
	writeJSON(w, http.StatusOK, toDayDTO(day))
}

// GetRelativeFlags evaluates a day against today (default: today in the
// calendar's timezone).
// GET /api/days/{date}/flags?today=
func (h *Handler) GetRelativeFlags(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}
	d, err := pathDate(r)
	if err != nil {
		writeDomainError(w, "Invalid date", err)
		return
	}
	today := cal.Today()
	if s := r.URL.Query().Get("today"); s != "" {
		if today, err = calendar.ParseDate(s); err != nil {
			writeDomainError(w, "Invalid today", err)
			return
		}
	}

	flags, err := cal.RelativeFlags(d, today)
	if err != nil {
		writeDomainError(w, "Failed to evaluate flags", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": d.String(), "flags": flags})
}

// GetSeason classifies a date.
// GET /api/days/{date}/season
func (h *Handler) GetSeason(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}
	d, err := pathDate(r)
	if err != nil {
		writeDomainError(w, "Invalid date", err)
		return
	}

	season, prox, err := cal.ClassifySeason(d)
	if err != nil {
		writeDomainError(w, "Failed to classify season", err)
		return
	}
	writeJSON(w, http.StatusOK, SeasonDTO{
		Date:             d.String(),
		RetailSeason:     string(season),
		HolidayProximity: proximityPtr(prox),
	})
}

// GetPreviousFiscalYear returns the same fiscal month/day n years back.
// GET /api/days/{date}/previous-fiscal-year?years=
func (h *Handler) GetPreviousFiscalYear(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}
	d, err := pathDate(r)
	if err != nil {
		writeDomainError(w, "Invalid date", err)
		return
	}
	years, err := intParam(r, "years", 1)
	if err != nil {
		writeDomainError(w, "Invalid years", err)
		return
	}

	prev, err := cal.SameDayPreviousFiscalYear(d, years)
	if err != nil {
		writeDomainError(w, "Failed to compute previous fiscal year", err)
		return
	}
	writeJSON(w, http.StatusOK, DateResultDTO{Input: d.String(), Date: datePtr(prev), Found: true})
}

// =============================================================================
// TRADING DAY HANDLERS
// =============================================================================

// GetTradingDay reports whether a date is a trading day.
// GET /api/trading/{date}
func (h *Handler) GetTradingDay(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}
	d, err := pathDate(r)
	if err != nil {
		writeDomainError(w, "Invalid date", err)
		return
	}

	trading, err := cal.IsTradingDay(d)
	if err != nil {
		writeDomainError(w, "Failed to check trading day", err)
		return
	}
	dto := TradingDayDTO{Date: d.String(), IsTradingDay: trading}
	if ord, found := cal.Index().Ordinal(d); found {
		dto.Ordinal = &ord
	}
	writeJSON(w, http.StatusOK, dto)
}

// NextTradingDay returns the next trading day after a date.
// GET /api/trading/{date}/next
func (h *Handler) NextTradingDay(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(cal *calendar.Calendar, d calendar.Date) (calendar.Date, error) {
		return cal.NextTradingDay(d)
	})
}

// PreviousTradingDay returns the last trading day before a date.
// GET /api/trading/{date}/previous
func (h *Handler) PreviousTradingDay(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(cal *calendar.Calendar, d calendar.Date) (calendar.Date, error) {
		return cal.PreviousTradingDay(d)
	})
}

// AddTradingDays moves n trading days from a date.
// GET /api/trading/{date}/add?n=
func (h *Handler) AddTradingDays(w http.ResponseWriter, r *http.Request) {
	n, err := requiredIntParam(r, "n")
	if err != nil {
		writeDomainError(w, "Invalid n", err)
		return
	}
	h.navigate(w, r, func(cal *calendar.Calendar, d calendar.Date) (calendar.Date, error) {
		return cal.AddTradingDays(d, n)
	})
}

func (h *Handler) navigate(w http.ResponseWriter, r *http.Request, step func(*calendar.Calendar, calendar.Date) (calendar.Date, error)) {
	cal, ok := h.active(w)
	if !ok {
		return
	}
	d, err := pathDate(r)
	if err != nil {
		writeDomainError(w, "Invalid date", err)
		return
	}

	result, err := step(cal, d)
	if err != nil {
		writeDomainError(w, "Failed to navigate trading days", err)
		return
	}
	writeJSON(w, http.StatusOK, DateResultDTO{Input: d.String(), Date: datePtr(result), Found: true})
}

// CountTradingDays counts trading days in [from, to].
// GET /api/trading/count?from=&to=
func (h *Handler) CountTradingDays(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}
	from, err := queryDate(r, "from")
	if err != nil {
		writeDomainError(w, "Invalid from", err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		writeDomainError(w, "Invalid to", err)
		return
	}

	count, err := cal.CountTradingDays(from, to)
	if err != nil {
		writeDomainError(w, "Failed to count trading days", err)
		return
	}
	writeJSON(w, http.StatusOK, CountDTO{From: from.String(), To: to.String(), Count: count})
}

// NthTradingDay returns the nth (or nth-last) trading day of a month.
// A month without that many trading days answers found=false.
// GET /api/trading/nth?year=&month=&n=&from_end=
func (h *Handler) NthTradingDay(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}
	var year, month, n int
	var err error
	params := []struct {
		name string
		dst  *int
	}{{"year", &year}, {"month", &month}, {"n", &n}}
	for _, p := range params {
		if *p.dst, err = requiredIntParam(r, p.name); err != nil {
			writeDomainError(w, "Invalid "+p.name, err)
			return
		}
	}
	fromEnd := r.URL.Query().Get("from_end") == "true"

	var d calendar.Date
	var found bool
	if fromEnd {
		d, found, err = cal.NthLastTradingDayOfMonth(year, month, n)
	} else {
		d, found, err = cal.NthTradingDayOfMonth(year, month, n)
	}
	if err != nil {
		writeDomainError(w, "Failed to find trading day", err)
		return
	}
	writeJSON(w, http.StatusOK, DateResultDTO{
		Input: fmt.Sprintf("%04d-%02d#%d", year, month, n),
		Date:  datePtr(d),
		Found: found,
	})
}

// =============================================================================
// MAPPING AND SEASON HANDLERS
// =============================================================================

// MapDate maps a date between calendar systems.
// GET /api/map?date=&source=&target=&preserve_day=
func (h *Handler) MapDate(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}
	q := r.URL.Query()
	d, err := queryDate(r, "date")
	if err != nil {
		writeDomainError(w, "Invalid date", err)
		return
	}
	source, err := calendar.ParseSystem(q.Get("source"))
	if err != nil {
		writeDomainError(w, "Invalid source", err)
		return
	}
	target, err := calendar.ParseSystem(q.Get("target"))
	if err != nil {
		writeDomainError(w, "Invalid target", err)
		return
	}
	preserve := q.Get("preserve_day") != "false"

	result, found, err := cal.MapAcrossCalendars(d, source, target, preserve)
	if err != nil {
		writeDomainError(w, "Failed to map date", err)
		return
	}
	dto := MapResultDTO{
		Date:        d.String(),
		Source:      string(source),
		Target:      string(target),
		PreserveDay: preserve,
		Found:       found,
	}
	if found {
		dto.Result = datePtr(result)
	}
	writeJSON(w, http.StatusOK, dto)
}

// ListSeasons lists the seasons in classification priority order.
// GET /api/seasons
func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	out := make([]SeasonInfoDTO, 0, len(calendar.Seasons))
	for _, s := range calendar.Seasons {
		out = append(out, SeasonInfoDTO{Season: string(s), Slug: s.Slug()})
	}
	writeJSON(w, http.StatusOK, out)
}

// SeasonDates lists dates in [from, to] belonging to a season.
// GET /api/seasons/{season}/dates?from=&to=
func (h *Handler) SeasonDates(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.active(w)
	if !ok {
		return
	}
	season, found := calendar.ParseSeason(chi.URLParam(r, "season"))
	if !found {
		writeError(w, http.StatusNotFound, "Unknown season", nil)
		return
	}
	from, to, err := rangeParams(r)
	if err != nil {
		writeDomainError(w, "Invalid range", err)
		return
	}

	dates, err := cal.SeasonDates(season, from, to)
	if err != nil {
		writeDomainError(w, "Failed to list season dates", err)
		return
	}
	out := []string{}
	for d := range dates {
		out = append(out, d.String())
	}
	writeJSON(w, http.StatusOK, map[string]any{"season": season, "dates": out})
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns holidays, optionally limited to [from, to].
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var facts []calendar.Holiday
	var err error
	if r.URL.Query().Get("from") != "" || r.URL.Query().Get("to") != "" {
		from, to, rangeErr := rangeParams(r)
		if rangeErr != nil {
			writeDomainError(w, "Invalid range", rangeErr)
			return
		}
		facts, err = h.Store.Holidays(ctx, from, to)
	} else {
		facts, err = h.Store.AllHolidays(ctx)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(facts))
	for _, hol := range facts {
		dtos = append(dtos, toHolidayDTO(hol))
	}
	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday adds one holiday or a batch.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	items := req.Holidays
	if len(items) == 0 {
		items = []HolidayDTO{{Date: req.Date, Name: req.Name, Jurisdiction: req.Jurisdiction}}
	}
	facts := make([]calendar.Holiday, 0, len(items))
	for _, item := range items {
		hol, err := holidayFromDTO(item)
		if err != nil {
			writeDomainError(w, "Invalid holiday", err)
			return
		}
		facts = append(facts, hol)
	}

	if err := h.Store.SaveHolidays(ctx, facts); err != nil {
		writeDomainError(w, "Failed to save holidays", err)
		return
	}
	h.afterHolidayWrite(ctx)

	ids := make([]string, len(facts))
	for i, f := range facts {
		ids[i] = f.ID
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"status":   "created",
		"holidays": ids,
	})
}

// DeleteHoliday deletes a holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteHoliday(ctx, id); err != nil {
		writeDomainError(w, "Failed to delete holiday", err)
		return
	}
	h.afterHolidayWrite(ctx)

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// AddDefaultHolidays adds rule-based Australian holidays for a year range
// (default: the years of the configured calendar).
// POST /api/holidays/defaults
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DefaultHolidaysRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}
	if req.FromYear == 0 {
		req.FromYear = h.cfg.Start.Year()
	}
	if req.ToYear == 0 {
		req.ToYear = h.cfg.End.Year()
	}

	source := holidays.NewAustralianRules()
	if req.NationalOnly {
		source = holidays.NewNationalRules()
	}
	facts, err := source.Holidays(ctx, calendar.StartOfYear(req.FromYear), calendar.EndOfYear(req.ToYear))
	if err != nil {
		writeDomainError(w, "Failed to generate holidays", err)
		return
	}
	if err := h.Store.SaveHolidays(ctx, facts); err != nil {
		writeDomainError(w, "Failed to save holidays", err)
		return
	}
	h.afterHolidayWrite(ctx)

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "created",
		"count":  len(facts),
	})
}

func (h *Handler) afterHolidayWrite(ctx context.Context) {
	if !h.AutoRebuild {
		return
	}
	if _, err := h.Rebuild(ctx); err != nil {
		log.Printf("[Builder] Rebuild after holiday change failed: %v", err)
	}
}

func holidayFromDTO(d HolidayDTO) (calendar.Holiday, error) {
	date, err := calendar.ParseDate(d.Date)
	if err != nil {
		return calendar.Holiday{}, err
	}
	jurisdiction := d.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = string(calendar.JurisdictionNational)
	}
	j, err := calendar.ParseJurisdiction(jurisdiction)
	if err != nil {
		return calendar.Holiday{}, err
	}
	hol := calendar.Holiday{ID: d.ID, Date: date, Name: strings.TrimSpace(d.Name), Jurisdiction: j}
	if err := hol.Validate(); err != nil {
		return calendar.Holiday{}, err
	}
	if hol.ID == "" {
		hol.ID = calendar.HolidayID(hol)
	}
	return hol, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func pathDate(r *http.Request) (calendar.Date, error) {
	return calendar.ParseDate(chi.URLParam(r, "date"))
}

func queryDate(r *http.Request, name string) (calendar.Date, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return calendar.Date{}, &calendar.InvalidInputError{Field: name, Reason: "date is required"}
	}
	return calendar.ParseDate(s)
}

func rangeParams(r *http.Request) (calendar.Date, calendar.Date, error) {
	from, err := queryDate(r, "from")
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	to, err := queryDate(r, "to")
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	if from.After(to) {
		return calendar.Date{}, calendar.Date{}, &calendar.InvalidRangeError{Start: from, End: to}
	}
	return from, to, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &calendar.InvalidInputError{Field: name, Reason: fmt.Sprintf("%q is not an integer", s)}
	}
	return n, nil
}

func requiredIntParam(r *http.Request, name string) (int, error) {
	if r.URL.Query().Get(name) == "" {
		return 0, &calendar.InvalidInputError{Field: name, Reason: "value is required"}
	}
	return intParam(r, name, 0)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError picks the status from the calendar error taxonomy.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	resp := ErrorResponse{Error: message, Details: err.Error()}
	status := http.StatusInternalServerError
	switch {
	case calendar.IsNotFound(err):
		status, resp.Code = http.StatusNotFound, "not_found"
	case calendar.IsOutOfRange(err):
		status, resp.Code = http.StatusUnprocessableEntity, "out_of_range"
	case calendar.IsClientError(err):
		status, resp.Code = http.StatusBadRequest, "invalid_input"
	}
	writeJSON(w, status, resp)
}
