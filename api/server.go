/*
server.go - Routes for the calendar service

Every route reads the current immutable Calendar through the Handler.
Until the first build finishes, calendar-backed routes answer 503.
Holiday writes change the store fingerprint. The scheduler (or an
explicit POST /api/calendar/rebuild) picks the change up.

MIDDLEWARE:
  Logger, Recoverer, RequestID, then CORS for BI and front-end clients.

ROUTE GROUPS:
  /api/calendar/*   Build info, rebuilds, build history
  /api/days/*       Day lookups, relative flags, seasons
  /api/trading/*    Business-day navigation and counts
  /api/map          Cross-calendar mapping
  /api/seasons/*    Dates in a season
  /api/holidays/*   Holiday facts
  /api/scenarios/*  Sample holiday sets

No authentication. All endpoints are public.
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if h.Calendar() == nil {
			status = "building"
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": status})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Calendar routes
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/", h.GetCalendar)
			r.Post("/rebuild", h.RebuildCalendar)
			r.Get("/builds", h.ListBuilds)
		})

		// Day routes
		r.Route("/days", func(r chi.Router) {
			r.Get("/", h.ListDays)
			r.Get("/{date}", h.GetDay)
			r.Get("/{date}/flags", h.GetRelativeFlags)
			r.Get("/{date}/season", h.GetSeason)
			r.Get("/{date}/previous-fiscal-year", h.GetPreviousFiscalYear)
		})

		// Trading day routes
		r.Route("/trading", func(r chi.Router) {
			r.Get("/count", h.CountTradingDays)
			r.Get("/nth", h.NthTradingDay)
			r.Get("/{date}", h.GetTradingDay)
			r.Get("/{date}/next", h.NextTradingDay)
			r.Get("/{date}/previous", h.PreviousTradingDay)
			r.Get("/{date}/add", h.AddTradingDays)
		})

		// Mapping and season routes
		r.Get("/map", h.MapDate)
		r.Get("/seasons", h.ListSeasons)
		r.Get("/seasons/{season}/dates", h.SeasonDates)

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Post("/defaults", h.AddDefaultHolidays)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
