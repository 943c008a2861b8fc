/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements calendar.HolidayStore using SQLite, and records every
  calendar build together with an optional materialized copy of the date
  dimension for downstream readers.

INTERFACES IMPLEMENTED:
  calendar.HolidaySource: Holiday facts for a date range
  calendar.HolidayStore:  Upserts, deletes and change fingerprints

KEY TABLES:
  holidays:         Holiday facts, unique per (date, name, jurisdiction)
  holiday_revision: Single-row counter bumped on every holiday write
  calendar_builds:  One row per build run (config JSON, counts, version)
  calendar_days:    Materialized CalendarDay rows of the latest build

INDEXES:
  - idx_holidays_unique: (date, name, jurisdiction) upsert key
  - idx_holidays_date: range reads feeding a build
  - idx_calendar_days_version: readers filter by build version

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite serializes writers anyway;
  the mutex keeps read-modify-write sequences (revision bumps) atomic.

WAL MODE:
  Opened with journal_mode=WAL so API reads proceed while a build
  run is being recorded.

USAGE:
  store, err := sqlite.New("./data/calendar.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  holidays, _ := store.Holidays(ctx, cfg.Start, cfg.End)
  cal, _ := calendar.Build(ctx, cfg, holidays)

MIGRATION:
  Tables are created on New() with CREATE TABLE IF NOT EXISTS.
  Reset() empties every table except the revision counter, which it bumps.

SEE ALSO:
  - calendar/store.go: Interface definitions
  - calendar/store/memory.go: In-memory implementation for testing
  - api/scheduler.go: Fingerprint polling
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/calendar-engine/calendar"
)

// Store implements calendar.HolidayStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Holiday facts
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		jurisdiction TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name, jurisdiction);
	CREATE INDEX IF NOT EXISTS idx_holidays_date
		ON holidays(date);

	-- Change counter for fingerprinting
	CREATE TABLE IF NOT EXISTS holiday_revision (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		revision INTEGER NOT NULL
	);
	INSERT OR IGNORE INTO holiday_revision (id, revision) VALUES (1, 0);

	-- Build runs
	CREATE TABLE IF NOT EXISTS calendar_builds (
		id TEXT PRIMARY KEY,
		version TEXT NOT NULL,
		config_json TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		days INTEGER NOT NULL DEFAULT 0,
		trading_days INTEGER NOT NULL DEFAULT 0,
		holiday_dates INTEGER NOT NULL DEFAULT 0,
		holiday_fingerprint TEXT,
		status TEXT NOT NULL DEFAULT 'completed',
		error TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calendar_builds_created
		ON calendar_builds(created_at DESC);

	-- Materialized date dimension
	CREATE TABLE IF NOT EXISTS calendar_days (
		date_key INTEGER PRIMARY KEY,
		date TEXT NOT NULL,
		version TEXT NOT NULL,
		is_trading_day BOOLEAN NOT NULL,
		is_holiday BOOLEAN NOT NULL,
		fiscal_year_num INTEGER NOT NULL,
		retail_year_num INTEGER NOT NULL,
		retail_period_num INTEGER NOT NULL,
		retail_season TEXT NOT NULL,
		day_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calendar_days_version
		ON calendar_days(version);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HOLIDAY STORE (calendar.HolidayStore interface)
// =============================================================================

// SaveHolidays upserts holidays in one transaction. Invalid input fails
// the whole batch before anything is written.
func (s *Store) SaveHolidays(ctx context.Context, holidays []calendar.Holiday) error {
	normalized := make([]calendar.Holiday, 0, len(holidays))
	for _, h := range holidays {
		if err := h.Validate(); err != nil {
			return err
		}
		h.Jurisdiction, _ = calendar.ParseJurisdiction(string(h.Jurisdiction))
		h.Name = strings.TrimSpace(h.Name)
		if h.ID == "" {
			h.ID = calendar.HolidayID(h)
		}
		normalized = append(normalized, h)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO holidays (id, date, name, jurisdiction, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, name, jurisdiction) DO UPDATE SET
			updated_at = excluded.updated_at
	`
	now := time.Now().UTC().Format(time.RFC3339)
	for _, h := range normalized {
		if _, err := tx.ExecContext(ctx, query,
			h.ID, h.Date.String(), h.Name, string(h.Jurisdiction), now, now,
		); err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("holiday id %s already used by another holiday: %w", h.ID, calendar.ErrInvalidInput)
			}
			return fmt.Errorf("failed to save holiday %s: %w", h.ID, err)
		}
	}
	if err := bumpRevision(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("holiday %s: %w", id, calendar.ErrNotFound)
	}
	if err := bumpRevision(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Holidays returns holidays in [from, to] ordered by date.
func (s *Store) Holidays(ctx context.Context, from, to calendar.Date) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, date, name, jurisdiction
		FROM holidays
		WHERE date BETWEEN ? AND ?
		ORDER BY date ASC, jurisdiction ASC, name ASC
	`
	return s.queryHolidays(ctx, query, from.String(), to.String())
}

// AllHolidays returns every holiday (for admin UI).
func (s *Store) AllHolidays(ctx context.Context) ([]calendar.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, date, name, jurisdiction
		FROM holidays
		ORDER BY date ASC, jurisdiction ASC, name ASC
	`
	return s.queryHolidays(ctx, query)
}

func (s *Store) queryHolidays(ctx context.Context, query string, args ...any) ([]calendar.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		var h calendar.Holiday
		var dateStr, jurisdiction string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &jurisdiction); err != nil {
			return nil, err
		}
		if h.Date, err = calendar.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("holiday %s: %w", h.ID, err)
		}
		h.Jurisdiction = calendar.Jurisdiction(jurisdiction)
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

// Fingerprint is the write revision and row count.
func (s *Store) Fingerprint(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var revision, count int
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT revision FROM holiday_revision WHERE id = 1),
		       (SELECT COUNT(*) FROM holidays)
	`).Scan(&revision, &count)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%d", revision, count), nil
}

func bumpRevision(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "UPDATE holiday_revision SET revision = revision + 1 WHERE id = 1")
	if err != nil {
		return fmt.Errorf("failed to bump holiday revision: %w", err)
	}
	return nil
}

// =============================================================================
// BUILD RUNS
// =============================================================================

// BuildRun records one calendar build.
type BuildRun struct {
	ID                 string
	Version            string
	ConfigJSON         string
	Start              calendar.Date
	End                calendar.Date
	Days               int
	TradingDays        int
	HolidayDates       int
	HolidayFingerprint string
	Status             string // completed, failed
	Error              string
	Duration           time.Duration
	CreatedAt          time.Time
}

// SaveBuild saves a build run.
func (s *Store) SaveBuild(ctx context.Context, r BuildRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO calendar_builds (id, version, config_json, start_date, end_date,
			days, trading_days, holiday_dates, holiday_fingerprint, status, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Version, r.ConfigJSON, r.Start.String(), r.End.String(),
		r.Days, r.TradingDays, r.HolidayDates, nullString(r.HolidayFingerprint),
		r.Status, nullString(r.Error), r.Duration.Milliseconds(),
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// ListBuilds returns the most recent build runs, newest first.
func (s *Store) ListBuilds(ctx context.Context, limit int) ([]BuildRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, version, config_json, start_date, end_date, days, trading_days,
			holiday_dates, holiday_fingerprint, status, error, duration_ms, created_at
		FROM calendar_builds
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []BuildRun
	for rows.Next() {
		var r BuildRun
		var start, end, createdAt string
		var fingerprint, errMsg sql.NullString
		var durationMS int64
		if err := rows.Scan(
			&r.ID, &r.Version, &r.ConfigJSON, &start, &end, &r.Days, &r.TradingDays,
			&r.HolidayDates, &fingerprint, &r.Status, &errMsg, &durationMS, &createdAt,
		); err != nil {
			return nil, err
		}
		r.Start, _ = calendar.ParseDate(start)
		r.End, _ = calendar.ParseDate(end)
		r.HolidayFingerprint = fingerprint.String
		r.Error = errMsg.String
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// =============================================================================
// MATERIALIZED DAYS
// =============================================================================

// SaveDays replaces the materialized date dimension with days from one build.
func (s *Store) SaveDays(ctx context.Context, version string, days iter.Seq[calendar.CalendarDay]) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM calendar_days"); err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO calendar_days (date_key, date, version, is_trading_day, is_holiday,
			fiscal_year_num, retail_year_num, retail_period_num, retail_season, day_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for day := range days {
		dayJSON, err := json.Marshal(day)
		if err != nil {
			return 0, fmt.Errorf("encode day %s: %w", day.Date, err)
		}
		if _, err := stmt.ExecContext(ctx,
			day.DateKey, day.Date.String(), version, day.IsTradingDay, day.IsHoliday,
			day.FiscalYearNum, day.RetailYearNum, day.RetailPeriodNum, string(day.Season), string(dayJSON),
		); err != nil {
			return 0, fmt.Errorf("save day %s: %w", day.Date, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// GetDay reads one materialized day. ok is false when the date was not
// materialized.
func (s *Store) GetDay(ctx context.Context, d calendar.Date) (calendar.CalendarDay, string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var version, dayJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT version, day_json FROM calendar_days WHERE date_key = ?", d.Key(),
	).Scan(&version, &dayJSON)
	if err == sql.ErrNoRows {
		return calendar.CalendarDay{}, "", false, nil
	}
	if err != nil {
		return calendar.CalendarDay{}, "", false, err
	}
	var day calendar.CalendarDay
	if err := json.Unmarshal([]byte(dayJSON), &day); err != nil {
		return calendar.CalendarDay{}, "", false, fmt.Errorf("decode day %s: %w", d, err)
	}
	return day, version, true, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tables := []string{"holidays", "calendar_days", "calendar_builds"}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	if err := bumpRevision(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
