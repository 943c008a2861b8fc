// Package store provides HolidayStore implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/calendar-engine/calendar"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	holidays map[string]calendar.Holiday
	revision int
}

func NewMemory(holidays ...calendar.Holiday) *Memory {
	m := &Memory{holidays: make(map[string]calendar.Holiday)}
	for _, h := range holidays {
		m.putLocked(h)
	}
	return m
}

// SaveHolidays upserts all holidays atomically.
func (m *Memory) SaveHolidays(_ context.Context, holidays []calendar.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate everything first (atomic check)
	for _, h := range holidays {
		if err := h.Validate(); err != nil {
			return err
		}
	}
	for _, h := range holidays {
		m.putLocked(h)
	}
	m.revision++
	return nil
}

func (m *Memory) putLocked(h calendar.Holiday) {
	if j, err := calendar.ParseJurisdiction(string(h.Jurisdiction)); err == nil {
		h.Jurisdiction = j
	}
	if h.ID == "" {
		h.ID = calendar.HolidayID(h)
	}
	for id, existing := range m.holidays {
		if calendar.HolidayID(existing) == calendar.HolidayID(h) && id != h.ID {
			delete(m.holidays, id)
		}
	}
	m.holidays[h.ID] = h
}

// DeleteHoliday removes a holiday by ID.
func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[id]; !ok {
		return fmt.Errorf("holiday %s: %w", id, calendar.ErrNotFound)
	}
	delete(m.holidays, id)
	m.revision++
	return nil
}

// Holidays returns holidays in [from, to] ordered by date.
func (m *Memory) Holidays(_ context.Context, from, to calendar.Date) ([]calendar.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	span := calendar.Period{Start: from, End: to}
	var out []calendar.Holiday
	for _, h := range m.holidays {
		if span.Contains(h.Date) {
			out = append(out, h)
		}
	}
	sortHolidays(out)
	return out, nil
}

// AllHolidays returns every holiday ordered by date.
func (m *Memory) AllHolidays(_ context.Context) ([]calendar.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]calendar.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		out = append(out, h)
	}
	sortHolidays(out)
	return out, nil
}

// Fingerprint is the write revision and row count.
func (m *Memory) Fingerprint(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("%d:%d", m.revision, len(m.holidays)), nil
}

func sortHolidays(hs []calendar.Holiday) {
	sort.Slice(hs, func(i, j int) bool {
		if !hs[i].Date.Equal(hs[j].Date) {
			return hs[i].Date.Before(hs[j].Date)
		}
		if hs[i].Jurisdiction != hs[j].Jurisdiction {
			return hs[i].Jurisdiction < hs[j].Jurisdiction
		}
		return hs[i].Name < hs[j].Name
	})
}
