/*
scheduler.go - Automated calendar rebuild scheduler

PURPOSE:
  Periodically checks whether the stored holiday facts changed since the
  active calendar was built, and rebuilds when they did. A build is a
  full replacement; an inserted holiday shifts every later trading-day
  ordinal, so there is no incremental path.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Compares the store fingerprint with the one of the active build
  - Builds immediately on start when no calendar is active
  - Never computes relative flags; they are evaluated per request

CONFIGURATION:
  - CheckInterval: How often to check (default: 5 minutes)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewRebuildScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: Rebuild, POST /api/calendar/rebuild
  - calendar/store.go: Fingerprint contract
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"
)

// RebuildScheduler rebuilds the calendar when holidays change.
type RebuildScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRebuildScheduler creates a new scheduler.
func NewRebuildScheduler(handler *Handler) *RebuildScheduler {
	return &RebuildScheduler{
		Handler:       handler,
		CheckInterval: 5 * time.Minute,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (rs *RebuildScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled || rs.CheckInterval <= 0 {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan bool)
	rs.wg.Add(1)

	go rs.run()

	log.Printf("[Scheduler] Started with check interval: %v", rs.CheckInterval)
}

// Stop stops the scheduler.
func (rs *RebuildScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		log.Println("[Scheduler] Stopped")
	}
}

func (rs *RebuildScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.CheckAndRebuild(context.Background())

	for {
		select {
		case <-rs.ticker.C:
			rs.CheckAndRebuild(context.Background())
		case <-rs.stop:
			return
		}
	}
}

// CheckAndRebuild rebuilds when the holiday fingerprint moved or no
// calendar is active. It reports whether a rebuild happened.
func (rs *RebuildScheduler) CheckAndRebuild(ctx context.Context) bool {
	h := rs.Handler

	current, err := h.Store.Fingerprint(ctx)
	if err != nil {
		log.Printf("[Scheduler] Error reading holiday fingerprint: %v", err)
		return false
	}
	if h.Calendar() != nil && current == h.Fingerprint() {
		return false
	}

	log.Printf("[Scheduler] Holiday fingerprint changed (%q -> %q), rebuilding", h.Fingerprint(), current)
	cal, err := h.Rebuild(ctx)
	if err != nil {
		log.Printf("[Scheduler] Rebuild failed: %v", err)
		return false
	}
	log.Printf("[Scheduler] Rebuilt calendar version %s", cal.Version())
	return true
}
