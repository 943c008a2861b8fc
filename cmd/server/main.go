/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the calendar engine server. Handles
  configuration, dependency injection, the first build and graceful
  shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Resolve and validate the calendar BuildConfig (fatal on error)
  3. Initialize SQLite store; seed holidays when the store is empty
  4. Connect optional Redis cache and warehouse
  5. Build the calendar
  6. Start rebuild scheduler and HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: $PORT or 8080)
  -db      SQLite database path (default: $DB_PATH or calendar.db)
           Use ":memory:" for in-memory database
  -seed    Seed AU holidays when the store is empty (default: true)

ENVIRONMENT:
  See config/config.go. CALENDAR_* variables shape the build,
  HOLIDAY_CSV names the fallback holiday file, REDIS_* and
  WAREHOUSE_DSN enable the optional outputs.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the rebuild scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close connections
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/calendar.db"

  # 5-4-4 retail calendar for FY2020-FY2030
  RETAIL_PATTERN=544 CALENDAR_START=2019-07-01 CALENDAR_END=2030-06-30 ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/calendar-engine/api"
	"github.com/warp/calendar-engine/cache"
	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/config"
	"github.com/warp/calendar-engine/holidays"
	"github.com/warp/calendar-engine/store/sqlite"
	"github.com/warp/calendar-engine/store/warehouse"
)

func main() {
	cfg := config.LoadFromEnv()

	// Flags
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	seed := flag.Bool("seed", true, "Seed AU holidays when the store is empty")
	materialize := flag.Bool("materialize", false, "Write calendar_days after every build")
	flag.Parse()

	buildCfg, err := cfg.BuildConfig()
	if err != nil {
		log.Fatalf("Invalid calendar configuration: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if *seed {
		if err := seedHolidays(ctx, store, buildCfg, cfg.HolidayCSV); err != nil {
			log.Printf("Warning: Failed to seed holidays: %v", err)
		}
	}

	// Initialize handler
	handler := api.NewHandler(store, buildCfg)
	handler.Materialize = *materialize

	if cfg.RedisEnabled {
		if rc := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword); rc != nil {
			handler.Cache = rc
			defer rc.Close()
		}
	}
	if cfg.WarehouseDSN != "" {
		wh, err := warehouse.Connect(cfg.WarehouseDSN)
		if err != nil {
			log.Printf("Warning: Warehouse disabled: %v", err)
		} else {
			handler.Warehouse = wh
			defer wh.Close()
		}
	}

	// First build; a calendar that cannot be built is fatal
	if _, err := handler.Rebuild(ctx); err != nil {
		log.Fatalf("Failed to build calendar: %v", err)
	}

	scheduler := api.NewRebuildScheduler(handler)
	scheduler.CheckInterval = cfg.RebuildInterval
	scheduler.Start()

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// seedHolidays fills an empty store from the rule-based AU holidays,
// falling back to the CSV copy. A successful rules run refreshes the CSV.
func seedHolidays(ctx context.Context, store *sqlite.Store, cfg calendar.BuildConfig, csvPath string) error {
	existing, err := store.AllHolidays(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	chain := &holidays.Chain{Sources: []calendar.HolidaySource{holidays.NewAustralianRules()}}
	if csvPath != "" {
		csv := &holidays.CSVFile{Path: csvPath}
		chain.Sources = append(chain.Sources, csv)
		chain.Persist = csv
	}

	facts, err := chain.Holidays(ctx, cfg.Start, cfg.End)
	if err != nil {
		return err
	}
	if err := store.SaveHolidays(ctx, facts); err != nil {
		return err
	}
	log.Printf("[Holidays] Seeded %d holidays for %s to %s", len(facts), cfg.Start, cfg.End)
	return nil
}
