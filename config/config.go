package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/calendar-engine/calendar"
	"github.com/warp/calendar-engine/factory"
)

// Config holds application configuration
type Config struct {
	Port   int
	DBPath string

	// Calendar build configuration
	Calendar CalendarConfig

	// Holiday sources
	HolidayCSV string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisEnabled  bool

	// Warehouse (PostgreSQL dim_date); empty disables publishing
	WarehouseDSN string

	// Rebuild scheduler poll interval; zero disables the scheduler
	RebuildInterval time.Duration
}

// CalendarConfig holds the raw calendar build settings. ConfigFile, when
// set, takes precedence over the individual fields.
type CalendarConfig struct {
	ConfigFile       string
	Start            string
	End              string
	RetailPattern    string
	FiscalStartMonth int
	WeekStart        string
	Timezone         string
	Jurisdictions    []string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] No .env file found, using environment variables")
	}

	return &Config{
		Port:   getEnvInt("PORT", 8080),
		DBPath: getEnvOrDefault("DB_PATH", "calendar.db"),

		Calendar: CalendarConfig{
			ConfigFile:       getEnvOrDefault("CALENDAR_CONFIG", ""),
			Start:            getEnvOrDefault("CALENDAR_START", "2020-07-01"),
			End:              getEnvOrDefault("CALENDAR_END", "2030-06-30"),
			RetailPattern:    getEnvOrDefault("RETAIL_PATTERN", "445"),
			FiscalStartMonth: getEnvInt("FISCAL_START_MONTH", 7),
			WeekStart:        getEnvOrDefault("WEEK_START", "sunday"),
			Timezone:         getEnvOrDefault("CALENDAR_TIMEZONE", "Australia/Sydney"),
			Jurisdictions:    getEnvList("HOLIDAY_JURISDICTIONS"),
		},

		HolidayCSV: getEnvOrDefault("HOLIDAY_CSV", ""),

		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisEnabled:  getEnvOrDefault("REDIS_ENABLED", "false") == "true",

		WarehouseDSN: getEnvOrDefault("WAREHOUSE_DSN", ""),

		RebuildInterval: getEnvDuration("REBUILD_INTERVAL", 5*time.Minute),
	}
}

// BuildConfig resolves the calendar settings into a validated
// calendar.BuildConfig.
func (c *Config) BuildConfig() (calendar.BuildConfig, error) {
	f := factory.NewConfigFactory()
	if c.Calendar.ConfigFile != "" {
		data, err := os.ReadFile(c.Calendar.ConfigFile)
		if err != nil {
			return calendar.BuildConfig{}, fmt.Errorf("read calendar config: %w", err)
		}
		return f.ParseBuildConfig(string(data))
	}
	return f.FromJSON(factory.BuildConfigJSON{
		StartDate:        c.Calendar.Start,
		EndDate:          c.Calendar.End,
		RetailPattern:    c.Calendar.RetailPattern,
		FiscalStartMonth: c.Calendar.FiscalStartMonth,
		WeekStart:        c.Calendar.WeekStart,
		Timezone:         c.Calendar.Timezone,
		Jurisdictions:    c.Calendar.Jurisdictions,
	})
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvDuration gets environment variable as a time.Duration or returns
// default value. "0" disables.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if value == "0" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// getEnvList splits a comma-separated environment variable.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
