// Package warehouse publishes built calendars as a dim_date table in a
// PostgreSQL warehouse.
//
// Publishing is an upsert keyed by date_key, so re-publishing a rebuilt
// calendar rewrites every row in place. Downstream BI tools join fact
// tables on date_key.
package warehouse

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/warp/calendar-engine/calendar"
)

// publishBatch is the number of rows per INSERT statement.
const publishBatch = 500

// DimDate is one row of the warehouse date dimension.
type DimDate struct {
	DateKey  int       `gorm:"primaryKey;autoIncrement:false" json:"date_key"`
	FullDate time.Time `gorm:"type:date;not null;uniqueIndex" json:"full_date"`
	Version  string    `gorm:"size:32;index;not null" json:"version"`

	Year        int    `gorm:"not null" json:"year"`
	QuarterNum  int    `gorm:"not null" json:"quarter_num"`
	MonthNum    int    `gorm:"not null" json:"month_num"`
	MonthName   string `gorm:"size:9;not null" json:"month_name"`
	DayOfMonth  int    `gorm:"not null" json:"day_of_month"`
	DayOfWeek   int    `gorm:"not null" json:"day_of_week_num"`
	DayName     string `gorm:"size:9;not null" json:"day_name"`
	ISOYear     int    `gorm:"not null" json:"iso_year"`
	ISOWeekNum  int    `gorm:"not null" json:"iso_week_num"`
	WeekOfYear  int    `gorm:"not null" json:"week_of_year"`
	IsWeekend   bool   `gorm:"not null" json:"is_weekend"`
	YearMonth   string `gorm:"size:7;index" json:"year_month"`
	QuarterDesc string `gorm:"size:16" json:"quarter_desc"`

	FiscalYearNum     int    `gorm:"index;not null" json:"fiscal_year_num"`
	FiscalQuarterNum  int    `gorm:"not null" json:"fiscal_quarter_num"`
	FiscalMonthNum    int    `gorm:"not null" json:"fiscal_month_num"`
	FiscalWeekNum     int    `gorm:"not null" json:"fiscal_week_num"`
	FiscalYearDesc    string `gorm:"size:16" json:"fiscal_year_desc"`
	FiscalQuarterDesc string `gorm:"size:16" json:"fiscal_quarter_desc"`

	RetailYearNum    int    `gorm:"index;not null" json:"retail_year_num"`
	RetailQuarterNum int    `gorm:"not null" json:"retail_quarter_num"`
	RetailPeriodNum  int    `gorm:"not null" json:"retail_period_num"`
	RetailWeekNum    int    `gorm:"not null" json:"retail_week_num"`
	IsLeapWeek       bool   `gorm:"not null" json:"is_leap_week"`
	RetailPeriodDesc string `gorm:"size:16" json:"retail_period_desc"`

	IsHoliday         bool    `gorm:"not null" json:"is_holiday"`
	IsHolidayNational bool    `gorm:"not null" json:"is_holiday_national"`
	HolidayNames      string  `gorm:"size:255" json:"holiday_names"`
	IsTradingDay      bool    `gorm:"index;not null" json:"is_trading_day"`
	RetailSeason      string  `gorm:"size:32;not null" json:"retail_season"`
	HolidayProximity  *string `gorm:"size:32" json:"holiday_proximity"`

	TradingDayOrdinal       *int       `json:"trading_day_ordinal"`
	TradingDayOfMonth       *int       `json:"trading_day_of_month"`
	TradingDaysInMonth      int        `gorm:"not null" json:"trading_days_in_month"`
	TradingDayOfFiscalYear  *int       `json:"trading_day_of_fiscal_year"`
	TradingDaysInFiscalYear int        `gorm:"not null" json:"trading_days_in_fiscal_year"`
	NextTradingDate         *time.Time `gorm:"type:date" json:"next_trading_date"`
	PreviousTradingDate     *time.Time `gorm:"type:date" json:"previous_trading_date"`
	TradingDayProgress      string     `gorm:"type:decimal(6,4);not null" json:"trading_day_progress"`
}

// TableName specifies the table name for DimDate
func (DimDate) TableName() string {
	return "dim_date"
}

// Publisher writes calendars to the warehouse.
type Publisher struct {
	db *gorm.DB
}

// Connect opens the warehouse and makes sure dim_date exists.
func Connect(dsn string) (*Publisher, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	if err := db.AutoMigrate(&DimDate{}); err != nil {
		return nil, fmt.Errorf("failed to migrate dim_date: %w", err)
	}
	return &Publisher{db: db}, nil
}

// NewPublisher wraps an existing connection.
func NewPublisher(db *gorm.DB) *Publisher {
	return &Publisher{db: db}
}

// Close closes the warehouse connection.
func (p *Publisher) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Publish upserts days in batches and returns the number of rows written.
func (p *Publisher) Publish(ctx context.Context, version string, days iter.Seq[calendar.CalendarDay]) (int, error) {
	batch := make([]DimDate, 0, publishBatch)
	written := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := p.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "date_key"}},
				UpdateAll: true,
			}).
			CreateInBatches(batch, len(batch)).Error
		if err != nil {
			return fmt.Errorf("publish dim_date batch ending %d: %w", batch[len(batch)-1].DateKey, err)
		}
		written += len(batch)
		batch = batch[:0]
		return nil
	}

	for day := range days {
		batch = append(batch, Row(version, day))
		if len(batch) == publishBatch {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	if err := flush(); err != nil {
		return written, err
	}
	return written, nil
}

// Row converts a CalendarDay to its warehouse row. Zero dates, zero
// ordinals and an empty proximity become NULL.
func Row(version string, d calendar.CalendarDay) DimDate {
	row := DimDate{
		DateKey:  d.DateKey,
		FullDate: d.Date.Time(),
		Version:  version,

		Year:        d.Year,
		QuarterNum:  d.QuarterNum,
		MonthNum:    d.MonthNum,
		MonthName:   d.MonthName,
		DayOfMonth:  d.DayOfMonth,
		DayOfWeek:   d.DayOfWeekNum,
		DayName:     d.DayName,
		ISOYear:     d.ISOYear,
		ISOWeekNum:  d.ISOWeekNum,
		WeekOfYear:  d.WeekOfYear,
		IsWeekend:   d.GregorianAttributes.IsWeekend,
		YearMonth:   d.YearMonth,
		QuarterDesc: d.QuarterDesc,

		FiscalYearNum:     d.FiscalYearNum,
		FiscalQuarterNum:  d.FiscalQuarterNum,
		FiscalMonthNum:    d.FiscalMonthNum,
		FiscalWeekNum:     d.FiscalWeekNum,
		FiscalYearDesc:    d.FiscalYearDesc,
		FiscalQuarterDesc: d.FiscalQuarterDesc,

		RetailYearNum:    d.RetailYearNum,
		RetailQuarterNum: d.RetailQuarterNum,
		RetailPeriodNum:  d.RetailPeriodNum,
		RetailWeekNum:    d.RetailWeekNum,
		IsLeapWeek:       d.IsLeapWeek,
		RetailPeriodDesc: d.RetailPeriodDesc,

		IsHoliday:         d.IsHoliday,
		IsHolidayNational: d.IsHolidayNational,
		HolidayNames:      strings.Join(d.HolidayNames, "; "),
		IsTradingDay:      d.IsTradingDay,
		RetailSeason:      string(d.Season),

		TradingDaysInMonth:      d.TradingDaysInMonth,
		TradingDaysInFiscalYear: d.TradingDaysInFiscalYear,
		TradingDayProgress:      d.TradingDayProgress.StringFixed(4),
	}
	if d.Proximity != calendar.ProximityNone {
		p := string(d.Proximity)
		row.HolidayProximity = &p
	}
	row.TradingDayOrdinal = nonZero(d.TradingDayOrdinal)
	row.TradingDayOfMonth = nonZero(d.TradingDayOfMonth)
	row.TradingDayOfFiscalYear = nonZero(d.TradingDayOfFiscalYear)
	row.NextTradingDate = dateOrNil(d.NextTradingDate)
	row.PreviousTradingDate = dateOrNil(d.PreviousTradingDate)
	return row
}

func nonZero(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func dateOrNil(d calendar.Date) *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time()
	return &t
}
