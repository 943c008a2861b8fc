package calendar

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CALENDAR DAY - One row of the date dimension
// =============================================================================

// CalendarDay carries every derived attribute of one date. It is immutable
// once the build that produced it is published.
type CalendarDay struct {
	Date    Date `json:"date"`
	DateKey int  `json:"date_key"`

	GregorianAttributes
	FiscalAttributes
	RetailAttributes

	IsHoliday            bool           `json:"is_holiday"`
	IsHolidayNational    bool           `json:"is_holiday_national"`
	IsTradingDay         bool           `json:"is_trading_day"`
	HolidayNames         []string       `json:"holiday_names,omitempty"`
	HolidayJurisdictions []Jurisdiction `json:"holiday_jurisdictions,omitempty"`

	Season    Season    `json:"retail_season"`
	Proximity Proximity `json:"holiday_proximity"`

	Navigation
}

// Navigation is owned by the BusinessDayIndex pass. Edge pointers with no
// neighbour inside the built range are the zero Date. Ordinals are 0 on
// non-trading days. Period totals count trading days inside the built
// range only.
type Navigation struct {
	NextDate            Date `json:"next_date"`
	PreviousDate        Date `json:"previous_date"`
	NextTradingDate     Date `json:"next_trading_date"`
	PreviousTradingDate Date `json:"previous_trading_date"`

	TradingDayOrdinal          int `json:"trading_day_ordinal"`
	TradingDayOfMonth          int `json:"trading_day_of_month"`
	TradingDayOfQuarter        int `json:"trading_day_of_quarter"`
	TradingDayOfFiscalQuarter  int `json:"trading_day_of_fiscal_quarter"`
	TradingDayOfFiscalYear     int `json:"trading_day_of_fiscal_year"`
	TradingDayOfRetailPeriod   int `json:"trading_day_of_retail_period"`
	TradingDaysInMonth         int `json:"trading_days_in_month"`
	TradingDaysInQuarter       int `json:"trading_days_in_quarter"`
	TradingDaysInFiscalQuarter int `json:"trading_days_in_fiscal_quarter"`
	TradingDaysInFiscalYear    int `json:"trading_days_in_fiscal_year"`
	TradingDaysInRetailPeriod  int `json:"trading_days_in_retail_period"`

	// TradingDayProgress is the share of the month's trading days elapsed
	// through this day, to four decimal places.
	TradingDayProgress decimal.Decimal `json:"trading_day_progress"`
}

// periodKeys identifies the periods a day's trading ordinals are counted in.
type periodKeys struct {
	month, quarter, fiscalQuarter, fiscalYear, retailPeriod int
}

func (d *CalendarDay) keys() periodKeys {
	return periodKeys{
		month:         d.MonthStart.Key(),
		quarter:       d.QuarterStart.Key(),
		fiscalQuarter: d.FiscalQuarterStart.Key(),
		fiscalYear:    d.FiscalYearStart.Key(),
		retailPeriod:  d.RetailPeriodStart.Key(),
	}
}

// tradingCounters accumulates per-period trading-day counts.
type tradingCounters struct {
	month, quarter, fiscalQuarter, fiscalYear, retailPeriod map[int]int
}

func newTradingCounters() *tradingCounters {
	return &tradingCounters{
		month:         make(map[int]int),
		quarter:       make(map[int]int),
		fiscalQuarter: make(map[int]int),
		fiscalYear:    make(map[int]int),
		retailPeriod:  make(map[int]int),
	}
}

func (c *tradingCounters) add(k periodKeys) {
	c.month[k.month]++
	c.quarter[k.quarter]++
	c.fiscalQuarter[k.fiscalQuarter]++
	c.fiscalYear[k.fiscalYear]++
	c.retailPeriod[k.retailPeriod]++
}

func progress(ordinal, total int) decimal.Decimal {
	if ordinal == 0 || total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(ordinal)).DivRound(decimal.NewFromInt(int64(total)), 4)
}
