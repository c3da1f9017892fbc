// Package store keeps downloaded BLS data in a local SQLite database.
package store

import (
	"context"
	"fmt"

	"github.com/ansel1/merry"
	"github.com/jmoiron/sqlx"
)

// Observation is one (series, year, period) value.
type Observation struct {
	SeriesID      string  `csv:"series_id" db:"series_id"`
	Year          int     `csv:"year" db:"year"`
	Period        string  `csv:"period" db:"period"`
	Value         float64 `csv:"value" db:"value"`
	FootnoteCodes string  `csv:"footnote_codes" db:"footnote_codes"`
}

type Item struct {
	ItemCode string `csv:"item_code" db:"item_code"`
	ItemName string `csv:"item_name" db:"item_name"`
}

type Area struct {
	AreaCode string `csv:"area_code" db:"area_code"`
	AreaName string `csv:"area_name" db:"area_name"`
}

type Period struct {
	Period     string `csv:"period" db:"period"`
	PeriodAbbr string `csv:"period_abbr" db:"period_abbr"`
	PeriodName string `csv:"period_name" db:"period_name"`
}

type Seasonal struct {
	SeasonalCode string `csv:"seasonal_code" db:"seasonal_code"`
	SeasonalText string `csv:"seasonal_text" db:"seasonal_text"`
}

// SeriesInfo describes one series of the Average Price survey.
type SeriesInfo struct {
	SeriesID      string `csv:"series_id" db:"series_id"`
	AreaCode      string `csv:"area_code" db:"area_code"`
	ItemCode      string `csv:"item_code" db:"item_code"`
	SeriesTitle   string `csv:"series_title" db:"series_title"`
	FootnoteCodes string `csv:"footnote_codes" db:"footnote_codes"`
	BeginYear     int    `csv:"begin_year" db:"begin_year"`
	BeginPeriod   string `csv:"begin_period" db:"begin_period"`
	EndYear       int    `csv:"end_year" db:"end_year"`
	EndPeriod     string `csv:"end_period" db:"end_period"`
}

// Table is a destination table: its DDL, its insert-or-replace statement
// with named parameters matching the db tags of its record type, and a
// constructor for that record.
type Table struct {
	Name   string
	Key    []string
	Create string
	Insert string
	New    func() interface{}
}

func observationTable(name string) Table {
	return Table{
		Name: name,
		Key:  []string{"series_id", "year", "period"},
		Create: fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s
(
    series_id      TEXT,
    year           INTEGER,
    period         TEXT,
    value          REAL,
    footnote_codes TEXT,
    PRIMARY KEY (series_id, year, period)
);`, name),
		Insert: fmt.Sprintf(`
INSERT OR REPLACE INTO %s (series_id, year, period, value, footnote_codes)
VALUES (:series_id, :year, :period, :value, NULLIF(:footnote_codes, ''))`, name),
		New: func() interface{} { return new(Observation) },
	}
}

var (
	TableItem = Table{
		Name: "ap_item",
		Key:  []string{"item_code"},
		Create: `
CREATE TABLE IF NOT EXISTS ap_item
(
    item_code TEXT PRIMARY KEY,
    item_name TEXT
);`,
		Insert: `INSERT OR REPLACE INTO ap_item (item_code, item_name) VALUES (:item_code, :item_name)`,
		New:    func() interface{} { return new(Item) },
	}

	TableDataCurrent        = observationTable("ap_data_current")
	TableDataFood           = observationTable("ap_data_food")
	TableDataGasoline       = observationTable("ap_data_gasoline")
	TableDataHouseholdFuels = observationTable("ap_data_householdfuels")

	TablePeriod = Table{
		Name: "ap_period",
		Key:  []string{"period"},
		Create: `
CREATE TABLE IF NOT EXISTS ap_period
(
    period      TEXT PRIMARY KEY,
    period_abbr TEXT,
    period_name TEXT
);`,
		Insert: `
INSERT OR REPLACE INTO ap_period (period, period_abbr, period_name)
VALUES (:period, :period_abbr, :period_name)`,
		New: func() interface{} { return new(Period) },
	}

	TableArea = Table{
		Name: "ap_area",
		Key:  []string{"area_code"},
		Create: `
CREATE TABLE IF NOT EXISTS ap_area
(
    area_code TEXT PRIMARY KEY,
    area_name TEXT
);`,
		Insert: `INSERT OR REPLACE INTO ap_area (area_code, area_name) VALUES (:area_code, :area_name)`,
		New:    func() interface{} { return new(Area) },
	}

	TableSeasonal = Table{
		Name: "ap_seasonal",
		Key:  []string{"seasonal_code"},
		Create: `
CREATE TABLE IF NOT EXISTS ap_seasonal
(
    seasonal_code TEXT PRIMARY KEY,
    seasonal_text TEXT
);`,
		Insert: `
INSERT OR REPLACE INTO ap_seasonal (seasonal_code, seasonal_text)
VALUES (:seasonal_code, :seasonal_text)`,
		New: func() interface{} { return new(Seasonal) },
	}

	TableSeries = Table{
		Name: "ap_series",
		Key:  []string{"series_id"},
		Create: `
CREATE TABLE IF NOT EXISTS ap_series
(
    series_id      TEXT PRIMARY KEY,
    area_code      TEXT,
    item_code      TEXT,
    series_title   TEXT,
    footnote_codes TEXT,
    begin_year     INTEGER,
    begin_period   TEXT,
    end_year       INTEGER,
    end_period     TEXT
);`,
		Insert: `
INSERT OR REPLACE INTO ap_series (series_id, area_code, item_code, series_title, footnote_codes,
                                  begin_year, begin_period, end_year, end_period)
VALUES (:series_id, :area_code, :item_code, :series_title, NULLIF(:footnote_codes, ''),
        :begin_year, :begin_period, :end_year, :end_period)`,
		New: func() interface{} { return new(SeriesInfo) },
	}

	TableCPI = observationTable("cpi_info")
)

// Tables lists every table the loader maintains.
var Tables = []Table{
	TableItem,
	TableDataCurrent,
	TableDataFood,
	TableDataGasoline,
	TableDataHouseholdFuels,
	TablePeriod,
	TableArea,
	TableSeasonal,
	TableSeries,
	TableCPI,
}

// LookupTable finds a table by name.
func LookupTable(name string) (Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// EnsureSchema creates every missing table. Existing tables are left as is.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, t := range Tables {
		if _, err := db.ExecContext(ctx, t.Create); err != nil {
			return merry.Prependf(err, "create table %s", t.Name)
		}
	}
	return nil
}
