package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/ansel1/merry"
	"github.com/jmoiron/sqlx"
)

type TableCount struct {
	Table string
	Rows  int64
}

// HasTable reports whether the database already holds the named table.
func HasTable(ctx context.Context, db *sqlx.DB, name string) (bool, error) {
	var n int
	err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name)
	if err != nil {
		return false, merry.Prependf(err, "look up table %s", name)
	}
	return n > 0, nil
}

// Counts returns the number of rows in every known table present in the
// database. It only reads, so tables that were never created are left out.
func Counts(ctx context.Context, db *sqlx.DB) ([]TableCount, error) {
	counts := make([]TableCount, 0, len(Tables))
	for _, t := range Tables {
		ok, err := HasTable(ctx, db, t.Name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		var n int64
		if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+t.Name); err != nil {
			return nil, merry.Prependf(err, "count %s", t.Name)
		}
		counts = append(counts, TableCount{Table: t.Name, Rows: n})
	}
	return counts, nil
}

// LatestObservations returns up to n most recent observations of a series
// held in an observation table, newest first.
func LatestObservations(ctx context.Context, db *sqlx.DB, table, seriesID string, n int) ([]Observation, error) {
	t, ok := LookupTable(table)
	if !ok || !isObservationTable(t) {
		return nil, merry.Errorf("%q is not an observation table", table)
	}

	var obs []Observation
	err := db.SelectContext(ctx, &obs, fmt.Sprintf(`
SELECT series_id, year, period, value, COALESCE(footnote_codes, '') AS footnote_codes
FROM %s
WHERE series_id = ?
ORDER BY year DESC, period DESC
LIMIT ?`, t.Name), seriesID, n)
	if err != nil {
		return nil, merry.Prependf(err, "select %s", t.Name)
	}
	return obs, nil
}

func isObservationTable(t Table) bool {
	return strings.Join(t.Key, ",") == "series_id,year,period"
}
