package store

import (
	"context"
	"io"
	"strings"

	xlsx "github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/ansel1/merry"
	"github.com/jmoiron/sqlx"
)

// ExportXLSX writes every row of table to w as a workbook with a single sheet
// named after the table. The first row holds the column names.
func ExportXLSX(ctx context.Context, db *sqlx.DB, table string, w io.Writer) (int, error) {
	t, ok := LookupTable(table)
	if !ok {
		return 0, merry.Errorf("unknown table %q", table)
	}

	rows, err := db.QueryxContext(ctx, `SELECT * FROM `+t.Name+` ORDER BY `+strings.Join(t.Key, ", "))
	if err != nil {
		return 0, merry.Prependf(err, "select %s", t.Name)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, merry.Wrap(err)
	}

	f := xlsx.NewFile()
	sheet := t.Name
	f.SetSheetName("Sheet1", sheet)

	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, merry.Wrap(err)
	}

	n := 0
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return n, merry.Wrap(err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}

		n++
		cell, err := xlsx.CoordinatesToCellName(1, n+1)
		if err != nil {
			return n, merry.Wrap(err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return n, merry.Wrap(err)
		}
	}
	if err := rows.Err(); err != nil {
		return n, merry.Wrap(err)
	}

	if err := f.Write(w); err != nil {
		return n, merry.Prepend(err, "write workbook")
	}
	return n, nil
}
