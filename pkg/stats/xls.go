package stats

import (
	"bytes"
	"strings"

	xlsx "github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/anrid/xls"
	"github.com/ansel1/merry"
)

// ExtractRows reads the first sheet of an Excel file and passes each row to
// handler. Files ending in .xlsx are read with excelize, anything else is
// treated as a legacy .xls workbook.
func ExtractRows(name string, data []byte, handler func(r []string) error) error {
	if strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		return ExtractRowsXLSX(data, handler)
	}
	return ExtractRowsXLS(data, handler)
}

func ExtractRowsXLS(data []byte, handler func(r []string) error) error {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return merry.Prepend(err, "read xls")
	}
	if wb == nil {
		return merry.New("xls file has no workbook stream")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return merry.New("xls workbook has no sheets")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		var cols []string
		for j := 0; j <= row.LastCol(); j++ {
			cols = append(cols, row.Col(j))
		}
		if err := handler(cols); err != nil {
			return err
		}
	}
	return nil
}

func ExtractRowsXLSX(data []byte, handler func(r []string) error) error {
	wb, err := xlsx.OpenReader(bytes.NewReader(data))
	if err != nil {
		return merry.Prepend(err, "read xlsx")
	}

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return merry.New("xlsx workbook has no sheets")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return merry.Prependf(err, "get rows of sheet %q", sheets[0])
	}

	for _, r := range rows {
		if err := handler(r); err != nil {
			return err
		}
	}
	return nil
}
