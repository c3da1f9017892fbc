package store

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/anrid/bls-stats/pkg/stats"
	"github.com/ansel1/merry"
	"github.com/jszwec/csvutil"
)

// pipeRow matches a data line of a table rendered by stats.WriteTable:
//
//	| CUUR0000SA0 | 2021 |  M01   | 261.582 |           |
var pipeRow = regexp.MustCompile(`^\|\s+([^|]+)\s+\|\s+(\d{4})\s+\|\s+([A-Z0-9]+)\s+\|\s+([\d\.]+)\s+\|\s*([^|]*)\s+\|`)

// ParseLine extracts an observation from a pipe table line. Lines that are
// not data rows (borders, header) report false.
func ParseLine(line string) (Observation, bool, error) {
	m := pipeRow.FindStringSubmatch(line)
	if m == nil {
		return Observation{}, false, nil
	}

	year, err := strconv.Atoi(m[2])
	if err != nil {
		return Observation{}, false, merry.Prepend(err, "year")
	}
	value, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return Observation{}, false, merry.Prepend(err, "value")
	}

	return Observation{
		SeriesID:      strings.TrimSpace(m[1]),
		Year:          year,
		Period:        strings.TrimSpace(m[3]),
		Value:         value,
		FootnoteCodes: strings.TrimSpace(m[5]),
	}, true, nil
}

// ParsePipeTable passes every data row of r to emit and returns the number of
// lines that were skipped.
func ParsePipeTable(r io.Reader, emit func(rec interface{}) error) (skipped int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	n := 0
	for sc.Scan() {
		n++
		obs, ok, err := ParseLine(sc.Text())
		if err != nil {
			return skipped, merry.Prependf(err, "line %d", n)
		}
		if !ok {
			skipped++
			continue
		}
		if err := emit(&obs); err != nil {
			return skipped, merry.Prependf(err, "line %d", n)
		}
	}
	return skipped, sc.Err()
}

// recordReader yields header-aligned records to csvutil.
type recordReader interface {
	Read() ([]string, error)
}

// tabReader splits lines on tabs. Quotes are literal, BLS titles contain them.
type tabReader struct {
	sc *bufio.Scanner
}

func newTabReader(r io.Reader) *tabReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return &tabReader{sc: sc}
}

func (r *tabReader) Read() ([]string, error) {
	for r.sc.Scan() {
		line := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return strings.Split(line, "\t"), nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

type sliceReader struct {
	rows [][]string
}

func (r *sliceReader) Read() ([]string, error) {
	for len(r.rows) > 0 {
		row := r.rows[0]
		r.rows = r.rows[1:]
		if blank(row) {
			continue
		}
		return row, nil
	}
	return nil, io.EOF
}

// padReader pads or trims every record to the header width. Extra trailing
// fields are dropped only when they are empty.
type padReader struct {
	r     recordReader
	width int
}

func (r *padReader) Read() ([]string, error) {
	rec, err := r.r.Read()
	if err != nil {
		return nil, err
	}
	for len(rec) < r.width {
		rec = append(rec, "")
	}
	if len(rec) > r.width && blank(rec[r.width:]) {
		rec = rec[:r.width]
	}
	return rec, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// decodeRecords reads the header from r and decodes every following record
// into a value created by t.New, matching columns by header name.
func decodeRecords(r recordReader, t Table, emit func(rec interface{}) error) error {
	header, err := r.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return merry.Prepend(err, "read header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	dec, err := csvutil.NewDecoder(&padReader{r: r, width: len(header)}, header...)
	if err != nil {
		return merry.Prepend(err, "header")
	}
	dec.Map = func(field, _ string, v interface{}) string {
		field = strings.TrimSpace(field)
		if _, ok := v.(int); ok && field == "" {
			return "0"
		}
		return field
	}

	for line := 2; ; line++ {
		rec := t.New()
		if err := dec.Decode(rec); err == io.EOF {
			return nil
		} else if err != nil {
			return merry.Prependf(err, "record %d", line)
		}
		if err := emit(rec); err != nil {
			return merry.Prependf(err, "record %d", line)
		}
	}
}

// ParseTabDelimited decodes a BLS flat file into records of t.
func ParseTabDelimited(r io.Reader, t Table, emit func(rec interface{}) error) error {
	return decodeRecords(newTabReader(r), t, emit)
}

// ParseSpreadsheet decodes the first sheet of an Excel workbook into records of t.
func ParseSpreadsheet(name string, data []byte, t Table, emit func(rec interface{}) error) error {
	var rows [][]string
	err := stats.ExtractRows(name, data, func(r []string) error {
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		return err
	}
	return decodeRecords(&sliceReader{rows: rows}, t, emit)
}

// Parse dispatches data to the parser for format. It returns the number of
// lines skipped by the pipe table parser.
func Parse(format Format, name string, data []byte, t Table, emit func(rec interface{}) error) (int, error) {
	switch format {
	case PipeTable:
		return ParsePipeTable(bytes.NewReader(data), emit)
	case TabDelimited:
		return 0, ParseTabDelimited(bytes.NewReader(data), t, emit)
	case Spreadsheet:
		return 0, ParseSpreadsheet(name, data, t, emit)
	}
	return 0, merry.Errorf("unknown format %v", format)
}
