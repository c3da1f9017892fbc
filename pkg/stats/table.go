package stats

import (
	"io"
	"strings"
	"unicode/utf8"
)

var tableHeader = []string{"series id", "year", "period", "value", "footnotes"}

// WriteTable renders rows as a bordered text table:
//
//	+-------------+------+--------+---------+-----------+
//	|  series id  | year | period |  value  | footnotes |
//	+-------------+------+--------+---------+-----------+
//	| CUUR0000SA0 | 2024 |  M12   | 315.605 |           |
//	+-------------+------+--------+---------+-----------+
//
// The database loader parses data lines of exactly this shape.
func WriteTable(w io.Writer, rows []Row) {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{r.SeriesID, r.Year, r.Period, r.Value, r.Footnotes})
	}

	widths := make([]int, len(tableHeader))
	for i, h := range tableHeader {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range cells {
		for i, c := range row {
			if n := utf8.RuneCountInString(c); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	border := func() {
		b.WriteByte('+')
		for _, n := range widths {
			b.WriteString(strings.Repeat("-", n+2))
			b.WriteByte('+')
		}
		b.WriteByte('\n')
	}
	line := func(row []string) {
		b.WriteByte('|')
		for i, c := range row {
			b.WriteByte(' ')
			b.WriteString(center(c, widths[i]))
			b.WriteString(" |")
		}
		b.WriteByte('\n')
	}

	border()
	line(tableHeader)
	border()
	for _, row := range cells {
		line(row)
	}
	border()

	io.WriteString(w, b.String())
}

func center(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
