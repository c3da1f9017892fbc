package stats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteTable(t *testing.T) {
	var b strings.Builder
	WriteTable(&b, []Row{
		{SeriesID: "CUUR0000SA0", Year: "2024", Period: "M12", Value: "315.605"},
		{SeriesID: "CUUR0000SA0", Year: "2024", Period: "M11", Value: "315.493", Footnotes: "P"},
	})

	want := `+-------------+------+--------+---------+-----------+
|  series id  | year | period |  value  | footnotes |
+-------------+------+--------+---------+-----------+
| CUUR0000SA0 | 2024 |  M12   | 315.605 |           |
| CUUR0000SA0 | 2024 |  M11   | 315.493 |     P     |
+-------------+------+--------+---------+-----------+
`
	assert.Equal(t, want, b.String())
}

func TestWriteTableEmpty(t *testing.T) {
	var b strings.Builder
	WriteTable(&b, nil)

	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"+-----------+------+--------+-------+-----------+",
		"| series id | year | period | value | footnotes |",
		"+-----------+------+--------+-------+-----------+",
		"+-----------+------+--------+-------+-----------+",
	}, lines)
}

func TestCenter(t *testing.T) {
	assert.Equal(t, "ab", center("ab", 1))
	assert.Equal(t, " ab ", center("ab", 4))
	assert.Equal(t, " ab  ", center("ab", 5))
}
