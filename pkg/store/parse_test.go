package store

import (
	"strings"
	"testing"

	"github.com/anrid/bls-stats/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		ok   bool
		want Observation
	}{
		{
			name: "data row without footnote",
			line: "| CUUR0000SA0    | 2021 | M01 | 261.582 |        |",
			ok:   true,
			want: Observation{SeriesID: "CUUR0000SA0", Year: 2021, Period: "M01", Value: 261.582},
		},
		{
			name: "data row with footnote",
			line: "| CUUR0000SA0 | 2024 |  M02   | 310.326 | preliminary |",
			ok:   true,
			want: Observation{SeriesID: "CUUR0000SA0", Year: 2024, Period: "M02", Value: 310.326, FootnoteCodes: "preliminary"},
		},
		{name: "border", line: "+-------------+------+--------+---------+-----------+"},
		{name: "header", line: "|  series id  | year | period |  value  | footnotes |"},
		{name: "dashes", line: "|-------------|------|--------|---------|-----------|"},
		{name: "empty", line: ""},
		{name: "non numeric value", line: "| CUUR0000SA0 | 2024 | M02 | - |  |"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParsePipeTableRendered(t *testing.T) {
	var b strings.Builder
	stats.WriteTable(&b, []stats.Row{
		{SeriesID: "CUUR0000SA0", Year: "2024", Period: "M12", Value: "315.605"},
		{SeriesID: "CUUR0000SA0", Year: "2024", Period: "M11", Value: "315.493", Footnotes: "preliminary"},
	})

	var got []Observation
	skipped, err := ParsePipeTable(strings.NewReader(b.String()), func(rec interface{}) error {
		got = append(got, *rec.(*Observation))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 4, skipped)
	assert.Equal(t, []Observation{
		{SeriesID: "CUUR0000SA0", Year: 2024, Period: "M12", Value: 315.605},
		{SeriesID: "CUUR0000SA0", Year: 2024, Period: "M11", Value: 315.493, FootnoteCodes: "preliminary"},
	}, got)
}

const apItem = "item_code\titem_name\n" +
	"701111\tFlour, white, all purpose, per lb. (453.6 gm)\n" +
	"\n" +
	"702111\tBread, \"white\", pan, per lb. (453.6 gm)\n"

const apData = "series_id                     \tyear\tperiod\t       value\tfootnote_codes\n" +
	"APU0000701111                 \t1980\tM01\t      0.203\t\n" +
	"APU0000701111                 \t1980\tM02\t      0.205\tP\n" +
	"APU0000702111                 \t1980\tM01\t      0.504\n"

func TestParseTabDelimited(t *testing.T) {
	t.Run("items", func(t *testing.T) {
		var got []Item
		err := ParseTabDelimited(strings.NewReader(apItem), TableItem, func(rec interface{}) error {
			got = append(got, *rec.(*Item))
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []Item{
			{ItemCode: "701111", ItemName: "Flour, white, all purpose, per lb. (453.6 gm)"},
			{ItemCode: "702111", ItemName: `Bread, "white", pan, per lb. (453.6 gm)`},
		}, got)
	})

	t.Run("padded observations", func(t *testing.T) {
		var got []Observation
		err := ParseTabDelimited(strings.NewReader(apData), TableDataCurrent, func(rec interface{}) error {
			got = append(got, *rec.(*Observation))
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []Observation{
			{SeriesID: "APU0000701111", Year: 1980, Period: "M01", Value: 0.203},
			{SeriesID: "APU0000701111", Year: 1980, Period: "M02", Value: 0.205, FootnoteCodes: "P"},
			{SeriesID: "APU0000702111", Year: 1980, Period: "M01", Value: 0.504},
		}, got)
	})

	t.Run("series metadata", func(t *testing.T) {
		in := "series_id\tarea_code\titem_code\tseries_title\tfootnote_codes\tbegin_year\tbegin_period\tend_year\tend_period\n" +
			"APU0000701111\t0000\t701111\tFlour, white, all purpose, per lb. (453.6 gm) in U.S. city average, average price, not seasonally adjusted\t\t1980\tM01\t2024\tM08\n"
		var got []SeriesInfo
		err := ParseTabDelimited(strings.NewReader(in), TableSeries, func(rec interface{}) error {
			got = append(got, *rec.(*SeriesInfo))
			return nil
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "APU0000701111", got[0].SeriesID)
		assert.Equal(t, 1980, got[0].BeginYear)
		assert.Equal(t, "M08", got[0].EndPeriod)
	})

	t.Run("blank years", func(t *testing.T) {
		in := "series_id\tarea_code\titem_code\tseries_title\tfootnote_codes\tbegin_year\tbegin_period\tend_year\tend_period\n" +
			"APU0000701111\t0000\t701111\tFlour\t\t1980\tM01\t    \tM08\n"
		var got []SeriesInfo
		err := ParseTabDelimited(strings.NewReader(in), TableSeries, func(rec interface{}) error {
			got = append(got, *rec.(*SeriesInfo))
			return nil
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 1980, got[0].BeginYear)
		assert.Equal(t, 0, got[0].EndYear)
		assert.Equal(t, "M08", got[0].EndPeriod)
	})

	t.Run("bad number", func(t *testing.T) {
		in := "series_id\tyear\tperiod\tvalue\tfootnote_codes\nX\tsoon\tM01\t1.0\t\n"
		err := ParseTabDelimited(strings.NewReader(in), TableDataCurrent, func(rec interface{}) error { return nil })
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		err := ParseTabDelimited(strings.NewReader(""), TableItem, func(rec interface{}) error {
			t.Fatal("unexpected record")
			return nil
		})
		assert.NoError(t, err)
	})
}
