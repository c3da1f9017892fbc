package stats

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ansel1/merry"
	"github.com/davecgh/go-spew/spew"
)

const statusSucceeded = "REQUEST_SUCCEEDED"

// FetchSeries sends a single request for all series in req.
// There is no retry: any transport error or a status other than
// REQUEST_SUCCEEDED is returned to the caller.
func (c *Client) FetchSeries(ctx context.Context, apiURL string, req APIRequest) (*APIResponse, error) {
	resp := new(APIResponse)
	if err := c.PostJSON(ctx, apiURL, req, resp); err != nil {
		return nil, merry.Prepend(err, "fetch series")
	}

	if resp.Status != statusSucceeded {
		c.log.Debug("api response", "dump", spew.Sdump(resp))
		return nil, merry.Errorf("fetch series: status %q: %s", resp.Status, strings.Join(resp.Message, "; "))
	}
	return resp, nil
}

// MonthlyRows returns the rows of s whose period lies within M01..M12.
// The annual average (M13) and non-monthly periods are dropped.
func MonthlyRows(s *Series) []Row {
	var rows []Row
	for _, d := range s.Data {
		if d.Period < "M01" || d.Period > "M12" {
			continue
		}

		var notes []string
		for _, f := range d.Footnotes {
			if f.Text != "" {
				notes = append(notes, f.Text)
			}
		}

		rows = append(rows, Row{
			SeriesID:  s.SeriesID,
			Year:      d.Year,
			Period:    d.Period,
			Value:     d.Value,
			Footnotes: strings.Join(notes, ","),
		})
	}
	return rows
}

// SaveSeries writes one table file named <seriesID>.txt per series into dir,
// creating dir if needed. Paths are returned in response order.
func SaveSeries(dir string, resp *APIResponse) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, merry.Prepend(err, "create output folder")
	}

	var paths []string
	for _, s := range resp.Results.Series {
		path := filepath.Join(dir, s.SeriesID+".txt")

		var b strings.Builder
		WriteTable(&b, MonthlyRows(s))

		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return paths, merry.Prepend(err, "write "+path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
