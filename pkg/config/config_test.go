package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ansel1/merry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "downloads", c.DownloadDir)
	assert.Equal(t, "database/average_price_data.db", c.DatabasePath)
	assert.Equal(t, DefaultAPIURL, c.API.URL)
	assert.Equal(t, []string{"CUUR0000SA0"}, c.API.Series)
	assert.Equal(t, "2020", c.API.StartYear)
	assert.Equal(t, "2024", c.API.EndYear)
	assert.Equal(t, DefaultFiles, c.Listing.Files)
	assert.Equal(t, 3*time.Second, c.Listing.Delay)
	assert.True(t, c.Listing.RespectRobots)
	assert.NoError(t, c.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := `
download_dir: /tmp/bls
api:
  series: [CUUR0000SA0, APU0000708111]
  start_year: "2021"
listing:
  delay: 250ms
sources:
  - file: ap.item.xls
    table: ap_item
    format: spreadsheet
`
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("BLS_API_KEY", "secret")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/bls", c.DownloadDir)
	assert.Equal(t, []string{"CUUR0000SA0", "APU0000708111"}, c.API.Series)
	assert.Equal(t, "2021", c.API.StartYear)
	assert.Equal(t, "2024", c.API.EndYear)
	assert.Equal(t, 250*time.Millisecond, c.Listing.Delay)
	assert.Equal(t, "secret", c.API.Key)
	assert.Equal(t, []Source{{File: "ap.item.xls", Table: "ap_item", Format: "spreadsheet"}}, c.Sources)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(".env", []byte("BLS_API_KEY=from-dotenv\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("BLS_API_KEY") })

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", c.API.Key)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DownloadDir:  "downloads",
			DatabasePath: "db.sqlite",
			API:          API{Series: []string{"CUUR0000SA0"}, StartYear: "2020", EndYear: "2024"},
			Listing:      Listing{Files: []string{"ap.item"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"empty download dir", func(c *Config) { c.DownloadDir = "" }, ErrNoDownloadDir},
		{"empty database", func(c *Config) { c.DatabasePath = "" }, ErrNoDatabase},
		{"no series", func(c *Config) { c.API.Series = nil }, ErrNoSeries},
		{"short year", func(c *Config) { c.API.StartYear = "20" }, ErrYearRange},
		{"reversed years", func(c *Config) { c.API.StartYear = "2025" }, ErrYearRange},
		{"no files", func(c *Config) { c.Listing.Files = nil }, ErrNoFiles},
		{"source without table", func(c *Config) { c.Sources = []Source{{File: "ap.item.xls"}} }, ErrBadSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, merry.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
