// Package config loads the settings shared by the fetch and load commands.
package config

import (
	"errors"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/ansel1/merry"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	DefaultAPIURL     = "https://api.bls.gov/publicAPI/v2/timeseries/data/"
	DefaultListingURL = "https://download.bls.gov/pub/time.series/ap/"
	DefaultUserAgent  = "bls-stats/1.0 (+https://github.com/anrid/bls-stats)"
)

// DefaultFiles is the set of Average Price survey files published under the listing.
var DefaultFiles = []string{
	"ap.area",
	"ap.contacts",
	"ap.data.0.Current",
	"ap.data.1.HouseholdFuels",
	"ap.data.2.Gasoline",
	"ap.data.3.Food",
	"ap.footnote",
	"ap.item",
	"ap.period",
	"ap.seasonal",
	"ap.series",
	"ap.txt",
}

var (
	ErrNoSeries      = errors.New("at least one series id is required")
	ErrYearRange     = errors.New("invalid year range")
	ErrNoFiles       = errors.New("at least one listing file is required")
	ErrNoDownloadDir = errors.New("download dir must not be empty")
	ErrNoDatabase    = errors.New("database path must not be empty")
	ErrBadSource     = errors.New("source needs a file and a table")
)

type Config struct {
	DownloadDir  string  `mapstructure:"download_dir"`
	DatabasePath string  `mapstructure:"database_path"`
	API          API     `mapstructure:"api"`
	Listing      Listing `mapstructure:"listing"`
	HTTP         HTTP    `mapstructure:"http"`
	// Sources declares files loaded in addition to the built-in set.
	Sources []Source `mapstructure:"sources"`
}

// Source maps a file in the download folder to a database table. Format is
// one of "tab-delimited", "pipe-table" or "spreadsheet".
type Source struct {
	File   string `mapstructure:"file"`
	Table  string `mapstructure:"table"`
	Format string `mapstructure:"format"`
}

// API configures the time-series endpoint.
type API struct {
	URL       string   `mapstructure:"url"`
	Key       string   `mapstructure:"key"`
	Series    []string `mapstructure:"series"`
	StartYear string   `mapstructure:"start_year"`
	EndYear   string   `mapstructure:"end_year"`
}

// Listing configures the bulk file download.
type Listing struct {
	URL           string        `mapstructure:"url"`
	Files         []string      `mapstructure:"files"`
	Delay         time.Duration `mapstructure:"delay"`
	RespectRobots bool          `mapstructure:"respect_robots"`
}

type HTTP struct {
	Timeout   time.Duration     `mapstructure:"timeout"`
	UserAgent string            `mapstructure:"user_agent"`
	Headers   map[string]string `mapstructure:"headers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("download_dir", "downloads")
	v.SetDefault("database_path", "database/average_price_data.db")

	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("api.key", "")
	v.SetDefault("api.series", []string{"CUUR0000SA0"})
	v.SetDefault("api.start_year", "2020")
	v.SetDefault("api.end_year", "2024")

	v.SetDefault("listing.url", DefaultListingURL)
	v.SetDefault("listing.files", DefaultFiles)
	v.SetDefault("listing.delay", 3*time.Second)
	v.SetDefault("listing.respect_robots", true)

	v.SetDefault("http.timeout", 60*time.Second)
	v.SetDefault("http.user_agent", DefaultUserAgent)
	v.SetDefault("http.headers", map[string]string{
		"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	})
}

// Load reads configuration from defaults, an optional YAML file and the
// environment (BLS_ prefix, so BLS_API_KEY sets api.key). A .env file in the
// working directory is applied to the environment first.
//
// An empty path looks for config.yaml in the working directory and tolerates
// its absence. An explicit path must exist.
func Load(path string) (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := gotenv.Load(".env"); err != nil {
			return Config{}, merry.Prepend(err, "load .env")
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BLS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, merry.Prepend(err, "read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, merry.Prepend(err, "decode config")
	}
	return c, nil
}

var yearRe = regexp.MustCompile(`^\d{4}$`)

// Validate checks the fields every command relies on.
func (c Config) Validate() error {
	if c.DownloadDir == "" {
		return ErrNoDownloadDir
	}
	if c.DatabasePath == "" {
		return ErrNoDatabase
	}
	if len(c.API.Series) == 0 {
		return ErrNoSeries
	}
	if !yearRe.MatchString(c.API.StartYear) || !yearRe.MatchString(c.API.EndYear) {
		return merry.Prepend(ErrYearRange, c.API.StartYear+"-"+c.API.EndYear)
	}
	// Both are four digits so lexical order is numeric order.
	if c.API.StartYear > c.API.EndYear {
		return merry.Prepend(ErrYearRange, c.API.StartYear+"-"+c.API.EndYear)
	}
	if len(c.Listing.Files) == 0 {
		return ErrNoFiles
	}
	for _, s := range c.Sources {
		if s.File == "" || s.Table == "" {
			return merry.Prepend(ErrBadSource, s.File+":"+s.Table)
		}
	}
	return nil
}
