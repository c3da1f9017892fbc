package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ansel1/merry"
)

// Format is the on-disk layout of a source file.
type Format int

const (
	// TabDelimited is a BLS flat file: a header line then tab separated,
	// space padded fields.
	TabDelimited Format = iota
	// PipeTable is a bordered text table written by the API fetcher.
	PipeTable
	// Spreadsheet is the first sheet of an .xls or .xlsx workbook with a header row.
	Spreadsheet
)

func (f Format) String() string {
	switch f {
	case TabDelimited:
		return "tab-delimited"
	case PipeTable:
		return "pipe-table"
	case Spreadsheet:
		return "spreadsheet"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat is the inverse of Format.String. An empty name means TabDelimited.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tab-delimited":
		return TabDelimited, nil
	case "pipe-table":
		return PipeTable, nil
	case "spreadsheet":
		return Spreadsheet, nil
	}
	return 0, merry.Errorf("unknown source format %q", name)
}

// Source maps a downloaded file to its destination table.
type Source struct {
	File   string
	Table  Table
	Format Format
}

// Sources is the set of files the loader knows about.
var Sources = []Source{
	{"ap.item", TableItem, TabDelimited},
	{"ap.data.0.Current", TableDataCurrent, TabDelimited},
	{"ap.data.3.Food", TableDataFood, TabDelimited},
	{"ap.data.2.Gasoline", TableDataGasoline, TabDelimited},
	{"ap.data.1.HouseholdFuels", TableDataHouseholdFuels, TabDelimited},
	{"ap.period", TablePeriod, TabDelimited},
	{"ap.area", TableArea, TabDelimited},
	{"ap.seasonal", TableSeasonal, TabDelimited},
	{"ap.series", TableSeries, TabDelimited},
	{"CUUR0000SA0.txt", TableCPI, PipeTable},
}

// NewSource builds a source from its configured names.
func NewSource(file, table, format string) (Source, error) {
	t, ok := LookupTable(table)
	if !ok {
		return Source{}, merry.Errorf("source %s: unknown table %q", file, table)
	}
	f, err := ParseFormat(format)
	if err != nil {
		return Source{}, merry.Prependf(err, "source %s", file)
	}
	return Source{File: file, Table: t, Format: f}, nil
}

// WithSources returns the built-in sources followed by extra.
func WithSources(extra ...Source) []Source {
	all := make([]Source, 0, len(Sources)+len(extra))
	all = append(all, Sources...)
	return append(all, extra...)
}

// SourceFor resolves a file path by its base name.
func SourceFor(sources []Source, path string) (Source, bool) {
	name := filepath.Base(path)
	for _, s := range sources {
		if s.File == name {
			return s, true
		}
	}
	return Source{}, false
}

var ErrNoDownloads = errors.New("downloads folder does not exist")

// MissingFilesError lists required files absent from the downloads folder.
// When the folder itself is absent every file is listed and the error
// unwraps to ErrNoDownloads.
type MissingFilesError struct {
	Dir   string
	Files []string
	NoDir bool
}

func (e *MissingFilesError) Error() string {
	if e.NoDir {
		return fmt.Sprintf("the downloads folder %s does not exist, missing: %s",
			e.Dir, strings.Join(e.Files, ", "))
	}
	return fmt.Sprintf("the following required files are missing in %s: %s",
		e.Dir, strings.Join(e.Files, ", "))
}

func (e *MissingFilesError) Unwrap() error {
	if e.NoDir {
		return ErrNoDownloads
	}
	return nil
}

// CheckPrerequisites verifies that dir exists and holds every source file.
// It returns the paths to load, in source order.
func CheckPrerequisites(dir string, sources []Source) ([]string, error) {
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		all := make([]string, 0, len(sources))
		for _, s := range sources {
			all = append(all, s.File)
		}
		return nil, &MissingFilesError{Dir: dir, Files: all, NoDir: true}
	}

	var (
		paths   []string
		missing []string
	)
	for _, s := range sources {
		path := filepath.Join(dir, s.File)
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, s.File)
			continue
		}
		paths = append(paths, path)
	}
	if len(missing) > 0 {
		return nil, &MissingFilesError{Dir: dir, Files: missing}
	}
	return paths, nil
}
