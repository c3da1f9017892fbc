package store

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ansel1/merry"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/powerman/structlog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Outcome of loading one file.
type Outcome string

const (
	Loaded   Outcome = "loaded"
	Unmapped Outcome = "unmapped"
	Failed   Outcome = "failed"
)

type FileResult struct {
	File    string
	Table   string
	Rows    int
	Skipped int
	Outcome Outcome
	Err     error
}

// Report collects the per-file results of one Update run.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Files    []FileResult
}

func (r *Report) Count(o Outcome) int {
	n := 0
	for _, f := range r.Files {
		if f.Outcome == o {
			n++
		}
	}
	return n
}

func (r *Report) Rows() int {
	n := 0
	for _, f := range r.Files {
		n += f.Rows
	}
	return n
}

// Print writes a human readable summary of the run.
func (r *Report) Print(w io.Writer) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "\nRun %s (%v)\n\n", r.RunID, r.Finished.Sub(r.Started).Round(time.Millisecond))
	for _, f := range r.Files {
		switch f.Outcome {
		case Loaded:
			p.Fprintf(w, "  %-26s -> %-24s %12d rows\n", f.File, f.Table, f.Rows)
		case Unmapped:
			p.Fprintf(w, "  %-26s    not mapped to a table\n", f.File)
		default:
			p.Fprintf(w, "  %-26s -> %-24s FAILED: %v\n", f.File, f.Table, f.Err)
		}
	}
	p.Fprintf(w, "\nFiles loaded : %d\nFiles failed : %d\nFiles skipped: %d\nRows written : %d\n",
		r.Count(Loaded), r.Count(Failed), r.Count(Unmapped), r.Rows())
}

// Loader writes source files into their tables.
type Loader struct {
	db      *sqlx.DB
	sources []Source
	log     *structlog.Logger
}

func NewLoader(db *sqlx.DB, sources []Source) *Loader {
	return &Loader{db: db, sources: sources, log: structlog.New()}
}

// LoadFile parses the file at path and inserts every record into its table
// inside a single transaction. Parse or insert errors roll the file back and
// are reported in the result, they never abort the caller.
func (l *Loader) LoadFile(ctx context.Context, path string) FileResult {
	res := FileResult{File: filepath.Base(path)}

	src, ok := SourceFor(l.sources, path)
	if !ok {
		res.Outcome = Unmapped
		l.log.Warn("file not mapped to a table", "file", res.File)
		return res
	}
	res.Table = src.Table.Name

	rows, skipped, err := l.load(ctx, path, src)
	if err != nil {
		res.Outcome = Failed
		res.Err = err
		l.log.PrintErr(err, "file", res.File, "table", res.Table)
		return res
	}

	res.Outcome = Loaded
	res.Rows = rows
	res.Skipped = skipped
	l.log.Info("loaded", "file", res.File, "table", res.Table, "rows", rows, "skipped", skipped)
	return res
}

func (l *Loader) load(ctx context.Context, path string, src Source) (rows, skipped int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, merry.Wrap(err)
	}

	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, merry.Prepend(err, "begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareNamedContext(ctx, src.Table.Insert)
	if err != nil {
		return 0, 0, merry.Prepend(err, "prepare insert")
	}
	defer stmt.Close()

	skipped, err = Parse(src.Format, src.File, data, src.Table, func(rec interface{}) error {
		if _, err := stmt.ExecContext(ctx, rec); err != nil {
			return merry.Prepend(err, "insert")
		}
		rows++
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, merry.Prepend(err, "commit")
	}
	return rows, skipped, nil
}

// Update makes sure the schema exists and then loads every path
// independently. Storage errors before any file is touched are returned,
// per-file failures only show up in the report. A cancelled ctx stops the
// run between files and returns the partial report.
func (l *Loader) Update(ctx context.Context, paths []string) (*Report, error) {
	r := &Report{RunID: uuid.New().String(), Started: time.Now()}
	defer func() { r.Finished = time.Now() }()
	log := l.log.New("run", r.RunID)

	if err := ctx.Err(); err != nil {
		return r, err
	}
	if err := EnsureSchema(ctx, l.db); err != nil {
		return nil, err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		r.Files = append(r.Files, l.LoadFile(ctx, path))
	}

	log.Info("update finished", "loaded", r.Count(Loaded), "failed", r.Count(Failed))
	return r, nil
}

// Initialize loads every source from downloadDir into the database at
// databasePath. Missing downloads are reported before the database is opened.
func Initialize(ctx context.Context, downloadDir, databasePath string, sources []Source) (*Report, error) {
	paths, err := CheckPrerequisites(downloadDir, sources)
	if err != nil {
		return nil, err
	}

	db, err := Open(databasePath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	r, err := NewLoader(db, sources).Update(ctx, paths)
	if err != nil {
		return r, merry.Prepend(err, "update database")
	}
	return r, nil
}
