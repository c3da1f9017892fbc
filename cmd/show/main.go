package main

import (
	"os"

	"github.com/anrid/bls-stats/pkg/cli"
	"github.com/anrid/bls-stats/pkg/config"
	"github.com/anrid/bls-stats/pkg/store"
	"github.com/ansel1/merry"
	"github.com/powerman/structlog"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	var (
		configPath  string
		table       string
		seriesID    string
		limit       int
		exportPath  string
		exportTable string
	)

	cmd := &cobra.Command{
		Use:           "show",
		Short:         "Show what the average price database holds",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := structlog.New()
			ctx := cmd.Context()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.DatabasePath); err != nil {
				return merry.Errorf("no database found at %s, run the create command in `cmd/create` first", cfg.DatabasePath)
			}

			db, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer log.ErrIfFail(db.Close)

			p := message.NewPrinter(language.English)

			counts, err := store.Counts(ctx, db)
			if err != nil {
				return err
			}
			p.Printf("\n%-24s %14s\n", "Table", "Rows")
			for _, c := range counts {
				p.Printf("%-24s %14d\n", c.Table, c.Rows)
			}

			if seriesID == "" && len(cfg.API.Series) > 0 {
				seriesID = cfg.API.Series[0]
			}
			loaded, err := store.HasTable(ctx, db, table)
			if err != nil {
				return err
			}
			if loaded {
				obs, err := store.LatestObservations(ctx, db, table, seriesID, limit)
				if err != nil {
					return err
				}
				p.Printf("\nLatest %s observations in %s:\n\n", seriesID, table)
				for _, o := range obs {
					p.Printf("  %d %-4s %12.3f  %s\n", o.Year, o.Period, o.Value, o.FootnoteCodes)
				}
			} else {
				p.Printf("\nTable %s has not been created yet.\n", table)
			}

			if exportPath == "" {
				return nil
			}
			f, err := os.Create(exportPath)
			if err != nil {
				return merry.Wrap(err)
			}
			n, err := store.ExportXLSX(ctx, db, exportTable, f)
			if cerr := f.Close(); err == nil && cerr != nil {
				err = merry.Wrap(cerr)
			}
			if err != nil {
				return err
			}
			log.Info("exported", "table", exportTable, "rows", n, "file", exportPath)
			return nil
		},
	}
	cli.AddConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&table, "table", store.TableCPI.Name, "observation table to show")
	cmd.Flags().StringVar(&seriesID, "series", "", "series id to show (default: first configured api series)")
	cmd.Flags().IntVar(&limit, "limit", 12, "number of observations to show")
	cmd.Flags().StringVar(&exportPath, "export", "", "write a table to this .xlsx file")
	cmd.Flags().StringVar(&exportTable, "export-table", store.TableCPI.Name, "table to export")

	cli.Execute(cmd)
}

func init() {
	cli.SetupLog()
}
