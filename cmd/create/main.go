package main

import (
	"errors"
	"os"

	"github.com/anrid/bls-stats/pkg/cli"
	"github.com/anrid/bls-stats/pkg/config"
	"github.com/anrid/bls-stats/pkg/store"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "create",
		Short:         "Create the average price database from downloaded files",
		Long:          "Create the schema if absent and load every known file from the download folder.\nRun fetch-api and fetch-files first.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			extra := make([]store.Source, 0, len(cfg.Sources))
			for _, s := range cfg.Sources {
				src, err := store.NewSource(s.File, s.Table, s.Format)
				if err != nil {
					return err
				}
				extra = append(extra, src)
			}

			report, err := store.Initialize(cmd.Context(), cfg.DownloadDir, cfg.DatabasePath, store.WithSources(extra...))
			if report != nil {
				report.Print(os.Stdout)
			}

			var missing *store.MissingFilesError
			switch {
			case err == nil:
				return nil
			case errors.As(err, &missing):
				return &cli.ExitError{Code: cli.ExitFailure, Err: err}
			default:
				return &cli.ExitError{Code: cli.ExitStorageFail, Err: err}
			}
		},
	}
	cli.AddConfigFlag(cmd, &configPath)

	cli.Execute(cmd)
}

func init() {
	cli.SetupLog()
}
