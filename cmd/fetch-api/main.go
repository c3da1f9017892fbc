package main

import (
	"github.com/anrid/bls-stats/pkg/cli"
	"github.com/anrid/bls-stats/pkg/config"
	"github.com/anrid/bls-stats/pkg/stats"
	"github.com/powerman/structlog"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "fetch-api",
		Short:         "Fetch series from the BLS time-series API into text tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := structlog.New()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.API.Key == "" {
				log.Warn("BLS_API_KEY is not set, the API applies unregistered limits")
			}

			c := stats.NewClient(stats.ClientConfig{
				Timeout:   cfg.HTTP.Timeout,
				UserAgent: cfg.HTTP.UserAgent,
				Headers:   cfg.HTTP.Headers,
			})

			resp, err := c.FetchSeries(cmd.Context(), cfg.API.URL, stats.APIRequest{
				SeriesID:        cfg.API.Series,
				StartYear:       cfg.API.StartYear,
				EndYear:         cfg.API.EndYear,
				RegistrationKey: cfg.API.Key,
			})
			if err != nil {
				return err
			}

			paths, err := stats.SaveSeries(cfg.DownloadDir, resp)
			if err != nil {
				return err
			}
			for _, p := range paths {
				log.Info("saved", "file", p)
			}
			return nil
		},
	}
	cli.AddConfigFlag(cmd, &configPath)

	cli.Execute(cmd)
}

func init() {
	cli.SetupLog()
}
