package main

import (
	"os"

	"github.com/anrid/bls-stats/pkg/cli"
	"github.com/anrid/bls-stats/pkg/config"
	"github.com/anrid/bls-stats/pkg/stats"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "fetch-files",
		Short:         "Download the Average Price flat files from the BLS listing",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			c := stats.NewClient(stats.ClientConfig{
				Timeout:   cfg.HTTP.Timeout,
				UserAgent: cfg.HTTP.UserAgent,
				Headers:   cfg.HTTP.Headers,
			})

			files, err := c.DownloadFiles(cmd.Context(), stats.DownloadFilesArgs{
				ListingURL:    cfg.Listing.URL,
				Files:         cfg.Listing.Files,
				Dir:           cfg.DownloadDir,
				Delay:         cfg.Listing.Delay,
				RespectRobots: cfg.Listing.RespectRobots,
			})
			printSummary(files)
			return err
		},
	}
	cli.AddConfigFlag(cmd, &configPath)

	cli.Execute(cmd)
}

func printSummary(files []*stats.File) {
	p := message.NewPrinter(language.English)

	p.Println("\nDownload attempts completed.")
	for _, f := range files {
		switch f.Status {
		case stats.Downloaded:
			p.Fprintf(os.Stdout, "  %-26s %12d bytes\n", f.Name, f.Size)
		case stats.NotFound:
			p.Fprintf(os.Stdout, "  %-26s not found on the page\n", f.Name)
		default:
			p.Fprintf(os.Stdout, "  %-26s FAILED: %v\n", f.Name, f.Err)
		}
	}

	n := stats.CountByStatus(files)
	p.Printf("\nDownloaded: %d  Not found: %d  Failed: %d\n",
		n[stats.Downloaded], n[stats.NotFound], n[stats.Failed])
}

func init() {
	cli.SetupLog()
}
