// Package cli holds the pieces shared by the commands under cmd/.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/powerman/structlog"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitStorageFail = 2
)

// ExitError makes Execute exit with a specific status.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// SetupLog configures the default structured logger for a command.
// BLS_LOG_LEVEL selects the level, "inf" by default.
func SetupLog() {
	level := os.Getenv("BLS_LOG_LEVEL")
	if level == "" {
		level = "inf"
	}
	structlog.DefaultLogger.
		// Wrong level is not fatal, it will be reported and set to "debug".
		SetLogLevel(structlog.ParseLevel(level)).
		SetPrefixKeys(
			structlog.KeyApp, structlog.KeyPID, structlog.KeyLevel, structlog.KeyUnit, structlog.KeyTime,
		).
		SetDefaultKeyvals(
			structlog.KeyApp, filepath.Base(os.Args[0]),
			structlog.KeySource, structlog.Auto,
		).
		SetSuffixKeys(structlog.KeyStack).
		SetSuffixKeys(structlog.KeySource).
		SetKeysFormat(map[string]string{
			structlog.KeyTime:   " %[2]s",
			structlog.KeySource: " %6[2]s",
			structlog.KeyUnit:   " %6[2]s",
		}).SetTimeFormat("15:04:05")
}

// Execute runs cmd until it returns or the process is interrupted, then
// exits with the status carried by the returned error.
func Execute(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()

	os.Exit(ExitCode(err))
}

// ExitCode maps an error returned by a command to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	log := structlog.New()
	var exit *ExitError
	if errors.As(err, &exit) {
		log.PrintErr(exit.Err)
		return exit.Code
	}
	log.PrintErr(err)
	return ExitFailure
}

// AddConfigFlag registers the --config flag shared by every command.
func AddConfigFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVar(path, "config", "", "config file (default: ./config.yaml when present)")
}
