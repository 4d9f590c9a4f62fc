package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"beatwatch.beatmonitor.org/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:     "beatwatch",
	Version: "0.1.0",
	Short:   "BEATwatch raw data processor",
	Long: `Process raw data files written by the BEATwatch wearable application.

Raw files interleave JSON metadata, survey responses and CSV sensor rows.
beatwatch parses them into recordings, stores them in SQLite, and can serve
them over a REST API, extract them to per-stream CSV files, or plot them.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// newLogger builds the process-wide JSON logger.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return logging.NewStructuredLogger(os.Stdout, level)
}

// quietLogger discards everything, for commands whose stdout is the result.
func quietLogger() *slog.Logger {
	return logging.NewStructuredLogger(io.Discard, slog.LevelInfo)
}
