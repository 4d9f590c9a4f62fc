package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"beatwatch.beatmonitor.org/internal/beatwatch"
	"beatwatch.beatmonitor.org/internal/parser"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [dir]",
	Short: "Extract raw files into per-stream CSV files",
	Long: `Parse every raw file in the given directory and write the extracted data
under dir/extracted/<recording-id>/: heart_rate.csv, accel.csv and survey.csv
for the streams present, plus metadata.json.

Example:
  beatwatch extract ./data
  beatwatch extract ./data --recursive=false --timezone America/Toronto`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Bool("recursive", true, "Also extract files in subdirectories")
	extractCmd.Flags().String("timezone", "", "IANA timezone of the records (default UTC)")
	extractCmd.Flags().Float64("file-version", parser.DefaultFileVersion, "BEATwatch release that wrote the files")
	extractCmd.Flags().Bool("verbose", false, "Enable debug logging")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	recursive, _ := cmd.Flags().GetBool("recursive")
	timezone, _ := cmd.Flags().GetString("timezone")
	fileVersion, _ := cmd.Flags().GetFloat64("file-version")
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger := newLogger(verbose)

	p, err := parser.New(timezone, logger)
	if err != nil {
		return err
	}

	count, err := beatwatch.ExtractRawFiles(p, args[0], recursive, fileVersion, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Extracted %d file(s) to %s\n", count, args[0]+"/"+beatwatch.ExtractedDirName)
	return nil
}
