package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"beatwatch.beatmonitor.org/internal/models"
	"beatwatch.beatmonitor.org/internal/parser"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Parse one raw file and print its metadata",
	Long: `Parse a single raw BEATwatch file and print its metadata and stream
summary as JSON.

Example:
  beatwatch inspect ./data/03-01_time_21-13-42_a6ed_W023.hr`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().String("timezone", "", "IANA timezone of the records (default UTC)")
	inspectCmd.Flags().Float64("file-version", parser.DefaultFileVersion, "BEATwatch release that wrote the file")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	timezone, _ := cmd.Flags().GetString("timezone")
	fileVersion, _ := cmd.Flags().GetFloat64("file-version")

	// Parse warnings would pollute the JSON output.
	p, err := parser.New(timezone, quietLogger())
	if err != nil {
		return err
	}

	rec, err := p.ParseFile(args[0], fileVersion)
	if err != nil {
		return err
	}

	out := struct {
		Summary  models.RecordingSummary `json:"summary"`
		Metadata models.Metadata         `json:"metadata"`
	}{
		Summary:  rec.Summarize(),
		Metadata: rec.Metadata,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
