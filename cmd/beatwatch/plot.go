package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"beatwatch.beatmonitor.org/internal/parser"
	"beatwatch.beatmonitor.org/internal/visualize"
)

// plotCmd represents the plot command
var plotCmd = &cobra.Command{
	Use:   "plot [file]",
	Short: "Plot a raw file's heart rate or acceleration as HTML",
	Long: `Parse a single raw BEATwatch file and render one of its streams as a
standalone HTML page with an inline SVG plot.

Example:
  beatwatch plot ./data/03-01_time_21-13-42_a6ed_W023.hr -o hr.html
  beatwatch plot ./data/03-01_time_21-13-42_a6ed_W023.hr --stream accel --axis elapsed`,
	Args: cobra.ExactArgs(1),
	RunE: runPlot,
}

func init() {
	rootCmd.AddCommand(plotCmd)

	plotCmd.Flags().StringP("out", "o", "plot.html", "Output HTML file")
	plotCmd.Flags().String("stream", "hr", "Stream to plot (hr|accel)")
	plotCmd.Flags().String("axis", "absolute", "Time axis (absolute|elapsed)")
	plotCmd.Flags().String("timezone", "", "IANA timezone of the records (default UTC)")
	plotCmd.Flags().Float64("file-version", parser.DefaultFileVersion, "BEATwatch release that wrote the file")
	plotCmd.Flags().Bool("verbose", false, "Enable debug logging")
}

func runPlot(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	out, _ := cmd.Flags().GetString("out")
	stream, _ := cmd.Flags().GetString("stream")
	axisFlag, _ := cmd.Flags().GetString("axis")
	timezone, _ := cmd.Flags().GetString("timezone")
	fileVersion, _ := cmd.Flags().GetFloat64("file-version")
	verbose, _ := cmd.Flags().GetBool("verbose")

	var axis parser.Axis
	switch strings.ToLower(axisFlag) {
	case "absolute":
		axis = parser.AxisAbsolute
	case "elapsed":
		axis = parser.AxisElapsed
	default:
		return fmt.Errorf("unknown axis %q (want absolute or elapsed)", axisFlag)
	}

	logger := newLogger(verbose)

	p, err := parser.New(timezone, logger)
	if err != nil {
		return err
	}

	rec, err := p.ParseFile(args[0], fileVersion)
	if err != nil {
		return err
	}

	var plot *visualize.Plot
	switch strings.ToLower(stream) {
	case "hr", "heart-rate":
		plot = visualize.NewHeartRatePlot(rec, axis)
	case "accel", "accelerometer":
		plot = visualize.NewAccelPlot(rec, axis)
	default:
		return fmt.Errorf("unknown stream %q (want hr or accel)", stream)
	}

	if err := plot.Save(out, logger); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", out)
	return nil
}
