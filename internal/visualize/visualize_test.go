package visualize

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beatwatch.beatmonitor.org/internal/logging"
	"beatwatch.beatmonitor.org/internal/models"
	"beatwatch.beatmonitor.org/internal/parser"
)

func testRecording() *models.Recording {
	start := time.UnixMilli(1740863622000).UTC()
	return &models.Recording{
		ID: "rec",
		HeartRate: []models.HeartRateSample{
			{TimeElapsed: 40 * time.Millisecond, TimeAbsolute: start.Add(40 * time.Millisecond), BPM: 72},
			{TimeElapsed: 80 * time.Millisecond, TimeAbsolute: start.Add(80 * time.Millisecond), BPM: 75},
			{TimeElapsed: 120 * time.Millisecond, TimeAbsolute: start.Add(120 * time.Millisecond), BPM: 74},
		},
		Accel: []models.AccelSample{
			{TimeElapsed: 40 * time.Millisecond, TimeAbsolute: start.Add(40 * time.Millisecond), Magnitude: 1021},
			{TimeElapsed: 80 * time.Millisecond, TimeAbsolute: start.Add(80 * time.Millisecond), Magnitude: 1019},
		},
	}
}

func TestHeartRatePlotRender(t *testing.T) {
	plot := NewHeartRatePlot(testRecording(), parser.AxisAbsolute)

	var buf bytes.Buffer
	require.NoError(t, plot.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "<svg")
	assert.Contains(t, html, "<polyline")
	assert.Contains(t, html, "rec: heart rate")
	assert.Contains(t, html, "Time (absolute)")
	assert.Contains(t, html, "bpm")
	// Axis labels span the bpm range.
	assert.Contains(t, html, ">72<")
	assert.Contains(t, html, ">75<")
}

func TestHeartRatePlotElapsedAxis(t *testing.T) {
	plot := NewHeartRatePlot(testRecording(), parser.AxisElapsed)

	var buf bytes.Buffer
	require.NoError(t, plot.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "Time (elapsed)")
	assert.Contains(t, html, "40ms")
	assert.Contains(t, html, "120ms")
}

func TestAccelPlotRender(t *testing.T) {
	plot := NewAccelPlot(testRecording(), parser.AxisAbsolute)

	var buf bytes.Buffer
	require.NoError(t, plot.Render(&buf))

	assert.Contains(t, buf.String(), "rec: acceleration magnitude")
}

func TestRenderEmptyStream(t *testing.T) {
	plot := NewHeartRatePlot(&models.Recording{ID: "empty"}, parser.AxisAbsolute)

	var buf bytes.Buffer
	assert.ErrorIs(t, plot.Render(&buf), ErrNoData)
}

func TestSaveWritesFile(t *testing.T) {
	logger := logging.NewStructuredLogger(io.Discard, slog.LevelDebug)
	path := filepath.Join(t.TempDir(), "hr.html")

	plot := NewHeartRatePlot(testRecording(), parser.AxisAbsolute)
	require.NoError(t, plot.Save(path, logger))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<svg")
}
