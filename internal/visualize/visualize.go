// Package visualize renders recording streams as standalone HTML pages with
// an inline SVG line plot, viewable without any client-side dependencies.
package visualize

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"beatwatch.beatmonitor.org/internal/logging"
	"beatwatch.beatmonitor.org/internal/models"
	"beatwatch.beatmonitor.org/internal/parser"
)

// ErrNoData is returned when the selected stream has nothing to plot.
var ErrNoData = errors.New("no data to plot")

const (
	plotWidth  = 1000
	plotHeight = 400

	marginLeft   = 60
	marginRight  = 20
	marginTop    = 30
	marginBottom = 50
)

// Point is one plotted sample. X is milliseconds on the chosen axis.
type Point struct {
	X int64
	Y float64
}

// Plot describes a single time series rendered as an SVG curve.
type Plot struct {
	Title  string
	YLabel string
	Axis   parser.Axis

	points []Point
}

// NewHeartRatePlot plots bpm over time for a recording.
func NewHeartRatePlot(rec *models.Recording, axis parser.Axis) *Plot {
	points := make([]Point, 0, len(rec.HeartRate))
	for _, s := range rec.HeartRate {
		points = append(points, Point{X: axisMillis(axis, s.TimeElapsed, s.TimeAbsolute), Y: float64(s.BPM)})
	}
	return &Plot{
		Title:  fmt.Sprintf("%s: heart rate", rec.ID),
		YLabel: "bpm",
		Axis:   axis,
		points: points,
	}
}

// NewAccelPlot plots acceleration magnitude over time for a recording.
func NewAccelPlot(rec *models.Recording, axis parser.Axis) *Plot {
	points := make([]Point, 0, len(rec.Accel))
	for _, s := range rec.Accel {
		points = append(points, Point{X: axisMillis(axis, s.TimeElapsed, s.TimeAbsolute), Y: float64(s.Magnitude)})
	}
	return &Plot{
		Title:  fmt.Sprintf("%s: acceleration magnitude", rec.ID),
		YLabel: "magnitude",
		Axis:   axis,
		points: points,
	}
}

func axisMillis(axis parser.Axis, elapsed time.Duration, absolute time.Time) int64 {
	if axis == parser.AxisElapsed {
		return elapsed.Milliseconds()
	}
	return absolute.UnixMilli()
}

// plotData is the resolved geometry handed to the template.
type plotData struct {
	Title  string
	XLabel string
	YLabel string
	Width  int
	Height int

	Polyline template.HTMLAttr
	XMin     string
	XMax     string
	YMin     string
	YMax     string

	// Plot area corners, for the axis lines.
	Left, Right, Top, Bottom int
}

var pageTemplate = template.Must(template.New("plot").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" font-family="sans-serif" font-size="12">
  <text x="{{.Left}}" y="18" font-size="16">{{.Title}}</text>
  <line x1="{{.Left}}" y1="{{.Bottom}}" x2="{{.Right}}" y2="{{.Bottom}}" stroke="black"/>
  <line x1="{{.Left}}" y1="{{.Top}}" x2="{{.Left}}" y2="{{.Bottom}}" stroke="black"/>
  <polyline fill="none" stroke="#1f77b4" stroke-width="1.5" {{.Polyline}}/>
  <text x="{{.Left}}" y="{{.Height}}" dy="-30" transform="rotate(45 {{.Left}} {{.Bottom}})">{{.XMin}}</text>
  <text x="{{.Right}}" y="{{.Height}}" dy="-30" text-anchor="end" transform="rotate(45 {{.Right}} {{.Bottom}})">{{.XMax}}</text>
  <text x="{{.Left}}" y="{{.Bottom}}" dx="-8" text-anchor="end">{{.YMin}}</text>
  <text x="{{.Left}}" y="{{.Top}}" dx="-8" dy="4" text-anchor="end">{{.YMax}}</text>
  <text x="12" y="{{.Top}}" dy="-8">{{.YLabel}}</text>
  <text x="{{.Right}}" y="{{.Height}}" dy="-4" text-anchor="end">{{.XLabel}}</text>
</svg>
</body>
</html>
`))

// Render writes the plot as a standalone HTML page.
func (p *Plot) Render(w io.Writer) error {
	if len(p.points) == 0 {
		return ErrNoData
	}

	xMin, xMax := p.points[0].X, p.points[0].X
	yMin, yMax := p.points[0].Y, p.points[0].Y
	for _, pt := range p.points[1:] {
		if pt.X < xMin {
			xMin = pt.X
		}
		if pt.X > xMax {
			xMax = pt.X
		}
		if pt.Y < yMin {
			yMin = pt.Y
		}
		if pt.Y > yMax {
			yMax = pt.Y
		}
	}

	left, right := marginLeft, plotWidth-marginRight
	top, bottom := marginTop, plotHeight-marginBottom

	scaleX := func(x int64) float64 {
		if xMax == xMin {
			return float64(left+right) / 2
		}
		return float64(left) + float64(x-xMin)/float64(xMax-xMin)*float64(right-left)
	}
	scaleY := func(y float64) float64 {
		if yMax == yMin {
			return float64(top+bottom) / 2
		}
		return float64(bottom) - (y-yMin)/(yMax-yMin)*float64(bottom-top)
	}

	var coords strings.Builder
	for i, pt := range p.points {
		if i > 0 {
			coords.WriteByte(' ')
		}
		fmt.Fprintf(&coords, "%.1f,%.1f", scaleX(pt.X), scaleY(pt.Y))
	}

	data := plotData{
		Title:    p.Title,
		XLabel:   p.xLabel(),
		YLabel:   p.YLabel,
		Width:    plotWidth,
		Height:   plotHeight,
		Polyline: template.HTMLAttr(fmt.Sprintf(`points=%q`, coords.String())),
		XMin:     p.formatX(xMin),
		XMax:     p.formatX(xMax),
		YMin:     formatFloat(yMin),
		YMax:     formatFloat(yMax),
		Left:     left,
		Right:    right,
		Top:      top,
		Bottom:   bottom,
	}

	return pageTemplate.Execute(w, data)
}

// Save renders the plot to an HTML file.
func (p *Plot) Save(path string, logger *slog.Logger) (err error) {
	f, createErr := os.Create(path)
	if createErr != nil {
		return fmt.Errorf("creating %s: %w", path, createErr)
	}
	defer logging.HandleDeferredError(&err, f.Close, logger, "close_plot_file")

	return p.Render(f)
}

func (p *Plot) xLabel() string {
	if p.Axis == parser.AxisElapsed {
		return "Time (elapsed)"
	}
	return "Time (absolute)"
}

func (p *Plot) formatX(ms int64) string {
	if p.Axis == parser.AxisElapsed {
		return (time.Duration(ms) * time.Millisecond).String()
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}

func formatFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
