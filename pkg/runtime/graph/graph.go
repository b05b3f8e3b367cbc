// Package graph renders report series as PNG or SVG charts.
package graph

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/de-tools/sim-reporting/pkg/services/aggregate"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an image output format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// Formats lists the supported image formats.
var Formats = []Format{PNG, SVG}

var errNoData = errors.New("nothing to plot")

// ParseFormat accepts a format name in any case.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported graph format %q, expected one of %v", name, Formats)
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Size is the canvas size in pixels.
type Size struct {
	Width  int
	Height int
}

var DefaultSize = Size{Width: 1024, Height: 640}

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorCyan,
	chart.ColorYellow,
	chart.ColorAlternateGray,
}

func seriesColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
}

// paddedRange returns an axis range that go-chart can render even when lo == hi.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	if hi-lo == 0 {
		pad := math.Abs(lo) * 0.05
		if pad == 0 {
			pad = 1
		}
		return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func render(w io.Writer, f Format, r interface {
	Render(chart.RendererProvider, io.Writer) error
}) error {
	if err := r.Render(f.provider(), w); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", f, err)
	}
	return nil
}

// LineChart is one line per series, sharing both axes.
type LineChart struct {
	Title  string
	XLabel string
	YLabel string
	Series []aggregate.Series
}

// Render writes the chart to w.
func (lc LineChart) Render(w io.Writer, f Format, size Size) error {
	series := make([]chart.Series, 0, len(lc.Series))
	xlo, xhi := math.Inf(1), math.Inf(-1)
	ylo, yhi := math.Inf(1), math.Inf(-1)
	for i, s := range lc.Series {
		xs, ys := finitePoints(s.X, s.Y)
		if len(xs) == 0 {
			continue
		}
		for j := range xs {
			xlo, xhi = math.Min(xlo, xs[j]), math.Max(xhi, xs[j])
			ylo, yhi = math.Min(ylo, ys[j]), math.Max(yhi, ys[j])
		}
		style := chart.Style{StrokeColor: seriesColor(i), StrokeWidth: 2}
		if len(xs) == 1 {
			style.DotColor = seriesColor(i)
			style.DotWidth = 4
		}
		series = append(series, chart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys, Style: style})
	}
	if len(series) == 0 {
		return errNoData
	}

	ch := chart.Chart{
		Title:      lc.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: background(),
		XAxis:      chart.XAxis{Name: lc.XLabel, Range: paddedRange(xlo, xhi)},
		YAxis:      chart.YAxis{Name: lc.YLabel, Range: paddedRange(ylo, yhi)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return render(w, f, &ch)
}

func finitePoints(x, y []float64) ([]float64, []float64) {
	var xs, ys []float64
	for i := range x {
		if i >= len(y) || math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

// Bar is one bar. Min and Max are shown in the label when they differ from Value.
type Bar struct {
	Label string
	Value float64
	Min   float64
	Max   float64
}

// BarChart plots one bar per scenario or per group.
type BarChart struct {
	Title  string
	YLabel string
	Bars   []Bar
	// FromZero starts the y axis at 0; otherwise the axis hugs the data.
	FromZero bool
}

// Render writes the chart to w.
func (bc BarChart) Render(w io.Writer, f Format, size Size) error {
	values := make([]chart.Value, 0, len(bc.Bars))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, b := range bc.Bars {
		if math.IsNaN(b.Value) {
			continue
		}
		lo, hi = math.Min(lo, b.Value), math.Max(hi, b.Value)
		values = append(values, chart.Value{
			Label: barLabel(b),
			Value: b.Value,
			Style: chart.Style{FillColor: seriesColor(i), StrokeColor: seriesColor(i)},
		})
	}
	if len(values) == 0 {
		return errNoData
	}

	yr := paddedRange(lo*0.98, hi*1.005)
	if bc.FromZero {
		yr = paddedRange(math.Min(0, lo), math.Max(0, hi))
	}

	ch := chart.BarChart{
		Title:      bc.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: background(),
		BarWidth:   barWidth(size.Width, len(values)),
		YAxis:      chart.YAxis{Name: bc.YLabel, Range: yr},
		Bars:       values,
	}
	return render(w, f, &ch)
}

func barLabel(b Bar) string {
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || (b.Min == b.Value && b.Max == b.Value) {
		return b.Label
	}
	return fmt.Sprintf("%s [%s..%s]", b.Label, formatFloat(b.Min), formatFloat(b.Max))
}

func formatFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}

func barWidth(width, n int) int {
	w := width / (2 * max(n, 1))
	return min(max(w, 8), 120)
}
