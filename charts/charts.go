// Package charts renders the dashboard figures to PNG with go-chart.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"superbowl-dash/report"
	"superbowl-dash/stats"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to plot")

const (
	Width  = 800
	Height = 400
)

var (
	barColor     = drawing.ColorFromHex("648FFF")
	pointColor   = drawing.ColorFromHex("648FFF")
	fitColor     = drawing.ColorFromHex("DC267F")
	seriesColors = []drawing.Color{
		drawing.ColorFromHex("648FFF"),
		drawing.ColorFromHex("DC267F"),
		drawing.ColorFromHex("FFB000"),
	}
)

// Labels are the axis and title text of one figure.
type Labels struct {
	Title string
	X     string
	Y     string
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func binLabel(b stats.Bin) string {
	return strconv.FormatFloat(b.Lo, 'f', 1, 64) + "-" + strconv.FormatFloat(b.Hi, 'f', 1, 64)
}

// Histogram draws one bar per bin.
func Histogram(w io.Writer, bins []stats.Bin, l Labels) error {
	if len(bins) == 0 {
		return ErrNoData
	}
	bars := make([]chart.Value, len(bins))
	for i, b := range bins {
		bars[i] = chart.Value{
			Value: float64(b.Count),
			Label: binLabel(b),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
	}
	bc := chart.BarChart{
		Title:      l.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      Width,
		Height:     Height,
		BarWidth:   barWidth(len(bins)),
		BarSpacing: barWidth(len(bins)) / 3,
		XAxis:      chart.Style{FontSize: 8},
		YAxis:      chart.YAxis{Name: l.Y, Range: &chart.ContinuousRange{Min: 0, Max: maxCount(bins)}},
		Bars:       bars,
	}
	return render(w, func(buf io.Writer) error { return bc.Render(chart.PNG, buf) })
}

func barWidth(n int) int {
	w := (Width - 80) / n * 3 / 4
	if w < 4 {
		return 4
	}
	return w
}

func maxCount(bins []stats.Bin) float64 {
	most := 1
	for _, b := range bins {
		if b.Count > most {
			most = b.Count
		}
	}
	return float64(most)
}

// RegressionScatter plots the points and, when fit is non-nil, the fitted
// line across the observed x range.
func RegressionScatter(w io.Writer, s report.Scatter, fit *stats.Fit, l Labels) error {
	if len(s.X) == 0 {
		return ErrNoData
	}
	series := []chart.Series{
		chart.ContinuousSeries{Name: s.YName, XValues: s.X, YValues: s.Y, Style: pointStyle(pointColor)},
	}
	lo, hi := bounds(s.X)
	if fit != nil {
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("fit (R²=%.2f)", fit.RSquared),
			XValues: []float64{lo, hi},
			YValues: []float64{fit.At(lo), fit.At(hi)},
			Style:   chart.Style{StrokeColor: fitColor, StrokeWidth: 2},
		})
	}
	ylo, yhi := bounds(s.Y)
	ch := chart.Chart{
		Title:      l.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      Width,
		Height:     Height,
		XAxis:      chart.XAxis{Name: l.X, Range: padded(lo, hi)},
		YAxis:      chart.YAxis{Name: l.Y, Range: padded(ylo, yhi)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return render(w, func(buf io.Writer) error { return ch.Render(chart.PNG, buf) })
}

// TimeSeries draws one line chart for a single series.
func TimeSeries(w io.Writer, s report.Series, color int, l Labels) error {
	if len(s.X) == 0 {
		return ErrNoData
	}
	lo, hi := bounds(s.X)
	ylo, yhi := bounds(s.Y)
	col := seriesColors[color%len(seriesColors)]
	ch := chart.Chart{
		Title:      l.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      Width,
		Height:     Height / 2,
		XAxis:      chart.XAxis{Name: l.X, Range: padded(lo, hi)},
		YAxis:      chart.YAxis{Name: l.Y, Range: padded(ylo, yhi)},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: s.Name, XValues: s.X, YValues: s.Y, Style: chart.Style{StrokeColor: col, StrokeWidth: 2}},
		},
	}
	return render(w, func(buf io.Writer) error { return ch.Render(chart.PNG, buf) })
}

// render buffers the PNG so a failed render writes nothing to w.
func render(w io.Writer, draw func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func bounds(vs []float64) (float64, float64) {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// padded widens a zero-width range; go-chart refuses to draw one.
func padded(lo, hi float64) *chart.ContinuousRange {
	if lo == hi {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}
