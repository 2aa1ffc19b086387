// Package plot renders the study's figures as PNG charts.
package plot

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/opdyn/polsweep/internal/aggregate"
)

// Options controls chart dimensions. Zero values fall back to the
// library defaults.
type Options struct {
	Width  int
	Height int
}

var (
	seriesColor = drawing.Color{R: 54, G: 100, B: 169, A: 255}
	fitColor    = drawing.Color{R: 204, G: 64, B: 59, A: 255}
	barColor    = drawing.Color{R: 80, G: 144, B: 103, A: 255}
)

// TrendChart draws a condition's mean polarization series with its
// averaged fitted line overlaid.
func TrendChart(w io.Writer, rec aggregate.Record, opts Options) error {
	if len(rec.MeanSeries) < 2 {
		return fmt.Errorf("condition %s: mean series has %d points, need at least 2", rec.Key(), len(rec.MeanSeries))
	}

	xs := make([]float64, len(rec.MeanSeries))
	fitted := make([]float64, len(rec.MeanSeries))
	for i := range xs {
		xs[i] = float64(i)
		fitted[i] = rec.Fit.Intercept + rec.Fit.Slope*xs[i]
	}

	label := "nonpolarizing"
	if rec.Polarizing {
		label = "polarizing"
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s (%s)", rec.Key(), label),
		Width:  opts.Width,
		Height: opts.Height,
		XAxis:  chart.XAxis{Name: "step"},
		YAxis:  chart.YAxis{Name: "polarization"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "mean of repetitions",
				XValues: xs,
				YValues: rec.MeanSeries,
				Style:   chart.Style{StrokeColor: seriesColor, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("fit (slope %.4f)", rec.Fit.Slope),
				XValues: xs,
				YValues: fitted,
				Style:   chart.Style{StrokeColor: fitColor, StrokeWidth: 1.5, StrokeDashArray: []float64{4, 4}},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering trend chart: %w", err)
	}
	return nil
}

// ShareChart draws the polarizing share per value of a parameter field
// as a bar chart.
func ShareChart(w io.Writer, field string, shares []aggregate.Share, opts Options) error {
	if len(shares) == 0 {
		return fmt.Errorf("no shares to plot for field %s", field)
	}

	bars := make([]chart.Value, 0, len(shares))
	for _, s := range shares {
		bars = append(bars, chart.Value{
			Label: s.Value,
			Value: s.Share,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Polarizing share by %s", field),
		Width:    opts.Width,
		Height:   opts.Height,
		BarWidth: 48,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering share chart: %w", err)
	}
	return nil
}
