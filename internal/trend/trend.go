// Package trend fits linear trends to polarization series and labels
// them against configured thresholds.
package trend

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Fit holds the fitted line and summary statistics for one series, or
// the arithmetic mean of several such fits (see Mean).
type Fit struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	Variance  float64 `json:"variance"` // variance of residuals around the fitted line

	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Delta float64 `json:"delta"` // End - Start
	Max   float64 `json:"max"`

	Steps int `json:"steps"`
}

// FitSeries fits a least-squares line to the series over x = 0..n-1 and
// computes its summary statistics. The fit is deterministic: identical
// input always produces an identical Fit.
func FitSeries(series []float64) (Fit, error) {
	if len(series) < 2 {
		return Fit{}, fmt.Errorf("series has %d points, need at least 2", len(series))
	}

	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, series, nil, false)

	residuals := make([]float64, len(series))
	for i, y := range series {
		residuals[i] = y - (alpha + beta*xs[i])
	}

	f := Fit{
		Intercept: alpha,
		Slope:     beta,
		Variance:  stat.Variance(residuals, nil),
		Start:     series[0],
		End:       series[len(series)-1],
		Delta:     series[len(series)-1] - series[0],
		Max:       series[0],
		Steps:     len(series),
	}
	for _, y := range series {
		if y > f.Max {
			f.Max = y
		}
	}
	return f, nil
}

// Mean returns the arithmetic mean of the fits, field by field. Steps
// is averaged and rounded down; repetitions of a condition normally
// share the same length anyway.
func Mean(fits []Fit) (Fit, error) {
	if len(fits) == 0 {
		return Fit{}, fmt.Errorf("no fits to average")
	}
	var m Fit
	var steps int
	for _, f := range fits {
		m.Intercept += f.Intercept
		m.Slope += f.Slope
		m.Variance += f.Variance
		m.Start += f.Start
		m.End += f.End
		m.Delta += f.Delta
		m.Max += f.Max
		steps += f.Steps
	}
	n := float64(len(fits))
	m.Intercept /= n
	m.Slope /= n
	m.Variance /= n
	m.Start /= n
	m.End /= n
	m.Delta /= n
	m.Max /= n
	m.Steps = steps / len(fits)
	return m, nil
}

// Thresholds are the classification cutoffs. They are configuration
// tied to the study's reported tables, never inferred from data.
type Thresholds struct {
	MinSlope    float64 `json:"min_slope" yaml:"min_slope"`
	MinDelta    float64 `json:"min_delta" yaml:"min_delta"`
	MaxVariance float64 `json:"max_variance" yaml:"max_variance"`
}

// DefaultThresholds returns the cutoffs used for the study's tables.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinSlope:    0.01,
		MinDelta:    0.5,
		MaxVariance: 10.0,
	}
}

// Polarizing labels a fit: the trend must rise steadily (slope and
// endpoint delta above their minimums) without excessive noise
// (residual variance below its maximum).
func (t Thresholds) Polarizing(f Fit) bool {
	return f.Slope >= t.MinSlope && f.Delta >= t.MinDelta && f.Variance <= t.MaxVariance
}
