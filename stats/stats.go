// Package stats holds the numeric helpers behind the dashboard charts:
// equal-width histogram binning and a least-squares line fit.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientSample is returned when a fit is requested over fewer than
// two points, or over points that all share one x value.
var ErrInsufficientSample = errors.New("insufficient sample for regression")

// MinFitSample is the smallest number of points LinearFit accepts.
const MinFitSample = 2

// DefaultBins matches the bin count the point-difference chart uses.
const DefaultBins = 10

type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram splits values into equal-width bins spanning [min, max]. The last
// bin is closed on the right so the maximum is counted. A single distinct
// value spans [v-0.5, v+0.5]. No values means no bins.
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 {
		return nil
	}
	if bins < 1 {
		bins = 1
	}
	x := append([]float64(nil), values...)
	sort.Float64s(x)
	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	edges[bins] = hi
	dividers := append([]float64(nil), edges...)
	// stat.Histogram treats every bin as half-open.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, x, nil)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lo: edges[i], Hi: edges[i+1], Count: int(counts[i])}
	}
	return out
}

// Fit is a least-squares line y = Intercept + Slope*x.
type Fit struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
	N         int     `json:"n"`
}

func (f Fit) At(x float64) float64 { return f.Intercept + f.Slope*x }

func LinearFit(x, y []float64) (Fit, error) {
	if len(x) != len(y) {
		return Fit{}, fmt.Errorf("linear fit: %d x values, %d y values", len(x), len(y))
	}
	if len(x) < MinFitSample {
		return Fit{}, fmt.Errorf("%w: %d point(s), need at least %d", ErrInsufficientSample, len(x), MinFitSample)
	}
	if floats.Min(x) == floats.Max(x) {
		return Fit{}, fmt.Errorf("%w: all x values equal %g", ErrInsufficientSample, x[0])
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, alpha, beta)
	if math.IsNaN(r2) {
		// constant y: the line is exact but R² is 0/0
		r2 = 1
	}
	return Fit{Intercept: alpha, Slope: beta, RSquared: r2, N: len(x)}, nil
}
