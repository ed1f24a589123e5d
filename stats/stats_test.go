package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counts(bins []Bin) []int {
	out := make([]int, len(bins))
	for i, b := range bins {
		out[i] = b.Count
	}
	return out
}

func TestHistogramEqualWidth(t *testing.T) {
	bins := Histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	require.Len(t, bins, 5)
	assert.Equal(t, []int{2, 2, 2, 2, 3}, counts(bins))
	assert.Equal(t, 0.0, bins[0].Lo)
	assert.Equal(t, 10.0, bins[4].Hi)
}

func TestHistogramCountsEveryValue(t *testing.T) {
	diffs := []float64{14, 25, 9, 16, 3, 21, 7, 17, 10, 4, 18, 17, 4, 12, 17, 5, 10, 29, 22, 36, 19, 32, 4, 45, 1, 13, 35, 17, 23, 10, 14, 7, 15, 7, 27, 3, 27, 3, 3, 11, 12, 3, 4, 14, 22, 4, 3, 8, 13, 3, 1, 4}
	bins := Histogram(diffs, DefaultBins)
	total := 0
	for _, c := range counts(bins) {
		total += c
	}
	assert.Equal(t, len(diffs), total)
	assert.Equal(t, 1.0, bins[0].Lo)
	assert.Equal(t, 45.0, bins[len(bins)-1].Hi)
}

func TestHistogramSingleValue(t *testing.T) {
	bins := Histogram([]float64{3, 3, 3}, 2)
	require.Len(t, bins, 2)
	assert.Equal(t, 2.5, bins[0].Lo)
	assert.Equal(t, 3.5, bins[1].Hi)
	assert.Equal(t, []int{0, 3}, counts(bins))
}

func TestHistogramEmpty(t *testing.T) {
	assert.Nil(t, Histogram(nil, 10))
}

func TestHistogramDoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Histogram(in, 2)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestLinearFit(t *testing.T) {
	fit, err := LinearFit([]float64{1, 2, 3, 4}, []float64{3, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fit.Intercept, 1e-9)
	assert.InDelta(t, 2.0, fit.Slope, 1e-9)
	assert.InDelta(t, 1.0, fit.RSquared, 1e-9)
	assert.Equal(t, 4, fit.N)
	assert.InDelta(t, 21.0, fit.At(10), 1e-9)
}

func TestLinearFitConstantY(t *testing.T) {
	fit, err := LinearFit([]float64{1, 2}, []float64{5, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, fit.Slope, 1e-9)
	assert.Equal(t, 1.0, fit.RSquared)
}

func TestLinearFitInsufficientSample(t *testing.T) {
	_, err := LinearFit(nil, nil)
	assert.ErrorIs(t, err, ErrInsufficientSample)

	_, err = LinearFit([]float64{4}, []float64{60})
	assert.ErrorIs(t, err, ErrInsufficientSample)

	_, err = LinearFit([]float64{4, 4, 4}, []float64{60, 61, 62})
	assert.ErrorIs(t, err, ErrInsufficientSample)

	_, err = LinearFit([]float64{1, 2}, []float64{1})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientSample)
}
