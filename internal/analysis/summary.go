package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary is the distribution shape a box plot consumes.
type Summary struct {
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
	Mean   float64
	StdDev float64
	N      int
}

// Summarize computes the five-number summary plus mean and standard
// deviation of xs. Empty input yields a Summary of NaNs.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		nan := math.NaN()
		return Summary{Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan, Mean: nan, StdDev: nan}
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	return Summary{
		Min:    sorted[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.StdDev(sorted, nil),
		N:      len(xs),
	}
}
