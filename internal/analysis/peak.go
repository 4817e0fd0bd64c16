package analysis

import "math"

// Peak returns the maximum of xs, wherever it occurs. A monotone
// trajectory peaks at its final point; no special-casing either way.
// Empty input returns NaN.
func Peak(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	max := xs[0]
	for _, v := range xs[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// PeakAt returns the peak value together with the time it was
// reported at. Ties resolve to the earliest occurrence.
func PeakAt(times, xs []float64) (t, v float64) {
	if len(xs) == 0 || len(times) != len(xs) {
		return math.NaN(), math.NaN()
	}
	ti, max := times[0], xs[0]
	for i := 1; i < len(xs); i++ {
		if xs[i] > max {
			ti, max = times[i], xs[i]
		}
	}
	return ti, max
}

// TimeToThreshold returns the first reported time with xs >= level, or
// NaN when the trajectory never reaches it.
func TimeToThreshold(times, xs []float64, level float64) float64 {
	for i, v := range xs {
		if v >= level {
			return times[i]
		}
	}
	return math.NaN()
}
