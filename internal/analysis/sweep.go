package analysis

import (
	"context"
	"fmt"

	"github.com/ecodyn/forestlab/internal/sim"
)

// SweepPoint is one row of a local one-parameter sweep.
type SweepPoint struct {
	Param float64
	Peak  float64
}

// Sweep evaluates f at steps evenly spaced parameter values in
// [min, max] and returns (value, peak) pairs in axis order. Rows are
// independent and evaluated in parallel; the first failure cancels the
// rest.
func Sweep(ctx context.Context, min, max float64, steps, workers int, f func(v float64) (float64, error)) ([]SweepPoint, error) {
	if steps < 2 {
		return nil, fmt.Errorf("analysis: sweep needs at least 2 steps, got %d", steps)
	}
	if max <= min {
		return nil, fmt.Errorf("analysis: sweep range [%g,%g] is empty", min, max)
	}

	step := (max - min) / float64(steps-1)
	points := make([]SweepPoint, steps)

	err := sim.Batch(ctx, steps, workers, func(ctx context.Context, i int) error {
		v := min + float64(i)*step
		peak, err := f(v)
		if err != nil {
			return fmt.Errorf("sweep value %g: %w", v, err)
		}
		points[i] = SweepPoint{Param: v, Peak: peak}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}
