package forest

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter indicates a parameter set that cannot produce a
// well-defined growth rate (zero capacity, negative rates, threshold at
// or above capacity).
var ErrInvalidParameter = errors.New("forest: invalid parameter")

// Dim is the number of growth parameters.
const Dim = 4

// Names gives the canonical parameter order used everywhere a
// parameter set is flattened to a vector: sample matrices, sensitivity
// indices, sweep axes.
var Names = [Dim]string{"r", "K", "g", "thresh"}

// Params is the immutable parameter tuple of the growth law.
type Params struct {
	GrowthRate   float64 // r: exponential rate below the threshold
	Capacity     float64 // K: carrying capacity
	LogisticRate float64 // g: logistic rate at or above the threshold
	Threshold    float64 // biomass at which the regime switches
}

// DefaultParams returns the reference stand parameterization.
func DefaultParams() Params {
	return Params{
		GrowthRate:   0.01,
		Capacity:     250,
		LogisticRate: 2,
		Threshold:    50,
	}
}

// Validate reports ErrInvalidParameter for tuples that make the rate
// function degenerate. Clamped Monte Carlo draws are deliberately not
// passed through here; the integrator surfaces any resulting non-finite
// state instead.
func (p Params) Validate() error {
	if p.GrowthRate <= 0 {
		return fmt.Errorf("%w: growth rate r=%g must be positive", ErrInvalidParameter, p.GrowthRate)
	}
	if p.Capacity <= 0 {
		return fmt.Errorf("%w: capacity K=%g must be positive", ErrInvalidParameter, p.Capacity)
	}
	if p.LogisticRate <= 0 {
		return fmt.Errorf("%w: logistic rate g=%g must be positive", ErrInvalidParameter, p.LogisticRate)
	}
	if p.Threshold <= 0 || p.Threshold >= p.Capacity {
		return fmt.Errorf("%w: threshold=%g must lie in (0, K=%g)", ErrInvalidParameter, p.Threshold, p.Capacity)
	}
	return nil
}

// Vector flattens the tuple in canonical order.
func (p Params) Vector() []float64 {
	return []float64{p.GrowthRate, p.Capacity, p.LogisticRate, p.Threshold}
}

// FromVector rebuilds a tuple from canonical order.
func FromVector(v []float64) (Params, error) {
	if len(v) != Dim {
		return Params{}, fmt.Errorf("%w: want %d values, got %d", ErrInvalidParameter, Dim, len(v))
	}
	return Params{
		GrowthRate:   v[0],
		Capacity:     v[1],
		LogisticRate: v[2],
		Threshold:    v[3],
	}, nil
}
