// Package forest implements the threshold-switched biomass growth
// model: exponential growth while the stand is establishing, logistic
// growth once canopy competition sets in.
package forest

import "github.com/ecodyn/forestlab/internal/sim"

// Stand is the growth dynamics of a single forest stand. State is
// one-dimensional: carbon stock C at index 0.
//
// The rate law switches on a biomass threshold:
//
//	dC/dt = r*C            when C < thresh
//	dC/dt = g*C*(1 - C/K)  when C >= thresh
//
// Above K the logistic rate goes non-positive, so the stock saturates
// or decays back toward K. Transient overshoot past K is a property of
// the chosen step size and is left uncorrected.
type Stand struct {
	Params Params
}

func New(p Params) *Stand {
	return &Stand{Params: p}
}

func (s *Stand) StateDim() int { return 1 }

// Derivative is a pure function of (t, x) and may be called at
// arbitrary off-grid times by adaptive steppers.
func (s *Stand) Derivative(t float64, x sim.State) sim.State {
	c := x[0]
	if c < s.Params.Threshold {
		return sim.State{s.Params.GrowthRate * c}
	}
	return sim.State{s.Params.LogisticRate * c * (1 - c/s.Params.Capacity)}
}
