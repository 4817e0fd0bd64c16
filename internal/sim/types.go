package sim

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Dynamics is an ODE right-hand side: dX/dt = f(t, X).
// Implementations must be pure functions of their inputs and callable
// at arbitrary (possibly off-grid) time values.
type Dynamics interface {
	Derivative(t float64, x State) State
	StateDim() int
}

// Integrator advances a state by one step of size dt.
type Integrator interface {
	Step(dyn Dynamics, x State, t, dt float64) State
}

// AdaptiveIntegrator additionally proposes a step size for the next
// step based on a local error estimate.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn Dynamics, x State, t, dt, tol float64) (next State, dtNext float64, err error)
}

// Metric accumulates a scalar summary over the reported output rows of
// a run. Metrics are Reset at the start of each run and collected into
// Result.Metrics afterwards.
type Metric interface {
	Name() string
	Observe(t float64, x State)
	Value() float64
	Reset()
}

type Config struct {
	Start         float64 // time of the initial condition
	MaxStep       float64 // internal substep ceiling between output times
	MinStep       float64 // adaptive stepping floor
	Tolerance     float64 // local error tolerance for adaptive stepping
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Start:         0,
		MaxStep:       0.1,
		MinStep:       1e-8,
		Tolerance:     1e-6,
		Adaptive:      false,
		ValidateState: true,
	}
}

// Result is one trajectory: state rows aligned to the requested output
// times, plus any metric summaries observed along the way.
type Result struct {
	Times   []float64
	States  []State
	Metrics map[string]float64
	Steps   int // internal integration steps taken
}

// Final returns the last value of state component i, or NaN when the
// trajectory is empty.
func (r *Result) Final(i int) float64 {
	if len(r.States) == 0 || i >= len(r.States[len(r.States)-1]) {
		return math.NaN()
	}
	return r.States[len(r.States)-1][i]
}

// Component copies state component i across all rows.
func (r *Result) Component(i int) []float64 {
	out := make([]float64, len(r.States))
	for j, s := range r.States {
		if i < len(s) {
			out[j] = s[i]
		}
	}
	return out
}

// Grid returns the integer-spaced output times from t0 to t1 inclusive,
// the grid the reference scenario reports on.
func Grid(t0, t1 int) []float64 {
	if t1 < t0 {
		return nil
	}
	ts := make([]float64, 0, t1-t0+1)
	for t := t0; t <= t1; t++ {
		ts = append(ts, float64(t))
	}
	return ts
}
