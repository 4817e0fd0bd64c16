package sim

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	dyn     Dynamics
	integ   Integrator
	metrics []Metric
}

func New(dyn Dynamics, integ Integrator) *Simulator {
	return &Simulator{
		dyn:     dyn,
		integ:   integ,
		metrics: make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// Run integrates from x0 at cfg.Start and reports the state at every
// requested output time, in order. Each interval between output times
// is subdivided internally (MaxStep, or adaptive stepping when
// cfg.Adaptive is set); reported rows always land exactly on the
// requested times.
//
// Identical inputs produce identical output for a given integrator and
// step policy.
func (s *Simulator) Run(ctx context.Context, x0 State, times []float64, cfg Config) (*Result, error) {
	if err := s.validate(x0, times, cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Times:   make([]float64, 0, len(times)),
		States:  make([]State, 0, len(times)),
		Metrics: make(map[string]float64),
	}

	x := x0.Clone()
	t := cfg.Start
	dt := cfg.MaxStep

	for i, target := range times {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		var err error
		if cfg.Adaptive {
			x, dt, err = s.advanceAdaptive(x, t, target, dt, cfg, result)
		} else {
			x, err = s.advanceFixed(x, t, target, cfg, result)
		}
		if err != nil {
			return result, err
		}
		t = target

		if cfg.ValidateState && !x.IsValid() {
			return result, &IntegrationError{Time: target, Step: i, State: x.Clone(), Err: ErrNonFiniteState}
		}

		result.Times = append(result.Times, target)
		result.States = append(result.States, x.Clone())
		for _, m := range s.metrics {
			m.Observe(target, x)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validate(x0 State, times []float64, cfg Config) error {
	if cfg.MaxStep <= 0 {
		return fmt.Errorf("%w: MaxStep must be positive, got %g", ErrConfig, cfg.MaxStep)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("%w: Tolerance must be positive for adaptive stepping", ErrConfig)
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: got %d, dynamics wants %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if len(times) == 0 {
		return fmt.Errorf("%w: empty grid", ErrBadGrid)
	}
	prev := cfg.Start
	for i, tv := range times {
		if math.IsNaN(tv) || tv < prev || (i > 0 && tv == prev) {
			return fmt.Errorf("%w: t[%d]=%g after t=%g", ErrBadGrid, i, tv, prev)
		}
		prev = tv
	}
	return nil
}

// advanceFixed subdivides [t, target] into equal substeps no larger
// than MaxStep.
func (s *Simulator) advanceFixed(x State, t, target float64, cfg Config, res *Result) (State, error) {
	span := target - t
	if span == 0 {
		return x, nil
	}
	n := int(math.Ceil(span / cfg.MaxStep))
	if n < 1 {
		n = 1
	}
	h := span / float64(n)
	for i := 0; i < n; i++ {
		x = s.integ.Step(s.dyn, x, t+float64(i)*h, h)
		res.Steps++
	}
	return x, nil
}

// advanceAdaptive walks [t, target] with the integrator's suggested
// step sizes, clamped so the final substep lands on target.
func (s *Simulator) advanceAdaptive(x State, t, target, dt float64, cfg Config, res *Result) (State, float64, error) {
	adaptive, ok := s.integ.(AdaptiveIntegrator)
	if !ok {
		x, err := s.advanceFixed(x, t, target, cfg, res)
		return x, dt, err
	}

	for t < target {
		if dt <= 0 || dt > cfg.MaxStep {
			dt = cfg.MaxStep
		}
		if dt < cfg.MinStep {
			return x, dt, &IntegrationError{Time: t, Step: res.Steps, State: x.Clone(), Err: ErrStepTooSmall}
		}
		h := dt
		clamped := false
		if t+h > target {
			h = target - t
			clamped = true
		}
		next, dtNext, err := adaptive.StepAdaptive(s.dyn, x, t, h, cfg.Tolerance)
		if err != nil {
			return x, dt, &IntegrationError{Time: t, Step: res.Steps, State: x.Clone(), Err: err}
		}
		x = next
		t += h
		res.Steps++
		if !clamped {
			dt = dtNext
		}
	}
	return x, dt, nil
}
