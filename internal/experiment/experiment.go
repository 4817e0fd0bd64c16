// Package experiment wires a configured scenario to the model, the
// integrator registry and the sensitivity pipeline.
package experiment

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ecodyn/forestlab/internal/analysis"
	"github.com/ecodyn/forestlab/internal/config"
	"github.com/ecodyn/forestlab/internal/forest"
	"github.com/ecodyn/forestlab/internal/metrics"
	"github.com/ecodyn/forestlab/internal/sample"
	"github.com/ecodyn/forestlab/internal/sim"
	"github.com/ecodyn/forestlab/internal/sobol"
)

// Scenario is one fully resolved experiment: a stand, an initial
// stock, a horizon and a step policy. The output grid is every integer
// time step from 1 to Horizon, shared by every run so summary
// statistics stay comparable.
type Scenario struct {
	Params         forest.Params
	InitialBiomass float64
	Horizon        int
	Integrator     string
	Sim            sim.Config
}

// FromConfig resolves and validates a scenario.
func FromConfig(cfg *config.Config) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scenario{
		Params:         cfg.Params(),
		InitialBiomass: cfg.Stand.InitialBiomass,
		Horizon:        cfg.Stand.Horizon,
		Integrator:     cfg.Integration.Method,
		Sim: sim.Config{
			MaxStep:       cfg.Integration.MaxStep,
			MinStep:       1e-8,
			Tolerance:     cfg.Integration.Tolerance,
			Adaptive:      cfg.Integration.Adaptive,
			ValidateState: true,
		},
	}, nil
}

// Grid is the scenario's shared output grid.
func (s *Scenario) Grid() []float64 {
	return sim.Grid(1, s.Horizon)
}

// Run integrates the scenario once with the standard biomass metrics
// attached.
func (s *Scenario) Run(ctx context.Context) (*sim.Result, error) {
	registry := NewRegistry()
	integ, err := registry.GetIntegrator(s.Integrator)
	if err != nil {
		return nil, err
	}

	simulator := sim.New(forest.New(s.Params), integ)
	simulator.AddMetric(metrics.NewPeakBiomass())
	simulator.AddMetric(metrics.NewTimeToThreshold(s.Params.Threshold))
	simulator.AddMetric(metrics.NewMeanBiomass())

	return simulator.Run(ctx, sim.State{s.InitialBiomass}, s.Grid(), s.Sim)
}

// RunWith integrates the scenario with overridden parameters and no
// metrics, the shape the objective and sweeps need.
func (s *Scenario) RunWith(ctx context.Context, p forest.Params) (*sim.Result, error) {
	registry := NewRegistry()
	integ, err := registry.GetIntegrator(s.Integrator)
	if err != nil {
		return nil, err
	}
	simulator := sim.New(forest.New(p), integ)
	return simulator.Run(ctx, sim.State{s.InitialBiomass}, s.Grid(), s.Sim)
}

// Objective returns the sensitivity-analysis black box: integrate the
// scenario under one sampled parameter tuple and extract the peak
// carbon stock. Each call builds its own stand, integrator and
// simulator, so calls are safe to run concurrently.
func (s *Scenario) Objective(ctx context.Context) sobol.Func {
	return func(params []float64) (float64, error) {
		p, err := forest.FromVector(params)
		if err != nil {
			return 0, err
		}
		res, err := s.RunWith(ctx, p)
		if err != nil {
			return 0, fmt.Errorf("objective for params %v: %w", params, err)
		}
		return analysis.Peak(res.Component(0)), nil
	}
}

// Space builds the sampling space centered on the scenario's
// parameters with relSD of each mean as the standard deviation.
func (s *Scenario) Space(relSD float64) sample.Space {
	means := s.Params.Vector()
	marginals := make([]sample.Marginal, forest.Dim)
	for i, m := range means {
		marginals[i] = sample.Marginal{Name: forest.Names[i], Mean: m, SD: relSD * m}
	}
	return sample.Space{Marginals: marginals}
}

// Sensitivity runs the full Saltelli pipeline for the scenario.
func (s *Scenario) Sensitivity(ctx context.Context, sens config.SensitivityConfig) (*sobol.Result, error) {
	rng := sample.NewRNG(sens.Seed)
	space := s.Space(sens.RelSD)

	var x1, x2 *mat.Dense
	var err error
	switch sens.Sampler {
	case "lhc":
		x1, x2, err = space.PairLHC(rng, sens.Samples)
	default:
		x1, x2, err = space.Pair(rng, sens.Samples)
	}
	if err != nil {
		return nil, err
	}

	design, err := sobol.NewDesign(x1, x2)
	if err != nil {
		return nil, err
	}

	est := sobol.NewEstimator()
	est.Workers = sens.Workers
	est.Replicates = sens.Replicates
	est.Seed = sens.Seed

	return est.Estimate(ctx, design, s.Objective(ctx))
}
