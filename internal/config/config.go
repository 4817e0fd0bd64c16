// Package config loads, saves and validates scenario configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ecodyn/forestlab/internal/forest"
)

const (
	DefaultInitialBiomass = 10.0
	DefaultHorizon        = 300
	DefaultIntegrator     = "rk4"
	DefaultMaxStep        = 0.1
	DefaultTolerance      = 1e-6
	DefaultSamples        = 2000
	DefaultReplicates     = 300
	DefaultRelSD          = 0.1
	DefaultSeed           = 1
)

type Config struct {
	Stand       StandConfig       `yaml:"stand"`
	Integration IntegrationConfig `yaml:"integration"`
	Sensitivity SensitivityConfig `yaml:"sensitivity"`
}

// StandConfig is the scenario: one stand, one initial stock, one
// horizon reported at every integer time step.
type StandConfig struct {
	InitialBiomass float64 `yaml:"initial_biomass"`
	Horizon        int     `yaml:"horizon"`
	GrowthRate     float64 `yaml:"growth_rate"`
	Capacity       float64 `yaml:"capacity"`
	LogisticRate   float64 `yaml:"logistic_rate"`
	Threshold      float64 `yaml:"threshold"`
}

type IntegrationConfig struct {
	Method    string  `yaml:"method"`
	MaxStep   float64 `yaml:"max_step"`
	Tolerance float64 `yaml:"tolerance"`
	Adaptive  bool    `yaml:"adaptive"`
}

type SensitivityConfig struct {
	Samples    int     `yaml:"samples"`
	Replicates int     `yaml:"replicates"`
	Workers    int     `yaml:"workers"`
	Sampler    string  `yaml:"sampler"` // "normal" or "lhc"
	RelSD      float64 `yaml:"rel_sd"`  // marginal sd as a fraction of the mean
	Seed       int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	p := forest.DefaultParams()
	return &Config{
		Stand: StandConfig{
			InitialBiomass: DefaultInitialBiomass,
			Horizon:        DefaultHorizon,
			GrowthRate:     p.GrowthRate,
			Capacity:       p.Capacity,
			LogisticRate:   p.LogisticRate,
			Threshold:      p.Threshold,
		},
		Integration: IntegrationConfig{
			Method:    DefaultIntegrator,
			MaxStep:   DefaultMaxStep,
			Tolerance: DefaultTolerance,
		},
		Sensitivity: SensitivityConfig{
			Samples:    DefaultSamples,
			Replicates: DefaultReplicates,
			Sampler:    "normal",
			RelSD:      DefaultRelSD,
			Seed:       DefaultSeed,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params assembles the growth parameter tuple from the stand section.
func (c *Config) Params() forest.Params {
	return forest.Params{
		GrowthRate:   c.Stand.GrowthRate,
		Capacity:     c.Stand.Capacity,
		LogisticRate: c.Stand.LogisticRate,
		Threshold:    c.Stand.Threshold,
	}
}

func (c *Config) Validate() error {
	if c.Stand.InitialBiomass < 0 {
		return fmt.Errorf("config: initial_biomass %g must be non-negative", c.Stand.InitialBiomass)
	}
	if c.Stand.Horizon < 1 {
		return fmt.Errorf("config: horizon %d must be at least 1", c.Stand.Horizon)
	}
	if c.Integration.MaxStep <= 0 {
		return fmt.Errorf("config: max_step %g must be positive", c.Integration.MaxStep)
	}
	if c.Integration.Adaptive && c.Integration.Tolerance <= 0 {
		return fmt.Errorf("config: tolerance %g must be positive for adaptive stepping", c.Integration.Tolerance)
	}
	if c.Sensitivity.Samples < 2 {
		return fmt.Errorf("config: samples %d must be at least 2", c.Sensitivity.Samples)
	}
	if c.Sensitivity.Replicates < 0 {
		return fmt.Errorf("config: replicates %d must be non-negative", c.Sensitivity.Replicates)
	}
	if c.Sensitivity.RelSD <= 0 {
		return fmt.Errorf("config: rel_sd %g must be positive", c.Sensitivity.RelSD)
	}
	switch c.Sensitivity.Sampler {
	case "normal", "lhc":
	default:
		return fmt.Errorf("config: unknown sampler %q", c.Sensitivity.Sampler)
	}
	return nil
}
