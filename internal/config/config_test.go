package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Stand.InitialBiomass != 10 {
		t.Errorf("initial biomass = %g, want 10", cfg.Stand.InitialBiomass)
	}
	if cfg.Stand.Horizon != 300 {
		t.Errorf("horizon = %d, want 300", cfg.Stand.Horizon)
	}
	if cfg.Sensitivity.Samples != 2000 || cfg.Sensitivity.Replicates != 300 {
		t.Errorf("sensitivity defaults = %d/%d, want 2000/300", cfg.Sensitivity.Samples, cfg.Sensitivity.Replicates)
	}
	if err := cfg.Params().Validate(); err != nil {
		t.Errorf("default stand params invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"negative initial biomass", func(c *Config) { c.Stand.InitialBiomass = -1 }, true},
		{"zero horizon", func(c *Config) { c.Stand.Horizon = 0 }, true},
		{"zero max step", func(c *Config) { c.Integration.MaxStep = 0 }, true},
		{"adaptive without tolerance", func(c *Config) { c.Integration.Adaptive = true; c.Integration.Tolerance = 0 }, true},
		{"one sample", func(c *Config) { c.Sensitivity.Samples = 1 }, true},
		{"negative replicates", func(c *Config) { c.Sensitivity.Replicates = -1 }, true},
		{"zero rel sd", func(c *Config) { c.Sensitivity.RelSD = 0 }, true},
		{"unknown sampler", func(c *Config) { c.Sensitivity.Sampler = "sobolseq" }, true},
		{"lhc sampler", func(c *Config) { c.Sensitivity.Sampler = "lhc" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stand.Capacity = 321
	cfg.Sensitivity.Sampler = "lhc"

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Stand.Capacity != 321 {
		t.Errorf("capacity = %g, want 321", loaded.Stand.Capacity)
	}
	if loaded.Sensitivity.Sampler != "lhc" {
		t.Errorf("sampler = %q, want lhc", loaded.Sensitivity.Sampler)
	}
	// Untouched fields keep their defaults through the round trip.
	if loaded.Stand.Horizon != 300 {
		t.Errorf("horizon = %d, want 300", loaded.Stand.Horizon)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("no-switch")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Stand.Threshold <= cfg.Stand.Capacity {
		t.Errorf("no-switch preset should put threshold above capacity, got %g <= %g",
			cfg.Stand.Threshold, cfg.Stand.Capacity)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}

	found := false
	for _, n := range names {
		if n == "reference" {
			found = true
		}
	}
	if !found {
		t.Error("reference preset missing")
	}
}

func TestPresetsAreIndependent(t *testing.T) {
	a := GetPreset("reference")
	a.Stand.Capacity = 1

	b := GetPreset("reference")
	if b.Stand.Capacity == 1 {
		t.Error("presets share state between calls")
	}
}
