package config

// Presets are named scenarios. Each starts from DefaultConfig so only
// the fields a preset cares about need to differ.
var Presets = map[string]func() *Config{
	"reference": DefaultConfig,
	"slow-establishment": func() *Config {
		cfg := DefaultConfig()
		cfg.Stand.GrowthRate = 0.005
		cfg.Stand.Horizon = 600
		return cfg
	},
	"dense-canopy": func() *Config {
		cfg := DefaultConfig()
		cfg.Stand.Capacity = 400
		cfg.Stand.LogisticRate = 1
		return cfg
	},
	"late-switch": func() *Config {
		cfg := DefaultConfig()
		cfg.Stand.Threshold = 150
		return cfg
	},
	// Threshold above capacity: the stand never leaves the exponential
	// regime within the horizon.
	"no-switch": func() *Config {
		cfg := DefaultConfig()
		cfg.Stand.Threshold = 300
		return cfg
	},
	"adaptive": func() *Config {
		cfg := DefaultConfig()
		cfg.Integration.Method = "rk45"
		cfg.Integration.Adaptive = true
		return cfg
	},
}

func GetPreset(name string) *Config {
	factory, ok := Presets[name]
	if !ok {
		return nil
	}
	return factory()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
