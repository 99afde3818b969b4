package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/curvesim/internal/callback"
)

// envPrefix namespaces curvesim environment variables.
const envPrefix = "CURVESIM_"

// Load reads configuration from the YAML file at path (skipped when
// path is empty or the file does not exist), then overrides with
// CURVESIM_* environment variables.
//
// Environment variables map the first underscore to a section
// separator: CURVESIM_OUTPUT_PATH -> output.path,
// CURVESIM_SIMULATION_MAX_ITERS -> simulation.max_iters.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Scenario describes one task worth of simulation input.
type Scenario struct {
	CurveData  callback.CurveData          `koanf:"curve_data"`
	Strategies map[string]ScenarioStrategy `koanf:"strategies"`
}

// ScenarioStrategy is one strategy family as declared in a scenario
// file.
type ScenarioStrategy struct {
	Configs []ScenarioStrategyConfig `koanf:"configs"`
}

// ScenarioStrategyConfig is one declared strategy variant. Pointer
// fields distinguish "not set" from an explicit zero, so a scenario can
// declare patience: 0 or min_improvement: 0 without the simulation
// defaults overriding it.
type ScenarioStrategyConfig struct {
	Label          string   `koanf:"label"`
	Patience       *int     `koanf:"patience"`
	MaxIters       *int     `koanf:"max_iters"`
	MinImprovement *float64 `koanf:"min_improvement"`
}

// ResolveStrategies materializes the declared strategies, filling every
// unset field from the simulation defaults.
func (s *Scenario) ResolveStrategies(sim SimulationConfig) callback.Strategies {
	out := make(callback.Strategies, len(s.Strategies))
	for name, group := range s.Strategies {
		configs := make([]callback.StrategyConfig, len(group.Configs))
		for i, c := range group.Configs {
			cfg := callback.StrategyConfig{
				Label:          c.Label,
				Patience:       sim.Patience,
				MaxIters:       sim.MaxIters,
				MinImprovement: sim.MinImprovement,
			}
			if c.Patience != nil {
				cfg.Patience = *c.Patience
			}
			if c.MaxIters != nil {
				cfg.MaxIters = *c.MaxIters
			}
			if c.MinImprovement != nil {
				cfg.MinImprovement = *c.MinImprovement
			}
			configs[i] = cfg
		}
		out[name] = callback.StrategyGroup{Configs: configs}
	}
	return out
}

// LoadScenario reads a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}

	var sc Scenario
	if err := k.Unmarshal("", &sc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}
	if len(sc.CurveData) == 0 {
		return nil, fmt.Errorf("scenario %s declares no curve data", path)
	}
	if len(sc.Strategies) == 0 {
		return nil, fmt.Errorf("scenario %s declares no strategies", path)
	}
	return &sc, nil
}
