// Package config provides configuration loading for curvesim.
package config

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/curvesim/internal/callback"
)

var (
	ErrInvalidPatience = errors.New("simulation.patience must be >= 0")
	ErrInvalidMaxIters = errors.New("simulation.max_iters must be > 0")
	ErrInvalidLevel    = errors.New("logging.level must be one of debug, info, warn, error")
	ErrInvalidFormat   = errors.New("logging.format must be console or json")
)

// Config is the root curvesim configuration.
type Config struct {
	Output     OutputConfig     `koanf:"output"`
	Filters    callback.Filters `koanf:"filters"`
	Simulation SimulationConfig `koanf:"simulation"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// OutputConfig controls where task figures are written.
type OutputConfig struct {
	Path string `koanf:"path"`
}

// SimulationConfig holds defaults applied to strategy configs that do
// not set their own values.
type SimulationConfig struct {
	Patience       int     `koanf:"patience"`
	MaxIters       int     `koanf:"max_iters"`
	MinImprovement float64 `koanf:"min_improvement"`

	// Large marks workloads on which artifact-producing observers are
	// skipped.
	Large bool `koanf:"large"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Path: "out"},
		Simulation: SimulationConfig{
			Patience: 5,
			MaxIters: 100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Simulation.Patience < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPatience, c.Simulation.Patience)
	}
	if c.Simulation.MaxIters <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxIters, c.Simulation.MaxIters)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLevel, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Logging.Format)
	}
	return nil
}
