// Package config loads signal durations from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/anggasct/trafficsignal"
)

// Config is the on-disk configuration of a signal cycle
type Config struct {
	Initial   string          `yaml:"initial"`
	Durations DurationsConfig `yaml:"durations"`
}

// DurationsConfig holds per-state durations; omitted keys keep their defaults
type DurationsConfig struct {
	Red    time.Duration `yaml:"red"`
	Yellow time.Duration `yaml:"yellow"`
	Green  time.Duration `yaml:"green"`
}

// Default returns the configuration matching the built-in defaults
func Default() *Config {
	return &Config{
		Initial: trafficsignal.Red.String(),
		Durations: DurationsConfig{
			Red:    trafficsignal.DefaultRedDuration,
			Yellow: trafficsignal.DefaultYellowDuration,
			Green:  trafficsignal.DefaultGreenDuration,
		},
	}
}

// Load reads and validates the YAML file at path
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML. Keys left out keep their defaults.
func Parse(b []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the initial state and every duration
func (c *Config) Validate() error {
	if _, err := c.InitialState(); err != nil {
		return err
	}
	return c.SignalDurations().Validate()
}

// InitialState parses the configured initial state; empty means Red
func (c *Config) InitialState() (trafficsignal.SignalState, error) {
	if c.Initial == "" {
		return trafficsignal.Red, nil
	}
	return trafficsignal.ParseState(c.Initial)
}

// SignalDurations returns the durations as a total mapping
func (c *Config) SignalDurations() trafficsignal.Durations {
	return trafficsignal.Durations{
		trafficsignal.Red:    c.Durations.Red,
		trafficsignal.Yellow: c.Durations.Yellow,
		trafficsignal.Green:  c.Durations.Green,
	}
}

// Override applies non-zero durations on top of the configured ones
func (c *Config) Override(overrides trafficsignal.Durations) {
	merged := c.SignalDurations().Merge(overrides)
	c.Durations = DurationsConfig{
		Red:    merged[trafficsignal.Red],
		Yellow: merged[trafficsignal.Yellow],
		Green:  merged[trafficsignal.Green],
	}
}

// Options returns the SignalCycle options described by c
func (c *Config) Options() ([]trafficsignal.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	initial, _ := c.InitialState()
	return []trafficsignal.Option{
		trafficsignal.WithDurations(c.SignalDurations()),
		trafficsignal.WithInitialState(initial),
	}, nil
}
