package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/l1jgo/ecdb/internal/core/ecs"
	"go.uber.org/multierr"
)

type Config struct {
	Store      StoreConfig      `toml:"store"`
	Simulation SimulationConfig `toml:"simulation"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Logging    LoggingConfig    `toml:"logging"`
	Profile    ProfileConfig    `toml:"profile"`
}

type StoreConfig struct {
	Backend ecs.Backend `toml:"backend"` // "persistent" or "mutable"
}

type SimulationConfig struct {
	MaxPasses        int           `toml:"max_passes"` // 0 = until stopped
	TickRate         time.Duration `toml:"tick_rate"`  // 0 = back to back
	StopWhenEmpty    bool          `toml:"stop_when_empty"`
	SkipStaleActions bool          `toml:"skip_stale_actions"`
	Reaper           bool          `toml:"reaper"`
	SeedFile         string        `toml:"seed_file"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"` // empty disables scripting
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`     // "json" or "console"
	Caller     bool   `toml:"caller"`     // annotate entries with file:line
	Stacktrace bool   `toml:"stacktrace"` // stack traces on error entries
}

type ProfileConfig struct {
	Mode string `toml:"mode"` // "", "cpu", "mem", "trace", "block", "mutex"
	Path string `toml:"path"`
}

var (
	logLevels    = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	logFormats   = map[string]bool{"console": true, "json": true}
	profileModes = map[string]bool{"": true, "cpu": true, "mem": true, "trace": true, "block": true, "mutex": true}
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Simulation.MaxPasses < 0 {
		err = multierr.Append(err, fmt.Errorf("simulation.max_passes must be >= 0, got %d", c.Simulation.MaxPasses))
	}
	if c.Simulation.TickRate < 0 {
		err = multierr.Append(err, fmt.Errorf("simulation.tick_rate must be >= 0, got %s", c.Simulation.TickRate))
	}
	if !logLevels[c.Logging.Level] {
		err = multierr.Append(err, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if !logFormats[c.Logging.Format] {
		err = multierr.Append(err, fmt.Errorf("logging.format %q is not json or console", c.Logging.Format))
	}
	if !profileModes[c.Profile.Mode] {
		err = multierr.Append(err, fmt.Errorf("profile.mode %q is unknown", c.Profile.Mode))
	}
	if c.Simulation.MaxPasses == 0 && c.Simulation.TickRate == 0 && !c.Simulation.StopWhenEmpty {
		err = multierr.Append(err, errors.New("simulation never stops on its own: set max_passes, tick_rate or stop_when_empty"))
	}
	return err
}

func defaults() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: ecs.Persistent,
		},
		Simulation: SimulationConfig{
			MaxPasses: 100,
			TickRate:  200 * time.Millisecond,
			SeedFile:  "data/seed.yaml",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Profile: ProfileConfig{
			Path: ".",
		},
	}
}
