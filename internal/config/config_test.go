package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/l1jgo/ecdb/internal/core/ecs"
	"go.uber.org/multierr"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ecsim.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[store]
backend = "mutable"

[simulation]
max_passes = 10
tick_rate = "50ms"
stop_when_empty = true
reaper = true

[logging]
level = "debug"
format = "json"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != ecs.Mutable {
		t.Errorf("Backend = %v", cfg.Store.Backend)
	}
	if cfg.Simulation.MaxPasses != 10 || cfg.Simulation.TickRate != 50*time.Millisecond {
		t.Errorf("Simulation = %+v", cfg.Simulation)
	}
	if !cfg.Simulation.StopWhenEmpty || !cfg.Simulation.Reaper {
		t.Errorf("Simulation flags = %+v", cfg.Simulation)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	// Untouched sections keep their defaults.
	if cfg.Scripting.Dir != "scripts" || cfg.Simulation.SeedFile != "data/seed.yaml" {
		t.Errorf("defaults lost: %+v %+v", cfg.Scripting, cfg.Simulation)
	}
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Backend != ecs.Persistent || cfg.Simulation.MaxPasses != 100 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
	if _, err := Load(writeConfig(t, "[store\n")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := Load(writeConfig(t, "[store]\nbackend = \"sqlite\"\n")); err == nil {
		t.Error("expected unknown backend error")
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := defaults()
	cfg.Simulation.MaxPasses = -1
	cfg.Logging.Level = "loud"
	cfg.Logging.Format = "xml"
	cfg.Profile.Mode = "gpu"

	err := cfg.Validate()
	if got := len(multierr.Errors(err)); got != 4 {
		t.Fatalf("got %d errors, want 4: %v", got, err)
	}
	for _, key := range []string{"max_passes", "logging.level", "logging.format", "profile.mode"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error does not mention %s: %v", key, err)
		}
	}
}

func TestValidateRejectsEndlessSpin(t *testing.T) {
	cfg := defaults()
	cfg.Simulation.MaxPasses = 0
	cfg.Simulation.TickRate = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error")
	}
	cfg.Simulation.StopWhenEmpty = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
