package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/l1jgo/ecdb/internal/config"
	"github.com/l1jgo/ecdb/internal/core/ecs"
	"github.com/l1jgo/ecdb/internal/core/event"
	coresys "github.com/l1jgo/ecdb/internal/core/system"
	"github.com/l1jgo/ecdb/internal/data"
	"github.com/l1jgo/ecdb/internal/scripting"
	"github.com/l1jgo/ecdb/internal/system"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/ecsim.toml"
	if p := os.Getenv("ECSIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if p := startProfile(cfg.Profile); p != nil {
		defer p.Stop()
		log.Info("profiling enabled", zap.String("mode", cfg.Profile.Mode), zap.String("path", cfg.Profile.Path))
	}

	// 3. Seed the store
	store := ecs.NewStore(cfg.Store.Backend)
	if cfg.Simulation.SeedFile != "" {
		seed, err := data.LoadSeed(cfg.Simulation.SeedFile)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		store, _ = seed.Populate(store)
	}
	log.Info("store ready",
		zap.Stringer("backend", store.Backend()),
		zap.Int("entities", store.Len()))

	// 4. Register systems
	bus := event.NewBus()
	reducer := system.NewReducer(bus, log.Named("reducer"))
	reducer.SkipStale = cfg.Simulation.SkipStaleActions

	reg := coresys.NewRegistry[system.Action]()
	systems := system.Defaults()
	if cfg.Simulation.Reaper {
		systems = append(systems, system.ReaperSystem{})
	}
	if err := system.Register(reg, systems...); err != nil {
		return err
	}

	if cfg.Scripting.Dir != "" {
		engine := scripting.NewEngine(log.Named("lua"))
		defer engine.Close()
		if err := engine.LoadDir(cfg.Scripting.Dir); err != nil {
			return fmt.Errorf("scripts: %w", err)
		}
		if err := engine.Register(reg); err != nil {
			return err
		}
		log.Info("scripts loaded", zap.Int("systems", len(engine.Systems())))
	}
	log.Info("systems registered",
		zap.Int("systems", reg.Len()),
		zap.Ints("priorities", priorities(reg)))

	// 5. Run passes until done or signalled
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	sim := newSimulation(cfg.Simulation, store, coresys.NewRunner[system.Action](reg, reducer, log.Named("runner")), bus, log)
	return sim.loop(shutdownCh)
}

func priorities(reg *coresys.Registry[system.Action]) []int {
	ps := reg.Priorities()
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = int(p)
	}
	return out
}

func startProfile(cfg config.ProfileConfig) interface{ Stop() } {
	var mode func(*profile.Profile)
	switch cfg.Mode {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfileAllocs
	case "trace":
		mode = profile.TraceProfile
	case "block":
		mode = profile.BlockProfile
	case "mutex":
		mode = profile.MutexProfile
	default:
		return nil
	}
	return profile.Start(mode, profile.ProfilePath(cfg.Path), profile.NoShutdownHook, profile.Quiet)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	return loggerConfig(cfg).Build(zap.Fields(zap.String("app", "ecsim")))
}

// loggerConfig maps the logging section onto a zap config. Unknown levels
// fall back to info.
func loggerConfig(cfg config.LoggingConfig) zap.Config {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format != "json" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.DisableCaller = !cfg.Caller
	zapCfg.DisableStacktrace = !cfg.Stacktrace
	return zapCfg
}
