package main

import (
	"os"
	"time"

	"github.com/l1jgo/ecdb/internal/config"
	"github.com/l1jgo/ecdb/internal/core/ecs"
	"github.com/l1jgo/ecdb/internal/core/event"
	coresys "github.com/l1jgo/ecdb/internal/core/system"
	"github.com/l1jgo/ecdb/internal/system"
	"go.uber.org/zap"
)

const reportEvery = 10 // passes between progress lines

type simulation struct {
	cfg    config.SimulationConfig
	store  ecs.Store
	runner *coresys.Runner[system.Action]
	bus    *event.Bus
	log    *zap.Logger

	spawned int
	removed int
	changed int
}

func newSimulation(cfg config.SimulationConfig, store ecs.Store, runner *coresys.Runner[system.Action], bus *event.Bus, log *zap.Logger) *simulation {
	s := &simulation{cfg: cfg, store: store, runner: runner, bus: bus, log: log}
	event.Subscribe(bus, func(ev event.EntitySpawned) {
		s.spawned++
		log.Debug("entity spawned", zap.Stringer("entity", ev.Entity))
	})
	event.Subscribe(bus, func(ev event.EntityRemoved) {
		s.removed++
		log.Debug("entity removed", zap.Stringer("entity", ev.Entity))
	})
	event.Subscribe(bus, func(event.ComponentChanged) { s.changed++ })
	return s
}

// step runs one pass and delivers its events. done reports that a stop
// condition was reached.
func (s *simulation) step() (done bool, err error) {
	next, err := s.runner.Tick(s.store)
	s.store = next
	if err != nil {
		return true, err
	}
	s.bus.SwapBuffers()
	s.bus.DispatchAll()

	passes := s.runner.Passes()
	if passes%reportEvery == 0 {
		s.log.Info("simulation progress",
			zap.Uint64("pass", passes),
			zap.Int("entities", s.store.Len()),
			zap.Duration("last_pass", s.runner.LastPass()),
			zap.Float64("fps", s.runner.FramesPerSecond()))
	}

	if s.cfg.MaxPasses > 0 && passes >= uint64(s.cfg.MaxPasses) {
		return true, nil
	}
	if s.cfg.StopWhenEmpty && s.store.Len() == 0 {
		return true, nil
	}
	return false, nil
}

// loop runs passes on the configured tick, or back to back when the tick rate
// is zero, until a stop condition, a failed pass or a signal on stop.
func (s *simulation) loop(stop <-chan os.Signal) error {
	defer s.summary()

	if s.cfg.TickRate <= 0 {
		for {
			select {
			case sig := <-stop:
				s.log.Info("shutdown signal", zap.String("signal", sig.String()))
				return nil
			default:
			}
			if done, err := s.step(); done {
				return err
			}
		}
	}

	ticker := time.NewTicker(s.cfg.TickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if done, err := s.step(); done {
				return err
			}
		case sig := <-stop:
			s.log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

func (s *simulation) summary() {
	s.log.Info("simulation stopped",
		zap.Uint64("passes", s.runner.Passes()),
		zap.Int("entities", s.store.Len()),
		zap.Int("spawned", s.spawned),
		zap.Int("removed", s.removed),
		zap.Int("changed", s.changed),
		zap.Float64("fps", s.runner.FramesPerSecond()))
}
