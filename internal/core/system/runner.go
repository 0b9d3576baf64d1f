package system

import (
	"fmt"
	"time"

	"github.com/l1jgo/ecdb/internal/core/ecs"
	"go.uber.org/zap"
)

// ProcessSystems runs one full pass over every tier of reg in ascending
// priority order.
//
// Within a tier every system produces against the same starting snapshot;
// the concatenated batch (registration order) is then applied one action at a
// time, threading the store through reducer. Effects of a tier are visible to
// the next tier only. Errors stop the pass at once: the returned store holds
// every action applied before the failure and nothing is rolled back.
func ProcessSystems[A any](store ecs.Store, reg *Registry[A], reducer Reducer[A]) (ecs.Store, error) {
	return process(store, reg, reducer, nil)
}

type tierStats struct {
	priority Priority
	systems  int
	actions  int
	elapsed  time.Duration
}

func process[A any](store ecs.Store, reg *Registry[A], reducer Reducer[A], observe func(tierStats)) (ecs.Store, error) {
	for _, p := range reg.Priorities() {
		start := time.Now()
		tier := reg.tiers[p]

		batch, err := produceTier(store, tier)
		if err != nil {
			return store, fmt.Errorf("tier %d: %w", p, err)
		}

		for i, action := range batch {
			next, err := reducer.Apply(store, action)
			if err != nil {
				return store, fmt.Errorf("tier %d: apply action %d/%d: %w", p, i+1, len(batch), err)
			}
			store = next
		}

		if observe != nil {
			observe(tierStats{
				priority: p,
				systems:  len(tier),
				actions:  len(batch),
				elapsed:  time.Since(start),
			})
		}
	}
	return store, nil
}

// produceTier gathers the actions of every system in a tier against one snapshot.
func produceTier[A any](snapshot ecs.Store, tier []System[A]) ([]A, error) {
	var batch []A
	for _, s := range tier {
		actions, err := s.Produce(snapshot)
		if err != nil {
			return nil, fmt.Errorf("produce %T: %w", s, err)
		}
		batch = append(batch, actions...)
	}
	return batch, nil
}

// Runner executes passes over a fixed registry and reducer, logging per-tier
// work at debug level and keeping pass timing.
type Runner[A any] struct {
	registry *Registry[A]
	reducer  Reducer[A]
	log      *zap.Logger

	passes   uint64
	lastPass time.Duration
}

func NewRunner[A any](reg *Registry[A], reducer Reducer[A], log *zap.Logger) *Runner[A] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner[A]{
		registry: reg,
		reducer:  reducer,
		log:      log,
	}
}

// Tick runs one pass and returns the resulting store.
func (r *Runner[A]) Tick(store ecs.Store) (ecs.Store, error) {
	start := time.Now()
	out, err := process(store, r.registry, r.reducer, r.logTier)
	r.lastPass = time.Since(start)
	if err != nil {
		r.log.Error("pass failed",
			zap.Uint64("pass", r.passes+1),
			zap.Int("entities", out.Len()),
			zap.Error(err))
		return out, err
	}
	r.passes++
	r.log.Debug("pass complete",
		zap.Uint64("pass", r.passes),
		zap.Int("entities", out.Len()),
		zap.Duration("elapsed", r.lastPass))
	return out, nil
}

func (r *Runner[A]) logTier(st tierStats) {
	r.log.Debug("tier applied",
		zap.Int("priority", int(st.priority)),
		zap.Int("systems", st.systems),
		zap.Int("actions", st.actions),
		zap.Duration("elapsed", st.elapsed))
}

// Passes returns the number of passes completed without error.
func (r *Runner[A]) Passes() uint64 { return r.passes }

// LastPass returns how long the most recent pass took.
func (r *Runner[A]) LastPass() time.Duration { return r.lastPass }

// FramesPerSecond converts the last pass duration into a rate.
func (r *Runner[A]) FramesPerSecond() float64 { return FramesPerSecond(r.lastPass) }

// FramesPerSecond returns how many passes of length d fit in one second.
func FramesPerSecond(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(time.Second) / float64(d)
}
