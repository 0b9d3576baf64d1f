package system

import (
	"github.com/l1jgo/ecdb/internal/component"
	"github.com/l1jgo/ecdb/internal/core/ecs"
	coresys "github.com/l1jgo/ecdb/internal/core/system"
)

// LifetimeSystem counts every Lifetime down by one per pass and removes the
// entity once it reaches zero.
type LifetimeSystem struct{}

func (LifetimeSystem) Priority() coresys.Priority { return PriorityLifetime }

func (LifetimeSystem) Produce(store ecs.Store) ([]Action, error) {
	var out []Action
	ecs.Each1(store, func(e ecs.Entity, l component.Lifetime) bool {
		if l.Ticks <= 1 {
			out = append(out, RemoveEntity{Entity: e})
		} else {
			out = append(out, SetComponent{Entity: e, Component: component.Lifetime{Ticks: l.Ticks - 1}})
		}
		return true
	})
	return out, nil
}

// DeathSystem removes entities whose Health dropped to zero or below.
type DeathSystem struct{}

func (DeathSystem) Priority() coresys.Priority { return PriorityDeath }

func (DeathSystem) Produce(store ecs.Store) ([]Action, error) {
	var out []Action
	ecs.Each1(store, func(e ecs.Entity, h component.Health) bool {
		if h.Dead() {
			out = append(out, RemoveEntity{Entity: e})
		}
		return true
	})
	return out, nil
}
