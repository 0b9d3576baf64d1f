package system

import (
	"github.com/l1jgo/ecdb/internal/component"
	"github.com/l1jgo/ecdb/internal/core/ecs"
	coresys "github.com/l1jgo/ecdb/internal/core/system"
)

// MovementSystem moves every entity by its velocity and then clears the
// velocity, so each impulse is applied exactly once.
type MovementSystem struct{}

func (MovementSystem) Priority() coresys.Priority { return PriorityMovement }

func (MovementSystem) Produce(store ecs.Store) ([]Action, error) {
	var out []Action
	ecs.Each2(store, func(e ecs.Entity, p component.Position, v component.Velocity) bool {
		if v.IsZero() {
			return true
		}
		out = append(out,
			SetComponent{Entity: e, Component: p.Add(v)},
			SetComponent{Entity: e, Component: component.Velocity{}},
		)
		return true
	})
	return out, nil
}
