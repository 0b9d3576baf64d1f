package system

import (
	"fmt"

	coresys "github.com/l1jgo/ecdb/internal/core/system"
)

// Tier priorities for the built-in systems. Scripted systems pick their own.
const (
	PriorityMovement coresys.Priority = 0  // integrate velocities
	PriorityLifetime coresys.Priority = 10 // count down lifetimes
	PriorityDeath    coresys.Priority = 15 // health checks
	PriorityCleanup  coresys.Priority = 20 // reaping
)

// System is a domain system that knows its own tier.
type System interface {
	coresys.System[Action]
	Priority() coresys.Priority
}

// Register adds each system to reg at the system's own priority.
func Register(reg *coresys.Registry[Action], systems ...System) error {
	for _, s := range systems {
		if err := reg.Add(s, s.Priority()); err != nil {
			return fmt.Errorf("register %T: %w", s, err)
		}
	}
	return nil
}

// Defaults returns the built-in systems that need no configuration.
func Defaults() []System {
	return []System{
		MovementSystem{},
		LifetimeSystem{},
		DeathSystem{},
	}
}
