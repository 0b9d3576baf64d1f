package system

import (
	"fmt"

	"github.com/l1jgo/ecdb/internal/core/ecs"
)

// Action is an intended mutation proposed by a system and interpreted only
// by Reducer.
type Action interface {
	ActionName() string
}

// SetComponent adds or overwrites one component on an entity.
type SetComponent struct {
	Entity    ecs.Entity
	Component ecs.Component
}

// RemoveComponent drops one component type from an entity.
type RemoveComponent struct {
	Entity ecs.Entity
	Type   ecs.ComponentType
}

// RemoveEntity destroys an entity and all its components.
type RemoveEntity struct {
	Entity ecs.Entity
}

// SpawnEntity creates a new entity seeded with the given components.
type SpawnEntity struct {
	Components []ecs.Component
}

func (SetComponent) ActionName() string    { return "set_component" }
func (RemoveComponent) ActionName() string { return "remove_component" }
func (RemoveEntity) ActionName() string    { return "remove_entity" }
func (SpawnEntity) ActionName() string     { return "spawn_entity" }

func (a SetComponent) String() string {
	return fmt.Sprintf("set %T on %v", a.Component, a.Entity)
}

func (a RemoveComponent) String() string {
	return fmt.Sprintf("remove %v from %v", a.Type, a.Entity)
}

func (a RemoveEntity) String() string {
	return fmt.Sprintf("remove %v", a.Entity)
}

func (a SpawnEntity) String() string {
	return fmt.Sprintf("spawn with %d components", len(a.Components))
}
