package event

import "github.com/l1jgo/ecdb/internal/core/ecs"

// Runtime events emitted by reducers.

type EntitySpawned struct {
	Entity ecs.Entity
}

type EntityRemoved struct {
	Entity ecs.Entity
}

type ComponentChanged struct {
	Entity  ecs.Entity
	Type    ecs.ComponentType
	Removed bool
}
