package ecs

import (
	"reflect"
	"sync"
)

// Component is any value attached to an entity. Its Go type is its key:
// an entity holds at most one component per type.
type Component = any

// ComponentType is a stable small integer minted once per Go type.
// No reflect lookups happen on the store hot path, only at the edges.
type ComponentType uint32

var types = struct {
	mu     sync.RWMutex
	byType map[reflect.Type]ComponentType
	byID   []reflect.Type
}{
	byType: make(map[reflect.Type]ComponentType, 64),
	byID:   []reflect.Type{nil}, // 0 is reserved
}

// TypeOf returns the component type id for T, registering it on first use.
func TypeOf[T any]() ComponentType {
	return typeIDFor(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeFor returns the component type id for the dynamic type of c.
// It returns 0 for a nil component.
func TypeFor(c Component) ComponentType {
	t := reflect.TypeOf(c)
	if t == nil {
		return 0
	}
	return typeIDFor(t)
}

func typeIDFor(t reflect.Type) ComponentType {
	types.mu.RLock()
	id, ok := types.byType[t]
	types.mu.RUnlock()
	if ok {
		return id
	}

	types.mu.Lock()
	defer types.mu.Unlock()
	if id, ok := types.byType[t]; ok {
		return id
	}
	id = ComponentType(len(types.byID))
	types.byType[t] = id
	types.byID = append(types.byID, t)
	return id
}

// Type returns the Go type registered for the id, or nil if unknown.
func (t ComponentType) Type() reflect.Type {
	types.mu.RLock()
	defer types.mu.RUnlock()
	if int(t) >= len(types.byID) {
		return nil
	}
	return types.byID[t]
}

func (t ComponentType) String() string {
	if rt := t.Type(); rt != nil {
		return rt.String()
	}
	return "<unregistered component type>"
}
