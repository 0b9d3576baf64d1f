package ecs

import (
	"fmt"
	"iter"
	"strings"
)

// Backend selects a Store's ownership model.
type Backend int

const (
	// Persistent stores return a new value from every mutation and leave the
	// receiver untouched. Old versions are safe to read from any goroutine.
	Persistent Backend = iota
	// Mutable stores change in place and return themselves.
	Mutable
)

func (b Backend) String() string {
	switch b {
	case Persistent:
		return "persistent"
	case Mutable:
		return "mutable"
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// ParseBackend accepts "persistent" or "mutable", case-insensitively.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "persistent", "immutable", "":
		return Persistent, nil
	case "mutable", "inplace", "in-place":
		return Mutable, nil
	}
	return 0, fmt.Errorf("%w: unknown store backend %q", ErrInvalidArgument, s)
}

// UnmarshalText lets config decoders fill a Backend directly.
func (b *Backend) UnmarshalText(text []byte) error {
	v, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Store maps entities to their type-keyed component tables.
//
// Every mutating method returns the store to continue with. For a Persistent
// store that is a new version and the receiver is unchanged; for a Mutable
// store it is the receiver itself. Callers should always continue with the
// returned value so code works unchanged against either backend. On error the
// returned store is equivalent to the receiver.
type Store interface {
	Backend() Backend

	// Len returns the number of live entities.
	Len() int
	Has(e Entity) bool
	// LastID returns the last id minted in this store's lineage.
	LastID() EntityID

	AddEntity(components ...Component) (Store, Entity)
	RemoveEntity(e Entity) (Store, error)
	AddComponent(e Entity, c Component) (Store, error)
	RemoveComponent(e Entity, t ComponentType) (Store, error)

	// Component never fails; ok is false when the entity or type is absent.
	Component(e Entity, t ComponentType) (c Component, ok bool)

	// Entities yields live entities in ascending id order.
	Entities() iter.Seq[Entity]

	// Query yields entities with their components. With no types every
	// entity is yielded with all its components. Otherwise only entities
	// holding every requested type are yielded, with one component per
	// requested type in the requested order.
	Query(types ...ComponentType) iter.Seq2[Entity, []Component]
}

// NewStore creates an empty store with the given backend.
func NewStore(b Backend) Store {
	switch b {
	case Mutable:
		return newMutableStore()
	default:
		return newPersistentStore()
	}
}
