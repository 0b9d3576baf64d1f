package ecs

import (
	"cmp"
	"iter"
	"slices"

	"github.com/benbjohnson/immutable"
)

var _ Store = persistentStore{}

type idComparer struct{}

func (idComparer) Compare(a, b EntityID) int { return cmp.Compare(a, b) }

type typeHasher struct{}

func (typeHasher) Hash(t ComponentType) uint32   { return uint32(t) * 0x9E3779B1 }
func (typeHasher) Equal(a, b ComponentType) bool { return a == b }

// componentMap is one entity's table, a HAMT keyed by component type.
type componentMap = immutable.Map[ComponentType, Component]

// persistentStore is a value. Every mutation builds a new value that shares
// all untouched structure with the receiver.
type persistentStore struct {
	alloc    EntityAllocator
	entities *immutable.SortedMap[EntityID, *componentMap]
}

var emptyComponents = immutable.NewMap[ComponentType, Component](typeHasher{})

func newPersistentStore() persistentStore {
	return persistentStore{
		entities: immutable.NewSortedMap[EntityID, *componentMap](idComparer{}),
	}
}

func (s persistentStore) Backend() Backend { return Persistent }
func (s persistentStore) Len() int         { return s.entities.Len() }
func (s persistentStore) LastID() EntityID { return s.alloc.Last() }

func (s persistentStore) Has(e Entity) bool {
	_, ok := s.entities.Get(e.id)
	return ok
}

func (s persistentStore) AddEntity(components ...Component) (Store, Entity) {
	var e Entity
	s.alloc, e = s.alloc.Allocate()
	table := emptyComponents
	for _, c := range components {
		t := TypeFor(c)
		if t == 0 {
			panic("ecs: " + errNilComponent.Error())
		}
		table = table.Set(t, c)
	}
	s.entities = s.entities.Set(e.id, table)
	return s, e
}

func (s persistentStore) RemoveEntity(e Entity) (Store, error) {
	if _, ok := s.entities.Get(e.id); !ok {
		return s, EntityNotFoundError{Entity: e}
	}
	s.entities = s.entities.Delete(e.id)
	return s, nil
}

func (s persistentStore) AddComponent(e Entity, c Component) (Store, error) {
	t := TypeFor(c)
	if t == 0 {
		return s, errNilComponent
	}
	table, ok := s.entities.Get(e.id)
	if !ok {
		return s, EntityNotFoundError{Entity: e}
	}
	s.entities = s.entities.Set(e.id, table.Set(t, c))
	return s, nil
}

func (s persistentStore) RemoveComponent(e Entity, t ComponentType) (Store, error) {
	table, ok := s.entities.Get(e.id)
	if !ok {
		return s, EntityNotFoundError{Entity: e}
	}
	if _, ok := table.Get(t); !ok {
		return s, ComponentNotFoundError{Entity: e, Type: t}
	}
	s.entities = s.entities.Set(e.id, table.Delete(t))
	return s, nil
}

func (s persistentStore) Component(e Entity, t ComponentType) (Component, bool) {
	table, ok := s.entities.Get(e.id)
	if !ok {
		return nil, false
	}
	return table.Get(t)
}

func (s persistentStore) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		it := s.entities.Iterator()
		for !it.Done() {
			id, _, _ := it.Next()
			if !yield(Entity{id: id}) {
				return
			}
		}
	}
}

func (s persistentStore) Query(types ...ComponentType) iter.Seq2[Entity, []Component] {
	types = uniqueTypes(types)
	return func(yield func(Entity, []Component) bool) {
		it := s.entities.Iterator()
		for !it.Done() {
			id, table, _ := it.Next()
			var comps []Component
			if len(types) == 0 {
				comps = sortedComponents(table)
			} else {
				var ok bool
				if comps, ok = lookupAll(table, types); !ok {
					continue
				}
			}
			if !yield(Entity{id: id}, comps) {
				return
			}
		}
	}
}

func lookupAll(table *componentMap, types []ComponentType) ([]Component, bool) {
	comps := make([]Component, len(types))
	for i, t := range types {
		c, ok := table.Get(t)
		if !ok {
			return nil, false
		}
		comps[i] = c
	}
	return comps, true
}

type typedComponent struct {
	t ComponentType
	c Component
}

// sortedComponents flattens a table ordered by component type, matching the
// mutable backend's order.
func sortedComponents(table *componentMap) []Component {
	pairs := make([]typedComponent, 0, table.Len())
	it := table.Iterator()
	for !it.Done() {
		t, c, _ := it.Next()
		pairs = append(pairs, typedComponent{t: t, c: c})
	}
	slices.SortFunc(pairs, func(a, b typedComponent) int { return cmp.Compare(a.t, b.t) })
	comps := make([]Component, len(pairs))
	for i, p := range pairs {
		comps[i] = p.c
	}
	return comps
}
