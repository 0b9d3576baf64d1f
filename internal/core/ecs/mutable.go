package ecs

import (
	"iter"
	"slices"
)

var _ Store = (*mutableStore)(nil)

// mutableStore keeps one table per component type plus, per entity, the
// sorted list of types it owns. Not safe for concurrent use.
type mutableStore struct {
	alloc    EntityAllocator
	ids      []EntityID // ascending; ids are minted in order so appends keep it sorted
	owned    map[EntityID][]ComponentType
	registry *tableRegistry
}

func newMutableStore() *mutableStore {
	return &mutableStore{
		ids:      make([]EntityID, 0, 1024),
		owned:    make(map[EntityID][]ComponentType, 1024),
		registry: newTableRegistry(),
	}
}

func (s *mutableStore) Backend() Backend { return Mutable }
func (s *mutableStore) Len() int         { return len(s.ids) }
func (s *mutableStore) LastID() EntityID { return s.alloc.Last() }

func (s *mutableStore) Has(e Entity) bool {
	_, ok := s.owned[e.id]
	return ok
}

func (s *mutableStore) AddEntity(components ...Component) (Store, Entity) {
	var e Entity
	s.alloc, e = s.alloc.Allocate()
	s.ids = append(s.ids, e.id)
	s.owned[e.id] = nil
	for _, c := range components {
		if _, err := s.AddComponent(e, c); err != nil {
			panic("ecs: " + err.Error())
		}
	}
	return s, e
}

func (s *mutableStore) RemoveEntity(e Entity) (Store, error) {
	owned, ok := s.owned[e.id]
	if !ok {
		return s, EntityNotFoundError{Entity: e}
	}
	s.registry.RemoveAll(e.id, owned)
	delete(s.owned, e.id)
	if i, found := slices.BinarySearch(s.ids, e.id); found {
		s.ids = slices.Delete(s.ids, i, i+1)
	}
	return s, nil
}

func (s *mutableStore) AddComponent(e Entity, c Component) (Store, error) {
	t := TypeFor(c)
	if t == 0 {
		return s, errNilComponent
	}
	owned, ok := s.owned[e.id]
	if !ok {
		return s, EntityNotFoundError{Entity: e}
	}
	if i, found := slices.BinarySearch(owned, t); !found {
		s.owned[e.id] = slices.Insert(owned, i, t)
	}
	s.registry.table(t).Set(e.id, c)
	return s, nil
}

func (s *mutableStore) RemoveComponent(e Entity, t ComponentType) (Store, error) {
	owned, ok := s.owned[e.id]
	if !ok {
		return s, EntityNotFoundError{Entity: e}
	}
	i, found := slices.BinarySearch(owned, t)
	if !found {
		return s, ComponentNotFoundError{Entity: e, Type: t}
	}
	s.owned[e.id] = slices.Delete(owned, i, i+1)
	s.registry.table(t).Remove(e.id)
	return s, nil
}

func (s *mutableStore) Component(e Entity, t ComponentType) (Component, bool) {
	tbl, ok := s.registry.lookup(t)
	if !ok {
		return nil, false
	}
	return tbl.Get(e.id)
}

func (s *mutableStore) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, id := range s.ids {
			if !yield(Entity{id: id}) {
				return
			}
		}
	}
}

func (s *mutableStore) Query(types ...ComponentType) iter.Seq2[Entity, []Component] {
	types = uniqueTypes(types)
	return func(yield func(Entity, []Component) bool) {
		tables, ok := s.tablesFor(types)
		if !ok {
			return
		}
		for _, id := range s.ids {
			var comps []Component
			if len(types) == 0 {
				comps = s.allComponents(id)
			} else if comps, ok = gather(id, tables); !ok {
				continue
			}
			if !yield(Entity{id: id}, comps) {
				return
			}
		}
	}
}

// tablesFor resolves the requested tables up front. ok is false when some
// requested type has no table at all, in which case nothing can match.
func (s *mutableStore) tablesFor(types []ComponentType) ([]*componentTable, bool) {
	tables := make([]*componentTable, len(types))
	for i, t := range types {
		tbl, ok := s.registry.lookup(t)
		if !ok {
			return nil, false
		}
		tables[i] = tbl
	}
	return tables, true
}

func (s *mutableStore) allComponents(id EntityID) []Component {
	owned := s.owned[id]
	comps := make([]Component, 0, len(owned))
	for _, t := range owned {
		c, _ := s.registry.tables[t].Get(id)
		comps = append(comps, c)
	}
	return comps
}

func gather(id EntityID, tables []*componentTable) ([]Component, bool) {
	comps := make([]Component, len(tables))
	for i, tbl := range tables {
		c, ok := tbl.Get(id)
		if !ok {
			return nil, false
		}
		comps[i] = c
	}
	return comps, true
}
