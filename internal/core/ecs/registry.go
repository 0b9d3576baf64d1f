package ecs

// componentTable holds every component of one type, keyed by entity id.
type componentTable struct {
	data map[EntityID]Component
}

func newComponentTable() *componentTable {
	return &componentTable{
		data: make(map[EntityID]Component, 256),
	}
}

func (t *componentTable) Set(id EntityID, c Component) {
	t.data[id] = c
}

func (t *componentTable) Get(id EntityID) (Component, bool) {
	c, ok := t.data[id]
	return c, ok
}

func (t *componentTable) Remove(id EntityID) {
	delete(t.data, id)
}

// tableRegistry tracks the per-type tables of a mutable store and supports
// bulk cleanup when an entity is removed.
type tableRegistry struct {
	tables map[ComponentType]*componentTable
}

func newTableRegistry() *tableRegistry {
	return &tableRegistry{
		tables: make(map[ComponentType]*componentTable, 16),
	}
}

// table returns the table for t, creating it on first use.
func (r *tableRegistry) table(t ComponentType) *componentTable {
	tbl, ok := r.tables[t]
	if !ok {
		tbl = newComponentTable()
		r.tables[t] = tbl
	}
	return tbl
}

func (r *tableRegistry) lookup(t ComponentType) (*componentTable, bool) {
	tbl, ok := r.tables[t]
	return tbl, ok
}

// RemoveAll clears the entity from every listed table.
func (r *tableRegistry) RemoveAll(id EntityID, owned []ComponentType) {
	for _, t := range owned {
		if tbl, ok := r.tables[t]; ok {
			tbl.Remove(id)
		}
	}
}
