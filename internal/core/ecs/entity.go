package ecs

import "strconv"

// EntityID is the integer behind an Entity. Ids are minted in strictly
// increasing order starting at 1 and are never reused within a store lineage.
type EntityID uint64

// Entity is an opaque handle grouping zero or more components.
type Entity struct {
	id EntityID
}

// EntityOf wraps a raw id. Mostly useful for scripting bridges and tests;
// a store only recognizes ids it minted itself.
func EntityOf(id EntityID) Entity { return Entity{id: id} }

func (e Entity) ID() EntityID   { return e.id }
func (e Entity) IsZero() bool   { return e.id == 0 }
func (e Entity) String() string { return "entity#" + strconv.FormatUint(uint64(e.id), 10) }

// EntityAllocator mints entities from a monotonically increasing counter.
// It is a value: copying it forks the lineage, which is how persistent store
// versions each keep their own counter.
type EntityAllocator struct {
	last EntityID
}

// Allocate returns the advanced allocator and the freshly minted entity.
func (a EntityAllocator) Allocate() (EntityAllocator, Entity) {
	a.last++
	return a, Entity{id: a.last}
}

// Last returns the most recently minted id, or 0 if none was minted yet.
func (a EntityAllocator) Last() EntityID { return a.last }
