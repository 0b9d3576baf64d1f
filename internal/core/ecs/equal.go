package ecs

import (
	"iter"
	"reflect"
)

// Equal reports whether two stores hold the same entities with deeply equal
// components. Backends and allocator positions are not compared.
func Equal(a, b Store) bool {
	if a.Len() != b.Len() {
		return false
	}
	// Both backends iterate in ascending id order, so a lockstep walk suffices.
	next, stop := iter.Pull2(b.Query())
	defer stop()
	for ae, ac := range a.Query() {
		be, bc, ok := next()
		if !ok || ae != be || !reflect.DeepEqual(ac, bc) {
			return false
		}
	}
	return true
}
