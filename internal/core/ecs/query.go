package ecs

// uniqueTypes drops repeated types, keeping first occurrences in order.
func uniqueTypes(types []ComponentType) []ComponentType {
	if len(types) < 2 {
		return types
	}
	out := make([]ComponentType, 0, len(types))
	for _, t := range types {
		dup := false
		for _, seen := range out {
			if seen == t {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}

// Get returns entity e's component of type T.
func Get[T any](s Store, e Entity) (T, bool) {
	c, ok := s.Component(e, TypeOf[T]())
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := c.(T)
	return v, ok
}

// Each1 calls fn for every entity holding an A. Returning false stops.
func Each1[A any](s Store, fn func(Entity, A) bool) {
	for e, comps := range s.Query(TypeOf[A]()) {
		if !fn(e, comps[0].(A)) {
			return
		}
	}
}

// columns maps each requested type to its column in a query over the
// deduplicated types, so repeated type parameters share one column.
func columns(types ...ComponentType) ([]ComponentType, []int) {
	uniq := uniqueTypes(types)
	idx := make([]int, len(types))
	for i, t := range types {
		for j, u := range uniq {
			if u == t {
				idx[i] = j
				break
			}
		}
	}
	return uniq, idx
}

// Each2 calls fn for every entity holding both an A and a B. When A and B are
// the same type both arguments receive the same component.
func Each2[A, B any](s Store, fn func(Entity, A, B) bool) {
	types, col := columns(TypeOf[A](), TypeOf[B]())
	for e, comps := range s.Query(types...) {
		if !fn(e, comps[col[0]].(A), comps[col[1]].(B)) {
			return
		}
	}
}

// Each3 calls fn for every entity holding an A, a B, and a C.
func Each3[A, B, C any](s Store, fn func(Entity, A, B, C) bool) {
	types, col := columns(TypeOf[A](), TypeOf[B](), TypeOf[C]())
	for e, comps := range s.Query(types...) {
		if !fn(e, comps[col[0]].(A), comps[col[1]].(B), comps[col[2]].(C)) {
			return
		}
	}
}
