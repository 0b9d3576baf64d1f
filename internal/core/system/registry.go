package system

import (
	"fmt"
	"reflect"
	"slices"
)

// Registry groups systems into priority tiers. A tier behaves as a set:
// adding a comparable system value already present in that tier is a no-op.
// Systems cannot be removed once registered.
type Registry[A any] struct {
	tiers  map[Priority][]System[A]
	sorted []Priority
	dirty  bool
}

func NewRegistry[A any]() *Registry[A] {
	return &Registry[A]{
		tiers: make(map[Priority][]System[A], 8),
	}
}

// Add registers s in tier p.
func (r *Registry[A]) Add(s System[A], p Priority) error {
	if p < 0 {
		return InvalidPriorityError{Priority: p}
	}
	if s == nil {
		return fmt.Errorf("%w: nil system", ErrInvalidArgument)
	}
	tier, ok := r.tiers[p]
	if !ok {
		r.dirty = true
	}
	for _, existing := range tier {
		if sameSystem(existing, s) {
			return nil
		}
	}
	r.tiers[p] = append(tier, s)
	return nil
}

// Priorities returns the registered tiers in ascending order.
func (r *Registry[A]) Priorities() []Priority {
	r.ensureSorted()
	return slices.Clone(r.sorted)
}

// Tier returns the systems of tier p in registration order.
func (r *Registry[A]) Tier(p Priority) []System[A] {
	return slices.Clone(r.tiers[p])
}

// Len returns the total number of registered systems.
func (r *Registry[A]) Len() int {
	n := 0
	for _, tier := range r.tiers {
		n += len(tier)
	}
	return n
}

func (r *Registry[A]) ensureSorted() {
	if !r.dirty {
		return
	}
	r.sorted = r.sorted[:0]
	for p := range r.tiers {
		r.sorted = append(r.sorted, p)
	}
	slices.Sort(r.sorted)
	r.dirty = false
}

// sameSystem compares handles only when both dynamic values are comparable.
// A comparable struct type may still hold a func in an interface field.
func sameSystem[A any](a, b System[A]) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return any(a) == any(b)
}
