package system

import (
	"errors"
	"slices"
	"testing"

	"github.com/l1jgo/ecdb/internal/core/ecs"
)

type namedSystem struct {
	name string
}

func (namedSystem) Produce(ecs.Store) ([]any, error) { return nil, nil }

func TestRegistryRejectsNegativePriority(t *testing.T) {
	reg := NewRegistry[any]()
	err := reg.Add(namedSystem{"a"}, -1)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	var pe InvalidPriorityError
	if !errors.As(err, &pe) || pe.Priority != -1 {
		t.Errorf("errors.As = %v, %+v", errors.As(err, &pe), pe)
	}
	if reg.Len() != 0 {
		t.Errorf("rejected system registered")
	}
	if err := reg.Add(nil, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil system err = %v", err)
	}
}

func TestRegistryPrioritiesSorted(t *testing.T) {
	tests := []struct {
		name   string
		insert []Priority
		want   []Priority
	}{
		{"ascending", []Priority{0, 1, 2}, []Priority{0, 1, 2}},
		{"descending", []Priority{9, 4, 0}, []Priority{0, 4, 9}},
		{"sparse with repeats", []Priority{100, 3, 100, 0, 3, 42}, []Priority{0, 3, 42, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry[any]()
			for i, p := range tt.insert {
				if err := reg.Add(namedSystem{name: string(rune('a' + i))}, p); err != nil {
					t.Fatalf("Add: %v", err)
				}
			}
			if got := reg.Priorities(); !slices.Equal(got, tt.want) {
				t.Errorf("Priorities = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistryPrioritiesAfterLateAdd(t *testing.T) {
	reg := NewRegistry[any]()
	_ = reg.Add(namedSystem{"a"}, 5)
	_ = reg.Priorities()
	_ = reg.Add(namedSystem{"b"}, 1)
	if got := reg.Priorities(); !slices.Equal(got, []Priority{1, 5}) {
		t.Errorf("Priorities = %v, want [1 5]", got)
	}
}

func TestRegistryTierIsSet(t *testing.T) {
	reg := NewRegistry[any]()
	a := namedSystem{"a"}
	fn := SystemFunc[any](func(ecs.Store) ([]any, error) { return nil, nil })

	for _, step := range []struct {
		s System[any]
		p Priority
	}{
		{a, 0},
		{a, 0},                // duplicate comparable handle
		{namedSystem{"a"}, 0}, // equal value
		{a, 1},                // same handle, other tier
		{fn, 0},               // funcs are never deduplicated
		{fn, 0},
		{&namedSystem{"a"}, 0}, // pointer identity differs from value
	} {
		if err := reg.Add(step.s, step.p); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if n := len(reg.Tier(0)); n != 4 {
		t.Errorf("tier 0 has %d systems, want 4", n)
	}
	if n := len(reg.Tier(1)); n != 1 {
		t.Errorf("tier 1 has %d systems, want 1", n)
	}
	if reg.Len() != 5 {
		t.Errorf("Len = %d, want 5", reg.Len())
	}
	if len(reg.Tier(7)) != 0 {
		t.Errorf("unknown tier not empty")
	}
}

// wrappedSystem is a comparable struct whose field may hold a func.
type wrappedSystem struct {
	inner any
}

func (wrappedSystem) Produce(ecs.Store) ([]any, error) { return nil, nil }

func TestRegistryWrappedFuncNotDeduplicated(t *testing.T) {
	reg := NewRegistry[any]()
	f := func() {}
	for i := 0; i < 2; i++ {
		if err := reg.Add(wrappedSystem{inner: f}, 0); err != nil {
			t.Fatalf("Add #%d: %v", i+1, err)
		}
	}
	if n := len(reg.Tier(0)); n != 2 {
		t.Errorf("tier 0 has %d systems, want 2", n)
	}

	// The same wrapper around a comparable value is still a set member.
	reg = NewRegistry[any]()
	_ = reg.Add(wrappedSystem{inner: "x"}, 0)
	_ = reg.Add(wrappedSystem{inner: "x"}, 0)
	if n := len(reg.Tier(0)); n != 1 {
		t.Errorf("tier 0 has %d systems, want 1", n)
	}
}
