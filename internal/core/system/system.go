package system

import (
	"errors"
	"fmt"

	"github.com/l1jgo/ecdb/internal/core/ecs"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnrecognizedVariant is returned by domain systems and reducers that
	// are handed a value they do not know how to interpret. The scheduler
	// never inspects it; it simply stops the pass and returns it.
	ErrUnrecognizedVariant = errors.New("unrecognized variant")
)

// Priority orders tiers within a pass. Lower runs first. Must be >= 0.
type Priority int

// System reads a store snapshot and proposes actions. Produce must not
// mutate the store it is given.
type System[A any] interface {
	Produce(store ecs.Store) ([]A, error)
}

// SystemFunc adapts a plain function to System. Function values are not
// comparable, so registering the same SystemFunc twice adds it twice.
type SystemFunc[A any] func(store ecs.Store) ([]A, error)

func (f SystemFunc[A]) Produce(store ecs.Store) ([]A, error) { return f(store) }

// Reducer applies one action to a store and returns the store to continue with.
type Reducer[A any] interface {
	Apply(store ecs.Store, action A) (ecs.Store, error)
}

// ReducerFunc adapts a plain function to Reducer.
type ReducerFunc[A any] func(store ecs.Store, action A) (ecs.Store, error)

func (f ReducerFunc[A]) Apply(store ecs.Store, action A) (ecs.Store, error) { return f(store, action) }

// InvalidPriorityError is returned when registering a system with a negative priority.
type InvalidPriorityError struct {
	Priority Priority
}

func (e InvalidPriorityError) Error() string {
	return fmt.Sprintf("priority must be non-negative, got %d", e.Priority)
}

func (e InvalidPriorityError) Unwrap() error { return ErrInvalidArgument }

// Unrecognized builds an ErrUnrecognizedVariant error naming the offending value.
func Unrecognized(kind string, v any) error {
	return fmt.Errorf("%w: %s %T", ErrUnrecognizedVariant, kind, v)
}
