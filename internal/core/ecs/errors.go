package ecs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// EntityNotFoundError reports an operation against an entity the store does not hold.
type EntityNotFoundError struct {
	Entity Entity
}

func (e EntityNotFoundError) Error() string {
	return fmt.Sprintf("%v is not in store", e.Entity)
}

func (e EntityNotFoundError) Unwrap() error { return ErrNotFound }

// ComponentNotFoundError reports a component type missing from an entity.
type ComponentNotFoundError struct {
	Entity Entity
	Type   ComponentType
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %v does not exist on %v", e.Type, e.Entity)
}

func (e ComponentNotFoundError) Unwrap() error { return ErrNotFound }

var errNilComponent = fmt.Errorf("%w: nil component", ErrInvalidArgument)
