package system

import (
	"errors"

	"github.com/l1jgo/ecdb/internal/core/ecs"
	"github.com/l1jgo/ecdb/internal/core/event"
	coresys "github.com/l1jgo/ecdb/internal/core/system"
	"go.uber.org/zap"
)

var _ coresys.Reducer[Action] = (*Reducer)(nil)

// Reducer applies the domain actions to a store and reports what changed on
// the event bus.
type Reducer struct {
	bus *event.Bus
	log *zap.Logger

	// SkipStale drops actions aimed at entities that an earlier action of the
	// same batch already removed, instead of failing the pass.
	SkipStale bool
}

func NewReducer(bus *event.Bus, log *zap.Logger) *Reducer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reducer{bus: bus, log: log}
}

func (r *Reducer) Apply(store ecs.Store, action Action) (ecs.Store, error) {
	var (
		out ecs.Store
		err error
	)
	switch a := action.(type) {
	case SetComponent:
		if out, err = store.AddComponent(a.Entity, a.Component); err == nil {
			event.Emit(r.bus, event.ComponentChanged{Entity: a.Entity, Type: ecs.TypeFor(a.Component)})
		}
	case RemoveComponent:
		if out, err = store.RemoveComponent(a.Entity, a.Type); err == nil {
			event.Emit(r.bus, event.ComponentChanged{Entity: a.Entity, Type: a.Type, Removed: true})
		}
	case RemoveEntity:
		if out, err = store.RemoveEntity(a.Entity); err == nil {
			event.Emit(r.bus, event.EntityRemoved{Entity: a.Entity})
		}
	case SpawnEntity:
		var e ecs.Entity
		out, e = store.AddEntity(a.Components...)
		event.Emit(r.bus, event.EntitySpawned{Entity: e})
	default:
		return store, coresys.Unrecognized("action", action)
	}

	if err != nil && r.SkipStale && stale(err) {
		r.log.Debug("skip stale action", zap.String("action", action.ActionName()), zap.Error(err))
		return store, nil
	}
	return out, err
}

func stale(err error) bool {
	var nf ecs.EntityNotFoundError
	return errors.As(err, &nf)
}
