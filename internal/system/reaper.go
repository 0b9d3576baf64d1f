package system

import (
	"github.com/l1jgo/ecdb/internal/core/ecs"
	coresys "github.com/l1jgo/ecdb/internal/core/system"
)

// ReaperSystem removes the oldest live entity once per pass.
type ReaperSystem struct{}

func (ReaperSystem) Priority() coresys.Priority { return PriorityCleanup }

func (ReaperSystem) Produce(store ecs.Store) ([]Action, error) {
	for e := range store.Entities() {
		return []Action{RemoveEntity{Entity: e}}, nil
	}
	return nil, nil
}
