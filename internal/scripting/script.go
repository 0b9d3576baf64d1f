package scripting

import (
	"fmt"
	"slices"

	"github.com/l1jgo/ecdb/internal/core/ecs"
	coresys "github.com/l1jgo/ecdb/internal/core/system"
	"github.com/l1jgo/ecdb/internal/system"
	lua "github.com/yuin/gopher-lua"
)

var _ system.System = (*ScriptSystem)(nil)

// ScriptSystem is a system whose Produce is a Lua function. The function gets
// an array of rows, one per entity matching the declared types:
//
//	{ id = 3, position = { x = 1, y = 2 }, velocity = { x = 0, y = 1 } }
//
// and returns an array of action tables:
//
//	{ kind = "set", id = 3, position = { x = 1, y = 3 } }
//	{ kind = "remove", id = 3 }
//	{ kind = "remove_component", id = 3, component = "velocity" }
//	{ kind = "spawn", name = { value = "rock" }, lifetime = { ticks = 5 } }
type ScriptSystem struct {
	engine   *Engine
	name     string
	priority coresys.Priority
	types    []ecs.ComponentType
	fn       *lua.LFunction
}

func (s *ScriptSystem) Name() string               { return s.name }
func (s *ScriptSystem) Priority() coresys.Priority { return s.priority }
func (s *ScriptSystem) Types() []ecs.ComponentType { return s.types }
func (s *ScriptSystem) String() string             { return "script:" + s.name }

func (s *ScriptSystem) Produce(store ecs.Store) ([]system.Action, error) {
	L := s.engine.vm

	rows := L.NewTable()
	for e, comps := range store.Query(s.types...) {
		row := L.NewTable()
		row.RawSetString("id", lua.LNumber(e.ID()))
		for _, c := range comps {
			// Components without a codec are invisible to scripts.
			if cd, ok := codecsByType[ecs.TypeFor(c)]; ok {
				row.RawSetString(cd.name, cd.encode(L, c))
			}
		}
		rows.Append(row)
	}

	if err := L.CallByParam(lua.P{
		Fn:      s.fn,
		NRet:    1,
		Protect: true,
	}, rows); err != nil {
		return nil, fmt.Errorf("script %s: %w", s.name, err)
	}
	result := L.Get(-1)
	L.Pop(1)

	actions, err := decodeActions(result)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", s.name, err)
	}
	return actions, nil
}

func decodeActions(result lua.LValue) ([]system.Action, error) {
	if result == lua.LNil {
		return nil, nil
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: result must be a table, got %s", coresys.ErrInvalidArgument, result.Type())
	}

	var out []system.Action
	for i := 1; i <= rt.Len(); i++ {
		row, ok := rt.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("%w: action %d is not a table", coresys.ErrInvalidArgument, i)
		}
		actions, err := decodeAction(row)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		out = append(out, actions...)
	}
	return out, nil
}

// decodeAction turns one action table into domain actions. "set" yields one
// SetComponent per component field.
func decodeAction(row *lua.LTable) ([]system.Action, error) {
	kind := lStr(row, "kind")
	switch kind {
	case "set":
		e, err := entityField(row)
		if err != nil {
			return nil, err
		}
		comps, err := decodeComponents(row)
		if err != nil {
			return nil, err
		}
		if len(comps) == 0 {
			return nil, fmt.Errorf("%w: set without components", coresys.ErrInvalidArgument)
		}
		out := make([]system.Action, len(comps))
		for i, c := range comps {
			out[i] = system.SetComponent{Entity: e, Component: c}
		}
		return out, nil

	case "remove":
		e, err := entityField(row)
		if err != nil {
			return nil, err
		}
		return []system.Action{system.RemoveEntity{Entity: e}}, nil

	case "remove_component":
		e, err := entityField(row)
		if err != nil {
			return nil, err
		}
		cd, err := codecFor(lStr(row, "component"))
		if err != nil {
			return nil, err
		}
		return []system.Action{system.RemoveComponent{Entity: e, Type: cd.typ}}, nil

	case "spawn":
		comps, err := decodeComponents(row)
		if err != nil {
			return nil, err
		}
		return []system.Action{system.SpawnEntity{Components: comps}}, nil

	default:
		return nil, unknown("action kind", kind)
	}
}

func entityField(row *lua.LTable) (ecs.Entity, error) {
	n, ok := row.RawGetString("id").(lua.LNumber)
	if !ok || n < 1 {
		return ecs.Entity{}, fmt.Errorf("%w: action needs a positive id", coresys.ErrInvalidArgument)
	}
	return ecs.EntityOf(ecs.EntityID(n)), nil
}

// decodeComponents reads every component field of row in name order.
func decodeComponents(row *lua.LTable) ([]ecs.Component, error) {
	var names []string
	row.ForEach(func(k, _ lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		switch key {
		case "kind", "id":
			return
		}
		names = append(names, string(key))
	})
	slices.Sort(names)

	comps := make([]ecs.Component, 0, len(names))
	for _, name := range names {
		cd, err := codecFor(name)
		if err != nil {
			return nil, err
		}
		t, ok := row.RawGetString(name).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a table", coresys.ErrInvalidArgument, name)
		}
		comps = append(comps, cd.decode(t))
	}
	return comps, nil
}
