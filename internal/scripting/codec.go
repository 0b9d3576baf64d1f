package scripting

import (
	"github.com/l1jgo/ecdb/internal/component"
	"github.com/l1jgo/ecdb/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
)

// codec converts one component type to and from a Lua table.
type codec struct {
	name   string
	typ    ecs.ComponentType
	encode func(L *lua.LState, c ecs.Component) *lua.LTable
	decode func(t *lua.LTable) ecs.Component
}

var (
	codecsByName = map[string]*codec{}
	codecsByType = map[ecs.ComponentType]*codec{}
)

func register[T any](name string, encode func(L *lua.LState, c T) *lua.LTable, decode func(t *lua.LTable) T) {
	c := &codec{
		name: name,
		typ:  ecs.TypeOf[T](),
		encode: func(L *lua.LState, v ecs.Component) *lua.LTable {
			return encode(L, v.(T))
		},
		decode: func(t *lua.LTable) ecs.Component { return decode(t) },
	}
	codecsByName[name] = c
	codecsByType[c.typ] = c
}

func init() {
	register("position",
		func(L *lua.LState, p component.Position) *lua.LTable {
			t := L.NewTable()
			t.RawSetString("x", lua.LNumber(p.X))
			t.RawSetString("y", lua.LNumber(p.Y))
			return t
		},
		func(t *lua.LTable) component.Position {
			return component.Position{X: lFloat(t, "x"), Y: lFloat(t, "y")}
		})
	register("velocity",
		func(L *lua.LState, v component.Velocity) *lua.LTable {
			t := L.NewTable()
			t.RawSetString("x", lua.LNumber(v.X))
			t.RawSetString("y", lua.LNumber(v.Y))
			return t
		},
		func(t *lua.LTable) component.Velocity {
			return component.Velocity{X: lFloat(t, "x"), Y: lFloat(t, "y")}
		})
	register("health",
		func(L *lua.LState, h component.Health) *lua.LTable {
			t := L.NewTable()
			t.RawSetString("current", lua.LNumber(h.Current))
			t.RawSetString("max", lua.LNumber(h.Max))
			return t
		},
		func(t *lua.LTable) component.Health {
			return component.Health{Current: lInt(t, "current"), Max: lInt(t, "max")}
		})
	register("lifetime",
		func(L *lua.LState, l component.Lifetime) *lua.LTable {
			t := L.NewTable()
			t.RawSetString("ticks", lua.LNumber(l.Ticks))
			return t
		},
		func(t *lua.LTable) component.Lifetime {
			return component.Lifetime{Ticks: lInt(t, "ticks")}
		})
	register("name",
		func(L *lua.LState, n component.Name) *lua.LTable {
			t := L.NewTable()
			t.RawSetString("value", lua.LString(n.Value))
			return t
		},
		func(t *lua.LTable) component.Name {
			return component.Name{Value: lStr(t, "value")}
		})
}

// codecFor resolves a script-facing component name.
func codecFor(name string) (*codec, error) {
	c, ok := codecsByName[name]
	if !ok {
		return nil, unknown("component", name)
	}
	return c, nil
}

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

func lFloat(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}
