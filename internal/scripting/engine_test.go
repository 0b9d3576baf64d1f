package scripting

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/l1jgo/ecdb/internal/component"
	"github.com/l1jgo/ecdb/internal/core/ecs"
	coresys "github.com/l1jgo/ecdb/internal/core/system"
	"github.com/l1jgo/ecdb/internal/system"
)

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadEngine(t *testing.T, src string) *Engine {
	t.Helper()
	e := NewEngine(nil)
	t.Cleanup(e.Close)
	if err := e.LoadFile(writeScript(t, t.TempDir(), "test.lua", src)); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return e
}

const gravity = `
register_system("gravity", 5, {"position", "velocity"}, function(rows)
  local out = {}
  for _, row in ipairs(rows) do
    out[#out + 1] = {
      kind = "set",
      id = row.id,
      velocity = { x = row.velocity.x, y = row.velocity.y - 1 },
    }
  end
  return out
end)
`

func TestScriptSystemProducesActions(t *testing.T) {
	e := loadEngine(t, gravity)
	if len(e.Systems()) != 1 {
		t.Fatalf("Systems = %d, want 1", len(e.Systems()))
	}
	s := e.Systems()[0]
	if s.Name() != "gravity" || s.Priority() != 5 || len(s.Types()) != 2 {
		t.Fatalf("system = %v priority %d types %v", s, s.Priority(), s.Types())
	}

	store := ecs.NewStore(ecs.Persistent)
	store, moving := store.AddEntity(component.Position{}, component.Velocity{X: 2, Y: 0})
	store, _ = store.AddEntity(component.Position{}) // no velocity, filtered out

	actions, err := s.Produce(store)
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("actions = %v", actions)
	}
	want := system.SetComponent{Entity: moving, Component: component.Velocity{X: 2, Y: -1}}
	if actions[0] != want {
		t.Errorf("action = %v, want %v", actions[0], want)
	}
}

func TestScriptActionKinds(t *testing.T) {
	e := loadEngine(t, `
register_system("all", 0, {"name"}, function(rows)
  local id = rows[1].id
  return {
    { kind = "remove_component", id = id, component = "name" },
    { kind = "spawn", lifetime = { ticks = 3 }, name = { value = "child" } },
    { kind = "remove", id = id },
  }
end)
`)
	store, e1 := ecs.NewStore(ecs.Mutable).AddEntity(component.Name{Value: "parent"})
	actions, err := e.Systems()[0].Produce(store)
	if err != nil {
		t.Fatal(err)
	}
	if len(actions) != 3 {
		t.Fatalf("actions = %v", actions)
	}
	if rc, ok := actions[0].(system.RemoveComponent); !ok || rc.Entity != e1 || rc.Type != ecs.TypeOf[component.Name]() {
		t.Errorf("actions[0] = %v", actions[0])
	}
	spawn, ok := actions[1].(system.SpawnEntity)
	if !ok || len(spawn.Components) != 2 {
		t.Fatalf("actions[1] = %v", actions[1])
	}
	// Fields decode in name order.
	if spawn.Components[0] != (component.Lifetime{Ticks: 3}) || spawn.Components[1] != (component.Name{Value: "child"}) {
		t.Errorf("spawn components = %v", spawn.Components)
	}
	if re, ok := actions[2].(system.RemoveEntity); !ok || re.Entity != e1 {
		t.Errorf("actions[2] = %v", actions[2])
	}
}

func TestScriptSeesAllComponentsWithoutFilter(t *testing.T) {
	e := loadEngine(t, `
register_system("count", 0, {}, function(rows)
  local out = {}
  for _, row in ipairs(rows) do
    if row.health and row.name then
      out[#out + 1] = { kind = "set", id = row.id, health = { current = row.health.current - 1, max = row.health.max } }
    end
  end
  return out
end)
`)
	store := ecs.NewStore(ecs.Persistent)
	store, hero := store.AddEntity(component.Name{Value: "hero"}, component.Health{Current: 3, Max: 3})
	store, _ = store.AddEntity(component.Health{Current: 1, Max: 1})

	actions, err := e.Systems()[0].Produce(store)
	if err != nil {
		t.Fatal(err)
	}
	want := system.SetComponent{Entity: hero, Component: component.Health{Current: 2, Max: 3}}
	if len(actions) != 1 || actions[0] != want {
		t.Errorf("actions = %v, want [%v]", actions, want)
	}
}

func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"unknown kind", `return {{ kind = "explode", id = 1 }}`, coresys.ErrUnrecognizedVariant},
		{"unknown component", `return {{ kind = "set", id = 1, mana = { x = 1 } }}`, coresys.ErrUnrecognizedVariant},
		{"unknown remove type", `return {{ kind = "remove_component", id = 1, component = "mana" }}`, coresys.ErrUnrecognizedVariant},
		{"missing id", `return {{ kind = "remove" }}`, coresys.ErrInvalidArgument},
		{"empty set", `return {{ kind = "set", id = 1 }}`, coresys.ErrInvalidArgument},
		{"scalar result", `return 7`, coresys.ErrInvalidArgument},
	}
	store, _ := ecs.NewStore(ecs.Persistent).AddEntity(component.Name{Value: "x"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := loadEngine(t, `register_system("s", 0, {}, function(rows) `+tt.body+` end)`)
			_, err := e.Systems()[0].Produce(store)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("runtime error", func(t *testing.T) {
		e := loadEngine(t, `register_system("boom", 0, {}, function(rows) error("boom") end)`)
		if _, err := e.Systems()[0].Produce(store); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("nil result", func(t *testing.T) {
		e := loadEngine(t, `register_system("quiet", 0, {}, function(rows) end)`)
		actions, err := e.Systems()[0].Produce(store)
		if err != nil || len(actions) != 0 {
			t.Errorf("actions = %v, err = %v", actions, err)
		}
	})
}

func TestRegisterSystemErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown type", `register_system("s", 0, {"mana"}, function() end)`, coresys.ErrUnrecognizedVariant},
		{"negative priority", `register_system("s", -1, {}, function() end)`, coresys.ErrInvalidArgument},
		{"duplicate name", `
register_system("s", 0, {}, function() end)
register_system("s", 1, {}, function() end)`, coresys.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(nil)
			defer e.Close()
			err := e.LoadFile(writeScript(t, t.TempDir(), "bad.lua", tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadDirAndRegister(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "b.lua", `register_system("second", 1, {}, function() end)`)
	writeScript(t, dir, "a.lua", `register_system("first", 1, {}, function() end)`)
	writeScript(t, dir, "notes.txt", `not lua`)

	e := NewEngine(nil)
	defer e.Close()
	if err := e.LoadDir(dir); err != nil {
		t.Fatal(err)
	}
	if err := e.LoadDir(filepath.Join(dir, "missing")); err != nil {
		t.Fatalf("missing dir: %v", err)
	}

	reg := coresys.NewRegistry[system.Action]()
	if err := e.Register(reg); err != nil {
		t.Fatal(err)
	}
	tier := reg.Tier(1)
	if len(tier) != 2 {
		t.Fatalf("tier = %v", tier)
	}
	// Files load in name order, so registration order follows it.
	if tier[0].(*ScriptSystem).Name() != "first" || tier[1].(*ScriptSystem).Name() != "second" {
		t.Errorf("tier order = %v, %v", tier[0], tier[1])
	}
}

func TestScriptedPassThroughRunner(t *testing.T) {
	e := loadEngine(t, gravity)
	reg := coresys.NewRegistry[system.Action]()
	if err := system.Register(reg, system.MovementSystem{}); err != nil {
		t.Fatal(err)
	}
	if err := e.Register(reg); err != nil {
		t.Fatal(err)
	}
	r := coresys.NewRunner[system.Action](reg, system.NewReducer(nil, nil), nil)

	store, ball := ecs.NewStore(ecs.Mutable).AddEntity(component.Position{Y: 10}, component.Velocity{})
	// Pass 1: movement sees zero velocity; gravity sets it to -1.
	// Pass 2: movement applies it and clears it; gravity sets -1 again.
	for i := 0; i < 2; i++ {
		var err error
		if store, err = r.Tick(store); err != nil {
			t.Fatal(err)
		}
	}
	if p, _ := ecs.Get[component.Position](store, ball); p != (component.Position{Y: 9}) {
		t.Errorf("Position = %v, want {0 9}", p)
	}
	if v, _ := ecs.Get[component.Velocity](store, ball); v != (component.Velocity{Y: -1}) {
		t.Errorf("Velocity = %v, want {0 -1}", v)
	}
}
