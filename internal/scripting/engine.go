package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/l1jgo/ecdb/internal/core/ecs"
	coresys "github.com/l1jgo/ecdb/internal/core/system"
	"github.com/l1jgo/ecdb/internal/system"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM hosting scripted systems.
// Single-goroutine access only: every ScriptSystem it creates runs on this VM,
// so their Produce calls must not be fanned out.
type Engine struct {
	vm      *lua.LState
	log     *zap.Logger
	systems []*ScriptSystem
	names   map[string]bool

	// loadErr carries a typed error out of register_system, which can only
	// raise a Lua error.
	loadErr error
}

func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, names: make(map[string]bool)}
	vm.SetGlobal("register_system", vm.NewFunction(e.registerSystem))
	return e
}

// LoadDir loads all .lua files in a directory in name order. A missing
// directory loads nothing.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile runs one script. Systems it registers become visible through
// Systems.
func (e *Engine) LoadFile(path string) error {
	e.loadErr = nil
	if err := e.vm.DoFile(path); err != nil {
		if e.loadErr != nil {
			err = e.loadErr
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// Systems returns the scripted systems in registration order.
func (e *Engine) Systems() []*ScriptSystem {
	return e.systems
}

// Register adds every scripted system to reg at its declared priority.
func (e *Engine) Register(reg *coresys.Registry[system.Action]) error {
	for _, s := range e.systems {
		if err := reg.Add(s, s.priority); err != nil {
			return fmt.Errorf("register script system %s: %w", s.name, err)
		}
	}
	return nil
}

// Close releases the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// registerSystem implements register_system(name, priority, types, fn).
func (e *Engine) registerSystem(L *lua.LState) int {
	name := L.CheckString(1)
	priority := L.CheckInt(2)
	typesTbl := L.CheckTable(3)
	fn := L.CheckFunction(4)

	fail := func(err error) int {
		e.loadErr = fmt.Errorf("register_system %q: %w", name, err)
		L.RaiseError("%s", e.loadErr.Error())
		return 0
	}

	if priority < 0 {
		return fail(coresys.InvalidPriorityError{Priority: coresys.Priority(priority)})
	}
	if e.names[name] {
		return fail(fmt.Errorf("%w: duplicate system name", coresys.ErrInvalidArgument))
	}

	var types []ecs.ComponentType
	for i := 1; i <= typesTbl.Len(); i++ {
		c, err := codecFor(lua.LVAsString(typesTbl.RawGetInt(i)))
		if err != nil {
			return fail(err)
		}
		types = append(types, c.typ)
	}

	s := &ScriptSystem{
		engine:   e,
		name:     name,
		priority: coresys.Priority(priority),
		types:    types,
		fn:       fn,
	}
	e.systems = append(e.systems, s)
	e.names[name] = true
	e.log.Debug("script system registered",
		zap.String("name", name),
		zap.Int("priority", priority),
		zap.Int("types", len(types)),
	)
	return 0
}

func unknown(kind, name string) error {
	return fmt.Errorf("%w: %s %q", coresys.ErrUnrecognizedVariant, kind, name)
}
