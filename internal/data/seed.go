package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/ecdb/internal/component"
	"github.com/l1jgo/ecdb/internal/core/ecs"
	"gopkg.in/yaml.v3"
)

// SeedEntry describes Count identical entities. Absent components are omitted.
type SeedEntry struct {
	Count    int                 `yaml:"count"` // 0 means 1
	Name     *component.Name     `yaml:"name"`
	Position *component.Position `yaml:"position"`
	Velocity *component.Velocity `yaml:"velocity"`
	Health   *component.Health   `yaml:"health"`
	Lifetime *component.Lifetime `yaml:"lifetime"`
}

// Components returns the entry's components in field order.
func (e *SeedEntry) Components() []ecs.Component {
	var out []ecs.Component
	if e.Name != nil {
		out = append(out, *e.Name)
	}
	if e.Position != nil {
		out = append(out, *e.Position)
	}
	if e.Velocity != nil {
		out = append(out, *e.Velocity)
	}
	if e.Health != nil {
		out = append(out, *e.Health)
	}
	if e.Lifetime != nil {
		out = append(out, *e.Lifetime)
	}
	return out
}

// Seed is the initial world loaded from seed.yaml.
type Seed struct {
	Entities []SeedEntry `yaml:"entities"`
}

// LoadSeed loads a world seed file.
func LoadSeed(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var s Seed
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i := range s.Entities {
		e := &s.Entities[i]
		if e.Count < 0 {
			return nil, fmt.Errorf("seed entry %d: count must be >= 0, got %d: %w", i, e.Count, ecs.ErrInvalidArgument)
		}
		if e.Count == 0 {
			e.Count = 1
		}
	}
	return &s, nil
}

// Count returns the total number of entities the seed creates.
func (s *Seed) Count() int {
	n := 0
	for i := range s.Entities {
		n += s.Entities[i].Count
	}
	return n
}

// Populate adds every seeded entity to store in file order and returns the
// resulting store with the created entities.
func (s *Seed) Populate(store ecs.Store) (ecs.Store, []ecs.Entity) {
	created := make([]ecs.Entity, 0, s.Count())
	for i := range s.Entities {
		e := &s.Entities[i]
		for n := 0; n < e.Count; n++ {
			var ent ecs.Entity
			store, ent = store.AddEntity(e.Components()...)
			created = append(created, ent)
		}
	}
	return store, created
}
