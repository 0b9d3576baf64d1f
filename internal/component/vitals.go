package component

// Health is pure data; damage and healing happen through actions.
type Health struct {
	Current int `yaml:"current"`
	Max     int `yaml:"max"`
}

func (h Health) Dead() bool { return h.Current <= 0 }

// Lifetime counts down once per pass; the entity is removed when it hits zero.
type Lifetime struct {
	Ticks int `yaml:"ticks"`
}
