package component

// Position is a point in the simulation plane.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Add returns p moved by v.
func (p Position) Add(v Velocity) Position {
	return Position{X: p.X + v.X, Y: p.Y + v.Y}
}

// Velocity is a displacement applied once by MovementSystem, then cleared.
type Velocity struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Velocity) IsZero() bool { return v.X == 0 && v.Y == 0 }
