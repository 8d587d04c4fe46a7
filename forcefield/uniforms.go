package forcefield

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/config"
)

// Region is a field as the update pass sees it: where it is, what it covers,
// and its kind-specific magnitude.
type Region struct {
	Position r3.Vec
	Shape    Shape
	Force    r3.Vec
	Strength float64
}

// Contains reports whether p is inside the region.
func (g Region) Contains(p r3.Vec) bool {
	return g.Shape.Contains(g.Position, p)
}

// Bounds is an axis-aligned obstacle box, stored as its minimum corner and size.
type Bounds struct {
	Min  r3.Vec
	Size r3.Vec
}

// Max returns the maximum corner.
func (b Bounds) Max() r3.Vec {
	return r3.Add(b.Min, b.Size)
}

// Uniforms is the per-step snapshot of the registry handed to the particle
// update pass: one fixed array plus count per kind.
type Uniforms struct {
	Directional    [config.MaxFieldsPerKind]Region
	NumDirectional int

	Expansion    [config.MaxFieldsPerKind]Region
	NumExpansion int

	Contraction    [config.MaxFieldsPerKind]Region
	NumContraction int

	Obstacles    [config.MaxFieldsPerKind]Bounds
	NumObstacles int
}

// Active returns the total number of uploaded fields.
func (u *Uniforms) Active() int {
	return u.NumDirectional + u.NumExpansion + u.NumContraction + u.NumObstacles
}

// Upload writes every registered field into u, grouped by kind.
// Order within a kind is irrelevant to the update pass.
func (r *Registry) Upload(u *Uniforms) {
	u.NumDirectional = 0
	u.NumExpansion = 0
	u.NumContraction = 0
	u.NumObstacles = 0

	query := r.fieldFilter.Query()
	for query.Next() {
		f, _ := query.Get()
		region := Region{Position: f.Position, Shape: f.Shape, Force: f.Force, Strength: f.Strength}

		switch f.Kind {
		case Directional:
			u.Directional[u.NumDirectional] = region
			u.NumDirectional++
		case Expansion:
			u.Expansion[u.NumExpansion] = region
			u.NumExpansion++
		case Contraction:
			u.Contraction[u.NumContraction] = region
			u.NumContraction++
		case Obstacle:
			h := f.Shape.HalfExtents
			u.Obstacles[u.NumObstacles] = Bounds{
				Min:  r3.Sub(f.Position, h),
				Size: r3.Scale(2, h),
			}
			u.NumObstacles++
		}
	}
}
