// Package forcefield describes spatial regions that push, pull or block
// simulation entities, the registry that owns them, and the pointer
// interaction used to select and drag them.
package forcefield

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kind identifies the effect a field has on entities inside it.
type Kind uint8

const (
	Directional Kind = iota // constant force vector
	Expansion               // pushes outward from the center
	Contraction             // pulls toward the center
	Obstacle                // hard exclusion, box only

	numKinds = 4
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Directional:
		return "directional"
	case Expansion:
		return "expansion"
	case Contraction:
		return "contraction"
	case Obstacle:
		return "obstacle"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Kinds lists every kind in upload order.
func Kinds() []Kind {
	return []Kind{Directional, Expansion, Contraction, Obstacle}
}

// ShapeType discriminates the Shape variant.
type ShapeType uint8

const (
	Sphere ShapeType = iota
	Box
)

// Shape is the bounding region of a field, relative to its position.
// Radius is used by spheres, HalfExtents by boxes.
type Shape struct {
	Type        ShapeType
	Radius      float64
	HalfExtents r3.Vec
}

// SphereShape returns a sphere of the given radius.
func SphereShape(radius float64) Shape {
	return Shape{Type: Sphere, Radius: radius}
}

// BoxShape returns a box with the given full size.
func BoxShape(size r3.Vec) Shape {
	return Shape{Type: Box, HalfExtents: r3.Scale(0.5, size)}
}

// Degenerate reports whether the shape has no volume.
// Degenerate shapes are accepted but exert no influence and cannot be picked.
func (s Shape) Degenerate() bool {
	if s.Type == Sphere {
		return s.Radius <= 0
	}
	h := s.HalfExtents
	return h.X <= 0 || h.Y <= 0 || h.Z <= 0
}

// Contains reports whether p lies inside the shape centered at center.
// Sphere: distance <= radius. Box: inside the half-extents on every axis.
func (s Shape) Contains(center, p r3.Vec) bool {
	if s.Degenerate() {
		return false
	}
	d := r3.Sub(p, center)
	if s.Type == Sphere {
		return r3.Norm2(d) <= s.Radius*s.Radius
	}
	h := s.HalfExtents
	return abs(d.X) <= h.X && abs(d.Y) <= h.Y && abs(d.Z) <= h.Z
}

// Extent returns the distance from the center to the shape surface along axis.
func (s Shape) Extent(axis int) float64 {
	if s.Type == Sphere {
		return s.Radius
	}
	return component(s.HalfExtents, axis)
}

// Field is a single force field. Force is used by Directional fields,
// Strength by Expansion and Contraction; Obstacle uses neither.
type Field struct {
	Kind     Kind
	Position r3.Vec
	Shape    Shape
	Force    r3.Vec
	Strength float64
}

// NewDirectional creates a spherical field applying a constant force.
func NewDirectional(pos r3.Vec, radius float64, force r3.Vec) Field {
	return Field{Kind: Directional, Position: pos, Shape: SphereShape(radius), Force: force}
}

// NewExpansion creates a spherical field pushing entities away from its center.
func NewExpansion(pos r3.Vec, radius, strength float64) Field {
	return Field{Kind: Expansion, Position: pos, Shape: SphereShape(radius), Strength: strength}
}

// NewContraction creates a spherical field pulling entities toward its center.
func NewContraction(pos r3.Vec, radius, strength float64) Field {
	return Field{Kind: Contraction, Position: pos, Shape: SphereShape(radius), Strength: strength}
}

// NewObstacle creates a cuboid obstacle of the given full size.
func NewObstacle(pos, size r3.Vec) Field {
	return Field{Kind: Obstacle, Position: pos, Shape: BoxShape(size)}
}

// Validate checks the kind/shape combination.
func (f Field) Validate() error {
	if f.Kind >= numKinds {
		return fmt.Errorf("%w: %d", ErrUnknownKind, uint8(f.Kind))
	}
	if f.Shape.Type != Sphere && f.Shape.Type != Box {
		return fmt.Errorf("%w: shape type %d", ErrInvalidShape, uint8(f.Shape.Type))
	}
	if f.Kind == Obstacle && f.Shape.Type != Box {
		return fmt.Errorf("%w: obstacles must be boxes", ErrInvalidShape)
	}
	return nil
}

// Intersect returns the distance along ray to the field's bounding shape.
func (f Field) Intersect(ray Ray) (float64, bool) {
	if f.Shape.Degenerate() {
		return 0, false
	}
	if f.Shape.Type == Sphere {
		return intersectSphere(ray, f.Position, f.Shape.Radius)
	}
	h := f.Shape.HalfExtents
	return intersectBox(ray, r3.Sub(f.Position, h), r3.Add(f.Position, h))
}

// Color returns the RGBA render color for the field's kind.
func (f Field) Color() [4]float32 {
	switch f.Kind {
	case Directional:
		return [4]float32{1, 0, 0, 0.1}
	case Expansion:
		return [4]float32{0, 1, 0, 0.1}
	case Contraction:
		return [4]float32{0, 0, 1, 0.1}
	default:
		return [4]float32{0, 1, 1, 0.1}
	}
}
