package forcefield

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Ray is a half-line in world space, as produced by the camera from a screen position.
type Ray struct {
	Origin    r3.Vec
	Direction r3.Vec
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Direction))
}

const epsilon = 1e-9

// intersectSphere returns the nearest non-negative ray parameter hitting the sphere.
// An origin inside the sphere hits at t = 0.
func intersectSphere(ray Ray, center r3.Vec, radius float64) (float64, bool) {
	if radius <= 0 {
		return 0, false
	}
	a := r3.Norm2(ray.Direction)
	if a < epsilon {
		return 0, false
	}
	oc := r3.Sub(ray.Origin, center)
	b := r3.Dot(oc, ray.Direction)
	c := r3.Norm2(oc) - radius*radius
	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b + sq) / a
	if t1 < 0 {
		return 0, false // sphere behind the origin
	}
	t0 := (-b - sq) / a
	if t0 < 0 {
		return 0, true
	}
	return t0, true
}

// intersectBox returns the nearest non-negative ray parameter hitting the
// axis-aligned box [lo, hi] (slab method).
func intersectBox(ray Ray, lo, hi r3.Vec) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		o := component(ray.Origin, axis)
		d := component(ray.Direction, axis)
		mn := component(lo, axis)
		mx := component(hi, axis)

		if abs(d) < epsilon {
			// Parallel to the slab: must already be between the planes
			if o < mn || o > mx {
				return 0, false
			}
			continue
		}

		t1 := (mn - o) / d
		t2 := (mx - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmax < tmin {
			return 0, false
		}
	}

	if tmax < 0 {
		return 0, false
	}
	return math.Max(tmin, 0), true
}

// intersectPlane returns the ray parameter where it crosses the plane through
// point with the given normal. Fails only when the ray is parallel to the plane.
func intersectPlane(ray Ray, point, normal r3.Vec) (float64, bool) {
	denom := r3.Dot(normal, ray.Direction)
	if abs(denom) < epsilon {
		return 0, false
	}
	return r3.Dot(r3.Sub(point, ray.Origin), normal) / denom, true
}

// axisUnit returns the unit vector of axis 0, 1 or 2.
func axisUnit(axis int) r3.Vec {
	switch axis {
	case 0:
		return r3.Vec{X: 1}
	case 1:
		return r3.Vec{Y: 1}
	default:
		return r3.Vec{Z: 1}
	}
}

// component returns the axis-th coordinate of v.
func component(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// withComponent returns v with its axis-th coordinate replaced.
func withComponent(v r3.Vec, axis int, value float64) r3.Vec {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
