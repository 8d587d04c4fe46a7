// Package camera provides a 3D orbit camera for viewport control and picking.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// maxPitch keeps the eye off the poles where the up vector degenerates.
const maxPitch = math.Pi/2 - 0.01

// orbitSpeed is radians of rotation per screen pixel dragged.
const orbitSpeed = 0.005

// Camera orbits a target point at a given distance.
type Camera struct {
	// Target is the point the camera looks at
	Target r3.Vec

	// Spherical coordinates of the eye around Target
	Distance   float64
	Yaw, Pitch float64 // radians

	// Vertical field of view in degrees
	FovY float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Distance constraints
	MinDistance, MaxDistance float64

	home struct {
		target               r3.Vec
		distance, yaw, pitch float64
	}
}

// Up is the world up direction.
var Up = r3.Vec{Y: 1}

// New creates a camera at eye looking at target.
func New(viewportW, viewportH float64, eye, target r3.Vec, fovY float64) *Camera {
	offset := r3.Sub(eye, target)
	dist := r3.Norm(offset)
	if dist == 0 {
		offset = r3.Vec{Z: -1}
		dist = 1
	}

	c := &Camera{
		Target:      target,
		Distance:    dist,
		Yaw:         math.Atan2(offset.X, offset.Z),
		Pitch:       math.Asin(offset.Y / dist),
		FovY:        fovY,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		MinDistance: 0.1,
		MaxDistance: math.Inf(1),
	}
	c.home.target = c.Target
	c.home.distance = c.Distance
	c.home.yaw = c.Yaw
	c.home.pitch = c.Pitch
	return c
}

// Eye returns the camera position in world coordinates.
func (c *Camera) Eye() r3.Vec {
	cp := math.Cos(c.Pitch)
	offset := r3.Vec{
		X: cp * math.Sin(c.Yaw),
		Y: math.Sin(c.Pitch),
		Z: cp * math.Cos(c.Yaw),
	}
	return r3.Add(c.Target, r3.Scale(c.Distance, offset))
}

// basis returns the camera's forward, right and up unit vectors.
func (c *Camera) basis() (forward, right, up r3.Vec) {
	forward = r3.Unit(r3.Sub(c.Target, c.Eye()))
	right = r3.Unit(r3.Cross(forward, Up))
	up = r3.Cross(right, forward)
	return forward, right, up
}

func (c *Camera) aspect() float64 {
	if c.ViewportH <= 0 {
		return 1
	}
	return c.ViewportW / c.ViewportH
}

func (c *Camera) tanHalfFov() float64 {
	return math.Tan(c.FovY * math.Pi / 360)
}

// Ray returns the world-space ray through screen position (sx, sy).
// The direction is normalized.
func (c *Camera) Ray(sx, sy float64) (origin, direction r3.Vec) {
	forward, right, up := c.basis()

	// Normalized device coordinates, y up
	ndcX := 2*sx/c.ViewportW - 1
	ndcY := 1 - 2*sy/c.ViewportH

	t := c.tanHalfFov()
	dir := r3.Add(forward, r3.Add(
		r3.Scale(ndcX*t*c.aspect(), right),
		r3.Scale(ndcY*t, up),
	))
	return c.Eye(), r3.Unit(dir)
}

// WorldToScreen projects p to screen coordinates.
// Returns false when p is behind the camera.
func (c *Camera) WorldToScreen(p r3.Vec) (sx, sy float64, ok bool) {
	forward, right, up := c.basis()
	d := r3.Sub(p, c.Eye())

	z := r3.Dot(d, forward)
	if z <= 0 {
		return 0, 0, false
	}

	t := c.tanHalfFov()
	ndcX := r3.Dot(d, right) / (z * t * c.aspect())
	ndcY := r3.Dot(d, up) / (z * t)

	sx = (ndcX + 1) / 2 * c.ViewportW
	sy = (1 - ndcY) / 2 * c.ViewportH
	return sx, sy, true
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Orbit rotates the eye around the target by a drag of (dx, dy) screen pixels.
func (c *Camera) Orbit(dx, dy float64) {
	c.Yaw = math.Mod(c.Yaw-dx*orbitSpeed, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dy*orbitSpeed, -maxPitch, maxPitch)
}

// SetDistance sets the eye distance, clamped to min/max.
func (c *Camera) SetDistance(d float64) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy divides the eye distance by the given factor (2.0 = twice as close).
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// Reset returns the camera to its starting pose.
func (c *Camera) Reset() {
	c.Target = c.home.target
	c.Distance = c.home.distance
	c.Yaw = c.home.yaw
	c.Pitch = c.home.pitch
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
