// Package particles implements the feedback particle system: a point cloud
// that is integrated through the active force fields and respawned in place
// when its lifetime runs out.
package particles

import (
	"math"
	"math/rand"
	"sync/atomic"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/fieldsim/compute"
	"github.com/pthm-cable/fieldsim/config"
	"github.com/pthm-cable/fieldsim/forcefield"
	"github.com/pthm-cable/fieldsim/pingpong"
)

// Tunable ranges.
const (
	MinBounciness = 0.05
	MaxBounciness = 2.0
	MaxDrag       = 10.0
	MinLifetime   = 0.01
)

// State is one half of the particle buffer pair, stored as flat arrays.
// Position and Velocity hold three floats per particle.
type State struct {
	Position  []float32
	Velocity  []float32
	SpawnTime []float32
}

// NewState allocates a zeroed state for n particles.
func NewState(n int) *State {
	return &State{
		Position:  make([]float32, 3*n),
		Velocity:  make([]float32, 3*n),
		SpawnTime: make([]float32, n),
	}
}

// Len returns the particle count.
func (s *State) Len() int {
	return len(s.SpawnTime)
}

// copyFrom overwrites s with src.
func (s *State) copyFrom(src *State) {
	blas32.Copy(vec(src.Position), vec(s.Position))
	blas32.Copy(vec(src.Velocity), vec(s.Velocity))
	blas32.Copy(vec(src.SpawnTime), vec(s.SpawnTime))
}

func vec(data []float32) blas32.Vector {
	return blas32.Vector{N: len(data), Inc: 1, Data: data}
}

// Params are the scalar inputs of the update pass.
type Params struct {
	DT         float32
	Lifetime   float32
	Bounciness float32
	Drag       float32
}

// System owns the particle buffers and runs the update pass.
type System struct {
	buffers *pingpong.Pair[*State]

	// Written once at construction, never modified
	initial *State

	pool     *compute.Pool
	params   Params
	time     float32
	uniforms *forcefield.Uniforms

	respawned atomic.Int64
	steps     int
}

// New creates a system from the particles config section. Initial positions
// are scattered on the emitter sphere using rng.
func New(cfg *config.Config, pool *compute.Pool, rng *rand.Rand) *System {
	pc := cfg.Particles
	initial := NewState(pc.Count)

	center := pc.EmitterCenter
	for i := 0; i < pc.Count; i++ {
		x, y, z := randUnit(rng)
		initial.Position[3*i] = float32(center[0] + x*pc.EmitterRadius)
		initial.Position[3*i+1] = float32(center[1] + y*pc.EmitterRadius)
		initial.Position[3*i+2] = float32(center[2] + z*pc.EmitterRadius)

		initial.Velocity[3*i] = float32(pc.InitialVelocity[0])
		initial.Velocity[3*i+1] = float32(pc.InitialVelocity[1])
		initial.Velocity[3*i+2] = float32(pc.InitialVelocity[2])

		initial.SpawnTime[i] = float32(float64(i) * pc.SpawnInterval)
	}

	return NewFromState(initial, Params{
		DT:         cfg.Derived.ParticleDT32,
		Lifetime:   float32(pc.Lifetime),
		Bounciness: float32(pc.Bounciness),
		Drag:       float32(pc.Drag),
	}, pool)
}

// NewFromState creates a system whose immutable initial state is a copy of initial.
func NewFromState(initial *State, params Params, pool *compute.Pool) *System {
	n := initial.Len()
	frozen := NewState(n)
	frozen.copyFrom(initial)

	current := NewState(n)
	current.copyFrom(frozen)

	s := &System{
		buffers: pingpong.New(current, NewState(n)),
		initial: frozen,
		pool:    pool,
		params:  params,
	}
	s.SetBounciness(params.Bounciness)
	s.SetDrag(params.Drag)
	s.SetLifetime(params.Lifetime)
	return s
}

// randUnit returns a uniformly distributed point on the unit sphere.
func randUnit(rng *rand.Rand) (x, y, z float64) {
	z = rng.Float64()*2 - 1
	phi := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return r * math.Cos(phi), r * math.Sin(phi), z
}

// Len returns the particle count.
func (s *System) Len() int {
	return s.initial.Len()
}

// Time returns the simulation clock in seconds.
func (s *System) Time() float32 {
	return s.time
}

// Current returns the most recently written buffer. Callers must not modify it.
func (s *System) Current() *State {
	return s.buffers.Current()
}

// CurrentIndex returns the index of the most recently written buffer.
func (s *System) CurrentIndex() int {
	return s.buffers.CurrentIndex()
}

// Initial returns the immutable initial state. Callers must not modify it.
func (s *System) Initial() *State {
	return s.initial
}

// Active reports whether particle i has spawned.
func (s *System) Active(i int) bool {
	return s.buffers.Current().SpawnTime[i] <= s.time
}

// ActiveCount returns the number of spawned particles.
func (s *System) ActiveCount() int {
	spawn := s.buffers.Current().SpawnTime
	n := 0
	for _, t := range spawn {
		if t <= s.time {
			n++
		}
	}
	return n
}

// Respawned returns how many particles respawned during the last step.
func (s *System) Respawned() int {
	return int(s.respawned.Load())
}

// Steps returns the number of update passes run since construction or reset.
func (s *System) Steps() int {
	return s.steps
}

// Params returns the current tunables.
func (s *System) Params() Params {
	return s.params
}

// SetBounciness sets the obstacle restitution, clamped to [MinBounciness, MaxBounciness].
func (s *System) SetBounciness(b float32) {
	s.params.Bounciness = clamp(b, MinBounciness, MaxBounciness)
}

// SetDrag sets the linear drag coefficient, clamped to [0, MaxDrag].
func (s *System) SetDrag(d float32) {
	s.params.Drag = clamp(d, 0, MaxDrag)
}

// SetLifetime sets the particle lifetime in seconds (at least MinLifetime).
func (s *System) SetLifetime(l float32) {
	if l < MinLifetime {
		l = MinLifetime
	}
	s.params.Lifetime = l
}

// Reset restores both buffers from the initial state and rewinds the clock.
func (s *System) Reset() {
	s.buffers.At(0).copyFrom(s.initial)
	s.buffers.At(1).copyFrom(s.initial)
	s.time = 0
	s.steps = 0
	s.respawned.Store(0)
}

// KineticEnergy returns 0.5*|v|^2 summed over the current buffer, dormant
// particles included.
func (s *System) KineticEnergy() float64 {
	v := vec(s.buffers.Current().Velocity)
	return 0.5 * float64(blas32.Dot(v, v))
}

// Speeds appends the speed of every active particle to dst.
func (s *System) Speeds(dst []float64) []float64 {
	cur := s.buffers.Current()
	for i := 0; i < cur.Len(); i++ {
		if cur.SpawnTime[i] > s.time {
			continue
		}
		vx := float64(cur.Velocity[3*i])
		vy := float64(cur.Velocity[3*i+1])
		vz := float64(cur.Velocity[3*i+2])
		dst = append(dst, math.Sqrt(vx*vx+vy*vy+vz*vz))
	}
	return dst
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
