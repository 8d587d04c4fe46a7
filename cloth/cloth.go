// Package cloth implements a mass-spring cloth on a fixed grid topology,
// advanced several sub-steps per frame through a pair of alternating buffers.
package cloth

import (
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/compute"
	"github.com/pthm-cable/fieldsim/config"
	"github.com/pthm-cable/fieldsim/pingpong"
)

// MaxSubSteps bounds the sub-step count accepted by SetSubSteps.
const MaxSubSteps = 100

// State is one half of the cloth buffer pair.
// Position holds x, y, z, mass per node; Velocity holds x, y, z.
type State struct {
	Position []float32
	Velocity []float32
}

func newState(n int) *State {
	return &State{
		Position: make([]float32, 4*n),
		Velocity: make([]float32, 3*n),
	}
}

func (s *State) copyFrom(src *State) {
	blas32.Copy(vec(src.Position), vec(s.Position))
	blas32.Copy(vec(src.Velocity), vec(s.Velocity))
}

func vec(data []float32) blas32.Vector {
	return blas32.Vector{N: len(data), Inc: 1, Data: data}
}

// Params are the physical constants of the update pass.
type Params struct {
	DT              float64
	Gravity         r3.Vec
	Stiffness       float64 // spring constant k
	Damping         float64 // velocity damping c
	RestLength      float64
	MaxDisplacement float64 // per-axis clamp on one sub-step's displacement
	Wind            r3.Vec
	WindGust        float64 // relative amplitude of the wind oscillation
	WindFrequency   float64
	SubSteps        int
}

// Cloth owns the node buffers and the fixed adjacency.
type Cloth struct {
	buffers *pingpong.Pair[*State]
	initial *State

	neighbors [][4]int32
	edges     []int32

	pool   *compute.Pool
	params Params
	wind   bool
	time   float64
}

// New creates the grid cloth described by the cloth config section.
func New(cfg *config.Config, pool *compute.Pool) *Cloth {
	cc := cfg.Cloth
	layout := Grid(GridOptions{
		Columns:   cc.Columns,
		Rows:      cc.Rows,
		Spacing:   cc.Spacing,
		Ripple:    cc.Ripple,
		Mass:      cc.Mass,
		PinTopRow: cc.PinTopRow,
	})

	c := NewFromLayout(layout, Params{
		DT:              cc.DT,
		Gravity:         cc.Gravity.R3(),
		Stiffness:       cc.Stiffness,
		Damping:         cc.Damping,
		RestLength:      cfg.Derived.RestLength,
		MaxDisplacement: cc.MaxDisplacement,
		Wind:            cc.WindForce.R3(),
		WindGust:        cc.WindGust,
		WindFrequency:   cc.WindFrequency,
		SubSteps:        cc.SubSteps,
	}, pool)
	c.wind = cc.Wind
	return c
}

// NewFromLayout creates a cloth from an explicit topology. Velocities start at zero.
// The layout's adjacency is copied and never modified afterwards.
func NewFromLayout(layout Layout, params Params, pool *compute.Pool) *Cloth {
	n := layout.Len()

	initial := newState(n)
	copy(initial.Position, layout.Position)

	current := newState(n)
	current.copyFrom(initial)

	neighbors := make([][4]int32, n)
	copy(neighbors, layout.Neighbors)

	c := &Cloth{
		buffers:   pingpong.New(current, newState(n)),
		initial:   initial,
		neighbors: neighbors,
		edges:     layout.Edges(),
		pool:      pool,
		params:    params,
	}
	c.SetSubSteps(params.SubSteps)
	return c
}

// Len returns the node count.
func (c *Cloth) Len() int {
	return len(c.neighbors)
}

// Current returns the most recently written buffer. Callers must not modify it.
func (c *Cloth) Current() *State {
	return c.buffers.Current()
}

// CurrentIndex returns the index of the most recently written buffer.
func (c *Cloth) CurrentIndex() int {
	return c.buffers.CurrentIndex()
}

// Neighbors returns the four connection slots of node i.
func (c *Cloth) Neighbors(i int) [4]int32 {
	return c.neighbors[i]
}

// Edges returns the line index pairs. Callers must not modify it.
func (c *Cloth) Edges() []int32 {
	return c.edges
}

// Time returns the cloth clock in seconds.
func (c *Cloth) Time() float64 {
	return c.time
}

// WindEnabled reports whether wind is applied.
func (c *Cloth) WindEnabled() bool {
	return c.wind
}

// SetWindEnabled turns the wind force on or off.
func (c *Cloth) SetWindEnabled(on bool) {
	c.wind = on
}

// SubSteps returns the number of update passes per Step.
func (c *Cloth) SubSteps() int {
	return c.params.SubSteps
}

// SetSubSteps sets the number of update passes per Step, clamped to [1, MaxSubSteps].
func (c *Cloth) SetSubSteps(n int) {
	if n < 1 {
		n = 1
	}
	if n > MaxSubSteps {
		n = MaxSubSteps
	}
	c.params.SubSteps = n
}

// Reset restores the starting layout with zero velocity.
func (c *Cloth) Reset() {
	c.buffers.At(0).copyFrom(c.initial)
	c.buffers.At(1).copyFrom(c.initial)
	c.time = 0
}

// KineticEnergy returns 0.5*m*|v|^2 summed over all nodes.
func (c *Cloth) KineticEnergy() float64 {
	cur := c.buffers.Current()
	var e float64
	for i := 0; i < c.Len(); i++ {
		v := blas32.Vector{N: 3, Inc: 1, Data: cur.Velocity[3*i : 3*i+3]}
		if m := cur.Position[4*i+3]; m > 0 {
			e += 0.5 * float64(m) * float64(blas32.Dot(v, v))
		}
	}
	return e
}
