package particles

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/forcefield"
)

// Step advances the clock by one time step and runs one update pass through
// the fields in u, writing the next buffer from the current one.
func (s *System) Step(u *forcefield.Uniforms) {
	s.time += s.params.DT
	s.uniforms = u
	s.respawned.Store(0)

	s.buffers.Step(func(read, write *State) {
		s.pool.Dispatch(read.Len(), func(start, end int) {
			s.updateRange(read, write, start, end)
		})
	})

	s.uniforms = nil
	s.steps++
}

// updateRange is the update kernel for particles [start, end).
// It reads only from read and writes only slots [start, end) of write.
func (s *System) updateRange(read, write *State, start, end int) {
	t := s.time
	p := s.params
	dt := float64(p.DT)
	respawned := 0

	for i := start; i < end; i++ {
		j := 3 * i
		spawn := read.SpawnTime[i]

		// Not yet born: carry the slot through untouched
		if t < spawn {
			copy(write.Position[j:j+3], read.Position[j:j+3])
			copy(write.Velocity[j:j+3], read.Velocity[j:j+3])
			write.SpawnTime[i] = spawn
			continue
		}

		if t-spawn > p.Lifetime {
			copy(write.Position[j:j+3], s.initial.Position[j:j+3])
			copy(write.Velocity[j:j+3], s.initial.Velocity[j:j+3])
			write.SpawnTime[i] = t
			respawned++
			continue
		}

		pos := r3.Vec{X: float64(read.Position[j]), Y: float64(read.Position[j+1]), Z: float64(read.Position[j+2])}
		vel := r3.Vec{X: float64(read.Velocity[j]), Y: float64(read.Velocity[j+1]), Z: float64(read.Velocity[j+2])}

		force := accumulate(s.uniforms, pos)

		// Semi-implicit Euler
		vel = r3.Add(vel, r3.Scale(dt, r3.Sub(force, r3.Scale(float64(p.Drag), vel))))
		pos = r3.Add(pos, r3.Scale(dt, vel))

		if s.uniforms != nil {
			for k := 0; k < s.uniforms.NumObstacles; k++ {
				pos, vel = pushOut(s.uniforms.Obstacles[k], pos, vel, float64(p.Bounciness))
			}
		}

		write.Position[j] = float32(pos.X)
		write.Position[j+1] = float32(pos.Y)
		write.Position[j+2] = float32(pos.Z)
		write.Velocity[j] = float32(vel.X)
		write.Velocity[j+1] = float32(vel.Y)
		write.Velocity[j+2] = float32(vel.Z)
		write.SpawnTime[i] = spawn
	}

	if respawned > 0 {
		s.respawned.Add(int64(respawned))
	}
}

// accumulate sums the additive field forces acting at pos.
func accumulate(u *forcefield.Uniforms, pos r3.Vec) r3.Vec {
	var f r3.Vec
	if u == nil {
		return f
	}

	for k := 0; k < u.NumDirectional; k++ {
		if g := u.Directional[k]; g.Contains(pos) {
			f = r3.Add(f, g.Force)
		}
	}
	for k := 0; k < u.NumExpansion; k++ {
		if g := u.Expansion[k]; g.Contains(pos) {
			f = r3.Add(f, radial(g, pos))
		}
	}
	for k := 0; k < u.NumContraction; k++ {
		if g := u.Contraction[k]; g.Contains(pos) {
			f = r3.Sub(f, radial(g, pos))
		}
	}
	return f
}

// radial returns Strength times the outward unit vector from the field
// center to pos, or zero at the center.
func radial(g forcefield.Region, pos r3.Vec) r3.Vec {
	d := r3.Sub(pos, g.Position)
	n := r3.Norm(d)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(g.Strength/n, d)
}

// pushOut moves a position strictly inside b to the nearest face and reflects
// the velocity component pointing into the box, scaled by bounciness.
func pushOut(b forcefield.Bounds, pos, vel r3.Vec, bounciness float64) (r3.Vec, r3.Vec) {
	lo := b.Min
	hi := b.Max()
	if b.Size.X <= 0 || b.Size.Y <= 0 || b.Size.Z <= 0 {
		return pos, vel
	}
	if pos.X <= lo.X || pos.X >= hi.X || pos.Y <= lo.Y || pos.Y >= hi.Y || pos.Z <= lo.Z || pos.Z >= hi.Z {
		return pos, vel
	}

	p := [3]float64{pos.X, pos.Y, pos.Z}
	v := [3]float64{vel.X, vel.Y, vel.Z}
	mn := [3]float64{lo.X, lo.Y, lo.Z}
	mx := [3]float64{hi.X, hi.Y, hi.Z}

	axis := 0
	toMax := false
	best := math.Inf(1)
	for a := 0; a < 3; a++ {
		if d := p[a] - mn[a]; d < best {
			best, axis, toMax = d, a, false
		}
		if d := mx[a] - p[a]; d < best {
			best, axis, toMax = d, a, true
		}
	}

	if toMax {
		p[axis] = mx[axis]
		if v[axis] < 0 {
			v[axis] = -v[axis] * bounciness
		}
	} else {
		p[axis] = mn[axis]
		if v[axis] > 0 {
			v[axis] = -v[axis] * bounciness
		}
	}

	return r3.Vec{X: p[0], Y: p[1], Z: p[2]}, r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
