package cloth

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Step runs SubSteps update passes in order; each pass reads only the buffer
// written by the previous one.
func (c *Cloth) Step() {
	for k := 0; k < c.params.SubSteps; k++ {
		c.substep()
	}
}

func (c *Cloth) substep() {
	c.buffers.Step(func(read, write *State) {
		c.pool.Dispatch(len(c.neighbors), func(start, end int) {
			c.updateRange(read, write, start, end)
		})
	})
	c.time += c.params.DT
}

// updateRange is the update kernel for nodes [start, end).
func (c *Cloth) updateRange(read, write *State, start, end int) {
	p := c.params
	dt := p.DT

	for i := start; i < end; i++ {
		j4, j3 := 4*i, 3*i
		mass := float64(read.Position[j4+3])

		if mass <= 0 {
			copy(write.Position[j4:j4+4], read.Position[j4:j4+4])
			write.Velocity[j3] = 0
			write.Velocity[j3+1] = 0
			write.Velocity[j3+2] = 0
			continue
		}

		pos := position(read, i)
		u := r3.Vec{X: float64(read.Velocity[j3]), Y: float64(read.Velocity[j3+1]), Z: float64(read.Velocity[j3+2])}

		force := r3.Sub(r3.Scale(mass, p.Gravity), r3.Scale(p.Damping, u))

		connected := false
		for _, q := range c.neighbors[i] {
			if q == NoNeighbor {
				continue
			}
			connected = true

			d := r3.Sub(position(read, int(q)), pos)
			x := r3.Norm(d)
			if x == 0 {
				continue
			}
			force = r3.Add(force, r3.Scale(p.Stiffness*(x-p.RestLength)/x, d))
		}

		// Isolated nodes hold still
		if !connected {
			force = r3.Vec{}
		} else if c.wind {
			gust := 1 + p.WindGust*math.Sin(p.WindFrequency*c.time+0.5*pos.X)
			force = r3.Add(force, r3.Scale(gust, p.Wind))
		}

		v := r3.Add(u, r3.Scale(dt/mass, force))
		s := r3.Scale(dt, v)
		if p.MaxDisplacement > 0 {
			s = r3.Vec{
				X: clamp(s.X, p.MaxDisplacement),
				Y: clamp(s.Y, p.MaxDisplacement),
				Z: clamp(s.Z, p.MaxDisplacement),
			}
		}
		pos = r3.Add(pos, s)

		write.Position[j4] = float32(pos.X)
		write.Position[j4+1] = float32(pos.Y)
		write.Position[j4+2] = float32(pos.Z)
		write.Position[j4+3] = read.Position[j4+3]
		write.Velocity[j3] = float32(v.X)
		write.Velocity[j3+1] = float32(v.Y)
		write.Velocity[j3+2] = float32(v.Z)
	}
}

func position(s *State, i int) r3.Vec {
	return r3.Vec{X: float64(s.Position[4*i]), Y: float64(s.Position[4*i+1]), Z: float64(s.Position[4*i+2])}
}

func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}
