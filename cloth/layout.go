package cloth

import "math"

// NoNeighbor marks a missing connection at the grid boundary.
const NoNeighbor int32 = -1

// Neighbor slots, in connection order.
const (
	Left = iota
	Above
	Right
	Below
)

// Layout is the fixed topology and starting state of a cloth.
// Position holds x, y, z, w per node where w is the node mass; w <= 0 pins the node.
type Layout struct {
	Position  []float32
	Neighbors [][4]int32
}

// Len returns the node count.
func (l Layout) Len() int {
	return len(l.Neighbors)
}

// GridOptions describe a regular rectangular cloth.
type GridOptions struct {
	Columns   int
	Rows      int
	Spacing   float64
	Ripple    float64 // out-of-plane bulge amplitude
	Mass      float64
	PinTopRow bool
}

// Grid lays out a Columns x Rows sheet in the xy plane, centered on the origin.
// Row 0 is the top of the sheet. Node index is row*Columns + col.
func Grid(opts GridOptions) Layout {
	cols, rows := opts.Columns, opts.Rows
	n := cols * rows
	l := Layout{
		Position:  make([]float32, 4*n),
		Neighbors: make([][4]int32, n),
	}

	for row := 0; row < rows; row++ {
		fj := float64(row) / float64(rows)
		for col := 0; col < cols; col++ {
			fi := float64(col) / float64(cols)
			i := row*cols + col

			mass := opts.Mass
			if opts.PinTopRow && row == 0 {
				mass = 0
			}
			l.Position[4*i] = float32((fi - 0.5) * float64(cols) * opts.Spacing)
			l.Position[4*i+1] = float32((0.5 - fj) * float64(rows) * opts.Spacing)
			l.Position[4*i+2] = float32(opts.Ripple * math.Sin(fi) * math.Cos(fj))
			l.Position[4*i+3] = float32(mass)

			nb := [4]int32{NoNeighbor, NoNeighbor, NoNeighbor, NoNeighbor}
			if col > 0 {
				nb[Left] = int32(i - 1)
			}
			if row > 0 {
				nb[Above] = int32(i - cols)
			}
			if col < cols-1 {
				nb[Right] = int32(i + 1)
			}
			if row < rows-1 {
				nb[Below] = int32(i + cols)
			}
			l.Neighbors[i] = nb
		}
	}

	return l
}

// Edges returns node index pairs for line rendering: every Right connection,
// then every Below connection.
func (l Layout) Edges() []int32 {
	var edges []int32
	for _, slot := range []int{Right, Below} {
		for i, nb := range l.Neighbors {
			if q := nb[slot]; q != NoNeighbor {
				edges = append(edges, int32(i), q)
			}
		}
	}
	return edges
}
