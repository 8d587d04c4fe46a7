package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/forcefield"
)

var axisColors = [3]rl.Color{rl.Red, rl.Green, rl.Blue}

// drawFields draws a translucent volume and wireframe for every field, plus
// the drag handles of the selected one. Hidden fields are not drawn.
func drawFields(reg *forcefield.Registry) {
	if !reg.Visible() {
		return
	}

	reg.Each(func(_ ecs.Entity, f forcefield.Field, in forcefield.Interaction) {
		fill := fieldColor(f, 1)
		wire := fieldColor(f, 4)
		if in.Selected {
			wire = rl.Yellow
		}

		pos := vec3(f.Position)
		switch f.Shape.Type {
		case forcefield.Sphere:
			radius := float32(f.Shape.Radius)
			rl.DrawSphere(pos, radius, fill)
			rl.DrawSphereWires(pos, radius, 8, 12, wire)
		case forcefield.Box:
			size := vec3(r3.Scale(2, f.Shape.HalfExtents))
			rl.DrawCubeV(pos, size, fill)
			rl.DrawCubeWiresV(pos, size, wire)
		}

		if in.Selected {
			drawHandles(reg, f, in.Handle)
		}
	})
}

// drawHandles draws one line and hit sphere per axis; the dragged one is highlighted.
func drawHandles(reg *forcefield.Registry, f forcefield.Field, dragged int) {
	radius := float32(reg.HandleRadius())
	for axis := 0; axis < 3; axis++ {
		center := vec3(reg.HandleCenter(f, axis))
		color := axisColors[axis]
		if axis == dragged {
			color = rl.Yellow
		}
		rl.DrawLine3D(vec3(f.Position), center, color)
		rl.DrawSphere(center, radius, color)
	}
}

// fieldColor converts the kind color to raylib, scaling its alpha by boost.
func fieldColor(f forcefield.Field, boost float32) rl.Color {
	c := f.Color()
	a := c[3] * boost
	if a > 1 {
		a = 1
	}
	return rl.ColorFromNormalized(rl.Vector4{X: c[0], Y: c[1], Z: c[2], W: a})
}
