// Package renderer submits the simulation buffers to raylib: particles as
// points, the cloth as points plus edge lines, and force fields as gizmos.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/camera"
	"github.com/pthm-cable/fieldsim/cloth"
	"github.com/pthm-cable/fieldsim/particles"
	"github.com/pthm-cable/fieldsim/scene"
)

// SceneRenderer draws whichever buffer each simulation last wrote.
type SceneRenderer struct {
	pointSize float32

	ParticleColor rl.Color
	NodeColor     rl.Color
	PinnedColor   rl.Color
	EdgeColor     rl.Color
	ShowGrid      bool
}

// NewSceneRenderer creates a renderer drawing particle markers of the given
// world-space size (0 = single pixels).
func NewSceneRenderer(pointSize float32) *SceneRenderer {
	return &SceneRenderer{
		pointSize:     pointSize,
		ParticleColor: rl.Color{R: 255, G: 255, B: 255, A: 200},
		NodeColor:     rl.Color{R: 230, G: 230, B: 230, A: 255},
		PinnedColor:   rl.Orange,
		EdgeColor:     rl.Color{R: 120, G: 160, B: 220, A: 255},
		ShowGrid:      true,
	}
}

// Camera3D converts the orbit camera to a raylib camera.
func Camera3D(c *camera.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(c.Eye()),
		Target:     vec3(c.Target),
		Up:         vec3(camera.Up),
		Fovy:       float32(c.FovY),
		Projection: rl.CameraPerspective,
	}
}

// Draw renders the scene in its current mode. Must be called between
// BeginDrawing and EndDrawing.
func (r *SceneRenderer) Draw(s *scene.Scene, cam *camera.Camera) {
	rl.BeginMode3D(Camera3D(cam))

	if r.ShowGrid {
		rl.DrawGrid(20, 0.5)
	}

	switch s.Mode() {
	case scene.ModeParticles:
		r.drawParticles(s.Particles())
		drawFields(s.Fields())
	case scene.ModeCloth:
		r.drawCloth(s.Cloth())
	}

	rl.EndMode3D()
}

// drawParticles draws every spawned particle of the current buffer.
func (r *SceneRenderer) drawParticles(p *particles.System) {
	cur := p.Current()
	size := rl.Vector3{X: r.pointSize, Y: r.pointSize, Z: r.pointSize}

	for i := 0; i < cur.Len(); i++ {
		if !p.Active(i) {
			continue
		}
		pos := rl.Vector3{X: cur.Position[3*i], Y: cur.Position[3*i+1], Z: cur.Position[3*i+2]}
		if r.pointSize > 0 {
			rl.DrawCubeV(pos, size, r.ParticleColor)
		} else {
			rl.DrawPoint3D(pos, r.ParticleColor)
		}
	}
}

// drawCloth draws the nodes and the structural edges between them.
func (r *SceneRenderer) drawCloth(c *cloth.Cloth) {
	cur := c.Current()
	node := func(i int32) rl.Vector3 {
		return rl.Vector3{X: cur.Position[4*i], Y: cur.Position[4*i+1], Z: cur.Position[4*i+2]}
	}

	edges := c.Edges()
	for k := 0; k+1 < len(edges); k += 2 {
		rl.DrawLine3D(node(edges[k]), node(edges[k+1]), r.EdgeColor)
	}

	for i := int32(0); i < int32(c.Len()); i++ {
		// Mass 0 marks a pinned node
		if cur.Position[4*i+3] == 0 {
			rl.DrawSphere(node(i), 0.02, r.PinnedColor)
			continue
		}
		rl.DrawPoint3D(node(i), r.NodeColor)
	}
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
