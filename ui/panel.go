package ui

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fieldsim/forcefield"
	"github.com/pthm-cable/fieldsim/particles"
	"github.com/pthm-cable/fieldsim/scene"
)

// templateRange bounds the position and force sliders for new fields.
const templateRange = 10

// ControlPanel is the parameter panel: draw mode, wind, tunables and the
// controls for creating and removing force fields.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32 // height drawn last frame
	visible  bool

	status string
}

// NewControlPanel creates a panel anchored at (x, y).
func NewControlPanel(x, y, width int32) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// Toggle switches panel visibility.
func (c *ControlPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether screen point (px, py) lies over the panel, so the
// host can keep those clicks away from field picking.
func (c *ControlPanel) Contains(px, py float32) bool {
	if !c.visible {
		return false
	}
	r := rl.Rectangle{X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(c.height)}
	return rl.CheckCollisionPointRec(rl.Vector2{X: px, Y: py}, r)
}

// Draw renders the panel and applies any changes to s.
func (c *ControlPanel) Draw(s *scene.Scene) {
	if !c.visible {
		return
	}

	r := c.renderer
	pad := r.Theme.Padding
	x := c.x + pad
	w := c.width - 2*pad

	// Background uses last frame's height; the first frame draws none
	if c.height > 0 {
		r.DrawPanel(c.x, c.y, c.width, c.height)
	}

	y := c.y + pad
	y = c.drawSimulation(s, x, y, w)
	y = c.drawTunables(s, x, y, w)
	if s.Mode() == scene.ModeParticles {
		y = c.drawTemplate(s, x, y, w)
		y = c.drawFieldButtons(s, x, y, w)
	}

	if c.status != "" {
		rl.DrawText(c.status, x, y, r.Theme.FontSize, r.Theme.StatusColor)
		y += r.Theme.LineHeight
	}

	c.height = y - c.y + pad
}

func (c *ControlPanel) drawSimulation(s *scene.Scene, x, y, w int32) int32 {
	r := c.renderer
	y = r.DrawSectionHeader(x, y, "Simulation")

	label := "Show cloth"
	if s.Mode() == scene.ModeCloth {
		label = "Show particles"
	}
	clicked, y := r.Button(x, y, w, label)
	if clicked {
		s.ToggleMode()
	}

	wind, y := r.CheckBox(x, y, "Wind", s.Cloth().WindEnabled())
	if wind != s.Cloth().WindEnabled() {
		s.SetWindEnabled(wind)
	}

	paused, y := r.CheckBox(x, y, "Paused", s.Paused())
	if paused != s.Paused() {
		s.SetPaused(paused)
	}
	return y + 4
}

func (c *ControlPanel) drawTunables(s *scene.Scene, x, y, w int32) int32 {
	r := c.renderer
	y = r.DrawSectionHeader(x, y, "Tunables")

	p := s.Particles().Params()
	var v float32

	v, y = r.Slider(x, y, w, "Bounciness", p.Bounciness, particles.MinBounciness, particles.MaxBounciness, "%.3f")
	if v != p.Bounciness {
		s.SetBounciness(v)
	}
	v, y = r.Slider(x, y, w, "Drag", p.Drag, 0, particles.MaxDrag, "%.3f")
	if v != p.Drag {
		s.SetDrag(v)
	}
	v, y = r.Slider(x, y, w, "Lifetime", p.Lifetime, particles.MinLifetime, 10, "%.2f")
	if v != p.Lifetime {
		s.SetLifetime(v)
	}

	sub := s.Cloth().SubSteps()
	v, y = r.Slider(x, y, w, "Sub-steps", float32(sub), 1, 100, "%.0f")
	if int(v) != sub {
		s.SetSubSteps(int(v))
	}
	return y + 4
}

func (c *ControlPanel) drawTemplate(s *scene.Scene, x, y, w int32) int32 {
	r := c.renderer
	y = r.DrawSectionHeader(x, y, "New force fields")

	t := s.Template()
	y = c.vecSliders(x, y, w, "Position", &t.Position.X, &t.Position.Y, &t.Position.Z)
	y = c.scalarSlider(x, y, w, "Radius", &t.Radius, 0.1, 5)
	y = c.vecSliders(x, y, w, "Force", &t.Force.X, &t.Force.Y, &t.Force.Z)
	y = c.scalarSlider(x, y, w, "Strength", &t.Strength, 0, 20)
	y = c.vecSliders(x, y, w, "Cuboid pos", &t.CuboidPosition.X, &t.CuboidPosition.Y, &t.CuboidPosition.Z)
	y = c.scalarSlider(x, y, w, "Cuboid X", &t.CuboidSize.X, 0.1, 5)
	y = c.scalarSlider(x, y, w, "Cuboid Y", &t.CuboidSize.Y, 0.1, 5)
	y = c.scalarSlider(x, y, w, "Cuboid Z", &t.CuboidSize.Z, 0.1, 5)
	return y + 4
}

func (c *ControlPanel) drawFieldButtons(s *scene.Scene, x, y, w int32) int32 {
	r := c.renderer
	half := (w - 6) / 2

	for i, k := range forcefield.Kinds() {
		bx := x
		if i%2 == 1 {
			bx = x + half + 6
		}
		clicked, next := r.Button(bx, y, half, "New "+k.String())
		if clicked {
			c.add(s, k)
		}
		if i%2 == 1 {
			y = next
		}
	}

	clicked, y := r.Button(x, y, w, "Remove selected")
	if clicked && s.RemoveSelectedForceField() {
		c.status = ""
	}

	y = r.DrawLabelValue(x, y, "Fields", fmt.Sprintf("%d", s.Fields().Len()))
	return y
}

func (c *ControlPanel) add(s *scene.Scene, k forcefield.Kind) {
	if _, err := s.AddFromTemplate(k); err != nil {
		slog.Warn("force field rejected", "kind", k.String(), "error", err)
		c.status = err.Error()
		return
	}
	c.status = ""
}

func (c *ControlPanel) scalarSlider(x, y, w int32, label string, v *float64, min, max float32) int32 {
	nv, y := c.renderer.Slider(x, y, w, label, float32(*v), min, max, "%.2f")
	if nv != float32(*v) {
		*v = float64(nv)
	}
	return y
}

func (c *ControlPanel) vecSliders(x, y, w int32, label string, vx, vy, vz *float64) int32 {
	y = c.scalarSlider(x, y, w, label+" X", vx, -templateRange, templateRange)
	y = c.scalarSlider(x, y, w, label+" Y", vy, -templateRange, templateRange)
	return c.scalarSlider(x, y, w, label+" Z", vz, -templateRange, templateRange)
}
