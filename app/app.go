// Package app is the graphical host: it polls raylib input, forwards it to
// the scene, ticks the scene once per frame and draws it.
package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fieldsim/camera"
	"github.com/pthm-cable/fieldsim/config"
	"github.com/pthm-cable/fieldsim/forcefield"
	"github.com/pthm-cable/fieldsim/renderer"
	"github.com/pthm-cable/fieldsim/scene"
	"github.com/pthm-cable/fieldsim/ui"
)

const controlsLegend = "LMB: select/drag | RMB: orbit | Wheel: zoom | M: mode | W: wind | V: fields | Del: remove | Space: pause | R: reset | Tab: panel | F3: perf"

var background = rl.Color{R: 15, G: 18, B: 24, A: 255}

// App wires a scene to the window.
type App struct {
	scene  *scene.Scene
	camera *camera.Camera

	renderer  *renderer.SceneRenderer
	panel     *ui.ControlPanel
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	showPerf  bool

	screenWidth  float32
	screenHeight float32

	// Left button went down outside the panel; drag and release go to the scene
	pointerActive bool
}

// New creates the host for s. The raylib window must already be open.
func New(s *scene.Scene, cfg *config.Config) *App {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	cam := camera.New(float64(w), float64(h), cfg.Camera.Eye.R3(), cfg.Camera.Target.R3(), cfg.Camera.FovY)
	cam.MinDistance = cfg.Camera.MinDist
	cam.MaxDistance = cfg.Camera.MaxDist

	return &App{
		scene:        s,
		camera:       cam,
		renderer:     renderer.NewSceneRenderer(float32(cfg.Particles.PointSize)),
		panel:        ui.NewControlPanel(10, 10, 300),
		hud:          ui.NewHUD(),
		perfPanel:    ui.NewPerfPanel(int32(w)-260, 110),
		screenWidth:  w,
		screenHeight: h,
	}
}

// Update handles input and advances the simulation by one frame.
func (a *App) Update() {
	a.handleInput()
	a.scene.Tick()
	a.scene.Perf().RecordFrame()
}

// Draw renders the scene, the panel and the HUD.
func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(background)

	a.renderer.Draw(a.scene, a.camera)

	a.panel.Draw(a.scene)
	a.hud.Draw(a.hudData())
	if a.showPerf {
		a.perfPanel.Draw(a.scene.Perf().Stats())
	}
	a.hud.DrawControls(int32(a.screenHeight), controlsLegend)

	rl.EndDrawing()
}

func (a *App) hudData() ui.HUDData {
	fields := a.scene.Fields()

	var selection string
	if e, ok := fields.Selected(); ok {
		state, handle := fields.State(e)
		selection = state.String()
		if state == forcefield.Dragging {
			selection = fmt.Sprintf("%s (%c)", selection, "xyz"[handle])
		}
	}

	return ui.HUDData{
		Mode:            a.scene.Mode().String(),
		Tick:            a.scene.Ticks(),
		FPS:             rl.GetFPS(),
		Paused:          a.scene.Paused(),
		ActiveParticles: a.scene.Particles().ActiveCount(),
		Fields:          fields.Len(),
		Selection:       selection,
		ScreenWidth:     int32(a.screenWidth),
		ScreenHeight:    int32(a.screenHeight),
	}
}
