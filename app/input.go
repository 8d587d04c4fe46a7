package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fieldsim/scene"
)

// handleInput processes keyboard and mouse input.
func (a *App) handleInput() {
	// Window resize propagation
	a.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.scene.SetPaused(!a.scene.Paused())
	}
	if rl.IsKeyPressed(rl.KeyM) {
		a.scene.ToggleMode()
	}
	if rl.IsKeyPressed(rl.KeyW) {
		a.scene.SetWindEnabled(!a.scene.Cloth().WindEnabled())
	}
	if rl.IsKeyPressed(rl.KeyV) {
		a.scene.SetForceFieldsVisible(!a.scene.Fields().Visible())
	}
	if rl.IsKeyPressed(rl.KeyDelete) || rl.IsKeyPressed(rl.KeyBackspace) {
		a.scene.RemoveSelectedForceField()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.scene.Reset()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		a.panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		a.showPerf = !a.showPerf
	}

	a.handleCameraInput()
	a.handlePointerInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenWidth && h == a.screenHeight {
		return
	}
	a.screenWidth = w
	a.screenHeight = h

	a.camera.Resize(float64(w), float64(h))
	a.perfPanel.SetPosition(int32(w)-260, 110)
}

// handleCameraInput processes orbit and zoom controls.
func (a *App) handleCameraInput() {
	if rl.IsKeyPressed(rl.KeyHome) {
		a.camera.Reset()
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		a.camera.Orbit(float64(delta.X), float64(delta.Y))
	}

	// Zoom controls: mouse wheel or +/- keys
	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		a.camera.ZoomBy(float64(1 + wheelMove*0.1))
	}
	if rl.IsKeyDown(rl.KeyEqual) || rl.IsKeyDown(rl.KeyKpAdd) {
		a.camera.ZoomBy(1.02)
	}
	if rl.IsKeyDown(rl.KeyMinus) || rl.IsKeyDown(rl.KeyKpSubtract) {
		a.camera.ZoomBy(0.98)
	}
}

// handlePointerInput forwards left-button events outside the panel to the scene.
func (a *App) handlePointerInput() {
	mouse := rl.GetMousePosition()
	ev := scene.PointerEvent{X: float64(mouse.X), Y: float64(mouse.Y)}

	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		if a.panel.Contains(mouse.X, mouse.Y) {
			return
		}
		a.pointerActive = true
		ev.Action = scene.PointerPress
	case !a.pointerActive:
		return
	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		a.pointerActive = false
		ev.Action = scene.PointerRelease
	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		delta := rl.GetMouseDelta()
		if delta.X == 0 && delta.Y == 0 {
			return
		}
		ev.Action = scene.PointerDrag
	default:
		return
	}

	a.scene.HandlePointer(ev, a.camera)
}
