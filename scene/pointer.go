package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/forcefield"
)

// PointerAction is the kind of a pointer event.
type PointerAction uint8

const (
	PointerPress PointerAction = iota
	PointerDrag
	PointerRelease
)

// PointerEvent is a left-button event at a screen position.
type PointerEvent struct {
	X, Y   float64
	Action PointerAction
}

// RayCaster produces a world-space ray through a screen position.
type RayCaster interface {
	Ray(x, y float64) (origin, direction r3.Vec)
}

// HandlePointer routes ev to the force-field registry using rays from cam.
// Hidden fields ignore it.
func (s *Scene) HandlePointer(ev PointerEvent, cam RayCaster) {
	switch ev.Action {
	case PointerPress:
		s.fields.PointerDown(castRay(cam, ev))
	case PointerDrag:
		s.fields.PointerDrag(castRay(cam, ev))
	case PointerRelease:
		s.fields.PointerUp()
	}
}

func castRay(cam RayCaster, ev PointerEvent) forcefield.Ray {
	origin, dir := cam.Ray(ev.X, ev.Y)
	return forcefield.Ray{Origin: origin, Direction: dir}
}
