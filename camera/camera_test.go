package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func newTestCamera() *Camera {
	return New(1280, 720, r3.Vec{Z: -10}, r3.Vec{}, 45)
}

func nearVec(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) < tol
}

func TestNew(t *testing.T) {
	cam := newTestCamera()

	if math.Abs(cam.Distance-10) > 1e-9 {
		t.Errorf("expected distance 10, got %f", cam.Distance)
	}
	if eye := cam.Eye(); !nearVec(eye, r3.Vec{Z: -10}, 1e-9) {
		t.Errorf("expected eye at (0, 0, -10), got %+v", eye)
	}
}

func TestCenterRayHitsTarget(t *testing.T) {
	cam := newTestCamera()

	origin, dir := cam.Ray(640, 360)
	if !nearVec(origin, cam.Eye(), 1e-9) {
		t.Errorf("expected ray from eye, got %+v", origin)
	}
	if !nearVec(dir, r3.Vec{Z: 1}, 1e-9) {
		t.Errorf("expected direction (0, 0, 1), got %+v", dir)
	}
}

func TestRayDirectionsFollowScreen(t *testing.T) {
	cam := newTestCamera()

	_, up := cam.Ray(640, 0)
	if up.Y <= 0 {
		t.Errorf("expected top of screen to point up, got %+v", up)
	}

	// Looking down +z, screen right is world -x
	_, right := cam.Ray(1280, 360)
	if right.X >= 0 {
		t.Errorf("expected right of screen to point toward -x, got %+v", right)
	}

	// Edge ray sits at half the vertical field of view
	angle := math.Acos(r3.Dot(up, r3.Vec{Z: 1})) * 180 / math.Pi
	if math.Abs(angle-22.5) > 1e-6 {
		t.Errorf("expected 22.5 degrees, got %f", angle)
	}
}

func TestWorldToScreenRoundtrip(t *testing.T) {
	cam := newTestCamera()
	cam.Orbit(120, -40)

	testCases := []struct{ sx, sy float64 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		origin, dir := cam.Ray(tc.sx, tc.sy)
		p := r3.Add(origin, r3.Scale(7, dir))

		sx, sy, ok := cam.WorldToScreen(p)
		if !ok {
			t.Fatalf("expected (%f,%f) to be visible", tc.sx, tc.sy)
		}
		if math.Abs(sx-tc.sx) > 1e-6 || math.Abs(sy-tc.sy) > 1e-6 {
			t.Errorf("roundtrip failed: (%f,%f) -> %+v -> (%f,%f)", tc.sx, tc.sy, p, sx, sy)
		}
	}

	if _, _, ok := cam.WorldToScreen(r3.Scale(2, cam.Eye())); ok {
		t.Error("expected point behind camera to be rejected")
	}
}

func TestOrbitKeepsDistance(t *testing.T) {
	cam := newTestCamera()
	cam.Orbit(300, 200)

	if d := r3.Norm(r3.Sub(cam.Eye(), cam.Target)); math.Abs(d-10) > 1e-9 {
		t.Errorf("expected distance 10, got %f", d)
	}

	cam.Orbit(0, 1e6)
	if cam.Pitch > maxPitch {
		t.Errorf("expected pitch clamped to %f, got %f", maxPitch, cam.Pitch)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := newTestCamera()
	cam.MinDistance = 2
	cam.MaxDistance = 60

	cam.ZoomBy(100)
	if cam.Distance != 2 {
		t.Errorf("expected distance clamped to 2, got %f", cam.Distance)
	}

	cam.ZoomBy(0.001)
	if cam.Distance != 60 {
		t.Errorf("expected distance clamped to 60, got %f", cam.Distance)
	}

	cam.ZoomBy(0)
	if cam.Distance != 60 {
		t.Errorf("expected non-positive factor ignored, got %f", cam.Distance)
	}
}

func TestReset(t *testing.T) {
	cam := newTestCamera()
	cam.Orbit(400, 100)
	cam.ZoomBy(2)

	cam.Reset()

	if !nearVec(cam.Eye(), r3.Vec{Z: -10}, 1e-9) {
		t.Errorf("expected eye restored, got %+v", cam.Eye())
	}
}
