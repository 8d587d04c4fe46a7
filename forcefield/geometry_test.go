package forcefield

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestIntersectSphere(t *testing.T) {
	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float64
	}{
		{"front", forward(0, 0), true, 9},
		{"graze miss", forward(1.01, 0), false, 0},
		{"inside", Ray{Origin: r3.Vec{}, Direction: r3.Vec{X: 1}}, true, 0},
		{"behind", Ray{Origin: r3.Vec{Z: 5}, Direction: r3.Vec{Z: 1}}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := intersectSphere(tt.ray, r3.Vec{}, 1)
			if ok != tt.hit {
				t.Fatalf("expected hit=%v, got %v", tt.hit, ok)
			}
			if ok && math.Abs(got-tt.wantT) > 1e-9 {
				t.Errorf("expected t=%f, got %f", tt.wantT, got)
			}
		})
	}
}

func TestIntersectBox(t *testing.T) {
	lo := r3.Vec{X: -1, Y: -1, Z: -1}
	hi := r3.Vec{X: 1, Y: 1, Z: 1}

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float64
	}{
		{"front", forward(0.5, -0.5), true, 9},
		{"miss", forward(1.5, 0), false, 0},
		{"diagonal", Ray{Origin: r3.Vec{X: -5, Y: -5, Z: 0}, Direction: r3.Unit(r3.Vec{X: 1, Y: 1})}, true, 4 * math.Sqrt2},
		{"inside", Ray{Origin: r3.Vec{}, Direction: r3.Vec{Y: -1}}, true, 0},
		{"behind", Ray{Origin: r3.Vec{Z: 3}, Direction: r3.Vec{Z: 1}}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := intersectBox(tt.ray, lo, hi)
			if ok != tt.hit {
				t.Fatalf("expected hit=%v, got %v", tt.hit, ok)
			}
			if ok && math.Abs(got-tt.wantT) > 1e-9 {
				t.Errorf("expected t=%f, got %f", tt.wantT, got)
			}
		})
	}
}

func TestIntersectPlaneParallel(t *testing.T) {
	ray := Ray{Origin: r3.Vec{Y: 1}, Direction: r3.Vec{X: 1}}
	if _, ok := intersectPlane(ray, r3.Vec{}, r3.Vec{Y: 1}); ok {
		t.Error("expected no intersection for parallel ray")
	}

	tHit, ok := intersectPlane(forward(0, 0), r3.Vec{Z: 2}, r3.Vec{Z: 1})
	if !ok || math.Abs(tHit-12) > 1e-9 {
		t.Errorf("expected t=12, got %f (ok=%v)", tHit, ok)
	}
}

func TestShapeContains(t *testing.T) {
	sphere := SphereShape(5)
	if !sphere.Contains(r3.Vec{}, r3.Vec{Y: 5}) {
		t.Error("expected boundary point inside sphere")
	}
	if sphere.Contains(r3.Vec{}, r3.Vec{Y: 5.01}) {
		t.Error("expected outside point excluded")
	}

	box := BoxShape(r3.Vec{X: 2, Y: 4, Z: 2})
	if !box.Contains(r3.Vec{X: 1}, r3.Vec{X: 1.5, Y: 1.9}) {
		t.Error("expected point inside box")
	}
	if box.Contains(r3.Vec{X: 1}, r3.Vec{X: 2.5}) {
		t.Error("expected point outside box")
	}

	if SphereShape(-1).Contains(r3.Vec{}, r3.Vec{}) {
		t.Error("expected degenerate sphere to contain nothing")
	}
	if BoxShape(r3.Vec{X: 1, Y: 0, Z: 1}).Contains(r3.Vec{}, r3.Vec{}) {
		t.Error("expected flat box to contain nothing")
	}
}
