package particles

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/compute"
	"github.com/pthm-cable/fieldsim/config"
	"github.com/pthm-cable/fieldsim/forcefield"
)

func single(pos, vel [3]float32, spawn float32) *State {
	s := NewState(1)
	copy(s.Position, pos[:])
	copy(s.Velocity, vel[:])
	s.SpawnTime[0] = spawn
	return s
}

func defaultParams() Params {
	return Params{DT: 1.0 / 60, Lifetime: 3, Bounciness: 0.5, Drag: 0}
}

func uniformsFor(t *testing.T, fields ...forcefield.Field) *forcefield.Uniforms {
	t.Helper()
	r := forcefield.NewRegistry(config.MaxFieldsPerKind, forcefield.HandleConfig{Length: 1, HitRadius: 0.2})
	for _, f := range fields {
		if _, err := r.Add(f); err != nil {
			t.Fatalf("adding field: %v", err)
		}
	}
	var u forcefield.Uniforms
	r.Upload(&u)
	return &u
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-4
}

func TestDirectionalFieldSingleStep(t *testing.T) {
	s := NewFromState(single([3]float32{}, [3]float32{}, 0), defaultParams(), compute.NewPool(1))
	u := uniformsFor(t, forcefield.NewDirectional(r3.Vec{}, 5, r3.Vec{Y: 10}))

	s.Step(u)

	cur := s.Current()
	if !near(float64(cur.Velocity[1]), 0.1667) || cur.Velocity[0] != 0 || cur.Velocity[2] != 0 {
		t.Errorf("expected velocity (0, 0.1667, 0), got %v", cur.Velocity)
	}
	if !near(float64(cur.Position[1]), 0.00278) || cur.Position[0] != 0 || cur.Position[2] != 0 {
		t.Errorf("expected position (0, 0.00278, 0), got %v", cur.Position)
	}
}

func TestFieldOutsideRangeHasNoEffect(t *testing.T) {
	s := NewFromState(single([3]float32{10, 0, 0}, [3]float32{}, 0), defaultParams(), compute.NewPool(1))
	u := uniformsFor(t, forcefield.NewDirectional(r3.Vec{}, 5, r3.Vec{Y: 10}))

	s.Step(u)

	if v := s.Current().Velocity; v[0] != 0 || v[1] != 0 || v[2] != 0 {
		t.Errorf("expected zero velocity, got %v", v)
	}
}

func TestRadialFields(t *testing.T) {
	tests := []struct {
		name  string
		field forcefield.Field
		start [3]float32
		sign  float64
	}{
		{"expansion", forcefield.NewExpansion(r3.Vec{}, 2, 6), [3]float32{1, 0, 0}, 1},
		{"contraction", forcefield.NewContraction(r3.Vec{}, 2, 6), [3]float32{1, 0, 0}, -1},
		{"center", forcefield.NewExpansion(r3.Vec{}, 2, 6), [3]float32{0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFromState(single(tt.start, [3]float32{}, 0), defaultParams(), compute.NewPool(1))
			s.Step(uniformsFor(t, tt.field))

			v := s.Current().Velocity
			if !near(float64(v[0]), tt.sign*0.1) {
				t.Errorf("expected vx = %f, got %f", tt.sign*0.1, v[0])
			}
			if v[1] != 0 || v[2] != 0 {
				t.Errorf("expected motion along x only, got %v", v)
			}
		})
	}
}

func TestDegenerateFieldIsNoOp(t *testing.T) {
	s := NewFromState(single([3]float32{}, [3]float32{}, 0), defaultParams(), compute.NewPool(1))
	s.Step(uniformsFor(t, forcefield.NewDirectional(r3.Vec{}, 0, r3.Vec{Y: 10})))

	if v := s.Current().Velocity; v[1] != 0 {
		t.Errorf("expected no force from zero-radius field, got %v", v)
	}
}

func TestDragSlowsParticle(t *testing.T) {
	p := defaultParams()
	p.Drag = 6
	s := NewFromState(single([3]float32{}, [3]float32{1, 0, 0}, 0), p, compute.NewPool(1))

	s.Step(nil)

	// v += (0 - 6*1) / 60
	if v := s.Current().Velocity[0]; !near(float64(v), 0.9) {
		t.Errorf("expected vx = 0.9, got %f", v)
	}
}

func TestRespawnRestoresInitialValues(t *testing.T) {
	p := defaultParams()
	p.Lifetime = 0.05
	start := single([3]float32{0.25, -0.5, 1}, [3]float32{-3, 2, 0}, 0)
	s := NewFromState(start, p, compute.NewPool(1))
	u := uniformsFor(t, forcefield.NewExpansion(r3.Vec{}, 10, 4))

	respawned := false
	for i := 0; i < 10 && !respawned; i++ {
		s.Step(u)
		respawned = s.Respawned() == 1
	}
	if !respawned {
		t.Fatal("expected particle to respawn within 10 steps")
	}

	cur := s.Current()
	first := s.Initial()
	for k := 0; k < 3; k++ {
		if cur.Position[k] != first.Position[k] {
			t.Errorf("position[%d]: expected %f, got %f", k, first.Position[k], cur.Position[k])
		}
		if cur.Velocity[k] != first.Velocity[k] {
			t.Errorf("velocity[%d]: expected %f, got %f", k, first.Velocity[k], cur.Velocity[k])
		}
	}
	if cur.SpawnTime[0] != s.Time() {
		t.Errorf("expected spawn time %f, got %f", s.Time(), cur.SpawnTime[0])
	}

	// The initial buffer itself is never touched
	if first.Position[0] != 0.25 || first.SpawnTime[0] != 0 {
		t.Errorf("initial state was modified: %v %v", first.Position, first.SpawnTime)
	}
}

func TestDormantParticleCarriedThrough(t *testing.T) {
	s := NewFromState(single([3]float32{1, 2, 3}, [3]float32{-3, 2, 0}, 1), defaultParams(), compute.NewPool(1))
	u := uniformsFor(t, forcefield.NewDirectional(r3.Vec{}, 10, r3.Vec{Y: 10}))

	s.Step(u)
	s.Step(u)

	cur := s.Current()
	if cur.Position[0] != 1 || cur.Position[1] != 2 || cur.Position[2] != 3 {
		t.Errorf("expected dormant position unchanged, got %v", cur.Position)
	}
	if s.Active(0) || s.ActiveCount() != 0 {
		t.Error("expected particle inactive before its spawn time")
	}
}

func TestObstaclePushesOut(t *testing.T) {
	s := NewFromState(single([3]float32{1.05, 0, 0}, [3]float32{-6, 0, 0}, 0), defaultParams(), compute.NewPool(1))
	u := uniformsFor(t, forcefield.NewObstacle(r3.Vec{}, r3.Vec{X: 2, Y: 2, Z: 2}))

	s.Step(u)

	cur := s.Current()
	if cur.Position[0] != 1 {
		t.Errorf("expected particle on +x face, got x = %f", cur.Position[0])
	}
	if !near(float64(cur.Velocity[0]), 3) {
		t.Errorf("expected reflected vx = 3, got %f", cur.Velocity[0])
	}
}

func TestBuffersAlternate(t *testing.T) {
	s := NewFromState(NewState(4), defaultParams(), compute.NewPool(1))
	if s.CurrentIndex() != 0 {
		t.Fatalf("expected initial index 0, got %d", s.CurrentIndex())
	}
	for i := 1; i <= 4; i++ {
		s.Step(nil)
		if s.CurrentIndex() != i%2 {
			t.Errorf("step %d: expected index %d, got %d", i, i%2, s.CurrentIndex())
		}
	}
	if s.Steps() != 4 {
		t.Errorf("expected 4 steps, got %d", s.Steps())
	}
}

func TestWorkerCountDoesNotChangeResult(t *testing.T) {
	cfg := config.Default()
	fields := []forcefield.Field{
		forcefield.NewDirectional(r3.Vec{}, 1.5, r3.Vec{Y: 10}),
		forcefield.NewExpansion(r3.Vec{X: -1}, 1, 4),
		forcefield.NewContraction(r3.Vec{X: -2, Y: 1}, 1.5, 6),
		forcefield.NewObstacle(r3.Vec{X: -2}, r3.Vec{X: 2, Y: 2, Z: 2}),
	}

	run := func(workers int) *State {
		pool := compute.NewPool(workers)
		defer pool.Stop()

		s := New(cfg, pool, rand.New(rand.NewSource(1)))
		u := uniformsFor(t, fields...)
		for i := 0; i < 240; i++ {
			s.Step(u)
		}
		return s.Current()
	}

	a := run(1)
	b := run(5)
	for i := range a.Position {
		if a.Position[i] != b.Position[i] || a.Velocity[i] != b.Velocity[i] {
			t.Fatalf("component %d differs between worker counts", i)
		}
	}
}

func TestNewScattersOnEmitter(t *testing.T) {
	cfg := config.Default()
	s := New(cfg, compute.NewPool(1), rand.New(rand.NewSource(3)))

	if s.Len() != cfg.Particles.Count {
		t.Fatalf("expected %d particles, got %d", cfg.Particles.Count, s.Len())
	}

	first := s.Initial()
	c := cfg.Particles.EmitterCenter
	for i := 0; i < s.Len(); i++ {
		dx := float64(first.Position[3*i]) - c[0]
		dy := float64(first.Position[3*i+1]) - c[1]
		dz := float64(first.Position[3*i+2]) - c[2]
		if d := math.Sqrt(dx*dx + dy*dy + dz*dz); math.Abs(d-cfg.Particles.EmitterRadius) > 1e-4 {
			t.Fatalf("particle %d: expected distance %f from emitter, got %f", i, cfg.Particles.EmitterRadius, d)
		}
	}

	if first.SpawnTime[0] != 0 || !near(float64(first.SpawnTime[10]), 10*cfg.Particles.SpawnInterval) {
		t.Errorf("expected staggered spawn times, got %f %f", first.SpawnTime[0], first.SpawnTime[10])
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	cfg := config.Default()
	s := New(cfg, compute.NewPool(2), rand.New(rand.NewSource(5)))
	for i := 0; i < 30; i++ {
		s.Step(nil)
	}

	s.Reset()

	if s.Time() != 0 {
		t.Errorf("expected clock rewound, got %f", s.Time())
	}
	cur, first := s.Current(), s.Initial()
	for i := range first.Position {
		if cur.Position[i] != first.Position[i] {
			t.Fatalf("component %d not restored", i)
		}
	}
}

func TestSettersClamp(t *testing.T) {
	s := NewFromState(NewState(1), defaultParams(), compute.NewPool(1))

	s.SetBounciness(0)
	s.SetDrag(-1)
	s.SetLifetime(0)
	p := s.Params()
	if p.Bounciness != MinBounciness || p.Drag != 0 || p.Lifetime != MinLifetime {
		t.Errorf("expected clamped minimums, got %+v", p)
	}

	s.SetBounciness(5)
	s.SetDrag(50)
	p = s.Params()
	if p.Bounciness != MaxBounciness || p.Drag != MaxDrag {
		t.Errorf("expected clamped maximums, got %+v", p)
	}
}

func TestKineticEnergy(t *testing.T) {
	s := NewFromState(single([3]float32{}, [3]float32{3, 4, 0}, 0), defaultParams(), compute.NewPool(1))
	if e := s.KineticEnergy(); !near(e, 12.5) {
		t.Errorf("expected 12.5, got %f", e)
	}
	if sp := s.Speeds(nil); len(sp) != 1 || !near(sp[0], 5) {
		t.Errorf("expected one speed of 5, got %v", sp)
	}
}
