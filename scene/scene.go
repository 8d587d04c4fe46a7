// Package scene owns both simulations and the force-field registry and runs
// them once per frame. It is the single entry point the host drives: ticks,
// pointer events, panel actions and tunables all go through Scene.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/cloth"
	"github.com/pthm-cable/fieldsim/compute"
	"github.com/pthm-cable/fieldsim/config"
	"github.com/pthm-cable/fieldsim/forcefield"
	"github.com/pthm-cable/fieldsim/particles"
	"github.com/pthm-cable/fieldsim/telemetry"
)

// Mode selects which simulation is drawn and interactive.
type Mode uint8

const (
	ModeParticles Mode = iota
	ModeCloth
)

func (m Mode) String() string {
	switch m {
	case ModeParticles:
		return "particles"
	case ModeCloth:
		return "cloth"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Template holds the parameters used for fields created from the panel.
type Template struct {
	Position r3.Vec
	Radius   float64
	Force    r3.Vec
	Strength float64

	CuboidPosition r3.Vec
	CuboidSize     r3.Vec
}

// Field builds a field of kind k from the template.
func (t Template) Field(k forcefield.Kind) forcefield.Field {
	switch k {
	case forcefield.Directional:
		return forcefield.NewDirectional(t.Position, t.Radius, t.Force)
	case forcefield.Expansion:
		return forcefield.NewExpansion(t.Position, t.Radius, t.Strength)
	case forcefield.Contraction:
		return forcefield.NewContraction(t.Position, t.Radius, t.Strength)
	case forcefield.Obstacle:
		return forcefield.NewObstacle(t.CuboidPosition, t.CuboidSize)
	}
	return forcefield.Field{Kind: k}
}

// Options configures a Scene beyond the loaded config.
type Options struct {
	Seed      int64  // RNG seed for the particle emitter
	OutputDir string // CSV and config output directory, empty = disabled
	LogStats  bool   // log each telemetry window via slog
}

// Scene is the simulation core: particles, cloth, fields and telemetry.
// All methods must be called from the goroutine that owns it.
type Scene struct {
	cfg  *config.Config
	pool *compute.Pool

	fields   *forcefield.Registry
	uniforms forcefield.Uniforms
	template Template

	particles *particles.System
	cloth     *cloth.Cloth

	mode   Mode
	paused bool
	tick   int32

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
	logStats  bool

	// Scratch for speed sampling
	speeds []float64
}

// New builds a scene from cfg. The output directory, when set, receives the
// effective config immediately.
func New(cfg *config.Config, opts Options) (*Scene, error) {
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	pool := compute.NewPool(cfg.Derived.Workers)
	rng := rand.New(rand.NewSource(opts.Seed))
	ff := cfg.ForceFields

	s := &Scene{
		cfg:    cfg,
		pool:   pool,
		fields: forcefield.NewRegistryFromConfig(cfg),
		template: Template{
			Position:       ff.NewPosition.R3(),
			Radius:         ff.NewRadius,
			Force:          ff.NewForce.R3(),
			Strength:       ff.NewStrength,
			CuboidPosition: ff.CuboidPosition.R3(),
			CuboidSize:     ff.CuboidSize.R3(),
		},
		particles: particles.New(cfg, pool, rng),
		cloth:     cloth.New(cfg, pool),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Particles.DT),
		bookmarks: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory),
		output:    output,
		logStats:  opts.LogStats,
	}
	return s, nil
}

// Tick advances both simulations by one frame and flushes telemetry on
// window boundaries. A paused scene does nothing.
func (s *Scene) Tick() {
	if s.paused {
		return
	}

	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseUniforms)
	s.fields.Upload(&s.uniforms)

	s.perf.StartPhase(telemetry.PhaseParticles)
	s.particles.Step(&s.uniforms)
	s.collector.RecordRespawns(s.particles.Respawned())

	s.perf.StartPhase(telemetry.PhaseCloth)
	s.cloth.Step()

	s.tick++

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perf.EndTick()
}

// flushTelemetry writes the stats window once it has elapsed and checks it
// for bookmarks.
func (s *Scene) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.snapshot())
	perfStats := s.perf.Stats()

	if s.logStats {
		slog.Info("stats", "window", stats)
		slog.Info("perf", "window", perfStats)
	}

	if err := s.output.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

func (s *Scene) snapshot() telemetry.Snapshot {
	s.speeds = s.particles.Speeds(s.speeds[:0])
	_, selected := s.fields.Selected()

	return telemetry.Snapshot{
		Mode:            s.mode.String(),
		ActiveParticles: len(s.speeds),
		Speeds:          s.speeds,
		ParticleEnergy:  s.particles.KineticEnergy(),
		ClothEnergy:     s.cloth.KineticEnergy(),
		Wind:            s.cloth.WindEnabled(),
		Directional:     s.fields.Count(forcefield.Directional),
		Expansion:       s.fields.Count(forcefield.Expansion),
		Contraction:     s.fields.Count(forcefield.Contraction),
		Obstacles:       s.fields.Count(forcefield.Obstacle),
		Selected:        selected,
	}
}

// AddForceField registers f in the Idle state.
// Returns an error wrapping forcefield.ErrCapacityExceeded when f's kind is full.
func (s *Scene) AddForceField(f forcefield.Field) (ecs.Entity, error) {
	e, err := s.fields.Add(f)
	if err != nil {
		if errors.Is(err, forcefield.ErrCapacityExceeded) {
			s.collector.RecordFieldRejected()
		}
		return e, err
	}
	s.collector.RecordFieldAdded()
	return e, nil
}

// AddFromTemplate registers a field of kind k built from the current template.
func (s *Scene) AddFromTemplate(k forcefield.Kind) (ecs.Entity, error) {
	return s.AddForceField(s.template.Field(k))
}

// RemoveSelectedForceField removes the selected field, if any.
func (s *Scene) RemoveSelectedForceField() bool {
	if !s.fields.RemoveSelected() {
		return false
	}
	s.collector.RecordFieldRemoved()
	return true
}

// SetForceFieldsVisible enables or disables pointer interaction for every field.
func (s *Scene) SetForceFieldsVisible(visible bool) {
	s.fields.SetVisible(visible)
}

// SetWindEnabled toggles the cloth wind force.
func (s *Scene) SetWindEnabled(on bool) {
	s.cloth.SetWindEnabled(on)
}

// SetBounciness sets the obstacle restitution of the particles.
func (s *Scene) SetBounciness(b float32) {
	s.particles.SetBounciness(b)
}

// SetDrag sets the particle drag coefficient.
func (s *Scene) SetDrag(d float32) {
	s.particles.SetDrag(d)
}

// SetLifetime sets the particle lifetime in seconds.
func (s *Scene) SetLifetime(l float32) {
	s.particles.SetLifetime(l)
}

// SetSubSteps sets the cloth sub-steps per frame.
func (s *Scene) SetSubSteps(n int) {
	s.cloth.SetSubSteps(n)
}

// SetMode switches the drawn simulation. Fields are only interactive in
// particle mode.
func (s *Scene) SetMode(m Mode) {
	s.mode = m
	s.fields.SetVisible(m == ModeParticles)
}

// ToggleMode switches between particle and cloth mode.
func (s *Scene) ToggleMode() {
	if s.mode == ModeParticles {
		s.SetMode(ModeCloth)
	} else {
		s.SetMode(ModeParticles)
	}
}

// SetPaused freezes or resumes both simulations.
func (s *Scene) SetPaused(paused bool) {
	s.paused = paused
}

// Reset restores both simulations to their initial state. Fields are kept.
func (s *Scene) Reset() {
	s.particles.Reset()
	s.cloth.Reset()
}

// Template returns a pointer to the parameters for panel-created fields.
func (s *Scene) Template() *Template {
	return &s.template
}

// Mode returns the current draw mode.
func (s *Scene) Mode() Mode {
	return s.mode
}

// Paused reports whether ticking is suspended.
func (s *Scene) Paused() bool {
	return s.paused
}

// Ticks returns the number of frames simulated.
func (s *Scene) Ticks() int32 {
	return s.tick
}

func (s *Scene) Config() *config.Config {
	return s.cfg
}

func (s *Scene) Particles() *particles.System {
	return s.particles
}

func (s *Scene) Cloth() *cloth.Cloth {
	return s.cloth
}

func (s *Scene) Fields() *forcefield.Registry {
	return s.fields
}

// Perf returns the tick timing collector; the host records frame times on it.
func (s *Scene) Perf() *telemetry.PerfCollector {
	return s.perf
}

// OutputDir returns the telemetry output directory, empty when disabled.
func (s *Scene) OutputDir() string {
	return s.output.Dir()
}

// Close stops the worker pool and closes output files.
func (s *Scene) Close() error {
	s.pool.Stop()
	return s.output.Close()
}
