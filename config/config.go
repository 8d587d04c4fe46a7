// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// MaxFieldsPerKind is the size of each per-kind uniform array handed to the
// particle update pass. CapacityPerKind is clamped to it.
const MaxFieldsPerKind = 16

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig     `yaml:"screen"`
	Camera      CameraConfig     `yaml:"camera"`
	Compute     ComputeConfig    `yaml:"compute"`
	Particles   ParticlesConfig  `yaml:"particles"`
	Cloth       ClothConfig      `yaml:"cloth"`
	ForceFields ForceFieldConfig `yaml:"force_fields"`
	Telemetry   TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Vec3 is a YAML-friendly three component vector.
type Vec3 [3]float64

// R3 converts v to a gonum vector.
func (v Vec3) R3() r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// CameraConfig holds the orbit camera starting pose.
type CameraConfig struct {
	Eye     Vec3    `yaml:"eye"`
	Target  Vec3    `yaml:"target"`
	FovY    float64 `yaml:"fov_y"` // vertical field of view in degrees
	MinDist float64 `yaml:"min_distance"`
	MaxDist float64 `yaml:"max_distance"`
}

// ComputeConfig controls the data-parallel kernel dispatch.
type ComputeConfig struct {
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
}

// ParticlesConfig holds particle system parameters.
type ParticlesConfig struct {
	Count           int     `yaml:"count"`
	DT              float64 `yaml:"dt"`
	Lifetime        float64 `yaml:"lifetime"`
	Bounciness      float64 `yaml:"bounciness"`
	Drag            float64 `yaml:"drag"`
	SpawnInterval   float64 `yaml:"spawn_interval"` // stagger between consecutive spawn times
	EmitterCenter   Vec3    `yaml:"emitter_center"`
	EmitterRadius   float64 `yaml:"emitter_radius"`
	InitialVelocity Vec3    `yaml:"initial_velocity"`
	PointSize       float64 `yaml:"point_size"` // world-space marker size, 0 = single pixels
}

// ClothConfig holds cloth simulation parameters.
type ClothConfig struct {
	Columns         int     `yaml:"columns"`
	Rows            int     `yaml:"rows"`
	Spacing         float64 `yaml:"spacing"`
	Ripple          float64 `yaml:"ripple"` // initial out-of-plane bulge amplitude
	Mass            float64 `yaml:"mass"`
	PinTopRow       bool    `yaml:"pin_top_row"`
	SubSteps        int     `yaml:"sub_steps"`
	DT              float64 `yaml:"dt"`
	Gravity         Vec3    `yaml:"gravity"`
	Stiffness       float64 `yaml:"stiffness"`
	Damping         float64 `yaml:"damping"`
	RestLength      float64 `yaml:"rest_length"` // 0 = use spacing
	MaxDisplacement float64 `yaml:"max_displacement"`
	Wind            bool    `yaml:"wind"`
	WindForce       Vec3    `yaml:"wind_force"`
	WindGust        float64 `yaml:"wind_gust"`
	WindFrequency   float64 `yaml:"wind_frequency"`
}

// ForceFieldConfig holds force field registry and interaction parameters,
// plus the parameters used for fields created from the panel.
type ForceFieldConfig struct {
	CapacityPerKind int     `yaml:"capacity_per_kind"`
	HandleLength    float64 `yaml:"handle_length"`
	HandleHitRadius float64 `yaml:"handle_hit_radius"`

	NewPosition    Vec3    `yaml:"new_position"`
	NewRadius      float64 `yaml:"new_radius"`
	NewForce       Vec3    `yaml:"new_force"`
	NewStrength    float64 `yaml:"new_strength"`
	CuboidPosition Vec3    `yaml:"cuboid_position"`
	CuboidSize     Vec3    `yaml:"cuboid_size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	BookmarkHistory     int     `yaml:"bookmark_history"` // windows averaged by the bookmark detector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ParticleDT32    float32 // Particles.DT as float32
	ClothDT32       float32 // Cloth.DT as float32
	RestLength      float64 // Cloth.RestLength, or Cloth.Spacing when unset
	CapacityPerKind int     // ForceFields.CapacityPerKind clamped to MaxFieldsPerKind
	Workers         int     // Compute.Workers resolved against GOMAXPROCS
	AspectRatio     float64 // Screen.Width / Screen.Height
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.ComputeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	if c.Particles.Count < 0 {
		return fmt.Errorf("particles.count must be >= 0, got %d", c.Particles.Count)
	}
	if c.Particles.DT <= 0 {
		return fmt.Errorf("particles.dt must be > 0, got %g", c.Particles.DT)
	}
	if c.Cloth.Columns < 1 || c.Cloth.Rows < 1 {
		return fmt.Errorf("cloth grid must be at least 1x1, got %dx%d", c.Cloth.Columns, c.Cloth.Rows)
	}
	if c.Cloth.DT <= 0 {
		return fmt.Errorf("cloth.dt must be > 0, got %g", c.Cloth.DT)
	}
	if c.Cloth.Mass <= 0 {
		return fmt.Errorf("cloth.mass must be > 0, got %g", c.Cloth.Mass)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Call it again after mutating a Config in place.
func (c *Config) ComputeDerived() {
	c.Derived.ParticleDT32 = float32(c.Particles.DT)
	c.Derived.ClothDT32 = float32(c.Cloth.DT)

	c.Derived.RestLength = c.Cloth.RestLength
	if c.Derived.RestLength <= 0 {
		c.Derived.RestLength = c.Cloth.Spacing
	}

	capacity := c.ForceFields.CapacityPerKind
	if capacity <= 0 || capacity > MaxFieldsPerKind {
		capacity = MaxFieldsPerKind
	}
	c.Derived.CapacityPerKind = capacity

	workers := c.Compute.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	c.Derived.Workers = workers

	if c.Screen.Height > 0 {
		c.Derived.AspectRatio = float64(c.Screen.Width) / float64(c.Screen.Height)
	} else {
		c.Derived.AspectRatio = 1
	}

	if c.Cloth.SubSteps < 1 {
		c.Cloth.SubSteps = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
