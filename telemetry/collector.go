package telemetry

// Snapshot is the simulation state sampled when a window is flushed.
type Snapshot struct {
	Mode string

	ActiveParticles int
	Speeds          []float64
	ParticleEnergy  float64

	ClothEnergy float64
	Wind        bool

	// Registered fields per kind
	Directional, Expansion, Contraction, Obstacles int
	Selected                                       bool
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	// Event counters for the current window
	respawns      int
	fieldsAdded   int
	fieldsRemoved int
	rejected      int
}

// NewCollector creates a collector flushing every windowDurationSec of
// simulation time, given dt seconds per tick.
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticks := int32(windowDurationSec / dt)
	if ticks < 1 {
		ticks = 1
	}
	return &Collector{
		windowDurationTicks: ticks,
		dt:                  dt,
	}
}

// RecordRespawns adds n particle respawns.
func (c *Collector) RecordRespawns(n int) {
	c.respawns += n
}

// RecordFieldAdded records a successful add.
func (c *Collector) RecordFieldAdded() {
	c.fieldsAdded++
}

// RecordFieldRemoved records a removal.
func (c *Collector) RecordFieldRemoved() {
	c.fieldsRemoved++
}

// RecordFieldRejected records an add refused by the registry.
func (c *Collector) RecordFieldRejected() {
	c.rejected++
}

// ShouldFlush returns true once a full window has elapsed since the last flush.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

// Flush produces the stats for the window ending at currentTick and resets
// the counters.
func (c *Collector) Flush(currentTick int32, snap Snapshot) WindowStats {
	mean, p10, p50, p90 := Distribution(snap.Speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		Mode:            snap.Mode,

		ActiveParticles: snap.ActiveParticles,
		ParticleEnergy:  snap.ParticleEnergy,
		SpeedMean:       mean,
		SpeedP10:        p10,
		SpeedP50:        p50,
		SpeedP90:        p90,

		Respawns:      c.respawns,
		FieldsAdded:   c.fieldsAdded,
		FieldsRemoved: c.fieldsRemoved,
		Rejected:      c.rejected,

		ClothEnergy: snap.ClothEnergy,
		Wind:        snap.Wind,

		Directional: snap.Directional,
		Expansion:   snap.Expansion,
		Contraction: snap.Contraction,
		Obstacles:   snap.Obstacles,
		Selected:    snap.Selected,
	}

	c.windowStartTick = currentTick
	c.respawns = 0
	c.fieldsAdded = 0
	c.fieldsRemoved = 0
	c.rejected = 0

	return stats
}
