package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one telemetry window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Mode            string  `csv:"mode"`

	// Particles at window end
	ActiveParticles int     `csv:"active_particles"`
	ParticleEnergy  float64 `csv:"particle_energy"`
	SpeedMean       float64 `csv:"speed_mean"`
	SpeedP10        float64 `csv:"speed_p10"`
	SpeedP50        float64 `csv:"speed_p50"`
	SpeedP90        float64 `csv:"speed_p90"`

	// Events during window
	Respawns      int `csv:"respawns"`
	FieldsAdded   int `csv:"fields_added"`
	FieldsRemoved int `csv:"fields_removed"`
	Rejected      int `csv:"fields_rejected"`

	// Cloth at window end
	ClothEnergy float64 `csv:"cloth_energy"`
	Wind        bool    `csv:"wind"`

	// Registry at window end
	Directional int  `csv:"directional"`
	Expansion   int  `csv:"expansion"`
	Contraction int  `csv:"contraction"`
	Obstacles   int  `csv:"obstacles"`
	Selected    bool `csv:"selected"`
}

// Distribution returns the mean and the 10th, 50th and 90th percentiles of values.
// values is not modified.
func Distribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("mode", s.Mode),
		slog.Int("active_particles", s.ActiveParticles),
		slog.Float64("particle_energy", s.ParticleEnergy),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Int("respawns", s.Respawns),
		slog.Int("fields_added", s.FieldsAdded),
		slog.Int("fields_removed", s.FieldsRemoved),
		slog.Int("fields_rejected", s.Rejected),
		slog.Float64("cloth_energy", s.ClothEnergy),
		slog.Bool("wind", s.Wind),
		slog.Int("directional", s.Directional),
		slog.Int("expansion", s.Expansion),
		slog.Int("contraction", s.Contraction),
		slog.Int("obstacles", s.Obstacles),
		slog.Bool("selected", s.Selected),
	)
}
