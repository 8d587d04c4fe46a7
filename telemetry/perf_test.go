package telemetry

import (
	"testing"
	"time"
)

func runTicks(pc *PerfCollector, n int, phases map[string]time.Duration) {
	for i := 0; i < n; i++ {
		pc.StartTick()
		for _, name := range Phases {
			d, ok := phases[name]
			if !ok {
				continue
			}
			pc.StartPhase(name)
			time.Sleep(d)
		}
		pc.EndTick()
	}
}

func TestPerfCollectorTracksScenePhases(t *testing.T) {
	pc := NewPerfCollector(8)
	runTicks(pc, 4, map[string]time.Duration{
		PhaseUniforms:  0,
		PhaseParticles: 200 * time.Microsecond,
		PhaseCloth:     2 * time.Millisecond,
	})

	stats := pc.Stats()
	for _, name := range []string{PhaseUniforms, PhaseParticles, PhaseCloth} {
		if _, ok := stats.PhaseAvg[name]; !ok {
			t.Errorf("expected phase %q to be tracked", name)
		}
	}
	if _, ok := stats.PhaseAvg[PhaseTelemetry]; ok {
		t.Error("expected untimed telemetry phase to be absent")
	}
	if stats.PhasePct[PhaseCloth] <= stats.PhasePct[PhaseParticles] {
		t.Errorf("expected cloth share above particles, got %.1f%% vs %.1f%%",
			stats.PhasePct[PhaseCloth], stats.PhasePct[PhaseParticles])
	}

	var total float64
	for _, pct := range stats.PhasePct {
		total += pct
	}
	if total > 100.5 {
		t.Errorf("expected phase shares to fit in the tick, got %.1f%%", total)
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("expected min <= avg <= max, got %v %v %v",
			stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollectorWindowEvictsOldTicks(t *testing.T) {
	pc := NewPerfCollector(3)
	runTicks(pc, 3, map[string]time.Duration{PhaseCloth: 5 * time.Millisecond})
	if pc.Stats().MaxTickDuration < 5*time.Millisecond {
		t.Fatal("expected slow ticks in the window")
	}

	runTicks(pc, 3, map[string]time.Duration{PhaseCloth: 0})
	if worst := pc.Stats().MaxTickDuration; worst >= 5*time.Millisecond {
		t.Errorf("expected slow ticks evicted, max still %v", worst)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	stats := NewPerfCollector(0).Stats()

	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("expected zero timings, got %+v", stats)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfStatsLogValueSkipsIdlePhases(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: time.Millisecond,
		PhasePct:        map[string]float64{PhaseCloth: 60, PhaseUniforms: 0.01},
	}

	keys := make(map[string]bool)
	for _, attr := range s.LogValue().Group() {
		keys[attr.Key] = true
	}
	if !keys["cloth_pct"] {
		t.Error("expected cloth_pct attribute")
	}
	if keys["uniforms_pct"] {
		t.Error("expected negligible uniforms_pct to be omitted")
	}
	if keys["fps"] {
		t.Error("expected fps omitted in headless stats")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseParticles: 40, PhaseCloth: 55},
	}

	rec := s.ToCSV(120)
	if rec.WindowEnd != 120 || rec.AvgTickUS != 1500 {
		t.Errorf("unexpected record header fields: %+v", rec)
	}
	if rec.ParticlesPct != 40 || rec.ClothPct != 55 || rec.UniformsPct != 0 {
		t.Errorf("unexpected phase percentages: %+v", rec)
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	if pc.Stats().FPS != 0 {
		t.Error("expected no FPS before a second frame")
	}
	time.Sleep(20 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 20*time.Millisecond {
		t.Errorf("expected frame duration >= 20ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 50 {
		t.Errorf("expected FPS in (0, 50], got %v", stats.FPS)
	}
}
