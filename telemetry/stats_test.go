package telemetry

import (
	"math"
	"testing"
)

func TestDistribution(t *testing.T) {
	values := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	mean, p10, p50, p90 := Distribution(values)

	if math.Abs(mean-5.5) > 1e-9 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	if p10 != 1 {
		t.Errorf("p10 = %v, want 1", p10)
	}
	if p50 != 5 {
		t.Errorf("p50 = %v, want 5", p50)
	}
	if p90 != 9 {
		t.Errorf("p90 = %v, want 9", p90)
	}

	// Input order is preserved
	if values[0] != 10 {
		t.Error("expected input slice left unsorted")
	}
}

func TestDistributionEmpty(t *testing.T) {
	mean, p10, p50, p90 := Distribution(nil)

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorWindows(t *testing.T) {
	c := NewCollector(1.0, 1.0/60)
	if c.WindowDurationTicks() != 60 {
		t.Fatalf("expected 60 ticks per window, got %d", c.WindowDurationTicks())
	}

	c.RecordRespawns(3)
	c.RecordRespawns(4)
	c.RecordFieldAdded()
	c.RecordFieldRejected()

	if c.ShouldFlush(59) {
		t.Error("expected no flush before window end")
	}
	if !c.ShouldFlush(60) {
		t.Error("expected flush at window end")
	}

	stats := c.Flush(60, Snapshot{
		Mode:            "particles",
		ActiveParticles: 3,
		Speeds:          []float64{1, 2, 3},
		Expansion:       2,
		Selected:        true,
	})

	if stats.Respawns != 7 || stats.FieldsAdded != 1 || stats.Rejected != 1 {
		t.Errorf("unexpected event counts: %+v", stats)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 1e-9 {
		t.Errorf("expected sim time 1.0, got %f", stats.SimTimeSec)
	}
	if stats.SpeedP50 != 2 || math.Abs(stats.SpeedMean-2) > 1e-9 {
		t.Errorf("unexpected speed stats: mean %f p50 %f", stats.SpeedMean, stats.SpeedP50)
	}
	if stats.Expansion != 2 || !stats.Selected || stats.Mode != "particles" {
		t.Errorf("snapshot fields not carried: %+v", stats)
	}

	// Counters reset for the next window
	next := c.Flush(120, Snapshot{})
	if next.Respawns != 0 || next.FieldsAdded != 0 || next.WindowStartTick != 60 {
		t.Errorf("expected fresh window, got %+v", next)
	}
}
