package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Particles.Count != 2900 {
		t.Errorf("expected 2900 particles, got %d", cfg.Particles.Count)
	}
	if cfg.Cloth.Columns != 10 || cfg.Cloth.Rows != 10 {
		t.Errorf("expected 10x10 cloth, got %dx%d", cfg.Cloth.Columns, cfg.Cloth.Rows)
	}
	if !cfg.Cloth.PinTopRow {
		t.Error("expected top row pinned by default")
	}
	if cfg.Derived.RestLength != cfg.Cloth.Spacing {
		t.Errorf("expected rest length to default to spacing %g, got %g", cfg.Cloth.Spacing, cfg.Derived.RestLength)
	}
	if cfg.Derived.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", cfg.Derived.Workers)
	}
}

func TestLoadOverlaysUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("cloth:\n  sub_steps: 5\nforce_fields:\n  capacity_per_kind: 99\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.Cloth.SubSteps != 5 {
		t.Errorf("expected sub_steps override 5, got %d", cfg.Cloth.SubSteps)
	}
	// Untouched fields keep their defaults
	if cfg.Cloth.Columns != 10 {
		t.Errorf("expected default columns 10, got %d", cfg.Cloth.Columns)
	}
	// Capacity is clamped to the uniform array size
	if cfg.Derived.CapacityPerKind != MaxFieldsPerKind {
		t.Errorf("expected capacity clamped to %d, got %d", MaxFieldsPerKind, cfg.Derived.CapacityPerKind)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("cloth:\n  dt: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for zero cloth dt")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Particles.Lifetime = 7.5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading yaml: %v", err)
	}
	if loaded.Particles.Lifetime != 7.5 {
		t.Errorf("expected lifetime 7.5 after reload, got %g", loaded.Particles.Lifetime)
	}
}
