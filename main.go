package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fieldsim/app"
	"github.com/pthm-cable/fieldsim/config"
	"github.com/pthm-cable/fieldsim/scene"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	workers := flag.Int("workers", 0, "Kernel worker goroutines (0 = use config)")
	mode := flag.String("mode", "particles", "Initial draw mode: particles or cloth")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}
	if *workers > 0 {
		cfg.Compute.Workers = *workers
		cfg.ComputeDerived()
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := scene.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		s := newScene(cfg, opts, *mode)
		defer s.Close()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"particles", cfg.Particles.Count,
			"cloth_nodes", s.Cloth().Len(),
			"workers", cfg.Derived.Workers,
			"max_ticks", *maxTicks,
		)

		for {
			s.Tick()

			if *maxTicks > 0 && int(s.Ticks()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", s.Ticks())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Field Sim")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	s := newScene(cfg, opts, *mode)
	defer s.Close()

	a := app.New(s, cfg)
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()

		if *maxTicks > 0 && int(s.Ticks()) >= *maxTicks {
			break
		}
	}
}

// newScene builds the scene or exits on failure.
func newScene(cfg *config.Config, opts scene.Options, mode string) *scene.Scene {
	s, err := scene.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create scene", "error", err)
		os.Exit(1)
	}
	if mode == scene.ModeCloth.String() {
		s.SetMode(scene.ModeCloth)
	}
	if dir := s.OutputDir(); dir != "" {
		slog.Info("writing output", "dir", dir)
	}
	return s
}
