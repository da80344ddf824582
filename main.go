package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output census windows via slog")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	statsWindow := flag.Float64("stats-window", 0, "Census window size in simulated seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for bookmark snapshots")
	snapshotPath := flag.String("snapshot", "", "Start from a saved board snapshot")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Board seed (0 = config seed or time-based)")
	maxDispatches := flag.Int("max-dispatches", 0, "Stop after N kernel dispatches (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Tick periods simulated per headless update call (higher = faster runs)")
	backend := flag.String("backend", "", "Compute backend override (cpu, opencl)")

	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelInfo
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *backend != "" {
		cfg.Compute.Backend = *backend
		if err := cfg.Validate(); err != nil {
			slog.Error("invalid backend", "error", err)
			os.Exit(1)
		}
	}

	opts := game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		SnapshotPath:   *snapshotPath,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		Logger:         logger,
	}

	if *headless {
		// Headless mode: no raylib window, fixed tick period per pass
		g, err := game.NewGame(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}

		slog.Info("starting headless simulation",
			"seed", g.Seed(),
			"backend", cfg.Compute.Backend,
			"max_dispatches", *maxDispatches,
			"steps_per_update", *stepsPerUpdate,
		)

		for {
			if err := g.UpdateHeadless(); err != nil {
				slog.Error("simulation failed", "dispatch", g.Dispatches(), "error", err)
				g.Unload()
				os.Exit(1)
			}
			if *maxDispatches > 0 && g.Dispatches() >= *maxDispatches {
				slog.Info("max dispatches reached", "dispatch", g.Dispatches())
				g.Unload()
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Outbreak")
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(opts)
	if err != nil {
		rl.CloseWindow()
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	for !rl.WindowShouldClose() {
		if err := g.Update(); err != nil {
			slog.Error("simulation failed", "dispatch", g.Dispatches(), "error", err)
			g.Unload()
			rl.CloseWindow()
			os.Exit(1)
		}
		g.Draw()

		if *maxDispatches > 0 && g.Dispatches() >= *maxDispatches {
			break
		}
	}
	g.Unload()
	rl.CloseWindow()
}
