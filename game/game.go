package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/outbreak/board"
	"github.com/pthm-cable/outbreak/camera"
	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/compute"
	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/mapgen"
	"github.com/pthm-cable/outbreak/renderer"
	"github.com/pthm-cable/outbreak/systems"
	"github.com/pthm-cable/outbreak/telemetry"
	"github.com/pthm-cable/outbreak/ui"
)

// Options configures a game instance.
type Options struct {
	Seed           int64   // Board seed (0 = config seed, which itself may be 0 for time-based)
	LogStats       bool    // Log window stats via slog
	StatsWindowSec float64 // Simulated seconds per census window
	SnapshotDir    string  // Save a board snapshot on every bookmark
	SnapshotPath   string  // Start from a saved board instead of generating one
	OutputDir      string  // CSV output directory (empty = disabled)
	Headless       bool    // No window, renderer or input
	StepsPerUpdate int     // Passes per UpdateHeadless call
	Logger         *slog.Logger
}

// Game owns the engine and everything around it: the placer world, telemetry,
// and in windowed mode the camera, renderers and panels.
type Game struct {
	cfg  *config.Config
	log  *slog.Logger
	seed int64
	rng  *rand.Rand

	world   *ecs.World
	engine  *systems.Engine
	placers *systems.PlacerSystem
	phase   Phase
	brush   systems.Brush

	// Displayed generation, refreshed after each dispatch or applied edit
	snapshot      []components.CellState
	displayRole   board.Role
	snapshotStale bool

	// Telemetry
	logStats         bool
	stepsPerUpdate   int
	snapshotDir      string
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	lastStats        telemetry.WindowStats
	hudCensus        telemetry.Census
	hudCensusBuf     telemetry.Census

	// Windowed mode only
	headless      bool
	camera        *camera.Camera
	boardRenderer *renderer.BoardRenderer
	overlays      *ui.OverlayRegistry
	hud           *ui.HUD
	perfPanel     *ui.PerfPanel
	inspector     *ui.CellInspector
	brushPanel    *ui.BrushPanel
	controlsPanel *ui.ControlsPanel
	screenWidth   float32
	screenHeight  float32
	hoverX        int
	hoverY        int
	hover         bool
}

// NewGame creates the device, seeds the board and builds the engine from the
// global config. Headless games start running; windowed games start on the
// splash screen.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Seed.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:              cfg,
		log:              log,
		seed:             seed,
		rng:              rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1)),
		world:            ecs.NewWorld(),
		logStats:         opts.LogStats,
		stepsPerUpdate:   steps,
		snapshotDir:      opts.SnapshotDir,
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.TickPeriod),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		headless:         opts.Headless,
		snapshot:         make([]components.CellState, cfg.Derived.BoardLen),
	}

	status, _ := components.ParseStatus(cfg.Placement.Status)
	g.brush = systems.Brush{Status: status, Population: int32(cfg.Placement.Population)}

	cells, err := g.initialCells(opts.SnapshotPath)
	if err != nil {
		return nil, err
	}

	dev, err := compute.NewDevice(cfg.Compute, log)
	if err != nil {
		return nil, fmt.Errorf("compute device: %w", err)
	}
	g.engine, err = systems.NewEngine(systems.EngineConfig{
		Width:  cfg.Board.Width,
		Height: cfg.Board.Height,
		Period: cfg.Derived.TickPeriod,
		Log:    log,
		Perf:   g.perfCollector,
	}, dev, cells)
	if err != nil {
		dev.Close()
		return nil, err
	}

	g.placers = systems.NewPlacerSystem(g.world, g.engine.Submitter(), g.rng, log)
	if cfg.Placers.Count > 0 {
		pstatus, _ := components.ParseStatus(cfg.Placers.Status)
		g.placers.Spawn(cfg.Placers.Count, pstatus, int32(cfg.Placers.Population), cfg.Derived.PlacerEvery)
	}

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.engine.Close()
		return nil, err
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		log.Error("failed to write config", "error", err)
	}

	g.refreshSnapshot()

	if g.headless {
		g.setPhase(PhaseRunning)
	} else {
		g.setPhase(PhaseSplash)
		g.initWindowed()
	}

	log.Info("game created",
		"seed", seed,
		"board_width", cfg.Board.Width,
		"board_height", cfg.Board.Height,
		"placers", g.placers.Count(),
		"headless", g.headless,
	)
	return g, nil
}

// initialCells loads the seed board from a snapshot file or generates it.
func (g *Game) initialCells(snapshotPath string) ([]components.CellState, error) {
	if snapshotPath != "" {
		snap, err := telemetry.LoadSnapshot(snapshotPath)
		if err != nil {
			return nil, err
		}
		g.log.Info("seeding from snapshot", "path", snapshotPath, "dispatch", snap.Dispatch, "width", snap.Width, "height", snap.Height)
		return snap.Cells, nil
	}
	return g.generate(g.seed), nil
}

// generate builds a fresh board for seed.
func (g *Game) generate(seed int64) []components.CellState {
	p := mapgen.ParamsFromConfig(g.cfg.Seed)
	p.Seed = seed
	return mapgen.GenerateInitialGrid(g.cfg.Board.Width, g.cfg.Board.Height, p)
}

// initWindowed creates the camera, renderer and panels. Requires a raylib window.
func (g *Game) initWindowed() {
	cfg := g.cfg
	g.screenWidth = cfg.Derived.ScreenW32
	g.screenHeight = cfg.Derived.ScreenH32

	g.camera = camera.New(g.screenWidth, g.screenHeight, cfg.Board.Width, cfg.Board.Height, float32(cfg.Screen.CellScale))
	g.boardRenderer = renderer.NewBoardRenderer(renderer.Palette{
		Mode:             renderer.ViewOccupants,
		AltitudeRange:    float32(cfg.Seed.AltitudeRange),
		TemperatureRange: float32(cfg.Seed.TemperatureRange),
	})
	g.boardRenderer.Init(cfg.Board.Width, cfg.Board.Height)
	g.boardRenderer.Update(g.snapshot, cfg.Board.Width, cfg.Board.Height)

	g.overlays = ui.NewOverlayRegistry()
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-260, 10)
	g.inspector = ui.NewCellInspector(int32(g.screenWidth)-210, 10, 200)
	g.brushPanel = ui.NewBrushPanel(10, 170, 290, compute.MaxPopulation)
	g.controlsPanel = ui.NewControlsPanel(10, 290, 290)
}

// Unload drains the device and releases all resources.
func (g *Game) Unload() {
	if g.boardRenderer != nil {
		g.boardRenderer.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		g.log.Error("failed to close output", "error", err)
	}
	g.engine.Close()
}

// Dispatches returns the number of kernel dispatches issued.
func (g *Game) Dispatches() int {
	return g.engine.Orchestrator().Dispatches()
}

// Phase returns the current application phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Seed returns the seed of the current board.
func (g *Game) Seed() int64 {
	return g.seed
}

// LastStats returns the most recently flushed window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}
