package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/outbreak/systems"
	"github.com/pthm-cable/outbreak/telemetry"
)

// UpdateHeadless runs StepsPerUpdate steps of one tick period each. Every
// step is two passes, an idle one and a firing one, so placer edits land.
func (g *Game) UpdateHeadless() error {
	cadence := systems.HeadlessCadence(g.engine.Gate().Period())
	for i := 0; i < g.stepsPerUpdate; i++ {
		for _, elapsed := range cadence {
			if err := g.pass(elapsed); err != nil {
				return err
			}
		}
	}
	return nil
}

// Update handles input and runs one pass using the frame time. A pending edit
// gets a zero-length pass first so a slow frame rate cannot starve it.
func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	if g.engine.EditPending() {
		if err := g.pass(0); err != nil {
			return err
		}
	}
	elapsed := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
	if err := g.pass(elapsed); err != nil {
		return err
	}
	g.perfCollector.RecordFrame()
	return nil
}

// pass runs placers then one engine scheduling pass, refreshes the displayed
// generation and feeds telemetry. A returned error is fatal.
func (g *Game) pass(elapsed time.Duration) error {
	g.perfCollector.StartPass()
	defer g.perfCollector.EndPass()

	g.perfCollector.StartPhase(telemetry.PhasePlacers)
	if g.phase == PhaseRunning {
		g.placers.Update(float32(elapsed.Seconds()), g.snapshot)
	}

	rep, err := g.engine.Tick(elapsed)
	if err != nil {
		return err
	}
	g.recordPass(rep)
	if rep.Dispatched {
		g.perfCollector.MarkDispatched()
	}

	g.perfCollector.StartPhase(telemetry.PhaseCensus)
	if rep.Dispatched || rep.Edit == systems.InjectApplied || g.snapshotStale {
		g.refreshSnapshot()
	}
	g.flushTelemetry()
	return nil
}

// refreshSnapshot copies the displayable grid and uploads it to the board
// texture in windowed mode. A failed read keeps the previous generation on
// screen and retries next pass.
func (g *Game) refreshSnapshot() {
	role, err := g.engine.Snapshot(g.snapshot)
	if err != nil {
		g.snapshotStale = true
		g.log.Warn("snapshot read failed", "error", err)
		return
	}
	g.displayRole = role
	g.snapshotStale = false

	if !g.headless {
		g.hudCensus = telemetry.TakeCensus(g.snapshot, &g.hudCensusBuf)
		if g.boardRenderer != nil {
			g.boardRenderer.Update(g.snapshot, g.cfg.Board.Width, g.cfg.Board.Height)
		}
	}
}
