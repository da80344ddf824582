package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/outbreak/telemetry"
	"github.com/pthm-cable/outbreak/ui"
)

const controlsHint = "[Space] run/pause  [N] step  [R] reseed  [V] view  [F5] snapshot  [F1] panels"

// Draw renders the game.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	sw, sh := int32(g.screenWidth), int32(g.screenHeight)

	if g.phase == PhaseSplash {
		g.hud.DrawSplash(sw, sh, "Outbreak", "Press Space to start")
		rl.EndDrawing()
		return
	}

	g.boardRenderer.Draw(g.camera, g.hoverX, g.hoverY, g.hover)

	if g.overlays.IsEnabled(ui.OverlayHUD) {
		g.hud.Draw(g.hudData())
	}
	if g.overlays.IsEnabled(ui.OverlayBrush) {
		g.brush = g.brushPanel.Draw(g.brush)
	}
	if g.overlays.IsEnabled(ui.OverlayControls) {
		g.controlsPanel.Draw(g.overlays)
	}
	if g.overlays.IsEnabled(ui.OverlayInspector) && g.hover {
		w := g.cfg.Board.Width
		g.inspector.Draw(g.hoverX, g.hoverY, g.snapshot[g.hoverY*w+g.hoverX])
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats(), telemetry.Phases())
	}

	g.hud.DrawControls(sh, controlsHint)
	rl.EndDrawing()
}

func (g *Game) hudData() ui.HUDData {
	dev := g.engine.Device()
	kernel, _ := dev.KernelStatus()
	orch := g.engine.Orchestrator()
	return ui.HUDData{
		Title:      "Outbreak",
		Phase:      g.phase.String(),
		Device:     dev.Name(),
		Kernel:     kernel.String(),
		Engine:     fmt.Sprintf("%s, showing %s", orch.State(), g.displayRole),
		View:       g.boardRenderer.Palette.Mode.String(),
		Dispatches: orch.Dispatches(),
		Dropped:    g.engine.Gate().Dropped(),
		Humans:     g.hudCensus.HumanPop,
		Zombies:    g.hudCensus.ZombiePop,
		HumanShare: g.hudCensus.HumanShare(),
		Placers:    g.placers.Count(),
		FPS:        rl.GetFPS(),
	}
}
