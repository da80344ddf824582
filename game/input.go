package game

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/outbreak/board"
	"github.com/pthm-cable/outbreak/ui"
)

// handleInput processes keyboard and mouse input. Only reseed failures are
// returned; they are fatal.
func (g *Game) handleInput() error {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if g.phase == PhaseSplash {
		if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyEnter) || rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			g.Start()
		}
		return nil
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.StepOnce()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := g.Reseed(); err != nil {
			return err
		}
	}
	if rl.IsKeyPressed(rl.KeyV) {
		g.boardRenderer.Palette.Mode = g.boardRenderer.Palette.Mode.Next()
		g.boardRenderer.Update(g.snapshot, g.cfg.Board.Width, g.cfg.Board.Height)
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		if g.snapshotDir == "" && g.outputManager.Dir() == "" {
			g.snapshotDir = "snapshots"
		}
		g.saveSnapshot(nil)
	}

	if key := rl.GetKeyPressed(); key != 0 {
		g.overlays.HandleKeyPress(key)
	}

	g.handleCameraInput()
	g.handlePaint()
	return nil
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.perfPanel.SetPosition(int32(w)-260, 10)
	g.inspector.SetPosition(int32(w)-210, 10)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	if wheelMove := rl.GetMouseWheelMove(); wheelMove != 0 {
		g.camera.ZoomBy(1.0 + wheelMove*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// handlePaint tracks the hovered cell and submits brush edits while the left
// button is held over the board.
func (g *Game) handlePaint() {
	mouse := rl.GetMousePosition()
	g.hoverX, g.hoverY, g.hover = g.camera.ScreenToCell(mouse.X, mouse.Y)
	if !g.hover || !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		return
	}
	if g.overlays.IsEnabled(ui.OverlayBrush) && rl.CheckCollisionPointRec(mouse, g.brushPanel.Bounds()) {
		return
	}

	if err := g.brush.PaintAt(g.engine.Submitter(), g.snapshot, g.hoverX, g.hoverY); err != nil {
		if errors.Is(err, board.ErrOutOfBounds) {
			return
		}
		g.log.Warn("paint rejected", "x", g.hoverX, "y", g.hoverY, "error", err)
	}
}
