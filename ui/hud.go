package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/outbreak/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Phase      string
	Device     string
	Kernel     string
	Engine     string
	View       string
	Dispatches int
	Dropped    int
	Humans     int64
	Zombies    int64
	HumanShare float64
	Placers    int
	FPS        int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	x, y := int32(10), int32(10)
	r.DrawPanel(x-5, y-5, 300, 150)

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 26

	y = r.DrawLabelValue(x, y, "Phase", data.Phase)
	y = r.DrawLabelValue(x, y, "Device", fmt.Sprintf("%s (%s)", data.Device, data.Kernel))
	y = r.DrawLabelValue(x, y, "Engine", fmt.Sprintf("%s, %d dispatches, %d dropped", data.Engine, data.Dispatches, data.Dropped))
	y = r.DrawLabelValue(x, y, "Census", fmt.Sprintf("%d humans / %d zombies", data.Humans, data.Zombies))
	y = r.DrawShareBar(x, y, "Share", float32(data.HumanShare), 290)
	r.DrawLabelValue(x, y, "View", fmt.Sprintf("%s | %d placers | FPS %d", data.View, data.Placers, data.FPS))
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// DrawSplash renders the start screen.
func (h *HUD) DrawSplash(screenWidth, screenHeight int32, title, hint string) {
	tw := rl.MeasureText(title, 40)
	rl.DrawText(title, (screenWidth-tw)/2, screenHeight/2-40, 40, rl.White)
	hw := rl.MeasureText(hint, 20)
	rl.DrawText(hint, (screenWidth-hw)/2, screenHeight/2+20, 20, rl.LightGray)
}

// PerfPanel renders the per-phase timing of the scheduling pass.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	x := p.x
	y := p.y

	rl.DrawText("Pass Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s", stats.AvgPass.Round(time.Microsecond), stats.MaxPass.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("Fence: %s  Dispatch: %.0f%%", stats.AvgFence.Round(time.Microsecond), stats.DispatchRatio*100), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range phases {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
