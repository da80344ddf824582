package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel lists the toggleable panels and the key bindings.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// keyBindings are the fixed simulation controls.
var keyBindings = [][2]string{
	{"Space", "run / pause"},
	{"N", "single step"},
	{"R", "reseed board"},
	{"V", "cycle view"},
	{"LMB", "paint brush"},
	{"Arrows", "pan"},
	{"Wheel", "zoom"},
	{"Home", "reset camera"},
	{"F5", "save snapshot"},
	{"F11", "fullscreen"},
}

// Draw renders the controls panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	items := len(overlays.All()) + len(keyBindings) + 2
	panelHeight := int32(items)*lineHeight + padding*3
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	y = r.DrawSectionHeader(c.x+padding, y, "Panels")
	for _, desc := range overlays.All() {
		c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
		y += lineHeight
	}

	y += padding
	y = r.DrawSectionHeader(c.x+padding, y, "Controls")
	for _, kb := range keyBindings {
		y = r.DrawLabelValue(c.x+padding, y, kb[0], kb[1])
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	// Status indicator
	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	// Name
	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	// Key binding (right aligned)
	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}
