package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/systems"
)

// BrushPanel edits the placement brush with raygui controls.
type BrushPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	maxPop   float32
}

// NewBrushPanel creates a brush panel. maxPop bounds the population slider.
func NewBrushPanel(x, y, width int32, maxPop int32) *BrushPanel {
	return &BrushPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		maxPop:   float32(maxPop),
	}
}

// SetPosition updates the panel position.
func (b *BrushPanel) SetPosition(x, y int32) {
	b.x = x
	b.y = y
}

// Bounds returns the panel rectangle, used to keep clicks on the panel from
// painting the board underneath.
func (b *BrushPanel) Bounds() rl.Rectangle {
	return rl.Rectangle{X: float32(b.x), Y: float32(b.y), Width: float32(b.width), Height: 110}
}

// Draw renders the panel and returns the brush after any changes.
func (b *BrushPanel) Draw(brush systems.Brush) systems.Brush {
	r := b.renderer
	bounds := b.Bounds()
	r.DrawPanel(b.x, b.y, b.width, int32(bounds.Height))

	pad := float32(r.Theme.Padding)
	x := bounds.X + pad
	y := bounds.Y + pad
	r.DrawSectionHeader(int32(x), int32(y), "Brush")
	y += 20

	bw := (bounds.Width - pad*2 - 10) / 3
	choices := []struct {
		label  string
		status components.Status
	}{
		{"Human", components.StatusHuman},
		{"Zombie", components.StatusZombie},
		{"Clear", components.StatusEmpty},
	}
	for i, ch := range choices {
		label := ch.label
		if brush.Status == ch.status {
			label = "[" + label + "]"
		}
		if gui.Button(rl.Rectangle{X: x + float32(i)*(bw+5), Y: y, Width: bw, Height: 24}, label) {
			brush.Status = ch.status
		}
	}
	y += 34

	rl.DrawText("Population", int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 14
	pop := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: bounds.Width - pad*2 - 40, Height: 16},
		"", "",
		float32(brush.Population), 1, b.maxPop,
	)
	brush.Population = int32(pop)
	rl.DrawText(fmt.Sprintf("%d", brush.Population), int32(bounds.X+bounds.Width-pad-34), int32(y+2), r.Theme.FontSize, r.Theme.ValueColor)

	return brush
}
