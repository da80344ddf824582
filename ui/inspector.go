package ui

import (
	"fmt"

	"github.com/pthm-cable/outbreak/components"
)

// CellInspector renders the fields of the cell under the cursor.
type CellInspector struct {
	renderer *Renderer
	fields   []components.FieldDescriptor
	x, y     int32
	width    int32
}

// NewCellInspector creates a new inspector panel.
func NewCellInspector(x, y, width int32) *CellInspector {
	return &CellInspector{
		renderer: NewRenderer(),
		fields:   components.CellFieldDescriptors(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *CellInspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the panel for the cell at (cx, cy).
func (ins *CellInspector) Draw(cx, cy int, cell components.CellState) {
	r := ins.renderer
	height := r.Theme.Padding*2 + r.Theme.LineHeight*int32(len(ins.fields)+2)
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	x := ins.x + r.Theme.Padding
	y := ins.y + r.Theme.Padding
	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Cell %d,%d", cx, cy))

	group := ""
	for _, fd := range ins.fields {
		args, ok := cell.FieldValue(fd.ID)
		if !ok {
			continue
		}
		if fd.Group != group && group != "" {
			y += 2
		}
		group = fd.Group
		y = r.DrawLabelValue(x, y, fd.Label, fmt.Sprintf(fd.Format, args...))
	}
}
