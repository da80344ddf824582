package systems

import "github.com/pthm-cable/outbreak/components"

// Brush is the interactive placement tool: what to drop on a clicked cell.
type Brush struct {
	Status     components.Status
	Population int32
}

// Paint returns base with its occupant replaced by the brush's. Terrain is
// kept. An empty-status brush clears the cell.
func (b Brush) Paint(base components.CellState) components.CellState {
	if b.Status == components.StatusEmpty {
		return base.WithOccupant(components.StatusEmpty, 0)
	}
	return base.WithOccupant(b.Status, b.Population)
}

// PaintAt submits a painted copy of the displayed cell at (x, y). Terrain is
// taken from snapshot when it covers the board.
func (b Brush) PaintAt(s *Submitter, snapshot []components.CellState, x, y int) error {
	w, h := s.Bounds()
	var base components.CellState
	if len(snapshot) == w*h && x >= 0 && y >= 0 && x < w && y < h {
		base = snapshot[y*w+x]
	}
	return s.Submit(x, y, b.Paint(base))
}
