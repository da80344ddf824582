package components

// Edit is a single-cell mutation submitted by the control path.
// Cell is a full replacement record, not a patch.
type Edit struct {
	X, Y int
	Cell CellState
}

// PlaceHuman returns a cell holding the given number of humans.
func PlaceHuman(population int32) CellState {
	return CellState{}.WithOccupant(StatusHuman, population)
}

// PlaceZombie returns a cell holding the given number of zombies.
func PlaceZombie(population int32) CellState {
	return CellState{}.WithOccupant(StatusZombie, population)
}

// Place returns a cell for the given status; StatusEmpty clears the cell.
func Place(status Status, population int32) CellState {
	if status == StatusEmpty {
		return CellState{}
	}
	return CellState{}.WithOccupant(status, population)
}
