package components

// PlacerPos is the board cell an automated placer currently targets.
type PlacerPos struct {
	X, Y int
}

// Placer drives an automated control-path agent that drops occupants onto the
// board on a fixed interval and then wanders to a neighbouring cell.
type Placer struct {
	Status     Status
	Population int32
	Interval   float32 // seconds between placements
	Cooldown   float32 // seconds until next placement
	Placed     int     // edits submitted so far
}
