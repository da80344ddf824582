package components

// FieldDescriptor describes a cell field for UI display.
type FieldDescriptor struct {
	ID     string // Unique identifier
	Label  string // Display name
	Format string // Printf format (e.g., "%d")
	Group  string // Logical grouping
}

// CellFieldDescriptors returns metadata for CellState fields, in display order.
// Field IDs must match cases in (CellState).FieldValue.
func CellFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "status", Label: "Status", Format: "%s", Group: "occupant"},
		{ID: "population", Label: "Pop", Format: "%d", Group: "occupant"},
		{ID: "altitude", Label: "Alt", Format: "%d", Group: "terrain"},
		{ID: "temperature", Label: "Temp", Format: "%d", Group: "terrain"},
		{ID: "edge_distance", Label: "Edge", Format: "%d", Group: "terrain"},
		{ID: "neighbors", Label: "Nbrs", Format: "%d", Group: "terrain"},
		{ID: "direction", Label: "Dir", Format: "%+d,%+d", Group: "movement"},
		{ID: "smell_human", Label: "Scent H", Format: "%d", Group: "scent"},
		{ID: "smell_zombie", Label: "Scent Z", Format: "%d", Group: "scent"},
	}
}

// FieldValue returns the printf arguments for a descriptor ID.
// Returns (nil, false) for unknown IDs.
func (c CellState) FieldValue(id string) ([]any, bool) {
	switch id {
	case "status":
		return []any{c.Status.String()}, true
	case "population":
		return []any{c.Population}, true
	case "altitude":
		return []any{c.Altitude}, true
	case "temperature":
		return []any{c.Temperature}, true
	case "edge_distance":
		return []any{c.EdgeDistance}, true
	case "neighbors":
		return []any{c.NeighborsCount}, true
	case "direction":
		return []any{c.DirectionX, c.DirectionY}, true
	case "smell_human":
		return []any{c.SmellHuman}, true
	case "smell_zombie":
		return []any{c.SmellZombie}, true
	}
	return nil, false
}
