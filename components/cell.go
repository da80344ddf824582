// Package components defines the fixed-layout records shared by the board, the
// compute kernel and the control path, plus the ECS components for placer agents.
package components

import (
	"math"
	"unsafe"
)

// Status tags the occupant of a cell. The numeric values are part of the kernel ABI.
type Status uint32

const (
	StatusEmpty Status = iota
	StatusHuman
	StatusZombie
)

// String returns the display name for a Status.
func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusHuman:
		return "human"
	case StatusZombie:
		return "zombie"
	default:
		return "unknown"
	}
}

// ParseStatus maps a display name back to its Status.
func ParseStatus(name string) (Status, bool) {
	switch name {
	case "empty":
		return StatusEmpty, true
	case "human":
		return StatusHuman, true
	case "zombie":
		return StatusZombie, true
	}
	return StatusEmpty, false
}

// Valid reports whether s is one of the known status tags.
func (s Status) Valid() bool {
	return s <= StatusZombie
}

// CellState is the per-cell record stored in both board buffers.
// Field order and widths match the kernel-side struct; the record is copied
// as an opaque 48 byte blob and never referenced across buffers.
type CellState struct {
	NeighborsCount int32
	EdgeDistance   int32
	Altitude       int32
	Temperature    int32
	Population     int32

	// Direction deltas are in {-1, 0, 1}.
	DirectionX       int32
	DirectionY       int32
	SecondDirectionX int32
	SecondDirectionY int32

	SmellHuman  int32
	SmellZombie int32

	Status Status
}

// CellSize is the byte size of one CellState on the device.
const CellSize = 48

// Compile-time layout check: fails to build if CellState drifts from 48 bytes.
var _ [CellSize - unsafe.Sizeof(CellState{})]struct{}
var _ [unsafe.Sizeof(CellState{}) - CellSize]struct{}

// Occupied reports whether the cell holds a population.
func (c CellState) Occupied() bool {
	return c.Status != StatusEmpty
}

// Consistent reports whether the status tag and population agree:
// empty cells have zero population and occupied cells a positive one.
func (c CellState) Consistent() bool {
	if !c.Status.Valid() || c.Population < 0 {
		return false
	}
	return (c.Status == StatusEmpty) == (c.Population == 0)
}

// WithOccupant returns a copy of c with status and population replaced.
// Terrain fields are preserved.
func (c CellState) WithOccupant(status Status, population int32) CellState {
	c.Status = status
	c.Population = population
	if population <= 0 {
		c.Status = StatusEmpty
		c.Population = 0
	}
	return c
}

// BoardConstants is the read-only configuration bound alongside both buffers.
// Padded to 16 bytes for uniform alignment.
type BoardConstants struct {
	Width    int32
	Height   int32
	Padding0 int32
	Padding1 int32
}

// MaxBoardCells bounds width*height so int32 kernel offsets cannot overflow.
const MaxBoardCells = math.MaxInt32

// NewBoardConstants builds constants for a width x height board. Callers keep
// width*height within MaxBoardCells.
func NewBoardConstants(width, height int) BoardConstants {
	return BoardConstants{Width: int32(width), Height: int32(height)}
}

// Len returns the number of cells on the board.
func (b BoardConstants) Len() int {
	return int(b.Width) * int(b.Height)
}
