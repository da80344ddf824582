// Package board holds the two device-resident grids and the two prebuilt
// bindings that alternate between them.
package board

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/compute"
)

var (
	ErrInvalidDimensions = errors.New("board: invalid dimensions")
	ErrSizeMismatch      = errors.New("board: seed length does not match board size")
	ErrOutOfBounds       = errors.New("board: coordinate out of bounds")
)

// Role names one of the two grids.
type Role int

const (
	RoleA Role = iota
	RoleB
)

func (r Role) String() string {
	switch r {
	case RoleA:
		return "A"
	case RoleB:
		return "B"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Other returns the opposite grid.
func (r Role) Other() Role {
	return 1 - r
}

// Pairing is one of the two cached source/destination bindings.
// Pairing 0 reads A and writes B; pairing 1 reads B and writes A.
type Pairing struct {
	Index   int
	Source  Role
	Dest    Role
	Binding compute.Binding
}

// Store owns grids A and B on a device.
type Store struct {
	dev      compute.Device
	width    int
	height   int
	consts   components.BoardConstants
	grids    [2]compute.Buffer
	pairings [2]Pairing
	builds   int
}

// New validates seed against width x height, allocates both grids from it
// and builds both pairings. Nothing is allocated when validation fails.
func New(dev compute.Device, width, height int, seed []components.CellState) (*Store, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > components.MaxBoardCells/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", ErrInvalidDimensions, width, height, components.MaxBoardCells)
	}
	if len(seed) != width*height {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(seed), width*height)
	}

	s := &Store{
		dev:    dev,
		width:  width,
		height: height,
		consts: components.NewBoardConstants(width, height),
	}
	for _, r := range []Role{RoleA, RoleB} {
		buf, err := dev.Allocate(seed)
		if err != nil {
			return nil, fmt.Errorf("allocating grid %v: %w", r, err)
		}
		s.grids[r] = buf
	}
	if err := s.buildPairings(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) buildPairings() error {
	for i, src := range []Role{RoleA, RoleB} {
		dst := src.Other()
		b, err := s.dev.Bind(s.grids[src], s.grids[dst], s.consts)
		if err != nil {
			return fmt.Errorf("building pairing %d: %w", i, err)
		}
		s.pairings[i] = Pairing{Index: i, Source: src, Dest: dst, Binding: b}
	}
	s.builds++
	return nil
}

// Reset uploads seed into both grids. The grids and board constants are
// unchanged, so the cached pairings stay valid and are not rebuilt.
// The caller must have fenced any in-flight dispatch.
func (s *Store) Reset(seed []components.CellState) error {
	if len(seed) != s.Len() {
		return fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(seed), s.Len())
	}
	for _, r := range []Role{RoleA, RoleB} {
		if err := s.dev.Upload(s.grids[r], seed); err != nil {
			return fmt.Errorf("uploading grid %v: %w", r, err)
		}
	}
	return nil
}

// Pairing returns cached pairing i. It panics unless i is 0 or 1.
func (s *Store) Pairing(i int) Pairing {
	if i != 0 && i != 1 {
		panic(fmt.Sprintf("board: pairing index %d", i))
	}
	return s.pairings[i]
}

// Offset returns the linear index y*width+x.
func (s *Store) Offset(x, y int) (int, error) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return 0, fmt.Errorf("%w: (%d,%d) on %dx%d", ErrOutOfBounds, x, y, s.width, s.height)
	}
	return y*s.width + x, nil
}

// WriteBoth writes cell at offset into A, then B.
func (s *Store) WriteBoth(offset int, cell components.CellState) error {
	for _, r := range []Role{RoleA, RoleB} {
		if err := s.dev.Write(s.grids[r], offset, cell); err != nil {
			return fmt.Errorf("writing grid %v: %w", r, err)
		}
	}
	return nil
}

// Read copies grid r into dst.
func (s *Store) Read(r Role, dst []components.CellState) error {
	return s.dev.Read(s.grids[r], dst)
}

func (s *Store) Width() int                           { return s.width }
func (s *Store) Height() int                          { return s.height }
func (s *Store) Len() int                             { return s.width * s.height }
func (s *Store) Constants() components.BoardConstants { return s.consts }

// Builds counts pairing constructions. It stays at one for the life of the store.
func (s *Store) Builds() int { return s.builds }

// Close releases the device.
func (s *Store) Close() {
	s.dev.Close()
}
