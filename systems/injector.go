package systems

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/pthm-cable/outbreak/board"
	"github.com/pthm-cable/outbreak/components"
)

var ErrInconsistentCell = errors.New("systems: cell status and population disagree")

// EditSlot holds at most one pending edit. A newer submission replaces an
// older one that has not been applied yet. Safe for use from any goroutine.
type EditSlot struct {
	p atomic.Pointer[components.Edit]
}

// Submit stores e as the pending edit.
func (s *EditSlot) Submit(e components.Edit) {
	s.p.Store(&e)
}

// Pending returns the pending edit, if any.
func (s *EditSlot) Pending() (components.Edit, bool) {
	if e := s.p.Load(); e != nil {
		return *e, true
	}
	return components.Edit{}, false
}

// clear empties the slot only if it still holds e.
func (s *EditSlot) clear(e *components.Edit) bool {
	return s.p.CompareAndSwap(e, nil)
}

// Injection is the outcome of one Apply call.
type Injection int

const (
	InjectNone Injection = iota
	InjectApplied
	InjectDeferred
	InjectRejected
)

func (i Injection) String() string {
	switch i {
	case InjectNone:
		return "none"
	case InjectApplied:
		return "applied"
	case InjectDeferred:
		return "deferred"
	case InjectRejected:
		return "rejected"
	default:
		return fmt.Sprintf("Injection(%d)", int(i))
	}
}

// Injector moves the pending edit into both grids when no dispatch will run
// in the current pass.
type Injector struct {
	store *board.Store
	slot  *EditSlot
	log   *slog.Logger

	applied  int
	deferred int
	rejected int
}

func NewInjector(store *board.Store, slot *EditSlot, log *slog.Logger) *Injector {
	if log == nil {
		log = slog.Default()
	}
	return &Injector{store: store, slot: slot, log: log}
}

// Apply defers the pending edit when computeWillRun is set. Otherwise it
// writes the full record to both grids at the same offset and clears the slot.
// An out-of-range edit is dropped and board.ErrOutOfBounds returned.
// Any other error leaves the edit pending so the next pass rewrites both grids.
func (in *Injector) Apply(computeWillRun bool) (Injection, error) {
	e := in.slot.p.Load()
	if e == nil {
		return InjectNone, nil
	}
	if computeWillRun {
		in.deferred++
		in.log.Debug("edit deferred", "x", e.X, "y", e.Y)
		return InjectDeferred, nil
	}

	off, err := in.store.Offset(e.X, e.Y)
	if err != nil {
		in.slot.clear(e)
		in.rejected++
		return InjectRejected, err
	}
	if err := in.store.WriteBoth(off, e.Cell); err != nil {
		return InjectNone, fmt.Errorf("injecting edit at (%d,%d): %w", e.X, e.Y, err)
	}
	in.slot.clear(e)
	in.applied++
	return InjectApplied, nil
}

func (in *Injector) Applied() int  { return in.applied }
func (in *Injector) Deferred() int { return in.deferred }
func (in *Injector) Rejected() int { return in.rejected }

// Submitter validates edits from the control path before filling the slot.
type Submitter struct {
	slot          *EditSlot
	width, height int
}

func NewSubmitter(slot *EditSlot, width, height int) *Submitter {
	return &Submitter{slot: slot, width: width, height: height}
}

// Submit queues a full replacement of cell (x, y), replacing any edit still pending.
func (s *Submitter) Submit(x, y int, cell components.CellState) error {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return fmt.Errorf("%w: (%d,%d) on %dx%d", board.ErrOutOfBounds, x, y, s.width, s.height)
	}
	if !cell.Consistent() {
		return fmt.Errorf("%w: %v with population %d", ErrInconsistentCell, cell.Status, cell.Population)
	}
	s.slot.Submit(components.Edit{X: x, Y: y, Cell: cell})
	return nil
}

// Bounds returns the board size edits are checked against.
func (s *Submitter) Bounds() (width, height int) {
	return s.width, s.height
}
