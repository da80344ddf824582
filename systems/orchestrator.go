package systems

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/outbreak/board"
	"github.com/pthm-cable/outbreak/compute"
)

var ErrKernelFailed = errors.New("systems: compute kernel failed")

// State is the orchestrator's lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateDispatching
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateDispatching:
		return "dispatching"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Orchestrator waits for the kernel to become ready and then issues one
// dispatch per fired pass, alternating between the two cached pairings.
type Orchestrator struct {
	store *board.Store
	dev   compute.Device
	log   *slog.Logger

	state      State
	active     int // pairing used by the next dispatch
	bindIndex  int // pairing of the most recent dispatch, -1 before the first
	dispatches int
	err        error
}

// NewOrchestrator creates an orchestrator in StateUninitialized.
func NewOrchestrator(store *board.Store, dev compute.Device, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		store:     store,
		dev:       dev,
		log:       log,
		active:    1,
		bindIndex: -1,
	}
}

// Poll checks kernel readiness while uninitialized. A kernel still loading
// is not an error. A failed kernel moves the orchestrator to StateFailed for good.
func (o *Orchestrator) Poll() error {
	if o.state != StateUninitialized {
		return o.err
	}
	st, err := o.dev.KernelStatus()
	switch st {
	case compute.KernelLoading:
		return nil
	case compute.KernelReady:
		o.state = StateReady
		o.active = 1
		o.log.Info("compute ready", "device", o.dev.Name())
		return nil
	default:
		if err == nil {
			err = fmt.Errorf("kernel status %v", st)
		}
		o.fail(err)
		return o.err
	}
}

// Advance dispatches the active pairing when the pass fired and the engine is
// running. The pairing for the next pass is chosen here, in this pass.
func (o *Orchestrator) Advance(fired, running bool) error {
	if o.state == StateFailed {
		return o.err
	}
	if !fired || !running || (o.state != StateReady && o.state != StateDispatching) {
		return nil
	}

	i := o.active
	if err := o.dev.Dispatch(o.store.Pairing(i).Binding); err != nil {
		o.fail(fmt.Errorf("dispatching pairing %d: %w", i, err))
		return o.err
	}
	o.state = StateDispatching
	o.bindIndex = i
	o.active = 1 - i
	o.dispatches++
	return nil
}

// Rewind returns to StateReady with no dispatch recorded, after the store has
// been reseeded. Failed and uninitialized orchestrators are left alone.
func (o *Orchestrator) Rewind() {
	if o.state == StateDispatching {
		o.state = StateReady
	}
	o.active = 1
	o.bindIndex = -1
}

func (o *Orchestrator) fail(err error) {
	o.state = StateFailed
	o.err = fmt.Errorf("%w: %w", ErrKernelFailed, err)
	o.log.Error("compute failed", "device", o.dev.Name(), "error", err)
}

// ActiveIndex is the pairing the next dispatch will use.
func (o *Orchestrator) ActiveIndex() int { return o.active }

// BindIndex is the pairing of the most recent dispatch, or -1.
func (o *Orchestrator) BindIndex() int { return o.bindIndex }

func (o *Orchestrator) State() State    { return o.state }
func (o *Orchestrator) Dispatches() int { return o.dispatches }
func (o *Orchestrator) Err() error      { return o.err }

// DisplayRole is the grid that the most recent dispatch reads from, and
// therefore never writes. It is safe to present while that dispatch runs.
func (o *Orchestrator) DisplayRole() board.Role {
	if o.bindIndex < 0 {
		return board.RoleA
	}
	return o.store.Pairing(o.bindIndex).Source
}
