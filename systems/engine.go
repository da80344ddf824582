package systems

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/outbreak/board"
	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/compute"
	"github.com/pthm-cable/outbreak/telemetry"
)

// EngineConfig sizes the board and sets the compute cadence.
type EngineConfig struct {
	Width, Height int
	Period        time.Duration
	Log           *slog.Logger
	Perf          *telemetry.PerfCollector // optional
}

// PassReport summarises one scheduling pass.
type PassReport struct {
	Fired      bool
	Dispatched bool
	Edit       Injection
	BindIndex  int
	State      State
}

// Engine runs the scheduling pass: gate, readiness poll, completion fence,
// edit injection and dispatch, in that order, on the caller's goroutine.
type Engine struct {
	dev       compute.Device
	store     *board.Store
	gate      *Gate
	orch      *Orchestrator
	slot      EditSlot
	injector  *Injector
	submitter *Submitter
	log       *slog.Logger
	perf      *telemetry.PerfCollector

	running  bool
	stepping bool
	passes   int
}

// NewEngine validates the period and seed and allocates the board on dev.
// Nothing is allocated if validation fails.
func NewEngine(cfg EngineConfig, dev compute.Device, seed []components.CellState) (*Engine, error) {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	gate, err := NewGate(cfg.Period)
	if err != nil {
		return nil, err
	}
	store, err := board.New(dev, cfg.Width, cfg.Height, seed)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		dev:   dev,
		store: store,
		gate:  gate,
		log:   log,
		perf:  cfg.Perf,
	}
	e.orch = NewOrchestrator(store, dev, log)
	e.injector = NewInjector(store, &e.slot, log)
	e.submitter = NewSubmitter(&e.slot, cfg.Width, cfg.Height)
	log.Info("engine created",
		"device", dev.Name(),
		"width", cfg.Width,
		"height", cfg.Height,
		"period", cfg.Period,
	)
	return e, nil
}

// Tick runs one scheduling pass. The gate only accumulates time while the
// engine is running. A returned error is fatal.
func (e *Engine) Tick(elapsed time.Duration) (PassReport, error) {
	e.passes++
	rep := PassReport{BindIndex: e.orch.BindIndex(), State: e.orch.State()}

	e.perf.StartPhase(telemetry.PhaseGate)
	if e.running {
		e.gate.Advance(elapsed)
	} else {
		e.gate.Advance(0)
	}

	e.perf.StartPhase(telemetry.PhasePoll)
	if err := e.orch.Poll(); err != nil {
		rep.State = e.orch.State()
		return rep, err
	}

	e.perf.StartPhase(telemetry.PhaseFence)
	if err := e.dev.Wait(); err != nil {
		return rep, fmt.Errorf("completion fence: %w", err)
	}

	e.perf.StartPhase(telemetry.PhaseInject)
	inj, err := e.injector.Apply(e.gate.Fired())
	rep.Edit = inj
	if err != nil {
		if !errors.Is(err, board.ErrOutOfBounds) {
			return rep, err
		}
		e.log.Warn("edit rejected", "error", err)
	}

	e.perf.StartPhase(telemetry.PhaseDispatch)
	fired := e.gate.ConsumeFired()
	before := e.orch.Dispatches()
	active := e.running || e.stepping
	if err := e.orch.Advance(fired, active); err != nil {
		rep.State = e.orch.State()
		return rep, err
	}
	if fired {
		e.stepping = false
	}

	rep.Fired = fired
	rep.Dispatched = e.orch.Dispatches() > before
	rep.BindIndex = e.orch.BindIndex()
	rep.State = e.orch.State()
	return rep, nil
}

// SetRunning starts or pauses dispatching. Edits submitted while paused are
// applied on the next pass.
func (e *Engine) SetRunning(running bool) {
	if running != e.running {
		e.log.Info("engine running", "running", running)
	}
	e.running = running
}

func (e *Engine) Running() bool { return e.running }

// EditPending reports whether an edit is waiting for a pass without compute.
func (e *Engine) EditPending() bool {
	_, ok := e.slot.Pending()
	return ok
}

// Step requests exactly one dispatch on the next pass, even while paused.
func (e *Engine) Step() {
	e.gate.Trigger()
	e.stepping = true
}

// Reseed fences, uploads seed into both grids and restarts alternation.
func (e *Engine) Reseed(seed []components.CellState) error {
	if err := e.dev.Wait(); err != nil {
		return fmt.Errorf("completion fence: %w", err)
	}
	if err := e.store.Reset(seed); err != nil {
		return err
	}
	e.orch.Rewind()
	e.log.Info("board reseeded", "cells", len(seed))
	return nil
}

// Snapshot copies the grid that is safe to display into dst without fencing.
func (e *Engine) Snapshot(dst []components.CellState) (board.Role, error) {
	r := e.orch.DisplayRole()
	return r, e.store.Read(r, dst)
}

// Submitter returns the control-path edit entry point.
func (e *Engine) Submitter() *Submitter { return e.submitter }

func (e *Engine) Store() *board.Store         { return e.store }
func (e *Engine) Gate() *Gate                 { return e.gate }
func (e *Engine) Orchestrator() *Orchestrator { return e.orch }
func (e *Engine) Injector() *Injector         { return e.injector }
func (e *Engine) Device() compute.Device      { return e.dev }
func (e *Engine) Passes() int                 { return e.passes }

// Close drains the last dispatch and releases the device.
func (e *Engine) Close() {
	if err := e.dev.Wait(); err != nil {
		e.log.Warn("fence on close", "error", err)
	}
	e.store.Close()
}
