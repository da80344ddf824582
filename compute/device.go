// Package compute provides the parallel execution unit that owns the board
// buffers and runs the cell update kernel over them.
package compute

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
)

// KernelStatus is the readiness of a device's compiled kernel.
type KernelStatus int

const (
	KernelLoading KernelStatus = iota
	KernelReady
	KernelFailed
)

// String returns the display name for a KernelStatus.
func (s KernelStatus) String() string {
	switch s {
	case KernelLoading:
		return "loading"
	case KernelReady:
		return "ready"
	case KernelFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	ErrDispatchInFlight = errors.New("compute: dispatch in flight")
	ErrOffsetOutOfRange = errors.New("compute: offset out of range")
	ErrLengthMismatch   = errors.New("compute: buffer length mismatch")
	ErrForeignBuffer    = errors.New("compute: buffer belongs to another device")
	ErrAliasedBinding   = errors.New("compute: source and destination are the same buffer")
	ErrDeviceClosed     = errors.New("compute: device closed")
	ErrKernelNotBuilt   = errors.New("compute: kernel not built")
	ErrUnknownBackend   = errors.New("compute: unknown backend")
)

// Buffer is a device-owned array of cells.
type Buffer interface {
	Len() int
}

// Binding is a prebuilt association of a source buffer, a destination buffer
// and the board constants. Bindings are immutable once built.
type Binding interface {
	Source() Buffer
	Dest() Buffer
}

// Device is a parallel execution unit. All methods are called from a single
// scheduling goroutine; Dispatch is asynchronous and Wait is its completion fence.
type Device interface {
	Name() string

	// KernelStatus polls kernel readiness. A non-nil error accompanies KernelFailed.
	KernelStatus() (KernelStatus, error)

	Allocate(seed []components.CellState) (Buffer, error)
	Upload(buf Buffer, seed []components.CellState) error
	Bind(src, dst Buffer, consts components.BoardConstants) (Binding, error)

	// Dispatch enqueues one full-grid kernel pass and returns without waiting.
	Dispatch(b Binding) error
	// Wait blocks until the most recent dispatch has completed.
	Wait() error

	Write(buf Buffer, offset int, cell components.CellState) error
	Read(buf Buffer, dst []components.CellState) error

	Close()
}

// NewDevice constructs the device selected by cfg.Backend ("cpu" or "opencl").
func NewDevice(cfg config.ComputeConfig, log *slog.Logger) (Device, error) {
	switch cfg.Backend {
	case "", "cpu":
		return NewCPUDevice(cfg.Workers, log), nil
	case "opencl":
		return NewOpenCLDevice(log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
