package compute

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pthm-cable/outbreak/components"
)

type cpuBuffer struct {
	dev   *CPUDevice
	cells []components.CellState
}

func (b *cpuBuffer) Len() int { return len(b.cells) }

type cpuBinding struct {
	src, dst *cpuBuffer
	consts   components.BoardConstants
}

func (b *cpuBinding) Source() Buffer { return b.src }
func (b *cpuBinding) Dest() Buffer   { return b.dst }

// band is a range of rows for one worker.
type band struct {
	binding *cpuBinding
	y0, y1  int
}

// CPUDevice runs the kernel on a persistent pool of worker goroutines.
// Dispatch hands row bands to the pool and returns; Wait collects them.
type CPUDevice struct {
	numWorkers int
	log        *slog.Logger

	// Worker pool channels
	workChan chan band      // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	started  atomic.Int32   // workers that have reported in

	inFlight    int        // bands outstanding for the current dispatch
	inFlightDst *cpuBuffer // destination of the current dispatch
	closed      bool
}

// NewCPUDevice starts a pool of workers. workers <= 0 uses GOMAXPROCS.
func NewCPUDevice(workers int, log *slog.Logger) *CPUDevice {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = slog.Default()
	}
	d := &CPUDevice{
		numWorkers: workers,
		log:        log,
		workChan:   make(chan band, workers),
		doneChan:   make(chan struct{}, workers),
		stopChan:   make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// worker runs in a goroutine, processing bands until stopped.
func (d *CPUDevice) worker() {
	defer d.wg.Done()
	d.started.Add(1)

	for {
		select {
		case <-d.stopChan:
			return
		case b := <-d.workChan:
			Step(b.binding.src.cells, b.binding.dst.cells, b.binding.consts, b.y0, b.y1)
			d.doneChan <- struct{}{}
		}
	}
}

func (d *CPUDevice) Name() string {
	return fmt.Sprintf("cpu/%d", d.numWorkers)
}

// Workers returns the pool size.
func (d *CPUDevice) Workers() int { return d.numWorkers }

// KernelStatus reports loading until every worker goroutine is running.
func (d *CPUDevice) KernelStatus() (KernelStatus, error) {
	if d.closed {
		return KernelFailed, ErrDeviceClosed
	}
	if int(d.started.Load()) < d.numWorkers {
		return KernelLoading, nil
	}
	return KernelReady, nil
}

func (d *CPUDevice) Allocate(seed []components.CellState) (Buffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	cells := make([]components.CellState, len(seed))
	copy(cells, seed)
	return &cpuBuffer{dev: d, cells: cells}, nil
}

func (d *CPUDevice) buffer(buf Buffer) (*cpuBuffer, error) {
	b, ok := buf.(*cpuBuffer)
	if !ok || b.dev != d {
		return nil, ErrForeignBuffer
	}
	return b, nil
}

func (d *CPUDevice) Upload(buf Buffer, seed []components.CellState) error {
	b, err := d.buffer(buf)
	if err != nil {
		return err
	}
	if d.inFlight > 0 {
		return ErrDispatchInFlight
	}
	if len(seed) != len(b.cells) {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(seed), len(b.cells))
	}
	copy(b.cells, seed)
	return nil
}

func (d *CPUDevice) Bind(src, dst Buffer, consts components.BoardConstants) (Binding, error) {
	s, err := d.buffer(src)
	if err != nil {
		return nil, err
	}
	t, err := d.buffer(dst)
	if err != nil {
		return nil, err
	}
	if s == t {
		return nil, ErrAliasedBinding
	}
	n := consts.Len()
	if len(s.cells) != n || len(t.cells) != n {
		return nil, fmt.Errorf("%w: buffers %d/%d, board %d", ErrLengthMismatch, len(s.cells), len(t.cells), n)
	}
	return &cpuBinding{src: s, dst: t, consts: consts}, nil
}

// Dispatch splits the board into row bands, one per worker, and returns
// without waiting for them.
func (d *CPUDevice) Dispatch(b Binding) error {
	if d.closed {
		return ErrDeviceClosed
	}
	cb, ok := b.(*cpuBinding)
	if !ok || cb.src.dev != d {
		return ErrForeignBuffer
	}
	if d.inFlight > 0 {
		return ErrDispatchInFlight
	}

	rows := int(cb.consts.Height)
	bands := min(d.numWorkers, rows)
	if bands == 0 {
		return nil
	}
	chunk := (rows + bands - 1) / bands
	d.inFlightDst = cb.dst
	for y0 := 0; y0 < rows; y0 += chunk {
		d.inFlight++
		d.workChan <- band{binding: cb, y0: y0, y1: min(y0+chunk, rows)}
	}
	return nil
}

// Wait blocks until every band of the current dispatch has completed.
func (d *CPUDevice) Wait() error {
	for d.inFlight > 0 {
		<-d.doneChan
		d.inFlight--
	}
	d.inFlightDst = nil
	return nil
}

func (d *CPUDevice) Write(buf Buffer, offset int, cell components.CellState) error {
	b, err := d.buffer(buf)
	if err != nil {
		return err
	}
	if d.inFlight > 0 {
		return ErrDispatchInFlight
	}
	if offset < 0 || offset >= len(b.cells) {
		return fmt.Errorf("%w: %d of %d", ErrOffsetOutOfRange, offset, len(b.cells))
	}
	b.cells[offset] = cell
	return nil
}

// Read copies buf into dst. Reading the destination of an in-flight dispatch
// is refused; the source may be read concurrently with the kernel.
func (d *CPUDevice) Read(buf Buffer, dst []components.CellState) error {
	b, err := d.buffer(buf)
	if err != nil {
		return err
	}
	if d.inFlight > 0 && b == d.inFlightDst {
		return ErrDispatchInFlight
	}
	if len(dst) != len(b.cells) {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(dst), len(b.cells))
	}
	copy(dst, b.cells)
	return nil
}

// Close drains any in-flight dispatch and stops the workers.
func (d *CPUDevice) Close() {
	if d.closed {
		return
	}
	_ = d.Wait()
	close(d.stopChan)
	d.wg.Wait()
	d.closed = true
	d.log.Debug("cpu device closed", "workers", d.numWorkers)
}
