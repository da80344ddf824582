package systems

import (
	"fmt"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/compute"
)

type fakeBuffer struct {
	id    int
	cells []components.CellState
}

func (b *fakeBuffer) Len() int { return len(b.cells) }

type fakeBinding struct {
	src, dst *fakeBuffer
}

func (b *fakeBinding) Source() compute.Buffer { return b.src }
func (b *fakeBinding) Dest() compute.Buffer   { return b.dst }

// fakeDevice records calls in order. Dispatch copies source to destination
// with a marker so tests can see which grid a dispatch wrote.
type fakeDevice struct {
	status      compute.KernelStatus
	statusErr   error
	dispatchErr error

	buffers  []*fakeBuffer
	binds    int
	inFlight bool
	ops      []string
	dispatch []*fakeBinding
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{status: compute.KernelReady}
}

func (d *fakeDevice) Name() string { return "fake" }

func (d *fakeDevice) KernelStatus() (compute.KernelStatus, error) {
	return d.status, d.statusErr
}

func (d *fakeDevice) Allocate(seed []components.CellState) (compute.Buffer, error) {
	b := &fakeBuffer{id: len(d.buffers), cells: append([]components.CellState(nil), seed...)}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *fakeDevice) Upload(buf compute.Buffer, seed []components.CellState) error {
	copy(buf.(*fakeBuffer).cells, seed)
	return nil
}

func (d *fakeDevice) Bind(src, dst compute.Buffer, _ components.BoardConstants) (compute.Binding, error) {
	d.binds++
	return &fakeBinding{src: src.(*fakeBuffer), dst: dst.(*fakeBuffer)}, nil
}

func (d *fakeDevice) Dispatch(b compute.Binding) error {
	if d.dispatchErr != nil {
		return d.dispatchErr
	}
	if d.inFlight {
		return compute.ErrDispatchInFlight
	}
	fb := b.(*fakeBinding)
	for i, c := range fb.src.cells {
		c.EdgeDistance++
		fb.dst.cells[i] = c
	}
	d.inFlight = true
	d.dispatch = append(d.dispatch, fb)
	d.ops = append(d.ops, fmt.Sprintf("dispatch %d->%d", fb.src.id, fb.dst.id))
	return nil
}

func (d *fakeDevice) Wait() error {
	if d.inFlight {
		d.ops = append(d.ops, "wait")
	}
	d.inFlight = false
	return nil
}

func (d *fakeDevice) Write(buf compute.Buffer, offset int, cell components.CellState) error {
	if d.inFlight {
		return compute.ErrDispatchInFlight
	}
	b := buf.(*fakeBuffer)
	b.cells[offset] = cell
	d.ops = append(d.ops, fmt.Sprintf("write %d@%d", b.id, offset))
	return nil
}

func (d *fakeDevice) Read(buf compute.Buffer, dst []components.CellState) error {
	copy(dst, buf.(*fakeBuffer).cells)
	return nil
}

func (d *fakeDevice) Close() {}

// grid returns a copy of buffer id (0 = A, 1 = B).
func (d *fakeDevice) grid(id int) []components.CellState {
	return append([]components.CellState(nil), d.buffers[id].cells...)
}
