//go:build opencl

package compute

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"github.com/pthm-cable/outbreak/components"
)

type openCLBuffer struct {
	dev *OpenCLDevice
	mem *cl.MemObject
	n   int
}

func (b *openCLBuffer) Len() int { return b.n }

type openCLBinding struct {
	src, dst *openCLBuffer
	consts   components.BoardConstants
	kernel   *cl.Kernel // created once the program is built, arguments set once
}

func (b *openCLBinding) Source() Buffer { return b.src }
func (b *openCLBinding) Dest() Buffer   { return b.dst }

// OpenCLDevice runs the kernel on the first GPU found, falling back to a CPU
// OpenCL device. The program is built in the background.
type OpenCLDevice struct {
	log        *slog.Logger
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	deviceName string

	mu       sync.Mutex
	status   KernelStatus
	buildErr error

	buffers  []*openCLBuffer
	bindings []*openCLBinding
	inFlight bool
	closed   bool
}

func pickDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

// NewOpenCLDevice creates the context and queue and starts building the
// kernel program. KernelStatus reports the build outcome.
func NewOpenCLDevice(log *slog.Logger) (Device, error) {
	if log == nil {
		log = slog.Default()
	}
	device, err := pickDevice()
	if err != nil {
		return nil, err
	}
	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	queue, err := context.CreateCommandQueue(device, 0)
	if err != nil {
		context.Release()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	program, err := context.CreateProgramWithSource([]string{cellKernelSource})
	if err != nil {
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}

	d := &OpenCLDevice{
		log:        log,
		context:    context,
		queue:      queue,
		program:    program,
		deviceName: device.Name(),
		status:     KernelLoading,
	}
	go d.build(device)
	return d, nil
}

func (d *OpenCLDevice) build(device *cl.Device) {
	err := d.program.BuildProgram([]*cl.Device{device}, kernelDefines())
	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.status = KernelFailed
		if buildErr, ok := err.(cl.BuildError); ok {
			d.buildErr = fmt.Errorf("building OpenCL program: %s", string(buildErr))
		} else {
			d.buildErr = fmt.Errorf("building OpenCL program: %w", err)
		}
		return
	}
	// Bindings registered while loading get their kernels before the device
	// reports ready, so Dispatch never builds one.
	for _, b := range d.bindings {
		if err := d.buildKernel(b); err != nil {
			d.status = KernelFailed
			d.buildErr = err
			return
		}
	}
	d.status = KernelReady
	d.log.Info("opencl program built", "device", d.deviceName, "bindings", len(d.bindings))
}

// buildKernel creates b's kernel and sets its arguments. Callers hold d.mu.
func (d *OpenCLDevice) buildKernel(b *openCLBinding) error {
	kernel, err := d.program.CreateKernel("outbreak_step")
	if err != nil {
		return fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	if err := kernel.SetArgs(b.consts.Width, b.consts.Height, b.src.mem, b.dst.mem); err != nil {
		kernel.Release()
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	b.kernel = kernel
	return nil
}

func kernelDefines() string {
	return fmt.Sprintf(
		"-D SCENT_DECAY=%d -D MAX_CLIMB=%d -D MIGRATE_THRESHOLD=%d -D CROWD_THRESHOLD=%d "+
			"-D INFECT_DIVISOR=%d -D KILL_DIVISOR=%d -D HEAT_LIMIT=%d -D MAX_POPULATION=%d",
		ScentDecay, MaxClimb, MigrateThreshold, CrowdThreshold,
		InfectDivisor, KillDivisor, HeatLimit, MaxPopulation,
	)
}

func (d *OpenCLDevice) Name() string {
	return "opencl/" + d.deviceName
}

func (d *OpenCLDevice) KernelStatus() (KernelStatus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status, d.buildErr
}

func (d *OpenCLDevice) buffer(buf Buffer) (*openCLBuffer, error) {
	b, ok := buf.(*openCLBuffer)
	if !ok || b.dev != d {
		return nil, ErrForeignBuffer
	}
	return b, nil
}

func (d *OpenCLDevice) Allocate(seed []components.CellState) (Buffer, error) {
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if len(seed) == 0 {
		return nil, fmt.Errorf("%w: empty seed", ErrLengthMismatch)
	}
	mem, err := d.context.CreateEmptyBuffer(cl.MemReadWrite, len(seed)*components.CellSize)
	if err != nil {
		return nil, fmt.Errorf("allocating cell buffer: %w", err)
	}
	b := &openCLBuffer{dev: d, mem: mem, n: len(seed)}
	d.buffers = append(d.buffers, b)
	if err := d.Upload(b, seed); err != nil {
		return nil, err
	}
	return b, nil
}

func (d *OpenCLDevice) Upload(buf Buffer, seed []components.CellState) error {
	b, err := d.buffer(buf)
	if err != nil {
		return err
	}
	if d.inFlight {
		return ErrDispatchInFlight
	}
	if len(seed) != b.n {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(seed), b.n)
	}
	ptr := unsafe.Pointer(&seed[0])
	if _, err := d.queue.EnqueueWriteBuffer(b.mem, true, 0, b.n*components.CellSize, ptr, nil); err != nil {
		return fmt.Errorf("writing cell buffer: %w", err)
	}
	return nil
}

func (d *OpenCLDevice) Bind(src, dst Buffer, consts components.BoardConstants) (Binding, error) {
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
	if n := consts.Len(); s.n != n || t.n != n {
		return nil, fmt.Errorf("%w: buffers %d/%d, board %d", ErrLengthMismatch, s.n, t.n, n)
	}
	b := &openCLBinding{src: s, dst: t, consts: consts}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.status == KernelReady {
		if err := d.buildKernel(b); err != nil {
			return nil, err
		}
	}
	d.bindings = append(d.bindings, b)
	return b, nil
}

func (d *OpenCLDevice) Dispatch(b Binding) error {
	if d.closed {
		return ErrDeviceClosed
	}
	ob, ok := b.(*openCLBinding)
	if !ok || ob.src.dev != d {
		return ErrForeignBuffer
	}
	if d.inFlight {
		return ErrDispatchInFlight
	}
	d.mu.Lock()
	kernel := ob.kernel
	d.mu.Unlock()
	if kernel == nil {
		return ErrKernelNotBuilt
	}
	global := []int{ob.consts.Len()}
	if _, err := d.queue.EnqueueNDRangeKernel(kernel, nil, global, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	if err := d.queue.Flush(); err != nil {
		return fmt.Errorf("flushing queue: %w", err)
	}
	d.inFlight = true
	return nil
}

// Wait blocks on queue.Finish.
func (d *OpenCLDevice) Wait() error {
	if !d.inFlight {
		return nil
	}
	d.inFlight = false
	if err := d.queue.Finish(); err != nil {
		return fmt.Errorf("finishing queue: %w", err)
	}
	return nil
}

func (d *OpenCLDevice) Write(buf Buffer, offset int, cell components.CellState) error {
	b, err := d.buffer(buf)
	if err != nil {
		return err
	}
	if d.inFlight {
		return ErrDispatchInFlight
	}
	if offset < 0 || offset >= b.n {
		return fmt.Errorf("%w: %d of %d", ErrOffsetOutOfRange, offset, b.n)
	}
	ptr := unsafe.Pointer(&cell)
	if _, err := d.queue.EnqueueWriteBuffer(b.mem, true, offset*components.CellSize, components.CellSize, ptr, nil); err != nil {
		return fmt.Errorf("writing cell %d: %w", offset, err)
	}
	return nil
}

// Read is a blocking read; the queue is in order, so it also waits for any
// dispatch enqueued before it.
func (d *OpenCLDevice) Read(buf Buffer, dst []components.CellState) error {
	b, err := d.buffer(buf)
	if err != nil {
		return err
	}
	if len(dst) != b.n {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(dst), b.n)
	}
	ptr := unsafe.Pointer(&dst[0])
	if _, err := d.queue.EnqueueReadBuffer(b.mem, true, 0, b.n*components.CellSize, ptr, nil); err != nil {
		return fmt.Errorf("reading cell buffer: %w", err)
	}
	return nil
}

func (d *OpenCLDevice) Close() {
	if d.closed {
		return
	}
	_ = d.Wait()
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, b := range d.bindings {
		if b.kernel != nil {
			b.kernel.Release()
			b.kernel = nil
		}
	}
	for _, b := range d.buffers {
		b.mem.Release()
	}
	d.bindings, d.buffers = nil, nil
	if d.program != nil {
		d.program.Release()
		d.program = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.context != nil {
		d.context.Release()
		d.context = nil
	}
	d.closed = true
}
