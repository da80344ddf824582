package compute

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
)

func waitReady(t *testing.T, d Device) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		st, err := d.KernelStatus()
		if err != nil {
			t.Fatalf("kernel status: %v", err)
		}
		if st == KernelReady {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("device not ready: %v", st)
		}
		time.Sleep(time.Millisecond)
	}
}

func allocPair(t *testing.T, d Device, seed []components.CellState) (Buffer, Buffer) {
	t.Helper()
	a, err := d.Allocate(seed)
	if err != nil {
		t.Fatalf("allocate a: %v", err)
	}
	b, err := d.Allocate(seed)
	if err != nil {
		t.Fatalf("allocate b: %v", err)
	}
	return a, b
}

func TestCPUDevice_MatchesStep(t *testing.T) {
	d := NewCPUDevice(3, nil)
	defer d.Close()
	waitReady(t, d)

	rng := rand.New(rand.NewPCG(3, 4))
	seed, consts := randomBoard(rng, 20, 11)
	a, b := allocPair(t, d, seed)
	bind, err := d.Bind(a, b, consts)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := d.Dispatch(bind); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := d.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	got := make([]components.CellState, len(seed))
	if err := d.Read(b, got); err != nil {
		t.Fatalf("read: %v", err)
	}
	want := step(seed, consts)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCPUDevice_InFlightHazards(t *testing.T) {
	d := NewCPUDevice(2, nil)
	defer d.Close()

	seed, consts := board(4, 4)
	a, b := allocPair(t, d, seed)
	bind, err := d.Bind(a, b, consts)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := d.Dispatch(bind); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if err := d.Dispatch(bind); !errors.Is(err, ErrDispatchInFlight) {
		t.Errorf("second dispatch: got %v, want ErrDispatchInFlight", err)
	}
	if err := d.Write(a, 0, components.PlaceHuman(10)); !errors.Is(err, ErrDispatchInFlight) {
		t.Errorf("write: got %v, want ErrDispatchInFlight", err)
	}
	out := make([]components.CellState, len(seed))
	if err := d.Read(b, out); !errors.Is(err, ErrDispatchInFlight) {
		t.Errorf("read destination: got %v, want ErrDispatchInFlight", err)
	}
	if err := d.Read(a, out); err != nil {
		t.Errorf("read source: %v", err)
	}

	if err := d.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if err := d.Write(a, 0, components.PlaceHuman(10)); err != nil {
		t.Errorf("write after fence: %v", err)
	}
}

func TestCPUDevice_BindErrors(t *testing.T) {
	d := NewCPUDevice(1, nil)
	defer d.Close()
	other := NewCPUDevice(1, nil)
	defer other.Close()

	seed, consts := board(2, 2)
	a, b := allocPair(t, d, seed)
	foreign, err := other.Allocate(seed)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	small, err := d.Allocate(seed[:3])
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	tests := []struct {
		name     string
		src, dst Buffer
		want     error
	}{
		{"aliased", a, a, ErrAliasedBinding},
		{"foreign", a, foreign, ErrForeignBuffer},
		{"short", a, small, ErrLengthMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.Bind(tt.src, tt.dst, consts); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := d.Bind(a, b, consts); err != nil {
		t.Errorf("valid bind: %v", err)
	}
}

func TestCPUDevice_WriteBounds(t *testing.T) {
	d := NewCPUDevice(1, nil)
	defer d.Close()

	seed, _ := board(2, 2)
	a, err := d.Allocate(seed)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	for _, off := range []int{-1, 4} {
		if err := d.Write(a, off, components.CellState{}); !errors.Is(err, ErrOffsetOutOfRange) {
			t.Errorf("offset %d: got %v, want ErrOffsetOutOfRange", off, err)
		}
	}
	cell := components.PlaceZombie(7)
	if err := d.Write(a, 3, cell); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := make([]components.CellState, 4)
	if err := d.Read(a, out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if out[3] != cell {
		t.Errorf("got %+v, want %+v", out[3], cell)
	}
}

func TestCPUDevice_UploadLength(t *testing.T) {
	d := NewCPUDevice(1, nil)
	defer d.Close()

	seed, _ := board(3, 3)
	a, err := d.Allocate(seed)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if err := d.Upload(a, seed[:8]); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("got %v, want ErrLengthMismatch", err)
	}
}

func TestCPUDevice_Close(t *testing.T) {
	d := NewCPUDevice(2, nil)
	waitReady(t, d)
	d.Close()
	d.Close()

	st, err := d.KernelStatus()
	if st != KernelFailed || !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("got %v/%v, want failed/ErrDeviceClosed", st, err)
	}
	if _, err := d.Allocate(nil); !errors.Is(err, ErrDeviceClosed) {
		t.Errorf("allocate after close: got %v", err)
	}
}

func TestNewDevice(t *testing.T) {
	d, err := NewDevice(config.ComputeConfig{Backend: "cpu", Workers: 2}, nil)
	if err != nil {
		t.Fatalf("cpu backend: %v", err)
	}
	defer d.Close()
	if got := d.Name(); got != "cpu/2" {
		t.Errorf("name: got %q, want cpu/2", got)
	}

	if _, err := NewDevice(config.ComputeConfig{Backend: "vulkan"}, nil); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("unknown backend: got %v, want ErrUnknownBackend", err)
	}
}
