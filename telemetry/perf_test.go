package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartPass()
		pc.StartPhase(PhaseFence)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDispatch)
		time.Sleep(200 * time.Microsecond)
		pc.EndPass()
	}

	stats := pc.Stats()
	if stats.AvgPass <= 0 {
		t.Error("expected positive average pass duration")
	}
	if stats.MinPass > stats.AvgPass || stats.AvgPass > stats.MaxPass {
		t.Errorf("min/avg/max out of order: %v %v %v", stats.MinPass, stats.AvgPass, stats.MaxPass)
	}
	if _, ok := stats.PhaseAvg[PhaseFence]; !ok {
		t.Error("expected fence phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseDispatch]; !ok {
		t.Error("expected dispatch phase to be tracked")
	}
	if stats.PassesPerSecond <= 0 {
		t.Error("expected positive passes per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartPass()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(500 * time.Microsecond)
		pc.EndPass()
	}

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
}

func TestPerfCollector_DispatchRatio(t *testing.T) {
	pc := NewPerfCollector(4)

	// Ten passes, every other one dispatching; the window keeps the last four.
	for i := 0; i < 10; i++ {
		pc.StartPass()
		pc.StartPhase(PhaseFence)
		if i%2 == 0 {
			pc.MarkDispatched()
		}
		pc.EndPass()
	}

	stats := pc.Stats()
	if stats.DispatchRatio != 0.5 {
		t.Errorf("DispatchRatio = %v, want 0.5", stats.DispatchRatio)
	}
}

func TestPerfCollector_FenceFollowsDispatch(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.StartPass()
	pc.StartPhase(PhaseFence)
	pc.MarkDispatched()
	pc.EndPass()

	// Only this pass waits on a dispatch.
	pc.StartPass()
	pc.StartPhase(PhaseFence)
	time.Sleep(2 * time.Millisecond)
	pc.EndPass()

	pc.StartPass()
	pc.StartPhase(PhaseFence)
	pc.EndPass()

	stats := pc.Stats()
	if stats.AvgFence < 2*time.Millisecond {
		t.Errorf("AvgFence = %v, want >= 2ms", stats.AvgFence)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgPass != 0 || stats.DispatchRatio != 0 {
		t.Errorf("expected zero stats for empty collector, got %+v", stats)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frames, got %v", stats.FPS)
	}
}

func TestPerfCollector_NilIsNoop(t *testing.T) {
	var pc *PerfCollector
	pc.StartPass()
	pc.StartPhase(PhaseGate)
	pc.MarkDispatched()
	pc.EndPass()
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgPass:       250 * time.Microsecond,
		AvgFence:      90 * time.Microsecond,
		DispatchRatio: 0.25,
		PhasePct: map[string]float64{
			PhaseFence:    40,
			PhaseDispatch: 35,
			PhaseInject:   5,
		},
	}
	row := stats.ToCSV(12)
	if row.WindowEnd != 12 || row.AvgPassUS != 250 || row.AvgFenceUS != 90 {
		t.Errorf("got window %d avg %d fence %d, want 12/250/90", row.WindowEnd, row.AvgPassUS, row.AvgFenceUS)
	}
	if row.DispatchRatio != 0.25 {
		t.Errorf("DispatchRatio = %v, want 0.25", row.DispatchRatio)
	}
	if row.FencePct != 40 || row.DispatchPct != 35 || row.InjectPct != 5 {
		t.Errorf("phase columns: %+v", row)
	}
	if row.CensusPct != 0 {
		t.Errorf("untracked phase: got %v, want 0", row.CensusPct)
	}
}

func TestPhasesIsACopy(t *testing.T) {
	p := Phases()
	if len(p) != 7 || p[0] != PhasePlacers || p[6] != PhaseCensus {
		t.Fatalf("Phases() = %v", p)
	}
	p[0] = "mutated"
	if Phases()[0] != PhasePlacers {
		t.Error("Phases() exposed internal order")
	}
}
