package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one scheduling pass.
const (
	PhasePlacers  = "placers"
	PhaseGate     = "gate"
	PhasePoll     = "poll"
	PhaseFence    = "fence"
	PhaseInject   = "inject"
	PhaseDispatch = "dispatch"
	PhaseCensus   = "census"
)

// phaseOrder is the reporting order for logs and panels.
var phaseOrder = []string{
	PhasePlacers, PhaseGate, PhasePoll, PhaseFence,
	PhaseInject, PhaseDispatch, PhaseCensus,
}

// Phases returns the phase names in reporting order.
func Phases() []string {
	return append([]string(nil), phaseOrder...)
}

// PassSample is the timing of one scheduling pass.
type PassSample struct {
	Duration   time.Duration
	Dispatched bool
	Phases     map[string]time.Duration
}

// PerfCollector keeps a ring of the most recent pass samples.
// StartPass, StartPhase, MarkDispatched and EndPass are no-ops on a nil collector
// so the engine can run without one.
type PerfCollector struct {
	samples []PassSample
	next    int
	filled  int

	current    PassSample
	passStart  time.Time
	phaseStart time.Time
	phase      string

	// Frame timing (windowed mode)
	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize passes.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{samples: make([]PassSample, windowSize)}
}

// StartPass begins timing a scheduling pass.
func (p *PerfCollector) StartPass() {
	if p == nil {
		return
	}
	p.passStart = time.Now()
	p.current = PassSample{Phases: make(map[string]time.Duration, len(phaseOrder))}
	p.phase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	if p == nil {
		return
	}
	now := time.Now()
	if p.phase != "" {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.phase = phase
}

// MarkDispatched flags the running pass as one that issued a dispatch.
func (p *PerfCollector) MarkDispatched() {
	if p == nil {
		return
	}
	p.current.Dispatched = true
}

// EndPass closes the running pass and stores its sample.
func (p *PerfCollector) EndPass() {
	if p == nil {
		return
	}
	now := time.Now()
	if p.phase != "" {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
		p.phase = ""
	}
	p.current.Duration = now.Sub(p.passStart)

	p.samples[p.next] = p.current
	p.next = (p.next + 1) % len(p.samples)
	if p.filled < len(p.samples) {
		p.filled++
	}
}

// RecordFrame measures the interval since the previous frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the samples currently in the window.
type PerfStats struct {
	AvgPass time.Duration
	MinPass time.Duration
	MaxPass time.Duration

	// Average fence wait over passes that followed a dispatch. This is the
	// visible cost of the kernel when it outlasts a frame.
	AvgFence time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average pass

	PassesPerSecond float64
	DispatchRatio   float64 // fraction of passes that dispatched

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total, fence time.Duration
	var dispatched, fenced int
	oldest := 0
	if p.filled == len(p.samples) {
		oldest = p.next
	}
	sums := make(map[string]time.Duration)
	for i := 0; i < p.filled; i++ {
		smp := &p.samples[i]
		total += smp.Duration
		if i == 0 || smp.Duration < s.MinPass {
			s.MinPass = smp.Duration
		}
		s.MaxPass = max(s.MaxPass, smp.Duration)
		for phase, d := range smp.Phases {
			sums[phase] += d
		}
		if smp.Dispatched {
			dispatched++
		}
		// A pass fences the dispatch issued by the pass before it.
		prev := &p.samples[(i+len(p.samples)-1)%len(p.samples)]
		if i != oldest && prev.Dispatched {
			fence += smp.Phases[PhaseFence]
			fenced++
		}
	}

	n := time.Duration(p.filled)
	s.AvgPass = total / n
	for phase, sum := range sums {
		s.PhaseAvg[phase] = sum / n
		if s.AvgPass > 0 {
			s.PhasePct[phase] = float64(s.PhaseAvg[phase]) / float64(s.AvgPass) * 100
		}
	}
	if fenced > 0 {
		s.AvgFence = fence / time.Duration(fenced)
	}
	if s.AvgPass > 0 {
		s.PassesPerSecond = float64(time.Second) / float64(s.AvgPass)
	}
	s.DispatchRatio = float64(dispatched) / float64(p.filled)
	return s
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_pass_us", s.AvgPass.Microseconds(),
		"max_pass_us", s.MaxPass.Microseconds(),
		"avg_fence_us", s.AvgFence.Microseconds(),
		"passes_per_sec", int(s.PassesPerSecond),
		"dispatch_ratio", float64(int(s.DispatchRatio*1000)) / 1000,
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_pass_us", s.AvgPass.Microseconds()),
		slog.Int64("min_pass_us", s.MinPass.Microseconds()),
		slog.Int64("max_pass_us", s.MaxPass.Microseconds()),
		slog.Int64("avg_fence_us", s.AvgFence.Microseconds()),
		slog.Float64("passes_per_sec", s.PassesPerSecond),
		slog.Float64("dispatch_ratio", s.DispatchRatio),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the flat perf.csv row.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgPassUS     int64   `csv:"avg_pass_us"`
	MinPassUS     int64   `csv:"min_pass_us"`
	MaxPassUS     int64   `csv:"max_pass_us"`
	AvgFenceUS    int64   `csv:"avg_fence_us"`
	PassesPerSec  float64 `csv:"passes_per_sec"`
	DispatchRatio float64 `csv:"dispatch_ratio"`
	FPS           float64 `csv:"fps"`
	PlacersPct    float64 `csv:"placers_pct"`
	GatePct       float64 `csv:"gate_pct"`
	PollPct       float64 `csv:"poll_pct"`
	FencePct      float64 `csv:"fence_pct"`
	InjectPct     float64 `csv:"inject_pct"`
	DispatchPct   float64 `csv:"dispatch_pct"`
	CensusPct     float64 `csv:"census_pct"`
}

// ToCSV flattens the stats for the census window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgPassUS:     s.AvgPass.Microseconds(),
		MinPassUS:     s.MinPass.Microseconds(),
		MaxPassUS:     s.MaxPass.Microseconds(),
		AvgFenceUS:    s.AvgFence.Microseconds(),
		PassesPerSec:  s.PassesPerSecond,
		DispatchRatio: s.DispatchRatio,
		FPS:           s.FPS,
		PlacersPct:    s.PhasePct[PhasePlacers],
		GatePct:       s.PhasePct[PhaseGate],
		PollPct:       s.PhasePct[PhasePoll],
		FencePct:      s.PhasePct[PhaseFence],
		InjectPct:     s.PhasePct[PhaseInject],
		DispatchPct:   s.PhasePct[PhaseDispatch],
		CensusPct:     s.PhasePct[PhaseCensus],
	}
}
