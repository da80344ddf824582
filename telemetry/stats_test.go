package telemetry

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/outbreak/components"
)

func cells(specs ...components.CellState) []components.CellState {
	return specs
}

func human(pop int32) components.CellState {
	return components.CellState{}.WithOccupant(components.StatusHuman, pop)
}

func empty() components.CellState {
	return components.CellState{}
}

func zombie(pop int32) components.CellState {
	return components.CellState{}.WithOccupant(components.StatusZombie, pop)
}

func TestTakeCensus(t *testing.T) {
	board := cells(human(10), human(30), zombie(5), empty(), empty())
	c := TakeCensus(board, nil)

	if c.HumanCells != 2 || c.ZombieCells != 1 || c.EmptyCells != 2 {
		t.Errorf("cells = %d/%d/%d, want 2/1/2", c.HumanCells, c.ZombieCells, c.EmptyCells)
	}
	if c.HumanPop != 40 || c.ZombiePop != 5 {
		t.Errorf("pops = %d/%d, want 40/5", c.HumanPop, c.ZombiePop)
	}
	if got := c.HumanShare(); math.Abs(got-40.0/45.0) > 1e-9 {
		t.Errorf("HumanShare = %v, want %v", got, 40.0/45.0)
	}
}

func TestTakeCensusReusesBuffer(t *testing.T) {
	var buf Census
	TakeCensus(cells(human(1), human(2), human(3)), &buf)
	c := TakeCensus(cells(human(7)), &buf)

	if len(c.humanSizes) != 1 || c.humanSizes[0] != 7 {
		t.Errorf("humanSizes = %v, want [7]", c.humanSizes)
	}
	if cap(buf.humanSizes) < 3 {
		t.Errorf("buffer capacity %d not retained", cap(buf.humanSizes))
	}
}

func TestHumanShareEmptyBoard(t *testing.T) {
	c := TakeCensus(make([]components.CellState, 4), nil)
	if c.HumanShare() != 0 {
		t.Errorf("HumanShare = %v, want 0", c.HumanShare())
	}
}

func TestDescribe(t *testing.T) {
	values := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}
	d := Describe(values)

	if math.Abs(d.Mean-5.5) > 1e-9 {
		t.Errorf("Mean = %v, want 5.5", d.Mean)
	}
	if d.Std <= 0 {
		t.Errorf("Std = %v, want > 0", d.Std)
	}
	if !(d.P10 <= d.P50 && d.P50 <= d.P90) {
		t.Errorf("quantiles out of order: %v %v %v", d.P10, d.P50, d.P90)
	}
	if d.P10 < 1 || d.P90 > 10 {
		t.Errorf("quantiles outside sample range: %v %v", d.P10, d.P90)
	}
}

func TestDescribeSmallSamples(t *testing.T) {
	if d := Describe(nil); d != (Distribution{}) {
		t.Errorf("Describe(nil) = %+v, want zero", d)
	}
	d := Describe([]float64{4})
	if d.Mean != 4 || d.Std != 0 || d.P50 != 4 {
		t.Errorf("Describe single = %+v", d)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(0.05, 10*time.Millisecond) // 5 dispatches per window

	if c.ShouldFlush(4) {
		t.Error("ShouldFlush(4) = true before window filled")
	}
	if !c.ShouldFlush(5) {
		t.Error("ShouldFlush(5) = false at window end")
	}

	for range 6 {
		c.RecordPass()
	}
	for range 5 {
		c.RecordDispatch()
	}
	c.RecordEditApplied()
	c.RecordEditDeferred()
	c.RecordEditDeferred()
	c.RecordEditRejected()

	census := TakeCensus(cells(human(20), zombie(4), zombie(6)), c.CensusBuffer())
	stats := c.Flush(5, census, 3)

	if stats.WindowStart != 0 || stats.WindowEnd != 5 {
		t.Errorf("window = [%d,%d], want [0,5]", stats.WindowStart, stats.WindowEnd)
	}
	if math.Abs(stats.SimTimeSec-0.05) > 1e-9 {
		t.Errorf("SimTimeSec = %v, want 0.05", stats.SimTimeSec)
	}
	if stats.Passes != 6 || stats.Dispatches != 5 {
		t.Errorf("passes/dispatches = %d/%d, want 6/5", stats.Passes, stats.Dispatches)
	}
	if stats.EditsApplied != 1 || stats.EditsDeferred != 2 || stats.EditsRejected != 1 {
		t.Errorf("edits = %d/%d/%d, want 1/2/1", stats.EditsApplied, stats.EditsDeferred, stats.EditsRejected)
	}
	if stats.DroppedTicks != 3 {
		t.Errorf("DroppedTicks = %d, want 3", stats.DroppedTicks)
	}
	if stats.HumanPop != 20 || stats.ZombiePop != 10 || stats.ZombieCells != 2 {
		t.Errorf("census = %+v", stats)
	}
	if stats.ZombieCellMean != 5 {
		t.Errorf("ZombieCellMean = %v, want 5", stats.ZombieCellMean)
	}

	// Counters reset and dropped is reported per window.
	next := c.Flush(10, census, 4)
	if next.WindowStart != 5 || next.Dispatches != 0 || next.EditsDeferred != 0 {
		t.Errorf("second window not reset: %+v", next)
	}
	if next.DroppedTicks != 1 {
		t.Errorf("second window DroppedTicks = %d, want 1", next.DroppedTicks)
	}
	if c.ShouldFlush(14) {
		t.Error("ShouldFlush(14) = true mid window")
	}
}

func TestNewCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0, time.Second)
	if !c.ShouldFlush(1) {
		t.Error("zero-length window should flush every dispatch")
	}
}
