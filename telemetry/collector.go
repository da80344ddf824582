package telemetry

import "time"

// Collector accumulates scheduling events within windows of simulated time
// and produces WindowStats.
type Collector struct {
	windowDurationSec float64
	windowDispatches  int32
	period            time.Duration

	// Current window tracking
	windowStart int32
	census      Census

	// Event counters for current window
	passes         int
	dispatches     int
	editsApplied   int
	editsDeferred  int
	editsRejected  int
	droppedAtStart int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulated seconds
// period: simulated time per dispatch
func NewCollector(windowDurationSec float64, period time.Duration) *Collector {
	perWindow := int32(windowDurationSec / period.Seconds())
	if perWindow < 1 {
		perWindow = 1
	}
	return &Collector{
		windowDurationSec: windowDurationSec,
		windowDispatches:  perWindow,
		period:            period,
	}
}

// RecordPass counts one scheduling pass.
func (c *Collector) RecordPass() {
	c.passes++
}

// RecordDispatch counts one kernel dispatch.
func (c *Collector) RecordDispatch() {
	c.dispatches++
}

// RecordEditApplied counts an edit written to both grids.
func (c *Collector) RecordEditApplied() {
	c.editsApplied++
}

// RecordEditDeferred counts a pass that held an edit back.
func (c *Collector) RecordEditDeferred() {
	c.editsDeferred++
}

// RecordEditRejected counts an edit dropped for being off the board.
func (c *Collector) RecordEditRejected() {
	c.editsRejected++
}

// ShouldFlush returns true if enough dispatches have run to flush the window.
func (c *Collector) ShouldFlush(totalDispatches int32) bool {
	return totalDispatches-c.windowStart >= c.windowDispatches
}

// Flush produces a WindowStats from a census of the current board and
// resets counters for the next window. droppedTotal is the gate's cumulative
// dropped-period count.
func (c *Collector) Flush(totalDispatches int32, census Census, droppedTotal int) WindowStats {
	human := Describe(census.humanSizes)
	zombie := Describe(census.zombieSizes)

	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   totalDispatches,
		SimTimeSec:  float64(totalDispatches) * c.period.Seconds(),

		HumanCells:  census.HumanCells,
		ZombieCells: census.ZombieCells,
		HumanPop:    census.HumanPop,
		ZombiePop:   census.ZombiePop,
		HumanShare:  census.HumanShare(),

		HumanCellMean: human.Mean,
		HumanCellStd:  human.Std,
		HumanCellP10:  human.P10,
		HumanCellP50:  human.P50,
		HumanCellP90:  human.P90,

		ZombieCellMean: zombie.Mean,
		ZombieCellStd:  zombie.Std,
		ZombieCellP10:  zombie.P10,
		ZombieCellP50:  zombie.P50,
		ZombieCellP90:  zombie.P90,

		Passes:        c.passes,
		Dispatches:    c.dispatches,
		EditsApplied:  c.editsApplied,
		EditsDeferred: c.editsDeferred,
		EditsRejected: c.editsRejected,
		DroppedTicks:  droppedTotal - c.droppedAtStart,
	}

	c.windowStart = totalDispatches
	c.droppedAtStart = droppedTotal
	c.passes = 0
	c.dispatches = 0
	c.editsApplied = 0
	c.editsDeferred = 0
	c.editsRejected = 0

	return stats
}

// CensusBuffer returns reusable census storage for TakeCensus.
func (c *Collector) CensusBuffer() *Census {
	return &c.census
}

// WindowDurationSec returns the configured window length.
func (c *Collector) WindowDurationSec() float64 {
	return c.windowDurationSec
}
