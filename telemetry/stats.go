package telemetry

import "log/slog"

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStart int32   `csv:"-"`
	WindowEnd   int32   `csv:"window_end"` // dispatch count at window end
	SimTimeSec  float64 `csv:"sim_time"`

	// Occupancy at window end
	HumanCells  int     `csv:"human_cells"`
	ZombieCells int     `csv:"zombie_cells"`
	HumanPop    int64   `csv:"human_pop"`
	ZombiePop   int64   `csv:"zombie_pop"`
	HumanShare  float64 `csv:"human_share"`

	// Per-cell population distribution (sampled at window end)
	HumanCellMean float64 `csv:"human_cell_mean"`
	HumanCellStd  float64 `csv:"human_cell_std"`
	HumanCellP10  float64 `csv:"human_cell_p10"`
	HumanCellP50  float64 `csv:"human_cell_p50"`
	HumanCellP90  float64 `csv:"human_cell_p90"`

	ZombieCellMean float64 `csv:"zombie_cell_mean"`
	ZombieCellStd  float64 `csv:"zombie_cell_std"`
	ZombieCellP10  float64 `csv:"zombie_cell_p10"`
	ZombieCellP50  float64 `csv:"zombie_cell_p50"`
	ZombieCellP90  float64 `csv:"zombie_cell_p90"`

	// Scheduling during window
	Passes        int `csv:"passes"`
	Dispatches    int `csv:"dispatches"`
	EditsApplied  int `csv:"edits_applied"`
	EditsDeferred int `csv:"edits_deferred"`
	EditsRejected int `csv:"edits_rejected"`
	DroppedTicks  int `csv:"dropped_ticks"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStart)),
		slog.Int("window_end", int(s.WindowEnd)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("human_cells", s.HumanCells),
		slog.Int("zombie_cells", s.ZombieCells),
		slog.Int64("human_pop", s.HumanPop),
		slog.Int64("zombie_pop", s.ZombiePop),
		slog.Float64("human_share", s.HumanShare),
		slog.Float64("human_cell_mean", s.HumanCellMean),
		slog.Float64("human_cell_p50", s.HumanCellP50),
		slog.Float64("zombie_cell_mean", s.ZombieCellMean),
		slog.Float64("zombie_cell_p50", s.ZombieCellP50),
		slog.Int("passes", s.Passes),
		slog.Int("dispatches", s.Dispatches),
		slog.Int("edits_applied", s.EditsApplied),
		slog.Int("edits_deferred", s.EditsDeferred),
		slog.Int("edits_rejected", s.EditsRejected),
		slog.Int("dropped_ticks", s.DroppedTicks),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEnd,
		"sim_time", s.SimTimeSec,
		"humans", s.HumanPop,
		"zombies", s.ZombiePop,
		"human_share", s.HumanShare,
		"dispatches", s.Dispatches,
		"edits", s.EditsApplied,
		"deferred", s.EditsDeferred,
		"dropped", s.DroppedTicks,
	)
}
