package game

import (
	"log/slog"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/systems"
	"github.com/pthm-cable/outbreak/telemetry"
)

// recordPass feeds one pass report into the window collector.
func (g *Game) recordPass(rep systems.PassReport) {
	g.collector.RecordPass()
	if rep.Dispatched {
		g.collector.RecordDispatch()
	}
	switch rep.Edit {
	case systems.InjectApplied:
		g.collector.RecordEditApplied()
	case systems.InjectDeferred:
		g.collector.RecordEditDeferred()
	case systems.InjectRejected:
		g.collector.RecordEditRejected()
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	dispatches := int32(g.Dispatches())
	if !g.collector.ShouldFlush(dispatches) {
		return
	}

	census := telemetry.TakeCensus(g.snapshot, g.collector.CensusBuffer())
	stats := g.collector.Flush(dispatches, census, g.engine.Gate().Dropped())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteCensus(stats); err != nil {
			slog.Error("failed to write census", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEnd); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	bookmarks := g.bookmarkDetector.Check(stats)
	for _, bm := range bookmarks {
		if g.logStats {
			bm.LogBookmark()
		}

		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}

		if g.snapshotDir != "" || g.outputManager.Dir() != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the displayed generation to the snapshot directory, or
// under the output directory when none was given.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.createSnapshot(bookmark)

	var path string
	var err error
	if g.snapshotDir != "" {
		path, err = telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	} else {
		path, err = g.outputManager.WriteSnapshot(snapshot)
	}
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "dispatch", snapshot.Dispatch)
}

// createSnapshot builds a snapshot from the displayed generation.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	cells := make([]components.CellState, len(g.snapshot))
	copy(cells, g.snapshot)
	return &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		Seed:     g.seed,
		Width:    g.cfg.Board.Width,
		Height:   g.cfg.Board.Height,
		Dispatch: int32(g.Dispatches()),
		Role:     g.displayRole.String(),
		Cells:    cells,
		Bookmark: bookmark,
	}
}
