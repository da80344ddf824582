package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/outbreak/config"
)

// csvFile is one append-only CSV output. The header goes out with the first row.
type csvFile struct {
	name   string
	f      *os.File
	header bool
}

func createCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{name: name, f: f}, nil
}

// writeCSV appends row to c, writing the header first if it has not gone out yet.
func writeCSV[T any](c *csvFile, row T) error {
	rows := []T{row}
	var err error
	if c.header {
		err = gocsv.MarshalWithoutHeaders(rows, c.f)
	} else {
		err = gocsv.Marshal(rows, c.f)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	c.header = true
	return nil
}

// OutputManager writes per-run CSV logs, the run config and board snapshots
// into one directory.
type OutputManager struct {
	dir       string
	census    *csvFile
	perf      *csvFile
	bookmarks *csvFile
}

// NewOutputManager creates dir and the CSV files in it. An empty dir disables
// output and returns a nil manager, whose methods are all no-ops.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, out := range []struct {
		dst  **csvFile
		name string
	}{
		{&om.census, "census.csv"},
		{&om.perf, "perf.csv"},
		{&om.bookmarks, "bookmarks.csv"},
	} {
		c, err := createCSV(dir, out.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*out.dst = c
	}
	return om, nil
}

// WriteConfig saves the run configuration as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteCensus appends one census window to census.csv.
func (om *OutputManager) WriteCensus(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return writeCSV(om.census, stats)
}

// WritePerf appends one perf window to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return writeCSV(om.perf, stats.ToCSV(windowEnd))
}

// WriteBookmark appends b to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return writeCSV(om.bookmarks, b)
}

// WriteSnapshot saves a board snapshot under the snapshots directory.
func (om *OutputManager) WriteSnapshot(snapshot *Snapshot) (string, error) {
	if om == nil || snapshot == nil {
		return "", nil
	}
	return SaveSnapshot(snapshot, filepath.Join(om.dir, "snapshots"))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every CSV file and reports the errors joined.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, c := range []*csvFile{om.census, om.perf, om.bookmarks} {
		if c != nil {
			errs = append(errs, c.f.Close())
		}
	}
	return errors.Join(errs...)
}
