package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/outbreak/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// ErrBadSnapshot is returned when a loaded snapshot cannot seed a board.
var ErrBadSnapshot = errors.New("bad snapshot")

// Snapshot holds one board generation for replay or reseeding.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Dispatch is the number of kernel dispatches issued before the capture.
	Dispatch int32  `json:"dispatch"`
	Role     string `json:"role"`

	Cells []components.CellState `json:"cells"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// Validate checks the snapshot's cells describe a width x height board of
// consistent cells.
func (s *Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrBadSnapshot, s.Version, SnapshotVersion)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrBadSnapshot, s.Width, s.Height)
	}
	if len(s.Cells) != s.Width*s.Height {
		return fmt.Errorf("%w: %d cells for %dx%d board", ErrBadSnapshot, len(s.Cells), s.Width, s.Height)
	}
	for i, c := range s.Cells {
		if !c.Consistent() {
			return fmt.Errorf("%w: cell %d is %s with population %d", ErrBadSnapshot, i, c.Status, c.Population)
		}
	}
	return nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Dispatch)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Dispatch, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads and validates a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	return &snapshot, nil
}
