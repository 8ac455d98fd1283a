package browser

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/neboloop/cdpctl/internal/defaults"
)

// Status is the browser state recorded in a snapshot.
type Status string

const (
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

// ConnectionInfo describes the debugging endpoint as seen by the last probe.
// It is rebuilt on every status query.
type ConnectionInfo struct {
	CDPPort     int        `json:"cdp_port"`
	WSEndpoint  string     `json:"ws_endpoint"`
	Status      Status     `json:"status"`
	PID         int        `json:"pid,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	LastChecked time.Time  `json:"last_checked"`
}

// SnapshotStore persists ConnectionInfo for other tooling. It is never read
// back to decide whether the browser is running.
type SnapshotStore struct {
	fs   afero.Fs
	path string
}

// NewSnapshotStore creates a store writing to path on fs.
func NewSnapshotStore(fs afero.Fs, path string) *SnapshotStore {
	return &SnapshotStore{fs: fs, path: path}
}

// Path is the snapshot location.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Save replaces the snapshot with info.
func (s *SnapshotStore) Save(info *ConnectionInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := defaults.EnsureStateDir(s.fs, filepath.Dir(s.path)); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads the last saved snapshot. A missing file matches os.ErrNotExist.
func (s *SnapshotStore) Load() (*ConnectionInfo, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var info ConnectionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &info, nil
}
