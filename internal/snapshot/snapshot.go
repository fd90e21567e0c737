// Package snapshot persists and restores an Application's full mutable
// state as JSON, generalizing the original's SerializingListener (which
// captures/restores via boost::serialization binary archives) onto the
// teacher's own encoding/json + os.WriteFile persistence idiom
// (game/session/file_persistence.go), with one correction: saves go through
// a temp file plus an atomic rename instead of a direct write, so a crash or
// a concurrent reader never observes a half-written state file.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Proger1298/gaming-server/internal/app"
)

// Source is the state an Application exposes for persistence.
type Source interface {
	CaptureState() app.StateSnapshot
	RestoreState(app.StateSnapshot) error
}

// Store saves and loads a Source's state at a fixed file path.
type Store struct {
	path string
}

// New constructs a Store over path. An empty path disables persistence
// entirely; Save becomes a no-op and Load always reports "nothing to load".
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the state file, if any, and applies it to src. A missing file
// is not an error (first run); a present-but-corrupt file is, and the caller
// should treat it as fatal at startup, mirroring the original's
// TryLoadState contract.
func (s *Store) Load(src Source) error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("snapshot: read %s: %w", s.path, err)
	}

	var state app.StateSnapshot
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("snapshot: parse %s: %w", s.path, err)
	}
	if err := src.RestoreState(state); err != nil {
		return fmt.Errorf("snapshot: restore %s: %w", s.path, err)
	}
	return nil
}

// Save captures src's state and atomically writes it to the state file: the
// state is written to "<path>.tmp", flushed and closed, then renamed over
// the final path. A save failure is never fatal — the caller should log it
// and continue running, exactly as the original's SaveState does.
func (s *Store) Save(src Source) error {
	if s.path == "" {
		return nil
	}

	state := src.CaptureState()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: marshal state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("snapshot: open %s: %w", tmpPath, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: write %s: %w", tmpPath, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: sync %s: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("snapshot: close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("snapshot: rename %s -> %s: %w", tmpPath, s.path, err)
	}
	return nil
}

// Path returns the configured state file path, for logging.
func (s *Store) Path() string { return s.path }

// EnsureDir creates the state file's parent directory if it doesn't exist yet.
func (s *Store) EnsureDir() error {
	if s.path == "" {
		return nil
	}
	dir := filepath.Dir(s.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
