package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// State maps day keys (YYYY-MM-DD) to the fingerprint of the schedule
// that was last synced to the calendar for that day.
type State struct {
	ByDayFingerprint map[string]string `json:"by_day_fingerprint"`
}

// New returns an empty state.
func New() *State {
	return &State{ByDayFingerprint: map[string]string{}}
}

// Fingerprint returns the stored digest for a day key.
func (s *State) Fingerprint(day string) (string, bool) {
	fp, ok := s.ByDayFingerprint[day]
	return fp, ok
}

// Set records the digest for a day key.
func (s *State) Set(day, fingerprint string) {
	s.ByDayFingerprint[day] = fingerprint
}

// Drop removes a day key, if present.
func (s *State) Drop(day string) {
	delete(s.ByDayFingerprint, day)
}

// Prune drops every day key not listed in keep, so the state never
// accumulates entries for days that left the sync horizon.
func (s *State) Prune(keep ...string) {
	keepSet := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		keepSet[k] = struct{}{}
	}
	for day := range s.ByDayFingerprint {
		if _, ok := keepSet[day]; !ok {
			delete(s.ByDayFingerprint, day)
		}
	}
}

// Load reads the state file at path. A missing file and a file holding
// only whitespace both mean "no previous run" and yield an empty state.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), nil
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}
	if st.ByDayFingerprint == nil {
		st.ByDayFingerprint = map[string]string{}
	}
	return &st, nil
}

// Save writes the state to path atomically: the JSON document lands in a
// temp file first and is renamed over the target, so a crash mid-write
// never leaves a truncated state behind.
func Save(path string, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting state file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}
