package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// resendInterval is how long a finding stays muted after a notification.
const resendInterval = 24 * time.Hour

// State tracks which findings have already been notified, so a persistent
// problem alerts once per interval instead of on every run.
type State struct {
	path string
	// Sent maps a finding key to the time it was last notified.
	Sent map[string]time.Time `json:"sent"`
}

// LoadState reads the notification state file. A missing file yields an
// empty state; a malformed one is an error.
func LoadState(path string) (*State, error) {
	s := &State{path: path, Sent: make(map[string]time.Time)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading notification state: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing notification state %q: %w", path, err)
	}
	if s.Sent == nil {
		s.Sent = make(map[string]time.Time)
	}
	return s, nil
}

// ShouldNotify reports whether a finding key is due for a notification.
func (s *State) ShouldNotify(key string, now time.Time) bool {
	last, ok := s.Sent[key]
	return !ok || now.Sub(last) >= resendInterval
}

// MarkSent records that a finding key was notified at the given time.
func (s *State) MarkSent(key string, now time.Time) {
	s.Sent[key] = now
}

// Prune drops entries whose findings are no longer active, so a problem that
// resolves and later returns alerts again immediately.
func (s *State) Prune(active map[string]bool) {
	for key := range s.Sent {
		if !active[key] {
			delete(s.Sent, key)
		}
	}
}

// Save writes the state back to its file.
func (s *State) Save() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding notification state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing notification state: %w", err)
	}
	return nil
}
