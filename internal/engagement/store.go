package engagement

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"outreach_backend/platform/config"
)

const eventsFileName = "engagement_events.json"

// Store is the persistent engagement event log. Every mutation is a
// full-log read-modify-write committed via temp-file-plus-rename, so a
// reader never observes a partially written file. Writers are serialized
// by the mutex; the atomic replace alone would not prevent a lost-update
// race between two concurrent read-modify-write cycles.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates the event store backed by the memory directory.
func NewStore(cfg config.DataConfig) *Store {
	return &Store{path: filepath.Join(cfg.GetMemoryDir(), eventsFileName)}
}

// Append adds one event to the log.
func (s *Store) Append(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.loadLocked()
	if err != nil {
		return err
	}
	events = append(events, e)
	return s.saveLocked(events)
}

// Events returns a snapshot of the full log in stored order.
func (s *Store) Events() ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// HasReply reports whether a reply from the given sender with the exact
// timestamp is already tracked. Used to make reply ingestion idempotent.
func (s *Store) HasReply(email string, ts time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.loadLocked()
	if err != nil {
		return false, err
	}
	for _, e := range events {
		if e.Type == EventReply && strings.EqualFold(e.Email, email) && e.Timestamp.Equal(ts) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) loadLocked() ([]Event, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decode event log: %w", err)
	}
	return events, nil
}

func (s *Store) saveLocked(events []Event) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create event log dir: %w", err)
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encode event log: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write event log: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit event log: %w", err)
	}
	return nil
}
