// Package snapshot loads the dashboard data the widgets read: the calls
// metric set and the stack event list.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/domain"
)

// Snapshot is the on-disk dashboard document.
type Snapshot struct {
	Calls  CallsData           `json:"calls"`
	Events []domain.StackEvent `json:"events"`
}

// CallsData holds the calls-with-errors metric set.
type CallsData struct {
	Chart domain.MetricSet `json:"chart"`
}

// Update describes a snapshot change.
type Update struct {
	LoadedAt time.Time
	Calls    int
	Events   int
}

// Stats describes the store.
type Stats struct {
	Path        string    `json:"path"`
	Loaded      bool      `json:"loaded"`
	LoadedAt    time.Time `json:"loaded_at,omitempty"`
	Calls       int       `json:"calls"`
	Events      int       `json:"events"`
	Subscribers int       `json:"subscribers"`
}

// Decode reads a snapshot document from r.
func Decode(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}

// ReadFile reads a snapshot document from path.
func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Store holds the current snapshot. It is safe for concurrent use; readers
// see either the previous or the next snapshot, never a mix.
type Store struct {
	path string

	mu       sync.RWMutex
	snap     *Snapshot
	loadedAt time.Time

	subs *subscriptionManager
	now  func() time.Time
}

// NewStore creates a store backed by the snapshot file at path. Nothing is
// read until Load is called.
func NewStore(path string, subscriptionBuffer int) *Store {
	if subscriptionBuffer <= 0 {
		subscriptionBuffer = constants.DefaultSubscriptionBuffer
	}
	return &Store{
		path: path,
		subs: newSubscriptionManager(subscriptionBuffer),
		now:  time.Now,
	}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot file and replaces the current snapshot. On error
// the previous snapshot stays in place.
func (s *Store) Load() error {
	if s.path == "" {
		return fmt.Errorf("%w: no snapshot file configured", domain.ErrSnapshotUnavailable)
	}

	snap, err := ReadFile(s.path)
	if err != nil {
		return err
	}

	s.Set(snap)
	return nil
}

// Set replaces the current snapshot and notifies subscribers.
func (s *Store) Set(snap Snapshot) {
	s.mu.Lock()
	s.snap = &snap
	s.loadedAt = s.now()
	update := Update{
		LoadedAt: s.loadedAt,
		Calls:    len(snap.Calls.Chart),
		Events:   len(snap.Events),
	}
	s.mu.Unlock()

	s.subs.broadcast(update)
}

// Current returns the current snapshot. Callers must not modify its slices.
func (s *Store) Current() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return Snapshot{}, domain.ErrSnapshotUnavailable
	}
	return *s.snap, nil
}

// Calls returns the calls metric set.
func (s *Store) Calls() (domain.MetricSet, error) {
	snap, err := s.Current()
	if err != nil {
		return nil, err
	}
	return snap.Calls.Chart, nil
}

// Events returns the stack events.
func (s *Store) Events() ([]domain.StackEvent, error) {
	snap, err := s.Current()
	if err != nil {
		return nil, err
	}
	return snap.Events, nil
}

// Event returns the stack event at index i.
func (s *Store) Event(i int) (domain.StackEvent, error) {
	events, err := s.Events()
	if err != nil {
		return domain.StackEvent{}, err
	}
	if i < 0 || i >= len(events) {
		return domain.StackEvent{}, fmt.Errorf("%w: index %d", domain.ErrEventNotFound, i)
	}
	return events[i], nil
}

// Stats returns statistics about the store.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	stats := Stats{Path: s.path}
	if s.snap != nil {
		stats.Loaded = true
		stats.LoadedAt = s.loadedAt
		stats.Calls = len(s.snap.Calls.Chart)
		stats.Events = len(s.snap.Events)
	}
	s.mu.RUnlock()

	stats.Subscribers = s.subs.count()
	return stats
}

// Subscribe registers for snapshot updates.
func (s *Store) Subscribe() (string, <-chan Update) {
	sub := s.subs.subscribe()
	return sub.ID(), sub.Channel()
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(id string) {
	s.subs.unsubscribe(id)
}

// Close closes all subscriptions.
func (s *Store) Close() {
	s.subs.close()
}
