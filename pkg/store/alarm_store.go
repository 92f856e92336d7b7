package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/borgmon/daybreak/pkg/models"
)

var (
	// ErrNotFound is returned when an alarm ID does not resolve to a
	// stored alarm (e.g. it was deleted from another code path).
	ErrNotFound = errors.New("alarm not found")

	// ErrCorrupt wraps load-time parse failures. The store still starts
	// empty; callers log the error instead of aborting.
	ErrCorrupt = errors.New("alarm store is corrupt")
)

// AlarmStore owns the alarm collection and its JSON file persistence.
// Every mutation re-saves the whole collection synchronously; the mutex
// serializes mutations and writes so concurrent callers cannot interleave
// output or race an in-flight evaluation.
type AlarmStore struct {
	mu     sync.Mutex
	path   string
	alarms []*models.Alarm
}

// NewAlarmStore creates a store persisting to path. Call Load before use.
func NewAlarmStore(path string) *AlarmStore {
	return &AlarmStore{path: path}
}

// Load reads the persisted collection. A missing file is a fresh start and
// returns nil with an empty collection. A file that exists but cannot be
// parsed also leaves the collection empty but returns an ErrCorrupt-wrapped
// error for logging; startup must never be blocked by bad state.
func (s *AlarmStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.alarms = []*models.Alarm{}
		return nil
	}
	if err != nil {
		s.alarms = []*models.Alarm{}
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var alarms []*models.Alarm
	if err := json.Unmarshal(data, &alarms); err != nil {
		s.alarms = []*models.Alarm{}
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	s.alarms = alarms
	return nil
}

// save writes the collection to disk. Callers must hold the mutex.
func (s *AlarmStore) save() error {
	data, err := json.MarshalIndent(s.alarms, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode alarms: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

// Add validates the alarm, appends it and persists. Validation errors are
// returned unchanged so the caller can report the offending field.
func (s *AlarmStore) Add(alarm *models.Alarm) error {
	if err := alarm.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.alarms = append(s.alarms, alarm)
	if err := s.save(); err != nil {
		// Roll back so the surfaced error matches the actual state: an
		// alarm that cannot be persisted is not half-added in memory.
		s.alarms = s.alarms[:len(s.alarms)-1]
		return err
	}
	return nil
}

// Toggle flips the enabled flag of the alarm with the given ID and persists.
func (s *AlarmStore) Toggle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alarm := s.find(id)
	if alarm == nil {
		return ErrNotFound
	}
	alarm.Enabled = !alarm.Enabled
	return s.save()
}

// Remove deletes the alarm with the given ID and persists. Confirmation is
// the caller's concern.
func (s *AlarmStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, alarm := range s.alarms {
		if alarm.ID == id {
			s.alarms = append(s.alarms[:i], s.alarms[i+1:]...)
			return s.save()
		}
	}
	return ErrNotFound
}

// MarkTriggered records that the alarm fired on the given calendar date.
// The date never moves backward; a stale date is kept as-is.
func (s *AlarmStore) MarkTriggered(id, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alarm := s.find(id)
	if alarm == nil {
		return ErrNotFound
	}
	if date < alarm.LastTriggered {
		return nil
	}
	alarm.LastTriggered = date
	return s.save()
}

// Get returns a copy of the alarm with the given ID, or nil.
func (s *AlarmStore) Get(id string) *models.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()

	alarm := s.find(id)
	if alarm == nil {
		return nil
	}
	dup := *alarm
	return &dup
}

// Alarms returns a snapshot of the collection in insertion order. The
// snapshot holds copies, so readers never observe a half-applied mutation.
func (s *AlarmStore) Alarms() []*models.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Alarm, len(s.alarms))
	for i, alarm := range s.alarms {
		dup := *alarm
		out[i] = &dup
	}
	return out
}

// Len returns the number of stored alarms.
func (s *AlarmStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alarms)
}

// find returns the alarm with the given ID. Callers must hold the mutex.
func (s *AlarmStore) find(id string) *models.Alarm {
	for _, alarm := range s.alarms {
		if alarm.ID == id {
			return alarm
		}
	}
	return nil
}
