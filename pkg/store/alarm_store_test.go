package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borgmon/daybreak/pkg/models"
)

func newTestStore(t *testing.T) (*AlarmStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alarms.json")
	s := NewAlarmStore(path)
	require.NoError(t, s.Load())
	return s, path
}

func testAlarm(t *testing.T, name string) *models.Alarm {
	t.Helper()
	sound := filepath.Join(t.TempDir(), "beep.wav")
	require.NoError(t, os.WriteFile(sound, []byte("RIFF"), 0644))
	return models.NewAlarm(name, 7, 30, [7]bool{true}, sound)
}

func TestLoadMissingFile(t *testing.T) {
	s := NewAlarmStore(filepath.Join(t.TempDir(), "alarms.json"))

	require.NoError(t, s.Load())
	assert.Empty(t, s.Alarms())
}

func TestLoadCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "this is not json{{{"},
		{name: "wrong shape", content: `{"alarms": "nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "alarms.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			s := NewAlarmStore(path)
			err := s.Load()

			// Soft fail: the error is surfaced but the store is usable
			require.ErrorIs(t, err, ErrCorrupt)
			assert.Empty(t, s.Alarms())
			require.NoError(t, s.Add(testAlarm(t, "After corrupt")))
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, path := newTestStore(t)

	a := testAlarm(t, "Gym")
	b := testAlarm(t, "Standup")
	b.Days = [7]bool{true, true, true, true, true, false, false}
	require.NoError(t, s.Add(a))
	require.NoError(t, s.Add(b))
	require.NoError(t, s.MarkTriggered(b.ID, "2026-08-31"))

	reloaded := NewAlarmStore(path)
	require.NoError(t, reloaded.Load())

	// Field-for-field, including one null and one concrete trigger date
	require.Equal(t, s.Alarms(), reloaded.Alarms())
	assert.Empty(t, reloaded.Get(a.ID).LastTriggered)
	assert.Equal(t, "2026-08-31", reloaded.Get(b.ID).LastTriggered)
}

func TestAddRejectsInvalid(t *testing.T) {
	s, path := newTestStore(t)

	bad := models.NewAlarm("", 7, 30, [7]bool{true}, "nope.wav")
	err := s.Add(bad)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, s.Len())

	// Nothing was persisted either
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestToggle(t *testing.T) {
	s, _ := newTestStore(t)

	a := testAlarm(t, "Gym")
	require.NoError(t, s.Add(a))
	require.True(t, s.Get(a.ID).Enabled)

	require.NoError(t, s.Toggle(a.ID))
	assert.False(t, s.Get(a.ID).Enabled)

	require.NoError(t, s.Toggle(a.ID))
	assert.True(t, s.Get(a.ID).Enabled)
}

func TestToggleUnknownID(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Toggle("no-such-id")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	s, _ := newTestStore(t)

	a := testAlarm(t, "Gym")
	require.NoError(t, s.Add(a))
	require.NoError(t, s.Remove(a.ID))

	assert.Equal(t, 0, s.Len())
	require.ErrorIs(t, s.Remove(a.ID), ErrNotFound)
}

// TestRemoveKeepsIdentity covers the stale-reference pitfall of positional
// addressing: after the first of three alarms is deleted the later ones
// shift down a row, but their IDs keep resolving.
func TestRemoveKeepsIdentity(t *testing.T) {
	s, _ := newTestStore(t)

	a := testAlarm(t, "A")
	b := testAlarm(t, "B")
	c := testAlarm(t, "C")
	require.NoError(t, s.Add(a))
	require.NoError(t, s.Add(b))
	require.NoError(t, s.Add(c))

	require.NoError(t, s.Remove(a.ID))

	alarms := s.Alarms()
	require.Len(t, alarms, 2)
	assert.Equal(t, "B", alarms[0].Name)
	assert.Equal(t, "C", alarms[1].Name)

	// C moved from position 2 to position 1 but is still addressable
	assert.Equal(t, c.ID, alarms[1].ID)
	require.NoError(t, s.Toggle(c.ID))
	assert.False(t, s.Get(c.ID).Enabled)
}

func TestMarkTriggeredMonotonic(t *testing.T) {
	s, _ := newTestStore(t)

	a := testAlarm(t, "Gym")
	require.NoError(t, s.Add(a))

	require.NoError(t, s.MarkTriggered(a.ID, "2026-08-31"))
	require.Equal(t, "2026-08-31", s.Get(a.ID).LastTriggered)

	// A later date advances it
	require.NoError(t, s.MarkTriggered(a.ID, "2026-09-07"))
	require.Equal(t, "2026-09-07", s.Get(a.ID).LastTriggered)

	// An earlier date never reverts it
	require.NoError(t, s.MarkTriggered(a.ID, "2026-08-31"))
	assert.Equal(t, "2026-09-07", s.Get(a.ID).LastTriggered)
}

func TestSaveFailureSurfaced(t *testing.T) {
	// Point the store at a directory that does not exist so the write fails
	s := NewAlarmStore(filepath.Join(t.TempDir(), "missing", "alarms.json"))
	require.NoError(t, s.Load())

	err := s.Add(testAlarm(t, "Gym"))
	require.Error(t, err)

	var verr *models.ValidationError
	assert.False(t, errors.As(err, &verr),
		"save failure must not be reported as a validation error")

	// The append was rolled back; memory matches what the error reports
	assert.Equal(t, 0, s.Len())
}
