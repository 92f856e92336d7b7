package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempSoundFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "beep.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0644))
	return path
}

func TestValidate(t *testing.T) {
	sound := tempSoundFile(t)

	tests := []struct {
		name      string
		alarm     Alarm
		wantField string
	}{
		{
			name:  "valid",
			alarm: Alarm{Name: "Gym", Hour: 7, Minute: 30, SoundPath: sound},
		},
		{
			name:      "empty name",
			alarm:     Alarm{Name: "   ", Hour: 7, Minute: 30, SoundPath: sound},
			wantField: "name",
		},
		{
			name:      "hour too large",
			alarm:     Alarm{Name: "Gym", Hour: 24, Minute: 0, SoundPath: sound},
			wantField: "hour",
		},
		{
			name:      "hour negative",
			alarm:     Alarm{Name: "Gym", Hour: -1, Minute: 0, SoundPath: sound},
			wantField: "hour",
		},
		{
			name:      "minute too large",
			alarm:     Alarm{Name: "Gym", Hour: 7, Minute: 60, SoundPath: sound},
			wantField: "minute",
		},
		{
			name:      "minute negative",
			alarm:     Alarm{Name: "Gym", Hour: 7, Minute: -1, SoundPath: sound},
			wantField: "minute",
		},
		{
			name:      "missing sound path",
			alarm:     Alarm{Name: "Gym", Hour: 7, Minute: 30},
			wantField: "sound",
		},
		{
			name:      "sound file does not exist",
			alarm:     Alarm{Name: "Gym", Hour: 7, Minute: 30, SoundPath: "/no/such/file.wav"},
			wantField: "sound",
		},
		{
			name:      "sound path is a directory",
			alarm:     Alarm{Name: "Gym", Hour: 7, Minute: 30, SoundPath: filepath.Dir(sound)},
			wantField: "sound",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.alarm.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestNewAlarm(t *testing.T) {
	a := NewAlarm("Gym", 7, 30, [7]bool{true}, "beep.wav")

	assert.NotEmpty(t, a.ID)
	assert.True(t, a.Enabled)
	assert.Empty(t, a.LastTriggered)

	b := NewAlarm("Gym", 7, 30, [7]bool{true}, "beep.wav")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestTimeString(t *testing.T) {
	tests := []struct {
		hour, minute int
		want         string
	}{
		{7, 30, "07:30"},
		{0, 0, "00:00"},
		{23, 59, "23:59"},
		{9, 5, "09:05"},
	}

	for _, tt := range tests {
		a := Alarm{Hour: tt.hour, Minute: tt.minute}
		assert.Equal(t, tt.want, a.TimeString())
	}
}

func TestDaysString(t *testing.T) {
	tests := []struct {
		name string
		days [7]bool
		want string
	}{
		{
			name: "weekdays only",
			days: [7]bool{true, true, true, true, true, false, false},
			want: "M T W Th F - -",
		},
		{
			name: "none",
			days: [7]bool{},
			want: "- - - - - - -",
		},
		{
			name: "weekend",
			days: [7]bool{false, false, false, false, false, true, true},
			want: "- - - - - Sa Su",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Alarm{Days: tt.days}
			assert.Equal(t, tt.want, a.DaysString())
		})
	}
}

func TestWeekdayIndex(t *testing.T) {
	assert.Equal(t, 0, WeekdayIndex(time.Monday))
	assert.Equal(t, 4, WeekdayIndex(time.Friday))
	assert.Equal(t, 5, WeekdayIndex(time.Saturday))
	assert.Equal(t, 6, WeekdayIndex(time.Sunday))
}

func TestDateOfOrdersChronologically(t *testing.T) {
	earlier := DateOf(time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC))
	later := DateOf(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "2026-08-31", earlier)
	assert.True(t, earlier < later)
}
