package models

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date form used for LastTriggered, chosen so
// that string comparison orders dates chronologically.
const DateLayout = "2006-01-02"

// DayLabels are the display abbreviations for active days, Monday first.
var DayLabels = [7]string{"M", "T", "W", "Th", "F", "Sa", "Su"}

// Alarm is a single scheduled alarm. Days is indexed Monday=0 .. Sunday=6.
// LastTriggered holds the most recent calendar date (DateLayout) this alarm
// fired, or "" if it never has.
type Alarm struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Hour          int     `json:"hour"`
	Minute        int     `json:"minute"`
	Days          [7]bool `json:"days"`
	SoundPath     string  `json:"sound_path"`
	LastTriggered string  `json:"last_triggered,omitempty"`
	Enabled       bool    `json:"enabled"`
}

// NewAlarm creates an enabled alarm with a fresh stable ID.
func NewAlarm(name string, hour, minute int, days [7]bool, soundPath string) *Alarm {
	return &Alarm{
		ID:        uuid.New().String(),
		Name:      name,
		Hour:      hour,
		Minute:    minute,
		Days:      days,
		SoundPath: soundPath,
		Enabled:   true,
	}
}

// ValidationError reports a bad user-supplied field on alarm creation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate checks the alarm's user-supplied fields. The sound path is only
// checked for existence here; it is not re-checked at trigger time.
func (a *Alarm) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return &ValidationError{Field: "name", Reason: "alarm name is required"}
	}
	if a.Hour < 0 || a.Hour > 23 {
		return &ValidationError{Field: "hour", Reason: "hour must be 0-23"}
	}
	if a.Minute < 0 || a.Minute > 59 {
		return &ValidationError{Field: "minute", Reason: "minute must be 0-59"}
	}
	if a.SoundPath == "" {
		return &ValidationError{Field: "sound", Reason: "sound file is required"}
	}
	if info, err := os.Stat(a.SoundPath); err != nil || info.IsDir() {
		return &ValidationError{Field: "sound", Reason: "sound file is not readable"}
	}
	return nil
}

// TimeString returns the alarm time as zero-padded "HH:MM".
func (a *Alarm) TimeString() string {
	return fmt.Sprintf("%02d:%02d", a.Hour, a.Minute)
}

// DaysString returns the active-day schedule, e.g. "M T W Th F - -" for
// Monday through Friday. Inactive days show as a dash.
func (a *Alarm) DaysString() string {
	parts := make([]string, 7)
	for i, active := range a.Days {
		if active {
			parts[i] = DayLabels[i]
		} else {
			parts[i] = "-"
		}
	}
	return strings.Join(parts, " ")
}

// DateOf formats a time as the calendar date used for LastTriggered.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekdayIndex maps a time.Weekday onto the Days index (Monday=0 .. Sunday=6).
func WeekdayIndex(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}
