// Package notify is the alerting surface invoked when an alarm fires.
package notify

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"

	"github.com/borgmon/daybreak/pkg/audio"
	"github.com/borgmon/daybreak/pkg/models"
)

// DesktopSink alerts the user with sound playback and a transient OS
// notification. Playback is fire-and-forget; overlapping alarms simply
// play over each other, and a failed playback only costs a log line.
type DesktopSink struct {
	app fyne.App
}

func NewDesktopSink(app fyne.App) *DesktopSink {
	return &DesktopSink{app: app}
}

// Notify plays the alarm's sound and raises a toast carrying its name.
// It never blocks and never returns an error to the trigger engine.
func (s *DesktopSink) Notify(alarm *models.Alarm) {
	if _, err := audio.PlayFile(alarm.SoundPath); err != nil {
		log.Printf("Playback failed for alarm %q: %v", alarm.Name, err)
	}

	if s.app != nil {
		s.app.SendNotification(fyne.NewNotification(
			alarm.Name,
			fmt.Sprintf("Alarm %s at %s", alarm.Name, alarm.TimeString()),
		))
	}

	log.Printf("Alarm fired: %q at %s", alarm.Name, alarm.TimeString())
}
