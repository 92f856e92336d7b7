// Package engine decides which alarms fire for a given wall-clock instant.
package engine

import (
	"errors"
	"log"
	"time"

	"github.com/borgmon/daybreak/pkg/models"
	"github.com/borgmon/daybreak/pkg/store"
)

// Notifier is the sink invoked for every alarm that fires. Implementations
// must not block; playback and toasts are dispatched fire-and-forget.
type Notifier interface {
	Notify(alarm *models.Alarm)
}

// Engine is the polling trigger engine. Check is driven by a host ticker
// running strictly faster than once per minute so every matching minute is
// observed at least once.
type Engine struct {
	store *store.AlarmStore
	sink  Notifier
}

func New(s *store.AlarmStore, sink Notifier) *Engine {
	return &Engine{store: s, sink: sink}
}

// Check evaluates every stored alarm against now and fires the ones that
// match. A firing alarm has its last-triggered date advanced to today
// before the sink is invoked, which is the whole of the once-per-day
// guarantee. Returns the alarms that fired.
func (e *Engine) Check(now time.Time) []*models.Alarm {
	today := models.DateOf(now)
	weekday := models.WeekdayIndex(now.Weekday())

	var fired []*models.Alarm
	for _, alarm := range e.store.Alarms() {
		if !due(alarm, now, today, weekday) {
			continue
		}

		if err := e.store.MarkTriggered(alarm.ID, today); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Deleted mid-evaluation; nothing left to ring for.
				continue
			}
			// A failed save still advanced the in-memory date, so the
			// once-per-day guard holds for this session. The alarm must
			// ring regardless; the write failure only costs durability.
			log.Printf("Failed to persist trigger date for alarm %q: %v", alarm.Name, err)
		}

		alarm.LastTriggered = today
		fired = append(fired, alarm)
		if e.sink != nil {
			e.sink.Notify(alarm)
		}
	}

	return fired
}

// due reports whether a single alarm should fire at now. Records with
// out-of-range schedule fields (possible after a hand-edited save file)
// are skipped with a log line so one bad record cannot stop the rest.
func due(alarm *models.Alarm, now time.Time, today string, weekday int) bool {
	if !alarm.Enabled {
		return false
	}
	if alarm.Hour < 0 || alarm.Hour > 23 || alarm.Minute < 0 || alarm.Minute > 59 {
		log.Printf("Skipping alarm %q: schedule out of range (%02d:%02d)",
			alarm.Name, alarm.Hour, alarm.Minute)
		return false
	}
	if now.Hour() != alarm.Hour || now.Minute() != alarm.Minute {
		return false
	}
	if !alarm.Days[weekday] {
		return false
	}
	// Already fired today, or on a later date if the host clock rolled
	// backward across midnight. Neither re-arms the alarm.
	if alarm.LastTriggered != "" && alarm.LastTriggered >= today {
		return false
	}
	return true
}
