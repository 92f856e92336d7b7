// Package ics converts alarm schedules to and from iCalendar data, so a
// weekly alarm can round-trip with calendar applications as a recurring
// VEVENT.
package ics

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/borgmon/daybreak/pkg/models"
)

// byDayCodes are the RRULE BYDAY codes in Days order (Monday=0 .. Sunday=6).
var byDayCodes = [7]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// Export writes the alarms as a VCALENDAR of weekly-recurring VEVENTs.
// Alarms with no active days have no recurrence to express and are skipped.
func Export(w io.Writer, alarms []*models.Alarm, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//borgmon//daybreak//EN")

	exported := 0
	for _, alarm := range alarms {
		start, ok := nextOccurrence(alarm, now)
		if !ok {
			log.Printf("Skipping export of alarm %q: no active days", alarm.Name)
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, alarm.ID)
		event.Props.SetText(ical.PropSummary, alarm.Name)
		event.Props.SetDateTime(ical.PropDateTimeStamp, now)
		event.Props.SetDateTime(ical.PropDateTimeStart, start)
		event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(time.Minute))

		rrule := ical.NewProp(ical.PropRecurrenceRule)
		rrule.Value = rruleFor(alarm)
		event.Props.Set(rrule)

		cal.Children = append(cal.Children, event.Component)
		exported++
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}

	log.Printf("Exported %d of %d alarms", exported, len(alarms))
	return nil
}

// Import reads a VCALENDAR and converts weekly-recurring VEVENTs back into
// alarms. Imported alarms start disabled and carry no sound; the caller is
// expected to fill those in before adding them to the store. Events that
// are not weekly recurrences are skipped with a log line.
func Import(r io.Reader) ([]*models.Alarm, error) {
	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}

	var alarms []*models.Alarm
	for _, comp := range cal.Children {
		if comp.Name != ical.CompEvent {
			continue
		}

		alarm, err := parseEvent(comp)
		if err != nil {
			log.Printf("Skipping event: %v", err)
			continue
		}
		alarms = append(alarms, alarm)
	}

	return alarms, nil
}

func parseEvent(comp *ical.Component) (*models.Alarm, error) {
	name := "Imported alarm"
	if summaryProp := comp.Props.Get(ical.PropSummary); summaryProp != nil {
		name = summaryProp.Value
	}

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return nil, fmt.Errorf("event %q has no start time", name)
	}
	start, err := startProp.DateTime(time.Local)
	if err != nil {
		return nil, fmt.Errorf("event %q has an unparseable start time: %w", name, err)
	}

	rruleProp := comp.Props.Get(ical.PropRecurrenceRule)
	if rruleProp == nil {
		return nil, fmt.Errorf("event %q is not recurring", name)
	}
	days, err := parseWeeklyRule(rruleProp.Value, start)
	if err != nil {
		return nil, fmt.Errorf("event %q: %w", name, err)
	}

	id := uuid.New().String()
	if uidProp := comp.Props.Get(ical.PropUID); uidProp != nil && uidProp.Value != "" {
		id = uidProp.Value
	}

	return &models.Alarm{
		ID:     id,
		Name:   name,
		Hour:   start.Hour(),
		Minute: start.Minute(),
		Days:   days,
	}, nil
}

// parseWeeklyRule extracts the active-day set from a FREQ=WEEKLY rule.
// A weekly rule without BYDAY recurs on the start time's weekday.
func parseWeeklyRule(rrule string, start time.Time) ([7]bool, error) {
	var days [7]bool

	parts := strings.Split(rrule, ";")
	freq := ""
	byDay := ""
	for _, part := range parts {
		if v, ok := strings.CutPrefix(part, "FREQ="); ok {
			freq = v
		}
		if v, ok := strings.CutPrefix(part, "BYDAY="); ok {
			byDay = v
		}
	}

	if freq != "WEEKLY" {
		return days, fmt.Errorf("unsupported recurrence %q", rrule)
	}

	if byDay == "" {
		days[models.WeekdayIndex(start.Weekday())] = true
		return days, nil
	}

	for _, code := range strings.Split(byDay, ",") {
		idx := -1
		for i, known := range byDayCodes {
			if code == known {
				idx = i
				break
			}
		}
		if idx < 0 {
			return days, fmt.Errorf("unsupported BYDAY code %q", code)
		}
		days[idx] = true
	}

	return days, nil
}

// rruleFor builds the weekly recurrence rule for an alarm's active days.
func rruleFor(alarm *models.Alarm) string {
	codes := []string{}
	for i, active := range alarm.Days {
		if active {
			codes = append(codes, byDayCodes[i])
		}
	}
	return "FREQ=WEEKLY;BYDAY=" + strings.Join(codes, ",")
}

// nextOccurrence returns the first time at or after now that the alarm is
// scheduled to fire. Reports false if the alarm has no active days.
func nextOccurrence(alarm *models.Alarm, now time.Time) (time.Time, bool) {
	for offset := 0; offset < 8; offset++ {
		day := now.AddDate(0, 0, offset)
		candidate := time.Date(day.Year(), day.Month(), day.Day(),
			alarm.Hour, alarm.Minute, 0, 0, day.Location())
		if candidate.Before(now) {
			continue
		}
		if alarm.Days[models.WeekdayIndex(candidate.Weekday())] {
			return candidate, true
		}
	}
	return time.Time{}, false
}
