package main

import (
	"fmt"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/borgmon/daybreak/pkg/models"
)

func (db *Daybreak) setupSystemTray() {
	db.updateSystemTrayMenu()
}

func (db *Daybreak) updateSystemTrayMenu() {
	if desk, ok := db.app.(desktop.App); ok {
		menuItems := []*fyne.MenuItem{}

		// Preview of alarms still due today at the top
		upcoming := db.getUpcomingTodayAlarms(5)
		if len(upcoming) > 0 {
			headerItem := fyne.NewMenuItem("Upcoming Today:", nil)
			headerItem.Disabled = true
			menuItems = append(menuItems, headerItem)

			for _, alarm := range upcoming {
				alarmText := fmt.Sprintf("  %s - %s",
					alarm.TimeString(), truncateString(alarm.Name, 35))
				alarmItem := fyne.NewMenuItem(alarmText, nil)
				alarmItem.Disabled = true
				menuItems = append(menuItems, alarmItem)
			}

			menuItems = append(menuItems, fyne.NewMenuItemSeparator())
		}

		menuItems = append(menuItems,
			fyne.NewMenuItem("Show Alarms", func() {
				db.showMainWindow()
			}),
		)

		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
		menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() {
			db.quit()
		}))

		menu := fyne.NewMenu("Daybreak", menuItems...)
		desk.SetSystemTrayMenu(menu)
	}
}

// getUpcomingTodayAlarms returns up to limit enabled alarms scheduled for
// later today that have not fired yet, soonest first.
func (db *Daybreak) getUpcomingTodayAlarms(limit int) []*models.Alarm {
	now := time.Now()
	today := models.DateOf(now)
	weekday := models.WeekdayIndex(now.Weekday())
	nowMinutes := now.Hour()*60 + now.Minute()

	upcoming := []*models.Alarm{}
	for _, alarm := range db.alarmStore.Alarms() {
		if !alarm.Enabled || !alarm.Days[weekday] {
			continue
		}
		if alarm.LastTriggered == today {
			continue
		}
		if alarm.Hour*60+alarm.Minute < nowMinutes {
			continue
		}
		upcoming = append(upcoming, alarm)
	}

	// Insertion order is arbitrary here; show the soonest first
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Hour*60+upcoming[i].Minute < upcoming[j].Hour*60+upcoming[j].Minute
	})

	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
