package main

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/borgmon/daybreak/pkg/models"
	"github.com/borgmon/daybreak/pkg/store"
)

type MainWindow struct {
	window fyne.Window
	db     *Daybreak

	// Add-alarm form
	nameEntry   *widget.Entry
	hourEntry   *widget.Entry
	minuteEntry *widget.Entry
	dayChecks   [7]*widget.Check
	soundEntry  *widget.Entry
	statusLabel *widget.Label

	// Alarm list
	alarmTable  *widget.Table
	alarmsData  []*models.Alarm
	selectedRow int
}

var dayCheckLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func NewMainWindow(db *Daybreak) *MainWindow {
	mw := &MainWindow{
		db:          db,
		selectedRow: -1,
	}

	mw.window = db.app.NewWindow("Daybreak - Alarms")
	mw.buildUI()

	return mw
}

func (mw *MainWindow) buildUI() {
	content := container.NewBorder(
		container.NewPadded(mw.buildForm()),
		container.NewPadded(mw.buildActions()),
		nil,
		nil,
		container.NewPadded(mw.buildAlarmTable()),
	)

	mw.window.SetContent(content)
	mw.window.Resize(fyne.NewSize(720, 560))
	mw.window.CenterOnScreen()

	// Closing the window hides to the tray instead of quitting, so the
	// alarm checker keeps running in the background.
	mw.window.SetCloseIntercept(func() {
		if mw.db.config.CloseToTray {
			mw.window.Hide()
		} else {
			mw.db.quit()
		}
	})
}

func (mw *MainWindow) buildForm() fyne.CanvasObject {
	mw.nameEntry = widget.NewEntry()
	mw.nameEntry.SetPlaceHolder("Alarm name")

	mw.hourEntry = widget.NewEntry()
	mw.hourEntry.SetPlaceHolder("Hour (0-23)")
	mw.minuteEntry = widget.NewEntry()
	mw.minuteEntry.SetPlaceHolder("Minute (0-59)")

	dayBoxes := []fyne.CanvasObject{}
	for i := range mw.dayChecks {
		mw.dayChecks[i] = widget.NewCheck(dayCheckLabels[i], nil)
		dayBoxes = append(dayBoxes, mw.dayChecks[i])
	}

	mw.soundEntry = widget.NewEntry()
	mw.soundEntry.SetPlaceHolder("Sound file")
	browseButton := widget.NewButton("Browse...", func() {
		mw.showBrowseSoundDialog()
	})

	addButton := widget.NewButton("Add Alarm", func() {
		mw.addAlarm()
	})
	addButton.Icon = theme.ContentAddIcon()
	addButton.Importance = widget.HighImportance

	mw.statusLabel = widget.NewLabel("")
	mw.statusLabel.Importance = widget.MediumImportance

	timeRow := container.NewGridWithColumns(3,
		mw.nameEntry, mw.hourEntry, mw.minuteEntry)
	soundRow := container.NewBorder(nil, nil, nil, browseButton, mw.soundEntry)

	return container.NewVBox(
		widget.NewLabel("New Alarm"),
		widget.NewSeparator(),
		timeRow,
		container.NewHBox(dayBoxes...),
		soundRow,
		container.NewHBox(addButton, mw.statusLabel),
	)
}

func (mw *MainWindow) buildAlarmTable() fyne.CanvasObject {
	mw.alarmsData = mw.db.alarmStore.Alarms()

	table := widget.NewTable(
		func() (rows int, cols int) {
			return len(mw.alarmsData), 4
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("Template")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)

			if id.Row >= len(mw.alarmsData) {
				label.SetText("")
				return
			}

			alarm := mw.alarmsData[id.Row]
			switch id.Col {
			case 0:
				label.SetText(alarm.Name)
			case 1:
				label.SetText(alarm.TimeString())
			case 2:
				label.SetText(alarm.DaysString())
			case 3:
				if alarm.Enabled {
					label.SetText("Yes")
				} else {
					label.SetText("No")
				}
			}

			// Gray out disabled alarms
			if alarm.Enabled {
				label.Importance = widget.MediumImportance
			} else {
				label.Importance = widget.LowImportance
			}
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		label := widget.NewLabel("Header")
		label.TextStyle.Bold = true
		return label
	}
	table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		label := obj.(*widget.Label)
		switch id.Col {
		case 0:
			label.SetText("Name")
		case 1:
			label.SetText("Time")
		case 2:
			label.SetText("Days")
		case 3:
			label.SetText("Enabled")
		}
	}

	table.OnSelected = func(id widget.TableCellID) {
		mw.selectedRow = id.Row
	}

	table.SetColumnWidth(0, 220)
	table.SetColumnWidth(1, 80)
	table.SetColumnWidth(2, 180)
	table.SetColumnWidth(3, 80)

	mw.alarmTable = table
	return table
}

func (mw *MainWindow) buildActions() fyne.CanvasObject {
	toggleButton := widget.NewButton("Enable/Disable", func() {
		mw.toggleSelected()
	})
	toggleButton.Icon = theme.ConfirmIcon()

	deleteButton := widget.NewButton("Delete", func() {
		mw.deleteSelected()
	})
	deleteButton.Icon = theme.DeleteIcon()

	exportButton := widget.NewButton("Export .ics", func() {
		mw.showExportDialog()
	})
	exportButton.Icon = theme.UploadIcon()

	importButton := widget.NewButton("Import .ics", func() {
		mw.showImportDialog()
	})
	importButton.Icon = theme.DownloadIcon()

	return container.NewHBox(toggleButton, deleteButton,
		widget.NewSeparator(), exportButton, importButton)
}

// addAlarm reads the form, validates and stores a new alarm.
func (mw *MainWindow) addAlarm() {
	name := strings.TrimSpace(mw.nameEntry.Text)

	hour, err := strconv.Atoi(strings.TrimSpace(mw.hourEntry.Text))
	if err != nil {
		mw.setStatus("Hour must be numeric.")
		return
	}
	minute, err := strconv.Atoi(strings.TrimSpace(mw.minuteEntry.Text))
	if err != nil {
		mw.setStatus("Minute must be numeric.")
		return
	}

	var days [7]bool
	for i, check := range mw.dayChecks {
		days[i] = check.Checked
	}

	alarm := models.NewAlarm(name, hour, minute, days, mw.soundEntry.Text)

	if err := mw.db.alarmStore.Add(alarm); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			mw.setStatus(verr.Reason)
			return
		}
		// Save failures are not silently swallowed; the alarm may be
		// lost on restart and the user has to know.
		dialog.ShowError(fmt.Errorf("failed to save alarms: %w", err), mw.window)
		return
	}

	mw.setStatus(fmt.Sprintf("Alarm %q added.", name))
	mw.clearForm()
	mw.refreshAlarms()
	mw.db.updateSystemTrayMenu()
}

func (mw *MainWindow) toggleSelected() {
	alarm := mw.selectedAlarm()
	if alarm == nil {
		dialog.ShowInformation("No Selection",
			"Please select an alarm to enable/disable.", mw.window)
		return
	}

	if err := mw.db.alarmStore.Toggle(alarm.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			mw.setStatus("Alarm no longer exists.")
			mw.refreshAlarms()
			return
		}
		dialog.ShowError(fmt.Errorf("failed to save alarms: %w", err), mw.window)
	}

	mw.refreshAlarms()
	mw.db.updateSystemTrayMenu()
}

func (mw *MainWindow) deleteSelected() {
	alarm := mw.selectedAlarm()
	if alarm == nil {
		dialog.ShowInformation("No Selection",
			"Please select an alarm to delete.", mw.window)
		return
	}

	dialog.ShowConfirm("Confirm Delete",
		fmt.Sprintf("Delete alarm %q?", alarm.Name),
		func(confirmed bool) {
			if !confirmed {
				return
			}

			if err := mw.db.alarmStore.Remove(alarm.ID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					mw.refreshAlarms()
					return
				}
				dialog.ShowError(fmt.Errorf("failed to save alarms: %w", err), mw.window)
				return
			}

			mw.setStatus(fmt.Sprintf("Alarm %q deleted.", alarm.Name))
			mw.selectedRow = -1
			mw.alarmTable.UnselectAll()
			mw.refreshAlarms()
			mw.db.updateSystemTrayMenu()
		}, mw.window)
}

// selectedAlarm resolves the selected table row to the alarm it showed when
// the row was clicked. Rows shift after a delete, so the stable ID taken
// here is what all store operations address.
func (mw *MainWindow) selectedAlarm() *models.Alarm {
	if mw.selectedRow < 0 || mw.selectedRow >= len(mw.alarmsData) {
		return nil
	}
	return mw.alarmsData[mw.selectedRow]
}

func (mw *MainWindow) refreshAlarms() {
	mw.alarmsData = mw.db.alarmStore.Alarms()
	if mw.selectedRow >= len(mw.alarmsData) {
		mw.selectedRow = -1
	}
	mw.alarmTable.Refresh()
}

func (mw *MainWindow) setStatus(text string) {
	mw.statusLabel.SetText(text)
	log.Println(text)
}

func (mw *MainWindow) clearForm() {
	mw.nameEntry.SetText("")
	mw.hourEntry.SetText("")
	mw.minuteEntry.SetText("")
	mw.soundEntry.SetText("")
	for _, check := range mw.dayChecks {
		check.SetChecked(false)
	}
}

func (mw *MainWindow) Show() {
	mw.window.Show()
}
