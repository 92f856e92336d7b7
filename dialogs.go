package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"github.com/borgmon/daybreak/pkg/ics"
)

// soundExtensions are the containers offered by the sound picker. Only
// existence is checked at creation time; decodability is playback's problem.
var soundExtensions = []string{".wav", ".mp3", ".ogg", ".flac", ".aac", ".m4a", ".wma"}

func (mw *MainWindow) showBrowseSoundDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		mw.soundEntry.SetText(path)

		// Remember the directory for next time
		mw.db.config.LastSoundDir = filepath.Dir(path)
		saveConfig(mw.db.app, mw.db.config)
	}, mw.window)

	d.SetFilter(storage.NewExtensionFileFilter(soundExtensions))
	if mw.db.config.LastSoundDir != "" {
		if lister, err := storage.ListerForURI(
			storage.NewFileURI(mw.db.config.LastSoundDir)); err == nil {
			d.SetLocation(lister)
		}
	}
	d.Show()
}

func (mw *MainWindow) showExportDialog() {
	if mw.db.alarmStore.Len() == 0 {
		dialog.ShowInformation("No Alarms", "There are no alarms to export.", mw.window)
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if err := ics.Export(writer, mw.db.alarmStore.Alarms(), time.Now()); err != nil {
			dialog.ShowError(fmt.Errorf("export failed: %w", err), mw.window)
			return
		}
		mw.setStatus("Alarms exported.")
	}, mw.window)

	d.SetFileName("alarms.ics")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".ics"}))
	d.Show()
}

func (mw *MainWindow) showImportDialog() {
	// Imported events carry no sound, so one has to be picked up front.
	soundPath := mw.soundEntry.Text
	if soundPath == "" {
		dialog.ShowInformation("Sound Required",
			"Choose a sound file in the form first; it will be assigned to every imported alarm.",
			mw.window)
		return
	}

	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		alarms, err := ics.Import(reader)
		if err != nil {
			dialog.ShowError(fmt.Errorf("import failed: %w", err), mw.window)
			return
		}

		added := 0
		for _, alarm := range alarms {
			alarm.SoundPath = soundPath
			if err := mw.db.alarmStore.Add(alarm); err != nil {
				log.Printf("Skipping imported alarm %q: %v", alarm.Name, err)
				continue
			}
			added++
		}

		mw.setStatus(fmt.Sprintf("Imported %d alarms (disabled until reviewed).", added))
		mw.refreshAlarms()
		mw.db.updateSystemTrayMenu()
	}, mw.window)

	d.SetFilter(storage.NewExtensionFileFilter([]string{".ics"}))
	d.Show()
}
