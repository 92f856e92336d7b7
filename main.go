package main

import (
	"log"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/borgmon/daybreak/pkg/engine"
	"github.com/borgmon/daybreak/pkg/notify"
	"github.com/borgmon/daybreak/pkg/store"
)

// alarmsFileName is the JSON file holding the alarm collection, stored in
// the app's Fyne storage root.
const alarmsFileName = "alarms.json"

type Daybreak struct {
	app        fyne.App
	config     *Config
	alarmStore *store.AlarmStore
	engine     *engine.Engine
	checkDone  chan struct{}
	mainWindow *MainWindow
}

func main() {
	db := &Daybreak{
		app: app.NewWithID("com.borgmon.daybreak"),
	}

	if err := db.initialize(); err != nil {
		log.Fatal(err)
	}

	db.run()
}

func (db *Daybreak) initialize() error {
	db.config = loadConfig(db.app)

	// Sync autostart state with config on startup
	if err := setupAutostart(db.config.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	saveConfig(db.app, db.config)

	alarmsPath := filepath.Join(db.app.Storage().RootURI().Path(), alarmsFileName)
	db.alarmStore = store.NewAlarmStore(alarmsPath)
	if err := db.alarmStore.Load(); err != nil {
		// Corrupt state must never block startup; start with an empty
		// collection and leave the bad file in place for inspection.
		log.Printf("Could not load saved alarms, starting empty: %v", err)
	}
	log.Printf("Loaded %d alarms from %s", db.alarmStore.Len(), alarmsPath)

	db.engine = engine.New(db.alarmStore, notify.NewDesktopSink(db.app))

	db.setupSystemTray()
	db.showMainWindow()
	db.startAlarmChecker()

	return nil
}

func (db *Daybreak) run() {
	db.app.Run()
}

func (db *Daybreak) showMainWindow() {
	if db.mainWindow != nil {
		db.mainWindow.window.RequestFocus()
		db.mainWindow.window.Show()
		return
	}

	db.mainWindow = NewMainWindow(db)
	db.mainWindow.Show()
}

// startAlarmChecker drives the trigger engine on a fixed period. The
// interval stays under a minute so no matching minute is ever skipped.
func (db *Daybreak) startAlarmChecker() {
	interval := db.config.PollInterval()
	db.checkDone = make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				db.checkAlarms()
			case <-db.checkDone:
				return
			}
		}
	}()

	go func() {
		time.Sleep(2 * time.Second)
		db.checkAlarms()
	}()
}

func (db *Daybreak) checkAlarms() {
	fired := db.engine.Check(time.Now())
	if len(fired) > 0 {
		db.refreshUI()
	}
}

// refreshUI updates the alarm table and tray from a non-UI goroutine.
func (db *Daybreak) refreshUI() {
	fyne.Do(func() {
		if db.mainWindow != nil {
			db.mainWindow.refreshAlarms()
		}
		db.updateSystemTrayMenu()
	})
}

func (db *Daybreak) quit() {
	if db.checkDone != nil {
		close(db.checkDone)
		db.checkDone = nil
	}
	db.app.Quit()
}
