package main

import (
	"time"

	"fyne.io/fyne/v2"
)

type Config struct {
	AutoStart           bool   `json:"auto_start"`
	CloseToTray         bool   `json:"close_to_tray"`
	PollIntervalSeconds int    `json:"poll_interval_seconds"`
	LastSoundDir        string `json:"last_sound_dir"`
}

func loadConfig(app fyne.App) *Config {
	prefs := app.Preferences()

	return &Config{
		AutoStart:           prefs.BoolWithFallback("auto_start", false),
		CloseToTray:         prefs.BoolWithFallback("close_to_tray", true),
		PollIntervalSeconds: prefs.IntWithFallback("poll_interval_seconds", 15),
		LastSoundDir:        prefs.String("last_sound_dir"),
	}
}

func saveConfig(app fyne.App, config *Config) {
	prefs := app.Preferences()

	prefs.SetBool("auto_start", config.AutoStart)
	prefs.SetBool("close_to_tray", config.CloseToTray)
	prefs.SetInt("poll_interval_seconds", config.PollIntervalSeconds)
	prefs.SetString("last_sound_dir", config.LastSoundDir)
}

// PollInterval returns the alarm check period, clamped below one minute so
// the checker cannot skip over a matching minute entirely.
func (c *Config) PollInterval() time.Duration {
	seconds := c.PollIntervalSeconds
	if seconds < 5 {
		seconds = 5
	}
	if seconds > 55 {
		seconds = 55
	}
	return time.Duration(seconds) * time.Second
}
