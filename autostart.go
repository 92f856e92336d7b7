package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

// setupAutostart reconciles the OS login-item registration with the
// configured value. A no-op when the registration already matches.
func setupAutostart(enable bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable: %w", err)
	}
	if execPath, err = filepath.EvalSymlinks(execPath); err != nil {
		return fmt.Errorf("failed to resolve executable: %w", err)
	}

	app := &autostart.App{
		Name:        "daybreak",
		DisplayName: "Daybreak Alarm Clock",
		Exec:        []string{execPath},
	}

	if app.IsEnabled() == enable {
		return nil
	}

	action, verb := app.Enable, "enable"
	if !enable {
		action, verb = app.Disable, "disable"
	}

	if err := action(); err != nil {
		return fmt.Errorf("failed to %s autostart: %w", verb, err)
	}
	log.Printf("Autostart %sd", verb)
	return nil
}
