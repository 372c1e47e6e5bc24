package tui

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// initLogger initializes a file logger under ~/.config/adminhelper/ if
// possible; otherwise logging is discarded so UI code can log
// unconditionally.
func (a *App) initLogger() {
	path := a.Config.LogFile
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".config", "adminhelper", "adminhelper.log")
		}
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				a.logFile = f
				a.logger = log.New(f, "[adminhelper] ", log.LstdFlags|log.Lmicroseconds)
				return
			}
		}
	}
	a.logger = log.New(io.Discard, "", 0)
}

// closeLogger closes the log file if opened.
func (a *App) closeLogger() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}
