package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// exportVisible writes the visible panel to an HTML transcript under the
// configured export directory.
func (a *App) exportVisible() {
	list := a.focusedList()
	msgs := list.Messages()
	if len(msgs) == 0 {
		a.showError("Nothing to export")
		return
	}

	title := "Search results"
	targetID := ""
	if a.screen() == screenContext {
		targetID = a.contextTargetID()
		title = "Context around " + targetID
	}

	dir := a.Config.ExportDir
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, "adminhelper-exports")
		} else {
			dir = "."
		}
	}
	path := filepath.Join(dir, fmt.Sprintf("transcript-%s.html", time.Now().Format("20060102-150405")))

	// Snapshot the display copies so later flag patches don't race the write.
	snapshot := make([]*models.Message, len(msgs))
	for i, m := range msgs {
		c := *m
		snapshot[i] = &c
	}

	a.showStatus("Exporting…")
	go func() {
		err := a.exportService.WriteHTMLTranscript(a.ctx, path, title, snapshot, targetID)
		a.QueueUpdateDraw(func() {
			if err != nil {
				a.logger.Printf("export failed: %v", err)
				a.showError("Export failed")
				return
			}
			a.showStatus("Exported " + path)
		})
	}()
}
