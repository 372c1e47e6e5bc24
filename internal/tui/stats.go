package tui

import (
	"fmt"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/render"
)

const (
	statsLabelWidth = 16
	statsBarWidth   = 40
)

// fetchStats loads the word-frequency chart for the active timeframe.
func (a *App) fetchStats() {
	timeframe := a.Timeframe()
	a.statsView.SetText("Loading stats…")

	go func() {
		counts, err := a.statsService.WordFrequency(a.ctx, timeframe)
		a.QueueUpdateDraw(func() {
			// A timeframe change while the fetch ran wins; its own fetch will
			// render.
			if a.Timeframe() != timeframe {
				return
			}
			if err != nil {
				a.logger.Printf("stats fetch failed: %v", err)
				a.statsView.SetText("Error fetching stats.")
				return
			}
			if len(counts) == 0 {
				a.statsView.SetText("No messages in this timeframe.")
				return
			}
			chart := render.BarChartText(counts, statsLabelWidth, statsBarWidth)
			a.statsView.SetText(fmt.Sprintf("Top words ([green]%s[-])\n\n%s", timeframe, chart))
		})
	}()
}
