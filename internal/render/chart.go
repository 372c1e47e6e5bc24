package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// BarRow is one rendered row of the word-frequency chart.
type BarRow struct {
	Word    string
	Count   int
	Percent int // 0..100, proportional to Count/max
}

// BarChart normalizes frequency entries against the maximum count. An empty
// input yields no rows; the ratio is only computed for non-empty sets, so the
// maximum is always positive and no division by zero can occur.
func BarChart(entries []models.WordCount) []BarRow {
	if len(entries) == 0 {
		return nil
	}
	max := entries[0].Count
	for _, e := range entries[1:] {
		if e.Count > max {
			max = e.Count
		}
	}
	rows := make([]BarRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, BarRow{
			Word:    e.Word,
			Count:   e.Count,
			Percent: e.Count * 100 / max,
		})
	}
	return rows
}

// BarChartText renders the chart as tview markup, one labeled bar per row,
// bar width proportional to the row's percent of barWidth cells.
func BarChartText(entries []models.WordCount, labelWidth, barWidth int) string {
	rows := BarChart(entries)
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range rows {
		label := runewidth.FillRight(runewidth.Truncate(r.Word, labelWidth, "…"), labelWidth)
		cells := r.Percent * barWidth / 100
		if cells < 1 {
			cells = 1
		}
		bar := strings.Repeat("█", cells)
		b.WriteString(fmt.Sprintf("%s [green]%s[-] %d\n", label, bar, r.Count))
	}
	return b.String()
}
