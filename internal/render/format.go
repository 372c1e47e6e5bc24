// Package render turns archived messages and statistics into display text:
// tview markup for the live TUI, HTML for exported transcripts.
package render

import (
	"strings"
	"time"

	"github.com/derailed/tview"
)

// Timestamp display form used across list rows and transcripts.
const timestampLayout = "2006-01-02 15:04"

// isoLayouts are the accepted input forms. The archive stores timestamps as
// ISO-8601 strings produced by the scraper, with or without sub-second
// precision and zone offset.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// FormatTimestamp renders an ISO-8601 timestamp for display. Unparseable
// input is passed through verbatim rather than dropped.
func FormatTimestamp(iso string) string {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format(timestampLayout)
		}
	}
	return iso
}

// EscapeMarkup escapes text for embedding in tview views so message content
// can never open a color or style tag.
func EscapeMarkup(s string) string {
	return tview.Escape(s)
}

// EscapeHTML escapes text for embedding in HTML. The five significant
// characters are replaced in a fixed order, ampersand first, so already
// produced entities are never re-escaped by later passes.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	return s
}
