package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/flag"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// MessageRenderer builds tview markup for archived messages. It is stateless
// apart from display options and safe to share.
type MessageRenderer struct {
	// TargetColor is the tview color tag payload used to tint the context
	// target row.
	TargetColor string
}

// NewMessageRenderer returns a renderer with the default palette.
func NewMessageRenderer() *MessageRenderer {
	return &MessageRenderer{TargetColor: "yellow"}
}

// Render produces the full markup block for one message. isTarget applies
// the context-target treatment. Author and content are escaped so message
// text can never open a color tag.
func (r *MessageRenderer) Render(msg *models.Message, isTarget bool) string {
	f := flag.Parse(msg.Flag)

	var b strings.Builder
	if isTarget {
		b.WriteString(fmt.Sprintf("[%s::b]▶ ", r.TargetColor))
	}
	b.WriteString(fmt.Sprintf("[aqua::b]%s[-:-:-] ", EscapeMarkup(msg.AuthorName)))
	b.WriteString(fmt.Sprintf("[gray]%s[-] ", FormatTimestamp(msg.Timestamp)))
	b.WriteString(f.Icon())
	b.WriteString("\n")
	if msg.Content != "" {
		b.WriteString(EscapeMarkup(msg.Content))
		b.WriteString("\n")
	}
	for _, url := range msg.AttachmentURLs {
		b.WriteString(fmt.Sprintf("[gray]📎 %s[-]\n", EscapeMarkup(url)))
	}
	if isTarget {
		b.WriteString("[-:-:-]")
	}
	return b.String()
}

// ListRow produces the single-line list entry for a message, truncated to
// width so wide glyphs never wrap the row.
func (r *MessageRenderer) ListRow(msg *models.Message, width int) string {
	f := flag.Parse(msg.Flag)
	content := strings.ReplaceAll(msg.Content, "\n", " ")
	if content == "" && len(msg.AttachmentURLs) > 0 {
		content = fmt.Sprintf("(%d attachment(s))", len(msg.AttachmentURLs))
	}
	row := fmt.Sprintf("%s %s %s: %s", f.Icon(), FormatTimestamp(msg.Timestamp), msg.AuthorName, content)
	if width > 0 {
		row = runewidth.Truncate(row, width, "…")
	}
	return EscapeMarkup(row)
}
