package render

import (
	"fmt"
	"strings"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/flag"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// HTMLMessage renders one message as an HTML fragment, the same shape the
// original single-page viewer built in the browser: escaped author and
// content, one thumbnail link per attachment (opening in a new browsing
// context), the flag controls and the context-navigation control, each
// carrying the message identifier. isTarget adds the highlight class.
func HTMLMessage(msg *models.Message, isTarget bool) string {
	f := flag.Parse(msg.Flag)

	class := "message flag-" + f.State()
	if isTarget {
		class += " target"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<div class=%q data-message-id=%q>\n", class, msg.ID))
	b.WriteString(fmt.Sprintf("  <span class=\"author\">%s</span> <span class=\"timestamp\">%s</span> <span class=\"flag-icon\">%s</span>\n",
		EscapeHTML(msg.AuthorName), EscapeHTML(FormatTimestamp(msg.Timestamp)), f.Icon()))
	b.WriteString(fmt.Sprintf("  <p class=\"content\">%s</p>\n", EscapeHTML(msg.Content)))
	if len(msg.AttachmentURLs) > 0 {
		b.WriteString("  <div class=\"attachments\">\n")
		for _, url := range msg.AttachmentURLs {
			escaped := EscapeHTML(url)
			b.WriteString(fmt.Sprintf("    <a href=%q target=\"_blank\" rel=\"noopener\"><img class=\"thumb\" src=%q alt=\"attachment\"></a>\n",
				escaped, escaped))
		}
		b.WriteString("  </div>\n")
	}
	b.WriteString("  <div class=\"controls\">\n")
	for _, c := range []struct{ action, label string }{
		{"flag-green", "🟢"},
		{"flag-red", "🔴"},
		{"react", "😀"},
		{"flag-clear", "clear"},
		{"context", "context"},
	} {
		b.WriteString(fmt.Sprintf("    <button data-action=%q data-message-id=%q>%s</button>\n",
			c.action, msg.ID, c.label))
	}
	b.WriteString("  </div>\n</div>\n")
	return b.String()
}

// HTMLTranscript renders a full standalone transcript document for a list of
// messages, with targetID (optional) highlighted.
func HTMLTranscript(title string, msgs []*models.Message, targetID string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(fmt.Sprintf("<meta charset=\"utf-8\">\n<title>%s</title>\n", EscapeHTML(title)))
	b.WriteString("<style>\n")
	b.WriteString(".message{border-bottom:1px solid #ddd;padding:6px}\n")
	b.WriteString(".message.target{background:#fff3c4}\n")
	b.WriteString(".author{font-weight:bold}\n.timestamp{color:#888}\n")
	b.WriteString(".thumb{max-height:120px}\n")
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(fmt.Sprintf("<h1>%s</h1>\n", EscapeHTML(title)))
	for _, m := range msgs {
		b.WriteString(HTMLMessage(m, targetID != "" && m.ID == targetID))
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
