package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

func sampleMessage() *models.Message {
	return &models.Message{
		ID:         "111222333",
		ChannelID:  "444",
		GuildID:    "555",
		AuthorID:   "666",
		AuthorName: "somebody#1234",
		Content:    "hello there",
		Timestamp:  "2024-03-05T14:30:00Z",
		Flag:       "none",
	}
}

func TestRenderBasics(t *testing.T) {
	r := NewMessageRenderer()
	msg := sampleMessage()

	out := r.Render(msg, false)
	assert.Contains(t, out, "somebody#1234")
	assert.Contains(t, out, "2024-03-05 14:30")
	assert.Contains(t, out, "⚪")
	assert.Contains(t, out, "hello there")
	assert.NotContains(t, out, "▶")
	assert.NotContains(t, out, "📎")
}

func TestRenderTargetHighlight(t *testing.T) {
	r := NewMessageRenderer()
	out := r.Render(sampleMessage(), true)
	assert.Contains(t, out, "▶")
	assert.Contains(t, out, "[yellow::b]")
}

func TestRenderAttachmentsOnlyWhenPresent(t *testing.T) {
	r := NewMessageRenderer()
	msg := sampleMessage()
	msg.AttachmentURLs = []string{
		"http://localhost:8000/attachments/1_a.png",
		"http://localhost:8000/attachments/1_b.png",
	}
	out := r.Render(msg, false)
	assert.Equal(t, 2, strings.Count(out, "📎"))
	assert.Contains(t, out, "1_a.png")
	assert.Contains(t, out, "1_b.png")
}

func TestRenderFlagIcons(t *testing.T) {
	r := NewMessageRenderer()
	msg := sampleMessage()

	msg.Flag = "green"
	assert.Contains(t, r.Render(msg, false), "🟢")

	msg.Flag = "red"
	assert.Contains(t, r.Render(msg, false), "🔴")

	msg.Flag = "pending_react:✅"
	assert.Contains(t, r.Render(msg, false), "⏳✅")
}

func TestRenderEscapesMarkup(t *testing.T) {
	r := NewMessageRenderer()
	msg := sampleMessage()
	msg.Content = "watch out [red]for tags[-]"
	out := r.Render(msg, false)
	// tview escaping rewrites tag-shaped brackets so the raw color tag
	// never survives verbatim.
	assert.NotContains(t, out, "[red]for tags[-]")
}

func TestListRowTruncation(t *testing.T) {
	r := NewMessageRenderer()
	msg := sampleMessage()
	msg.Content = strings.Repeat("x", 500)
	row := r.ListRow(msg, 60)
	assert.LessOrEqual(t, len([]rune(row)), 70)
	assert.Contains(t, row, "…")
}

func TestListRowAttachmentOnlyMessage(t *testing.T) {
	r := NewMessageRenderer()
	msg := sampleMessage()
	msg.Content = ""
	msg.AttachmentURLs = []string{"http://localhost:8000/attachments/1_a.png"}
	row := r.ListRow(msg, 0)
	assert.Contains(t, row, "attachment")
}
