package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testMessage(id, channelID, content, ts string) *models.Message {
	return &models.Message{
		ID:         id,
		ChannelID:  channelID,
		GuildID:    "g1",
		AuthorID:   "a1",
		AuthorName: "alice",
		Content:    content,
		Timestamp:  ts,
		Flag:       "none",
	}
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	assert.Error(t, err)
}

func TestSaveAndSearchMessages(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMessage(ctx, testMessage("1", "c1", "hello world", "2024-01-01T10:00:00")))
	require.NoError(t, s.SaveMessage(ctx, testMessage("2", "c1", "goodbye world", "2024-01-01T11:00:00")))
	bob := testMessage("3", "c1", "hello again", "2024-01-01T12:00:00")
	bob.AuthorName = "bob"
	require.NoError(t, s.SaveMessage(ctx, bob))

	// Newest first, keyword filter.
	msgs, err := s.SearchMessages(ctx, "hello", "", 100, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "3", msgs[0].ID)
	assert.Equal(t, "1", msgs[1].ID)

	// Username filter is independent.
	msgs, err = s.SearchMessages(ctx, "", "bob", 100, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "3", msgs[0].ID)

	// Both filters combine.
	msgs, err = s.SearchMessages(ctx, "hello", "bob", 100, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	// No filters returns everything.
	msgs, err = s.SearchMessages(ctx, "", "", 100, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)

	// Limit and offset page through.
	msgs, err = s.SearchMessages(ctx, "", "", 1, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "2", msgs[0].ID)
}

func TestSaveMessageKeepsExistingFlag(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMessage(ctx, testMessage("1", "c1", "x", "2024-01-01T10:00:00")))
	require.NoError(t, s.UpdateFlag(ctx, "1", "green"))

	// A re-scrape of the same message must not clobber the flag.
	require.NoError(t, s.SaveMessage(ctx, testMessage("1", "c1", "x", "2024-01-01T10:00:00")))
	m, err := s.GetMessage(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "green", m.Flag)
}

func TestUpdateFlagMissingMessage(t *testing.T) {
	s := openTestStore(t)
	err := s.UpdateFlag(context.Background(), "404", "red")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestContextWindow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 20; i++ {
		ts := fmt.Sprintf("2024-01-01T10:%02d:00", i)
		require.NoError(t, s.SaveMessage(ctx, testMessage(fmt.Sprintf("%d", i), "c1", "m", ts)))
	}
	// A different channel must never leak into the window.
	require.NoError(t, s.SaveMessage(ctx, testMessage("99", "c2", "other", "2024-01-01T10:10:30")))

	window, err := s.ContextWindow(ctx, "10", 7)
	require.NoError(t, err)
	require.Len(t, window, 15)
	assert.Equal(t, "3", window[0].ID)
	assert.Equal(t, "10", window[7].ID)
	assert.Equal(t, "17", window[14].ID)
}

func TestContextWindowTimestampTies(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Same timestamp, snowflake IDs of different digit counts; ordering must
	// be numeric, not lexicographic.
	for _, id := range []string{"9", "10", "11"} {
		require.NoError(t, s.SaveMessage(ctx, testMessage(id, "c1", "m", "2024-01-01T10:00:00")))
	}
	window, err := s.ContextWindow(ctx, "10", 7)
	require.NoError(t, err)
	require.Len(t, window, 3)
	assert.Equal(t, "9", window[0].ID)
	assert.Equal(t, "10", window[1].ID)
	assert.Equal(t, "11", window[2].ID)
}

func TestContextWindowMissingTarget(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ContextWindow(context.Background(), "404", 7)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAttachments(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMessage(ctx, testMessage("1", "c1", "pic", "2024-01-01T10:00:00")))
	require.NoError(t, s.SaveAttachment(ctx, models.Attachment{
		MessageID: "1", Filename: "a.png", LocalPath: "1_a.png", ContentType: "image/png",
	}))
	require.NoError(t, s.SaveAttachment(ctx, models.Attachment{
		MessageID: "1", Filename: "b.png", LocalPath: "1_b.png", ContentType: "image/png",
	}))

	paths, err := s.AttachmentPaths(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1_a.png", "1_b.png"}, paths)

	paths, err = s.AttachmentPaths(ctx, "2")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestPendingReactions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMessage(ctx, testMessage("1", "c1", "x", "2024-01-01T10:00:00")))
	require.NoError(t, s.SaveMessage(ctx, testMessage("2", "c1", "y", "2024-01-01T11:00:00")))
	require.NoError(t, s.UpdateFlag(ctx, "1", "pending_react:✅"))
	require.NoError(t, s.UpdateFlag(ctx, "2", "green"))

	pending, err := s.PendingReactions(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "1", pending[0].MessageID)
	assert.Equal(t, "c1", pending[0].ChannelID)
	assert.Equal(t, "pending_react:✅", pending[0].Flag)

	// Delivered: flag back to none, queue drains.
	require.NoError(t, s.UpdateFlag(ctx, "1", "none"))
	pending, err = s.PendingReactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestLastMessageIDNumericOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	assert.Equal(t, "", mustLastID(t, s, "c1"))

	require.NoError(t, s.SaveMessage(ctx, testMessage("9", "c1", "x", "2024-01-01T10:00:00")))
	require.NoError(t, s.SaveMessage(ctx, testMessage("10", "c1", "y", "2024-01-01T11:00:00")))
	assert.Equal(t, "10", mustLastID(t, s, "c1"))
}

func mustLastID(t *testing.T, s *Store, channelID string) string {
	t.Helper()
	id, err := s.LastMessageID(context.Background(), channelID)
	require.NoError(t, err)
	return id
}

func TestDeleteChannelHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMessage(ctx, testMessage("1", "c1", "x", "2024-01-01T10:00:00")))
	require.NoError(t, s.SaveAttachment(ctx, models.Attachment{MessageID: "1", Filename: "a.png", LocalPath: "1_a.png"}))
	require.NoError(t, s.SaveMessage(ctx, testMessage("2", "c2", "y", "2024-01-01T10:00:00")))

	n, err := s.DeleteChannelHistory(ctx, "c1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.GetMessage(ctx, "1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	paths, err := s.AttachmentPaths(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, paths)

	// Other channels untouched.
	count, err := s.CountMessages(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMessageContents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMessage(ctx, testMessage("1", "c1", "old words", "2024-01-01T10:00:00")))
	require.NoError(t, s.SaveMessage(ctx, testMessage("2", "c1", "", "2024-01-02T10:00:00")))
	require.NoError(t, s.SaveMessage(ctx, testMessage("3", "c1", "new words", "2024-01-03T10:00:00")))

	all, err := s.MessageContents(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	recent, err := s.MessageContents(ctx, "2024-01-02T00:00:00")
	require.NoError(t, err)
	assert.Equal(t, []string{"new words"}, recent)
}
