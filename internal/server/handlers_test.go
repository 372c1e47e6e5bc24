package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/db"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

type fakeReactions struct {
	opts []*models.ReactionOption
	err  error
}

func (f *fakeReactions) MessageReactions(ctx context.Context, channelID, messageID string) ([]*models.ReactionOption, error) {
	return f.opts, f.err
}

func newTestServer(t *testing.T, reactions ReactionFetcher) (*Server, *db.Store) {
	t.Helper()
	store, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := DefaultConfig()
	cfg.AttachmentsDir = t.TempDir()
	srv := New(cfg, store, reactions, log.New(io.Discard, "", 0))
	return srv, store
}

func seedMessages(t *testing.T, store *db.Store) {
	t.Helper()
	ctx := context.Background()
	msgs := []*models.Message{
		{ID: "1", ChannelID: "c1", GuildID: "g1", AuthorID: "a1", AuthorName: "alice",
			Content: "hello world", Timestamp: "2024-01-01T10:00:00.000000"},
		{ID: "2", ChannelID: "c1", GuildID: "g1", AuthorID: "a2", AuthorName: "bob",
			Content: "general kenobi", Timestamp: "2024-01-01T11:00:00.000000"},
		{ID: "3", ChannelID: "c1", GuildID: "g1", AuthorID: "a1", AuthorName: "alice",
			Content: "hello again", Timestamp: "2024-01-02T10:00:00.000000"},
	}
	for _, m := range msgs {
		require.NoError(t, store.SaveMessage(ctx, m))
	}
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedMessages(t, store)
	h := srv.Handler()

	rec := doRequest(t, h, http.MethodGet, "/messages?keyword=hello", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var msgs []*models.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 2)
	// Newest first.
	assert.Equal(t, "3", msgs[0].ID)
	assert.Equal(t, "none", msgs[0].Flag)
	assert.NotNil(t, msgs[0].AttachmentURLs)

	rec = doRequest(t, h, http.MethodGet, "/messages?username=bob", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "bob", msgs[0].AuthorName)
}

func TestSearchEmptyIsArrayNotError(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/messages?keyword=nomatch", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestSearchExpandsAttachmentURLs(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedMessages(t, store)
	require.NoError(t, store.SaveAttachment(context.Background(), models.Attachment{
		MessageID: "1", Filename: "a.png", LocalPath: "1_a.png", ContentType: "image/png",
	}))

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/messages?keyword=world", "")
	var msgs []*models.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"http://localhost:8000/attachments/1_a.png"}, msgs[0].AttachmentURLs)
}

func TestUpdateFlagEndpoint(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedMessages(t, store)
	h := srv.Handler()

	rec := doRequest(t, h, http.MethodPut, "/messages/1/flag", `{"flag":"green"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "green", resp["flag"])

	m, err := store.GetMessage(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "green", m.Flag)

	// Compound pending reaction values are accepted as-is.
	rec = doRequest(t, h, http.MethodPut, "/messages/1/flag", `{"flag":"pending_react:party:12345"}`)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending_react:party:12345", resp["flag"])
}

func TestUpdateFlagRejectsUnknownValues(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedMessages(t, store)
	h := srv.Handler()

	for _, body := range []string{`{"flag":"purple"}`, `{"flag":"pending_react"}`, `not json`} {
		rec := doRequest(t, h, http.MethodPut, "/messages/1/flag", body)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid flag format", resp["error"], "body=%s", body)
	}

	// Flag untouched after rejected updates.
	m, err := store.GetMessage(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "none", m.Flag)
}

func TestUpdateFlagMissingMessage(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := doRequest(t, srv.Handler(), http.MethodPut, "/messages/404/flag", `{"flag":"red"}`)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Message not found", resp["error"])
}

func TestContextEndpoint(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedMessages(t, store)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/messages/2/context", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var window []*models.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &window))
	require.Len(t, window, 3)
	assert.Equal(t, "1", window[0].ID)
	assert.Equal(t, "2", window[1].ID)
	assert.Equal(t, "3", window[2].ID)
}

func TestContextEndpointMissingTarget(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/messages/404/context", "")
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Message not found", resp["error"])
}

func TestReactionsEndpoint(t *testing.T) {
	fake := &fakeReactions{opts: []*models.ReactionOption{
		{Name: "✅", Count: 2, EmojiStr: "✅"},
		{Name: "party", ID: "12345", Count: 1, EmojiStr: "party:12345"},
	}}
	srv, store := newTestServer(t, fake)
	seedMessages(t, store)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/messages/1/reactions", "")
	var opts []*models.ReactionOption
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	require.Len(t, opts, 2)
	assert.Equal(t, "party:12345", opts[1].EmojiStr)
}

func TestReactionsEndpointNoToken(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedMessages(t, store)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/messages/1/reactions", "")
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Discord token not configured", resp["error"])
}

func TestReactionsEndpointUpstreamError(t *testing.T) {
	srv, store := newTestServer(t, &fakeReactions{err: errors.New("discord api returned 403")})
	seedMessages(t, store)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/messages/1/reactions", "")
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "403")
}

func TestReactionsEndpointUnknownMessage(t *testing.T) {
	srv, _ := newTestServer(t, &fakeReactions{})
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/messages/404/reactions", "")
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Message not found in database", resp["error"])
}

func TestWordFrequencyEndpoint(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedMessages(t, store)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/stats/word-frequency", "")
	var counts []models.WordCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	require.NotEmpty(t, counts)
	assert.Equal(t, "hello", counts[0].Word)
	assert.Equal(t, 2, counts[0].Count)
}

func TestWordFrequencyTimeframe(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedMessages(t, store)
	// Pin "now" so the 24h window covers only the newest message.
	srv.now = func() time.Time {
		return time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	}

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/stats/word-frequency?timeframe=24h", "")
	var counts []models.WordCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	words := make([]string, 0, len(counts))
	for _, c := range counts {
		words = append(words, c.Word)
	}
	assert.ElementsMatch(t, []string{"hello", "again"}, words)
}

func TestWordFrequencyEmptyIsArray(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := doRequest(t, srv.Handler(), http.MethodGet, "/stats/word-frequency", "")
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestTimeframeCutoff(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	srv.now = func() time.Time {
		return time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	}
	assert.Equal(t, "", srv.timeframeCutoff("all"))
	assert.Equal(t, "", srv.timeframeCutoff("bogus"))
	assert.Equal(t, "2024-01-30T00:00:00.000000", srv.timeframeCutoff("24h"))
	assert.Equal(t, "2024-01-24T00:00:00.000000", srv.timeframeCutoff("7d"))
	assert.Equal(t, "2024-01-01T00:00:00.000000", srv.timeframeCutoff("30d"))
}
