package archive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBuildsQuery(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	msgs, err := client.Search(context.Background(), SearchOptions{Keyword: "hello world", Username: "bob"})
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Equal(t, "/messages", gotPath)
	assert.Contains(t, gotQuery, "keyword=hello+world")
	assert.Contains(t, gotQuery, "username=bob")
}

func TestSearchFiltersAreIndependent(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	_, err := client.Search(context.Background(), SearchOptions{Keyword: "only"})
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "username")

	_, err = client.Search(context.Background(), SearchOptions{Username: "only"})
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "keyword")

	_, err = client.Search(context.Background(), SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "", gotQuery)
}

func TestSearchDecodesMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1","author_name":"alice","content":"hi","timestamp":"2024-01-01T00:00:00Z","attachment_urls":[],"flag":"green"}]`))
	}))
	defer srv.Close()

	msgs, err := NewClient(srv.URL).Search(context.Background(), SearchOptions{})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "1", msgs[0].ID)
	assert.Equal(t, "alice", msgs[0].AuthorName)
	assert.Equal(t, "green", msgs[0].Flag)
}

func TestContextBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages/42/context", r.URL.Path)
		_, _ = w.Write([]byte(`{"error":"Message not found"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Context(context.Background(), "42")
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Message not found", be.Message)
}

func TestSetFlag(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"status":"success","flag":"pending_react:✅"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).SetFlag(context.Background(), "42", "pending_react:✅")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/messages/42/flag", gotPath)
	assert.Equal(t, "pending_react:✅", gotBody["flag"])
}

func TestSetFlagBackendRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Invalid flag format"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).SetFlag(context.Background(), "42", "purple")
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Invalid flag format", be.Message)
}

func TestSetFlagTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	err := NewClient(srv.URL).SetFlag(context.Background(), "42", "green")
	require.Error(t, err)
	var be *BackendError
	assert.False(t, errors.As(err, &be))
}

func TestReactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages/42/reactions", r.URL.Path)
		_, _ = w.Write([]byte(`[{"name":"party","id":"12345","count":3,"emoji_str":"party:12345"},{"name":"✅","count":1,"emoji_str":"✅"}]`))
	}))
	defer srv.Close()

	opts, err := NewClient(srv.URL).Reactions(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "party:12345", opts[0].EmojiStr)
	assert.Equal(t, 3, opts[0].Count)
	assert.Equal(t, "✅", opts[1].EmojiStr)
	assert.Empty(t, opts[1].ID)
}

func TestWordFrequency(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"word":"hello","count":10},{"word":"world","count":5}]`))
	}))
	defer srv.Close()

	counts, err := NewClient(srv.URL).WordFrequency(context.Background(), "7d")
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "hello", counts[0].Word)
	assert.Equal(t, 10, counts[0].Count)
	assert.Equal(t, "timeframe=7d", gotQuery)
}

func TestGetJSONMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Search(context.Background(), SearchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
