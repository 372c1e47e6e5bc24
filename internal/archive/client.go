// Package archive is the HTTP client for the message-archive backend.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// BackendError is a logical error reported by the backend as an {error}
// payload, distinct from transport failures.
type BackendError struct {
	Message string `json:"error"`
	Detail  string `json:"detail,omitempty"`
}

func (e *BackendError) Error() string {
	return e.Message
}

// Client talks to the archive REST backend. No request timeout is applied;
// callers pass a context when they want cancellation.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// SearchOptions are the optional /messages filters. Both filters are
// independent; zero values are omitted from the query.
type SearchOptions struct {
	Keyword  string
	Username string
	Limit    int
	Offset   int
}

// Search fetches messages matching the given filters, newest first.
func (c *Client) Search(ctx context.Context, opts SearchOptions) ([]*models.Message, error) {
	q := url.Values{}
	if opts.Keyword != "" {
		q.Set("keyword", opts.Keyword)
	}
	if opts.Username != "" {
		q.Set("username", opts.Username)
	}
	if opts.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", opts.Offset))
	}
	endpoint := c.baseURL + "/messages"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var msgs []*models.Message
	if err := c.getJSON(ctx, endpoint, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Context fetches the window of messages surrounding the target, target
// included, in channel order.
func (c *Client) Context(ctx context.Context, messageID string) ([]*models.Message, error) {
	var msgs []*models.Message
	endpoint := fmt.Sprintf("%s/messages/%s/context", c.baseURL, url.PathEscape(messageID))
	if err := c.getJSON(ctx, endpoint, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SetFlag writes a new raw flag value for the message.
func (c *Client) SetFlag(ctx context.Context, messageID, flagValue string) error {
	body, err := json.Marshal(map[string]string{"flag": flagValue})
	if err != nil {
		return fmt.Errorf("encode flag update: %w", err)
	}

	endpoint := fmt.Sprintf("%s/messages/%s/flag", c.baseURL, url.PathEscape(messageID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create flag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("update flag: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read flag response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("flag update failed with status %d: %s", resp.StatusCode, string(data))
	}
	if backendErr := decodeBackendError(data); backendErr != nil {
		return backendErr
	}
	return nil
}

// Reactions fetches the live reaction candidates for a message.
func (c *Client) Reactions(ctx context.Context, messageID string) ([]*models.ReactionOption, error) {
	var opts []*models.ReactionOption
	endpoint := fmt.Sprintf("%s/messages/%s/reactions", c.baseURL, url.PathEscape(messageID))
	if err := c.getJSON(ctx, endpoint, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// WordFrequency fetches the aggregate word counts for a timeframe.
func (c *Client) WordFrequency(ctx context.Context, timeframe string) ([]models.WordCount, error) {
	q := url.Values{}
	if timeframe != "" {
		q.Set("timeframe", timeframe)
	}
	endpoint := c.baseURL + "/stats/word-frequency"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var counts []models.WordCount
	if err := c.getJSON(ctx, endpoint, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// getJSON performs a GET and decodes the response into out. A JSON object
// with an error field is surfaced as a *BackendError even on HTTP 200, which
// is how the backend reports logical errors on list endpoints.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if backendErr := decodeBackendError(data); backendErr != nil {
			return backendErr
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(data))
	}
	if backendErr := decodeBackendError(data); backendErr != nil {
		return backendErr
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeBackendError returns the payload as a *BackendError if it is a JSON
// object carrying a non-empty error field, nil otherwise.
func decodeBackendError(data []byte) *BackendError {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var be BackendError
	if err := json.Unmarshal(trimmed, &be); err != nil {
		return nil
	}
	if be.Message == "" {
		return nil
	}
	return &be
}
