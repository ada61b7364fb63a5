package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://api.lyrics.ovh"
	defaultHTTPTimeout = 15 * time.Second
)

// ErrNotFound is returned when the service has no lyrics for a song.
var ErrNotFound = errors.New("lyrics: not found")

// Fetcher retrieves raw lyrics text for a song.
type Fetcher interface {
	Fetch(ctx context.Context, performer, title string) (string, error)
}

// Client wraps the lyrics REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New constructs a Client for baseURL (defaults to lyrics.ovh).
func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("lyrics: parse base url: %w", err)
	}
	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type lyricsResponse struct {
	Lyrics string `json:"lyrics"`
}

// Fetch returns the raw lyrics for title by performer. A 404 is reported as
// ErrNotFound.
func (c *Client) Fetch(ctx context.Context, performer, title string) (string, error) {
	if c == nil {
		return "", errors.New("lyrics: client is nil")
	}
	endpoint := c.baseURL + "/v1/" + url.PathEscape(strings.TrimSpace(performer)) + "/" + url.PathEscape(strings.TrimSpace(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("lyrics: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lyrics: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("lyrics: lookup failed (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload lyricsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("lyrics: decode response: %w", err)
	}
	return payload.Lyrics, nil
}

// SplitLines turns raw lyrics into trimmed, lower-cased, non-empty lines.
func SplitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
