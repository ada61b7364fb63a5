package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tunetalk/internal/logging"
)

const (
	defaultBaseURL           = "https://www.googleapis.com/youtube/v3"
	defaultHTTPTimeout       = 30 * time.Second
	defaultRequestsPerSecond = 5

	// TextFormatPlain and TextFormatHTML are the commentThreads textFormat values.
	TextFormatPlain = "plainText"
	TextFormatHTML  = "html"
)

// Client issues Data API requests.
type Client struct {
	apiKey         string
	baseURL        string
	httpClient     *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	textFormat     string
	includeReplies bool
	logger         *slog.Logger
}

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

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithRateLimit paces requests to rps per second. Non-positive disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithMaxRetries bounds retries of transient failures.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff sets the initial and maximum retry delays.
func WithBackoff(initial, limit time.Duration) Option {
	return func(c *Client) {
		if initial > 0 {
			c.initialBackoff = initial
		}
		if limit >= c.initialBackoff {
			c.maxBackoff = limit
		}
	}
}

// WithTextFormat selects plainText (default) or html comment bodies.
func WithTextFormat(format string) Option {
	return func(c *Client) {
		if strings.EqualFold(strings.TrimSpace(format), TextFormatHTML) {
			c.textFormat = TextFormatHTML
		} else {
			c.textFormat = TextFormatPlain
		}
	}
}

// WithReplies requests reply threads alongside top-level comments.
func WithReplies(enabled bool) Option {
	return func(c *Client) { c.includeReplies = enabled }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a Client authenticated with apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("youtube: api key is required")
	}
	c := &Client{
		apiKey:         apiKey,
		baseURL:        defaultBaseURL,
		httpClient:     &http.Client{Timeout: defaultHTTPTimeout},
		limiter:        rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
		maxRetries:     DefaultMaxRetries,
		initialBackoff: DefaultInitialBackoff,
		maxBackoff:     DefaultMaxBackoff,
		textFormat:     TextFormatPlain,
		logger:         logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("youtube: parse base url: %w", err)
	}
	c.logger = logging.NewComponentLogger(c.logger, "youtube")
	return c, nil
}

// getJSON issues GET {base}/{resource}?params&key=..., retrying transient
// failures, and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, resource string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + "/" + resource + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(c.initialBackoff, c.maxBackoff, attempt-1)
			c.logger.Debug("retrying request",
				logging.String("resource", resource),
				logging.Int("attempt", attempt),
				logging.Duration("delay", delay),
				logging.Error(lastErr))
			if err := SleepWithContext(ctx, delay); err != nil {
				return err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		lastErr = c.doGet(ctx, endpoint, out)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !IsRetriable(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("youtube: %s failed after %d attempts: %w", resource, c.maxRetries+1, lastErr)
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("youtube: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the request URL, which carries the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("youtube: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return decodeAPIError(resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("youtube: decode response: %w", err)
	}
	return nil
}
