// Package googlebooks fetches book descriptions from the Google Books API.
package googlebooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/listenupapp/moodshelf/internal/metrics"
	"github.com/listenupapp/moodshelf/internal/ratelimit"
)

const (
	// DefaultBaseURL is the public Books API root.
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	// LimiterKey is the bucket this client draws from in a shared limiter.
	LimiterKey = "googlebooks"

	defaultTimeout = 8 * time.Second

	// Only the best match is used.
	maxResults = 1

	// Cap on how much of an error body is echoed into an error message.
	maxErrorBody = 512
)

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is a rate-limited Google Books API client.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// New creates a new Google Books client. The limiter may be shared with
// other clients; this one only uses the LimiterKey bucket.
func New(cfg Config, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		limiter: limiter,
		logger:  logger,
	}
}

// FetchDescription returns the description of the best-matching volume for
// title. A lookup that finds nothing returns ErrNoResults or ErrNoDescription;
// callers that only want text can treat any error as "no description".
func (c *Client) FetchDescription(ctx context.Context, title string) (string, error) {
	start := time.Now()
	desc, err := c.fetchDescription(ctx, title)
	metrics.RecordUpstream("googlebooks", time.Since(start), err)
	if err != nil {
		return "", wrapError("fetchDescription", title, err)
	}
	return desc, nil
}

func (c *Client) fetchDescription(ctx context.Context, title string) (string, error) {
	query := url.Values{}
	query.Set("q", title)
	query.Set("maxResults", fmt.Sprint(maxResults))
	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}

	body, err := c.doRequest(ctx, "/volumes", query)
	if err != nil {
		return "", err
	}

	var resp volumesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(resp.Items) == 0 {
		return "", ErrNoResults
	}

	desc := resp.Items[0].VolumeInfo.Description
	if strings.TrimSpace(desc) == "" {
		return "", ErrNoDescription
	}

	c.logger.Debug("book description fetched",
		"title", title,
		"matched", resp.Items[0].VolumeInfo.Title,
		"length", len(desc),
	)
	return desc, nil
}

// doRequest executes a GET request with rate limiting.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, LimiterKey); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "moodshelf/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, ErrServer
	default:
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}

// Raw API response types (internal)

type volumesResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
}
