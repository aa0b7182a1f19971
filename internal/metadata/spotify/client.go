// Package spotify talks to the Spotify Web API: app-only authentication and
// playlist search.
package spotify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/listenupapp/moodshelf/internal/metrics"
	"github.com/listenupapp/moodshelf/internal/ratelimit"
)

const (
	// DefaultAPIURL is the Web API root.
	DefaultAPIURL = "https://api.spotify.com/v1"

	// LimiterKey is the bucket this client draws from in a shared limiter.
	LimiterKey = "spotify"

	defaultTimeout = 8 * time.Second
	maxErrorBody   = 512
)

// Playlist is a playlist search hit.
type Playlist struct {
	Name string
	URL  string
}

// Client is a rate-limited Spotify search client.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// New creates a new Spotify search client.
func New(baseURL string, timeout time.Duration, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: limiter,
		logger:  logger,
	}
}

// SearchPlaylists searches playlists matching query and returns at most
// limit hits in Spotify's ranking order.
func (c *Client) SearchPlaylists(ctx context.Context, token, query string, limit int) ([]Playlist, error) {
	start := time.Now()
	playlists, err := c.searchPlaylists(ctx, token, query, limit)
	metrics.RecordUpstream("spotify_search", time.Since(start), err)
	if err != nil {
		return nil, wrapError("searchPlaylists", query, err)
	}
	return playlists, nil
}

func (c *Client) searchPlaylists(ctx context.Context, token, query string, limit int) ([]Playlist, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "playlist")
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.doRequest(ctx, token, "/search", params)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	playlists := make([]Playlist, 0, len(resp.Playlists.Items))
	for _, item := range resp.Playlists.Items {
		// Removed playlists come back as null entries.
		if item == nil {
			continue
		}
		playlists = append(playlists, Playlist{
			Name: item.Name,
			URL:  item.ExternalURLs.Spotify,
		})
	}

	c.logger.Debug("spotify playlist search", "query", query, "hits", len(playlists))
	return playlists, nil
}

func (c *Client) doRequest(ctx context.Context, token, path string, query url.Values) ([]byte, error) {
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
	req.Header.Set("Authorization", "Bearer "+token)

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
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
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

type searchResponse struct {
	Playlists struct {
		Items []*rawPlaylist `json:"items"`
		Total int            `json:"total"`
	} `json:"playlists"`
}

type rawPlaylist struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}
