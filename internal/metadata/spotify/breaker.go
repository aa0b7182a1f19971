package spotify

import (
	"context"
	"log/slog"

	"github.com/listenupapp/moodshelf/internal/breaker"
)

// BreakerName labels the search breaker in logs and metrics.
const BreakerName = "spotify-search"

// BreakerClient wraps Client with a circuit breaker so a failing Spotify
// stops receiving searches until it recovers.
type BreakerClient struct {
	client *Client
	cb     *breaker.Breaker[[]Playlist]
}

// NewBreakerClient wraps client.
func NewBreakerClient(client *Client, logger *slog.Logger) *BreakerClient {
	return &BreakerClient{
		client: client,
		cb:     breaker.New[[]Playlist](BreakerName, breaker.Settings{}, logger),
	}
}

// SearchPlaylists runs Client.SearchPlaylists through the breaker.
func (b *BreakerClient) SearchPlaylists(ctx context.Context, token, query string, limit int) ([]Playlist, error) {
	return b.cb.Execute(func() ([]Playlist, error) {
		return b.client.SearchPlaylists(ctx, token, query, limit)
	})
}

// State returns the breaker state.
func (b *BreakerClient) State() string {
	return b.cb.State()
}
