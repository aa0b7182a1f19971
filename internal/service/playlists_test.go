package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/listenupapp/moodshelf/internal/metadata/spotify"
)

func newTestPlaylistService(tokens TokenProvider, catalog PlaylistCatalog, concurrency int) *PlaylistService {
	return NewPlaylistService(tokens, catalog, PlaylistSearchConfig{
		Concurrency:  concurrency,
		QueryTimeout: time.Second,
	}, slog.New(slog.DiscardHandler))
}

func TestSearchQueries(t *testing.T) {
	assert.Equal(t,
		[]string{"synthwave", "futuristic ambient", "cyberpunk", "Reading Dune"},
		SearchQueries([]string{"synthwave", "futuristic ambient", "cyberpunk"}, "Dune"),
	)
	assert.Equal(t, []string{"Reading Dune"}, SearchQueries(nil, "Dune"))
}

func TestPlaylistService_Search_TokenFailure(t *testing.T) {
	tokens := new(MockTokenProvider)
	catalog := new(MockCatalog)
	tokens.On("Token", mock.Anything).Return("", spotify.ErrMissingCredentials).Once()

	got := newTestPlaylistService(tokens, catalog, 4).Search(context.Background(), []string{"lofi", "ambient"}, "Dune")

	assert.Equal(t, []PlaylistEntry{{Name: "No token available", URL: "#"}}, got)
	tokens.AssertNumberOfCalls(t, "Token", 1)
	catalog.AssertNotCalled(t, "SearchPlaylists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaylistService_Search_EmptyToken(t *testing.T) {
	tokens := new(MockTokenProvider)
	catalog := new(MockCatalog)
	tokens.On("Token", mock.Anything).Return("", nil)

	got := newTestPlaylistService(tokens, catalog, 4).Search(context.Background(), []string{"lofi"}, "Dune")

	assert.Equal(t, []PlaylistEntry{{Name: NoTokenName, URL: PlaceholderURL}}, got)
	catalog.AssertNotCalled(t, "SearchPlaylists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaylistService_Search_AllFail(t *testing.T) {
	tokens := new(MockTokenProvider)
	catalog := new(MockCatalog)
	tokens.On("Token", mock.Anything).Return("tok", nil)
	catalog.On("SearchPlaylists", mock.Anything, "tok", mock.Anything, 2).Return(nil, errors.New("boom"))

	got := newTestPlaylistService(tokens, catalog, 4).Search(context.Background(), []string{"lofi", "ambient"}, "Dune")

	assert.Equal(t, []PlaylistEntry{{Name: "No playlists found", URL: "#"}}, got)
	catalog.AssertNumberOfCalls(t, "SearchPlaylists", 3)
}

func TestPlaylistService_Search_UnauthorizedInvalidatesToken(t *testing.T) {
	tokens := new(MockTokenProvider)
	catalog := new(MockCatalog)
	tokens.On("Token", mock.Anything).Return("stale", nil)
	tokens.On("Invalidate").Return()
	catalog.On("SearchPlaylists", mock.Anything, "stale", "lofi", 2).
		Return(nil, &spotify.Error{Op: "searchPlaylists", Query: "lofi", Err: spotify.ErrUnauthorized})
	catalog.On("SearchPlaylists", mock.Anything, "stale", "Reading Dune", 2).
		Return([]spotify.Playlist{{Name: "Dune Reading", URL: "https://open.spotify.com/playlist/1"}}, nil)

	got := newTestPlaylistService(tokens, catalog, 1).Search(context.Background(), []string{"lofi"}, "Dune")

	assert.Equal(t, []PlaylistEntry{{Name: "Dune Reading", URL: "https://open.spotify.com/playlist/1"}}, got)
	tokens.AssertCalled(t, "Invalidate")
}

func TestPlaylistService_Search_OtherFailuresKeepToken(t *testing.T) {
	tokens := new(MockTokenProvider)
	catalog := new(MockCatalog)
	tokens.On("Token", mock.Anything).Return("tok", nil)
	catalog.On("SearchPlaylists", mock.Anything, "tok", mock.Anything, 2).Return(nil, spotify.ErrServer)

	newTestPlaylistService(tokens, catalog, 1).Search(context.Background(), []string{"lofi"}, "Dune")

	tokens.AssertNotCalled(t, "Invalidate")
}

func TestPlaylistService_Search_NoHits(t *testing.T) {
	tokens := new(MockTokenProvider)
	catalog := new(MockCatalog)
	tokens.On("Token", mock.Anything).Return("tok", nil)
	catalog.On("SearchPlaylists", mock.Anything, "tok", mock.Anything, 2).Return([]spotify.Playlist{}, nil)

	got := newTestPlaylistService(tokens, catalog, 1).Search(context.Background(), []string{"lofi"}, "Dune")

	assert.Equal(t, []PlaylistEntry{{Name: NoPlaylistsName, URL: PlaceholderURL}}, got)
}

func TestPlaylistService_Search_OrderAndPartialFailure(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		t.Run("concurrency", func(t *testing.T) {
			tokens := new(MockTokenProvider)
			catalog := new(MockCatalog)
			tokens.On("Token", mock.Anything).Return("tok", nil)

			// The first mood answers last; order must still follow the queries.
			catalog.On("SearchPlaylists", mock.Anything, "tok", "synthwave", 2).
				After(30*time.Millisecond).
				Return([]spotify.Playlist{{Name: "S1", URL: "u/s1"}, {Name: "S2", URL: "u/s2"}}, nil)
			catalog.On("SearchPlaylists", mock.Anything, "tok", "futuristic ambient", 2).
				Return(nil, spotify.ErrServer)
			catalog.On("SearchPlaylists", mock.Anything, "tok", "cyberpunk", 2).
				Return([]spotify.Playlist{{Name: "C1", URL: "u/c1"}}, nil)
			catalog.On("SearchPlaylists", mock.Anything, "tok", "Reading Dune", 2).
				Return([]spotify.Playlist{{Name: "R1", URL: "u/r1"}, {Name: "R2", URL: "u/r2"}}, nil)

			got := newTestPlaylistService(tokens, catalog, concurrency).Search(
				context.Background(),
				[]string{"synthwave", "futuristic ambient", "cyberpunk"},
				"Dune",
			)

			assert.Equal(t, []PlaylistEntry{
				{Name: "S1", URL: "u/s1"},
				{Name: "S2", URL: "u/s2"},
				{Name: "C1", URL: "u/c1"},
				{Name: "R1", URL: "u/r1"},
				{Name: "R2", URL: "u/r2"},
			}, got)
			catalog.AssertNumberOfCalls(t, "SearchPlaylists", 4)
		})
	}
}

type slowCatalog struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (c *slowCatalog) SearchPlaylists(ctx context.Context, _, query string, _ int) ([]spotify.Playlist, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	select {
	case <-time.After(20 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []spotify.Playlist{{Name: query, URL: "u"}}, nil
}

func TestPlaylistService_Search_BoundedConcurrency(t *testing.T) {
	tokens := new(MockTokenProvider)
	tokens.On("Token", mock.Anything).Return("tok", nil)
	catalog := &slowCatalog{}

	moods := []string{"a", "b", "c", "d", "e", "f", "g"}
	got := newTestPlaylistService(tokens, catalog, 2).Search(context.Background(), moods, "Dune")

	assert.Len(t, got, 8)
	assert.LessOrEqual(t, catalog.peak.Load(), int32(2))
}

type hangingCatalog struct{}

func (hangingCatalog) SearchPlaylists(ctx context.Context, _, query string, _ int) ([]spotify.Playlist, error) {
	if query == "stuck" {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return []spotify.Playlist{{Name: query, URL: "u"}}, nil
}

func TestPlaylistService_Search_QueryTimeoutIsPerQuery(t *testing.T) {
	tokens := new(MockTokenProvider)
	tokens.On("Token", mock.Anything).Return("tok", nil)

	svc := NewPlaylistService(tokens, hangingCatalog{}, PlaylistSearchConfig{
		Concurrency:  4,
		QueryTimeout: 50 * time.Millisecond,
	}, slog.New(slog.DiscardHandler))

	got := svc.Search(context.Background(), []string{"stuck", "lofi"}, "Dune")

	assert.Equal(t, []PlaylistEntry{
		{Name: "lofi", URL: "u"},
		{Name: "Reading Dune", URL: "u"},
	}, got)
}
