package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/listenupapp/moodshelf/internal/metadata/spotify"
	"github.com/listenupapp/moodshelf/internal/metrics"
)

// Placeholder entries returned instead of an empty playlist list.
const (
	NoTokenName     = "No token available"
	NoPlaylistsName = "No playlists found"
	PlaceholderURL  = "#"
)

const (
	// Hits kept per query.
	searchLimit = 2

	defaultSearchConcurrency = 4
	defaultQueryTimeout      = 8 * time.Second
)

// PlaylistEntry is one playlist in a recommendation.
type PlaylistEntry struct {
	Name string `json:"name" doc:"Playlist name"`
	URL  string `json:"url" doc:"Playlist URL, or # for a placeholder"`
}

// TokenProvider issues bearer tokens for the playlist catalog.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	// Invalidate drops a cached token the catalog has rejected.
	Invalidate()
}

// PlaylistCatalog searches playlists by free-text query.
type PlaylistCatalog interface {
	SearchPlaylists(ctx context.Context, token, query string, limit int) ([]spotify.Playlist, error)
}

// PlaylistSearchConfig tunes the search fan-out.
type PlaylistSearchConfig struct {
	// Concurrency bounds in-flight queries. 1 searches sequentially.
	Concurrency int
	// QueryTimeout bounds each query on its own.
	QueryTimeout time.Duration
}

// PlaylistService searches playlists for a set of moods and a book title.
type PlaylistService struct {
	tokens  TokenProvider
	catalog PlaylistCatalog
	cfg     PlaylistSearchConfig
	logger  *slog.Logger
}

// NewPlaylistService creates a new playlist service.
func NewPlaylistService(tokens TokenProvider, catalog PlaylistCatalog, cfg PlaylistSearchConfig, logger *slog.Logger) *PlaylistService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = defaultSearchConcurrency
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = defaultQueryTimeout
	}
	return &PlaylistService{
		tokens:  tokens,
		catalog: catalog,
		cfg:     cfg,
		logger:  logger,
	}
}

// SearchQueries returns the queries issued for moods and title: one per
// mood, in order, then "Reading <title>".
func SearchQueries(moods []string, title string) []string {
	queries := make([]string, 0, len(moods)+1)
	queries = append(queries, moods...)
	return append(queries, ReadingQuery(title))
}

// ReadingQuery is the title-based search phrase.
func ReadingQuery(title string) string {
	return "Reading " + title
}

// Search returns playlists for every mood and then for the title, in that
// order. The result is never empty: a token failure yields a single
// "No token available" entry without searching, and no hits at all yield a
// single "No playlists found" entry. Failed queries are logged and skipped.
func (s *PlaylistService) Search(ctx context.Context, moods []string, title string) []PlaylistEntry {
	token, err := s.tokens.Token(ctx)
	if err != nil || token == "" {
		s.logger.Warn("playlist search skipped: no catalog token", "error", err)
		metrics.RecordPlaceholder("no_token")
		return []PlaylistEntry{{Name: NoTokenName, URL: PlaceholderURL}}
	}

	queries := SearchQueries(moods, title)
	slots := make([][]PlaylistEntry, len(queries))

	sem := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				s.logger.Warn("playlist search skipped", "query", q, "error", ctx.Err())
				return
			}
			defer func() { <-sem }()

			slots[i] = s.searchOne(ctx, token, q)
		}()
	}
	wg.Wait()

	var playlists []PlaylistEntry
	for _, slot := range slots {
		playlists = append(playlists, slot...)
	}

	if len(playlists) == 0 {
		metrics.RecordPlaceholder("no_results")
		return []PlaylistEntry{{Name: NoPlaylistsName, URL: PlaceholderURL}}
	}
	return playlists
}

// searchOne runs a single query under its own timeout. Failures return nil.
func (s *PlaylistService) searchOne(ctx context.Context, token, query string) []PlaylistEntry {
	qctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	s.logger.Debug("searching playlists", "query", query)
	hits, err := s.catalog.SearchPlaylists(qctx, token, query, searchLimit)
	if err != nil {
		if errors.Is(err, spotify.ErrUnauthorized) {
			s.tokens.Invalidate()
		}
		s.logger.Warn("playlist search failed", "query", query, "error", err)
		return nil
	}

	entries := make([]PlaylistEntry, 0, len(hits))
	for _, h := range hits {
		entries = append(entries, PlaylistEntry{Name: h.Name, URL: h.URL})
	}
	return entries
}
