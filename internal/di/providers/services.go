package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/moodshelf/internal/classifier"
	"github.com/listenupapp/moodshelf/internal/config"
	"github.com/listenupapp/moodshelf/internal/genre"
	"github.com/listenupapp/moodshelf/internal/metadata/googlebooks"
	"github.com/listenupapp/moodshelf/internal/metadata/spotify"
	"github.com/listenupapp/moodshelf/internal/service"
)

// ProvidePlaylistService provides the playlist search aggregator.
func ProvidePlaylistService(i do.Injector) (*service.PlaylistService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	auth := do.MustInvoke[*spotify.Authenticator](i)
	client := do.MustInvoke[*spotify.BreakerClient](i)

	return service.NewPlaylistService(auth, client, service.PlaylistSearchConfig{
		Concurrency:  cfg.Spotify.SearchConcurrency,
		QueryTimeout: cfg.Spotify.SearchTimeout,
	}, log.Component("playlists").Logger), nil
}

// ProvideRecommendationService provides the recommendation orchestrator.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)

	return service.NewRecommendationService(
		do.MustInvoke[*genre.Tables](i),
		do.MustInvoke[*googlebooks.Client](i),
		do.MustInvoke[*classifier.NaiveBayes](i),
		do.MustInvoke[*classifier.ZeroShotClient](i),
		do.MustInvoke[*service.PlaylistService](i),
		cfg.Spotify.WebURL,
		log.Component("recommend").Logger,
	), nil
}
