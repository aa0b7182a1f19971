// Package di provides dependency injection configuration for the moodshelf server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/moodshelf/internal/classifier"
	"github.com/listenupapp/moodshelf/internal/config"
	"github.com/listenupapp/moodshelf/internal/di/providers"
	"github.com/listenupapp/moodshelf/internal/genre"
	"github.com/listenupapp/moodshelf/internal/metadata/googlebooks"
	"github.com/listenupapp/moodshelf/internal/metadata/spotify"
	"github.com/listenupapp/moodshelf/internal/ratelimit"
	"github.com/listenupapp/moodshelf/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideGenreTables)
	do.Provide(injector, providers.ProvideRateLimiter)

	// Upstream clients
	do.Provide(injector, providers.ProvideGoogleBooksClient)
	do.Provide(injector, providers.ProvideSpotifyAuthenticator)
	do.Provide(injector, providers.ProvideSpotifyClient)

	// Classifiers
	do.Provide(injector, providers.ProvideTitleClassifier)
	do.Provide(injector, providers.ProvideZeroShotClient)

	// Business services
	do.Provide(injector, providers.ProvidePlaylistService)
	do.Provide(injector, providers.ProvideRecommendationService)

	// Workers
	do.Provide(injector, providers.ProvideModelWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.LoggerHandle](injector)
	if _, err := do.Invoke[*genre.Tables](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*ratelimit.KeyedRateLimiter](injector)

	_ = do.MustInvoke[*googlebooks.Client](injector)
	_ = do.MustInvoke[*spotify.Authenticator](injector)
	_ = do.MustInvoke[*spotify.BreakerClient](injector)

	// A bad model file fails startup here rather than on the first request.
	if _, err := do.Invoke[*classifier.NaiveBayes](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*classifier.ZeroShotClient](injector)

	_ = do.MustInvoke[*service.PlaylistService](injector)
	_ = do.MustInvoke[*service.RecommendationService](injector)

	// Workers
	_ = do.MustInvoke[*providers.ModelWatcherHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
