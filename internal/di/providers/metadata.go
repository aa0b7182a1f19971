package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/moodshelf/internal/classifier"
	"github.com/listenupapp/moodshelf/internal/config"
	"github.com/listenupapp/moodshelf/internal/metadata/googlebooks"
	"github.com/listenupapp/moodshelf/internal/metadata/spotify"
	"github.com/listenupapp/moodshelf/internal/ratelimit"
)

// Outbound request budgets per upstream.
var (
	defaultUpstreamLimit = ratelimit.Limit{RPS: 5, Burst: 10}
	googleBooksLimit     = ratelimit.Limit{RPS: 2, Burst: 5}
	spotifyLimit         = ratelimit.Limit{RPS: 10, Burst: 10}
	zeroShotLimit        = ratelimit.Limit{RPS: 1, Burst: 3}
)

// ProvideRateLimiter provides the outbound rate limiter shared by every
// upstream client, keyed by upstream name.
func ProvideRateLimiter(i do.Injector) (*ratelimit.KeyedRateLimiter, error) {
	return ratelimit.New(defaultUpstreamLimit.RPS, defaultUpstreamLimit.Burst,
		ratelimit.WithLimit(googlebooks.LimiterKey, googleBooksLimit),
		ratelimit.WithLimit(spotify.LimiterKey, spotifyLimit),
		ratelimit.WithLimit(classifier.ZeroShotLimiterKey, zeroShotLimit),
	), nil
}

// ProvideGoogleBooksClient provides the book description client.
func ProvideGoogleBooksClient(i do.Injector) (*googlebooks.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	limiter := do.MustInvoke[*ratelimit.KeyedRateLimiter](i)

	client := googlebooks.New(googlebooks.Config{
		BaseURL: cfg.Books.BaseURL,
		APIKey:  cfg.Books.APIKey,
		Timeout: cfg.Books.Timeout,
	}, limiter, log.Component("googlebooks").Logger)

	log.Info("Google Books client initialized", "base_url", cfg.Books.BaseURL, "api_key", cfg.Books.APIKey != "")
	return client, nil
}

// ProvideSpotifyAuthenticator provides the client-credentials token source.
func ProvideSpotifyAuthenticator(i do.Injector) (*spotify.Authenticator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)

	return spotify.NewAuthenticator(
		cfg.Spotify.ClientID,
		cfg.Spotify.ClientSecret,
		cfg.Spotify.TokenURL,
		cfg.Spotify.SearchTimeout,
		log.Component("spotify").Logger,
	), nil
}

// ProvideSpotifyClient provides the playlist search client behind a circuit breaker.
func ProvideSpotifyClient(i do.Injector) (*spotify.BreakerClient, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	limiter := do.MustInvoke[*ratelimit.KeyedRateLimiter](i)

	spotifyLog := log.Component("spotify").Logger
	client := spotify.New(cfg.Spotify.APIURL, cfg.Spotify.SearchTimeout, limiter, spotifyLog)

	log.Info("Spotify client initialized", "api_url", cfg.Spotify.APIURL)
	return spotify.NewBreakerClient(client, spotifyLog), nil
}
