package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/listenupapp/moodshelf/internal/api"
	"github.com/listenupapp/moodshelf/internal/classifier"
	"github.com/listenupapp/moodshelf/internal/config"
	"github.com/listenupapp/moodshelf/internal/genre"
	"github.com/listenupapp/moodshelf/internal/metadata/spotify"
	"github.com/listenupapp/moodshelf/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)

	model := do.MustInvoke[*classifier.NaiveBayes](i)
	zeroShot := do.MustInvoke[*classifier.ZeroShotClient](i)
	auth := do.MustInvoke[*spotify.Authenticator](i)
	spotifyClient := do.MustInvoke[*spotify.BreakerClient](i)

	services := &api.Services{
		Recommendation: do.MustInvoke[*service.RecommendationService](i),
		Genres:         do.MustInvoke[*genre.Tables](i),
		Health: api.HealthSources{
			Model:              model,
			SpotifyCredentials: auth.HasCredentials(),
			Breakers: map[string]func() string{
				"spotify":  spotifyClient.State,
				"zeroshot": zeroShot.BreakerState,
			},
		},
	}

	handler := api.NewServer(services, api.Options{
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
	}, log.Component("http").Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
