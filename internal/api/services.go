package api

import (
	"context"

	"github.com/listenupapp/moodshelf/internal/genre"
	"github.com/listenupapp/moodshelf/internal/service"
)

// Recommender runs the recommendation pipeline for one title.
type Recommender interface {
	Recommend(ctx context.Context, title string) (*service.Recommendation, error)
}

// ModelInfo describes the loaded title classifier.
type ModelInfo interface {
	Classes() []string
	Path() string
}

// Services groups everything the handlers depend on.
type Services struct {
	Recommendation Recommender
	Genres         *genre.Tables
	Health         HealthSources
}

// HealthSources feeds the health endpoint.
type HealthSources struct {
	Model              ModelInfo
	SpotifyCredentials bool
	// Breakers maps an upstream name to a function reporting its circuit
	// breaker state ("closed", "half-open" or "open").
	Breakers map[string]func() string
}
