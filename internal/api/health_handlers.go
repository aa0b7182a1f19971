package api

import (
	"context"
	"net/http"
	"slices"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// Component statuses.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := statusHealthy

	record := func(name string, h ComponentHealth) {
		components[name] = h
		switch {
		case h.Status == statusUnhealthy:
			overall = statusUnhealthy
		case h.Status == statusDegraded && overall == statusHealthy:
			overall = statusDegraded
		}
	}

	health := s.services.Health
	record("title_model", checkModel(health.Model))
	record("spotify_credentials", checkCredentials(health.SpotifyCredentials))

	names := make([]string, 0, len(health.Breakers))
	for name := range health.Breakers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		record(name+"_breaker", checkBreaker(health.Breakers[name]()))
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkModel verifies a title model is loaded.
func checkModel(model ModelInfo) ComponentHealth {
	if model == nil {
		return ComponentHealth{
			Status:  statusUnhealthy,
			Message: "title model not configured",
		}
	}

	classes := model.Classes()
	if len(classes) == 0 {
		return ComponentHealth{
			Status:  statusUnhealthy,
			Message: "title model has no classes",
		}
	}

	return ComponentHealth{
		Status:  statusHealthy,
		Message: strconv.Itoa(len(classes)) + " classes loaded from " + model.Path(),
	}
}

// checkCredentials reports playlist search as degraded without credentials:
// requests still succeed with a placeholder entry.
func checkCredentials(configured bool) ComponentHealth {
	if !configured {
		return ComponentHealth{
			Status:  statusDegraded,
			Message: "client credentials not configured",
		}
	}
	return ComponentHealth{Status: statusHealthy}
}

// checkBreaker maps a circuit breaker state to a component status.
func checkBreaker(state string) ComponentHealth {
	switch state {
	case "closed":
		return ComponentHealth{Status: statusHealthy, Message: state}
	case "half-open":
		return ComponentHealth{Status: statusDegraded, Message: state}
	default:
		return ComponentHealth{Status: statusUnhealthy, Message: state}
	}
}
