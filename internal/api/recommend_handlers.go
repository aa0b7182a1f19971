package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/moodshelf/internal/service"
)

// registerRecommendRoutes registers both recommendation routes. Only the
// structured route is rate limited.
func (s *Server) registerRecommendRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "recommend",
		Method:      http.MethodPost,
		Path:        "/recommend",
		Summary:     "Recommend playlists",
		Description: "Returns a plain-text report of genres, moods and playlists for a book title",
		Tags:        []string{"Recommendations"},
	}, s.handleRecommend)

	huma.Register(s.api, huma.Operation{
		OperationID: "createRecommendation",
		Method:      http.MethodPost,
		Path:        "/api/v1/recommendations",
		Summary:     "Create recommendation",
		Description: "Runs the same pipeline as /recommend and returns structured fields",
		Tags:        []string{"Recommendations"},
		Middlewares: s.rateLimit(),
	}, s.handleCreateRecommendation)
}

// RecommendInput is the request body shared by both recommendation routes.
type RecommendInput struct {
	Body struct {
		Title string `json:"title" doc:"Book title" example:"Dune"`
	}
}

// MessageResponse holds the rendered report.
type MessageResponse struct {
	Message string `json:"message" doc:"Multi-line recommendation report"`
}

// MessageOutput wraps the report for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// RecommendationOutput wraps a structured recommendation for Huma.
type RecommendationOutput struct {
	Body *service.Recommendation
}

func (s *Server) handleRecommend(ctx context.Context, input *RecommendInput) (*MessageOutput, error) {
	rec, err := s.services.Recommendation.Recommend(ctx, input.Body.Title)
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &MessageOutput{Body: MessageResponse{Message: rec.Message()}}, nil
}

func (s *Server) handleCreateRecommendation(ctx context.Context, input *RecommendInput) (*RecommendationOutput, error) {
	rec, err := s.services.Recommendation.Recommend(ctx, input.Body.Title)
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &RecommendationOutput{Body: rec}, nil
}
