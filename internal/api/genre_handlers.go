package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/moodshelf/internal/genre"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Returns every genre label with its moods and priority",
		Tags:        []string{"Genres"},
	}, s.handleListGenres)
}

// GenreResponse describes one genre label.
type GenreResponse struct {
	Name     string   `json:"name" doc:"Genre label"`
	Slug     string   `json:"slug" doc:"URL-safe form of the label"`
	Moods    []string `json:"moods" doc:"Playlist search keywords"`
	Priority int      `json:"priority,omitempty" doc:"Resolution rank, lower wins; omitted when unranked"`
}

// ListGenresResponse contains the genre table.
type ListGenresResponse struct {
	Genres       []GenreResponse `json:"genres" doc:"Genres in table order"`
	DefaultMoods []string        `json:"defaultMoods" doc:"Moods used for labels outside the table"`
}

// ListGenresOutput wraps the genre table for Huma.
type ListGenresOutput struct {
	Body ListGenresResponse
}

func (s *Server) handleListGenres(_ context.Context, _ *struct{}) (*ListGenresOutput, error) {
	tables := s.services.Genres
	labels := tables.Labels()

	resp := make([]GenreResponse, len(labels))
	for i, name := range labels {
		g := GenreResponse{
			Name:  name,
			Slug:  genre.Slugify(name),
			Moods: tables.Moods(name),
		}
		if tables.Ranked(name) {
			g.Priority = tables.Rank(name)
		}
		resp[i] = g
	}

	return &ListGenresOutput{Body: ListGenresResponse{
		Genres:       resp,
		DefaultMoods: tables.DefaultMoods(),
	}}, nil
}
