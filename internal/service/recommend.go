package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/listenupapp/moodshelf/internal/classifier"
	"github.com/listenupapp/moodshelf/internal/errors"
	"github.com/listenupapp/moodshelf/internal/genre"
	"github.com/listenupapp/moodshelf/internal/id"
	"github.com/listenupapp/moodshelf/internal/metrics"
)

// DescriptionFetcher looks up a book description by title.
type DescriptionFetcher interface {
	FetchDescription(ctx context.Context, title string) (string, error)
}

// PlaylistSearcher finds playlists for moods and a title. It never returns
// an empty list.
type PlaylistSearcher interface {
	Search(ctx context.Context, moods []string, title string) []PlaylistEntry
}

// RecommendationService turns a book title into a playlist recommendation.
type RecommendationService struct {
	tables     *genre.Tables
	books      DescriptionFetcher
	titleModel classifier.TitleClassifier
	zeroShot   classifier.TextClassifier
	playlists  PlaylistSearcher
	webURL     string
	logger     *slog.Logger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(
	tables *genre.Tables,
	books DescriptionFetcher,
	titleModel classifier.TitleClassifier,
	zeroShot classifier.TextClassifier,
	playlists PlaylistSearcher,
	webURL string,
	logger *slog.Logger,
) *RecommendationService {
	return &RecommendationService{
		tables:     tables,
		books:      books,
		titleModel: titleModel,
		zeroShot:   zeroShot,
		playlists:  playlists,
		webURL:     webURL,
		logger:     logger,
	}
}

// Recommend runs the full pipeline for title.
//
// Any title is accepted, including an empty one. The description lookup
// never fails the request: a missing description is classified as empty
// text. Either classifier failing does.
func (s *RecommendationService) Recommend(ctx context.Context, title string) (*Recommendation, error) {
	title = strings.TrimSpace(title)

	recID := id.Recommendation()
	log := s.logger.With("recommendation_id", recID, "title", title)

	summary, err := s.books.FetchDescription(ctx, title)
	if err != nil {
		log.Info("no book description, continuing with empty summary", "error", err)
		summary = ""
	}

	predicted, err := s.titleModel.Predict(ctx, []string{title})
	if err != nil {
		metrics.RecordRecommendationFailure("classify")
		return nil, errors.Wrap(err, errors.CodeUpstream, "title classification failed")
	}
	if len(predicted) == 0 {
		metrics.RecordRecommendationFailure("classify")
		return nil, errors.Wrap(classifier.ErrEmptyResult, errors.CodeUpstream, "title classification failed")
	}
	modelGenre := predicted[0]

	ranked, err := s.zeroShot.Classify(ctx, summary, s.tables.Labels())
	if err != nil {
		metrics.RecordRecommendationFailure("classify")
		return nil, errors.Wrap(err, errors.CodeUpstream, "zero-shot classification failed")
	}
	zeroShotGenre, err := ranked.Top()
	if err != nil {
		metrics.RecordRecommendationFailure("classify")
		return nil, errors.Wrap(err, errors.CodeUpstream, "zero-shot classification failed")
	}

	candidates := genre.Candidates(modelGenre, zeroShotGenre)
	primary, err := s.tables.Resolve(candidates)
	if err != nil {
		metrics.RecordRecommendationFailure("resolve")
		return nil, errors.Wrap(err, errors.CodeUpstream, "classifiers returned no genre")
	}
	moods := s.tables.Moods(primary)

	log.Info("genre resolved",
		"model_genre", modelGenre,
		"zero_shot_genre", zeroShotGenre,
		"primary_genre", primary,
	)

	playlists := s.playlists.Search(ctx, moods, title)
	metrics.RecordRecommendation(primary)

	return &Recommendation{
		ID:               recID,
		Title:            title,
		Summary:          summary,
		SummaryTruncated: TruncateSummary(summary),
		SummaryMarkdown:  DescriptionMarkdown(summary),
		ZeroShotGenre:    zeroShotGenre,
		ModelGenre:       modelGenre,
		Genres:           candidates,
		PrimaryGenre:     primary,
		Moods:            moods,
		Playlists:        playlists,
		Fallback:         FallbackLink(s.webURL, title),
	}, nil
}
