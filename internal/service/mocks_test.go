package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/listenupapp/moodshelf/internal/classifier"
	"github.com/listenupapp/moodshelf/internal/metadata/spotify"
)

type MockTokenProvider struct {
	mock.Mock
}

func (m *MockTokenProvider) Token(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTokenProvider) Invalidate() {
	m.Called()
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) SearchPlaylists(ctx context.Context, token, query string, limit int) ([]spotify.Playlist, error) {
	args := m.Called(ctx, token, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]spotify.Playlist), args.Error(1)
}

type MockDescriptionFetcher struct {
	mock.Mock
}

func (m *MockDescriptionFetcher) FetchDescription(ctx context.Context, title string) (string, error) {
	args := m.Called(ctx, title)
	return args.String(0), args.Error(1)
}

type MockTitleClassifier struct {
	mock.Mock
}

func (m *MockTitleClassifier) Predict(ctx context.Context, titles []string) ([]string, error) {
	args := m.Called(ctx, titles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockTextClassifier struct {
	mock.Mock
}

func (m *MockTextClassifier) Classify(ctx context.Context, text string, labels []string) (*classifier.ZeroShotResult, error) {
	args := m.Called(ctx, text, labels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classifier.ZeroShotResult), args.Error(1)
}

type MockPlaylistSearcher struct {
	mock.Mock
}

func (m *MockPlaylistSearcher) Search(ctx context.Context, moods []string, title string) []PlaylistEntry {
	args := m.Called(ctx, moods, title)
	return args.Get(0).([]PlaylistEntry)
}
