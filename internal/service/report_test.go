package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateSummary(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"short", "A desert planet.", "A desert planet."},
		{"exactly at limit", strings.Repeat("a", 250), strings.Repeat("a", 250)},
		{"one over limit", strings.Repeat("a", 251), strings.Repeat("a", 250) + "..."},
		{"counts characters not bytes", strings.Repeat("é", 251), strings.Repeat("é", 250) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateSummary(tt.input))
		})
	}
}

func TestTruncateSummary_LongInputLength(t *testing.T) {
	got := TruncateSummary(strings.Repeat("x", 1000))
	assert.Equal(t, 253, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestFallbackLink(t *testing.T) {
	tests := []struct {
		webURL string
		title  string
		want   PlaylistEntry
	}{
		{"", "Dune", PlaylistEntry{Name: "Reading Dune", URL: "https://open.spotify.com/search/Reading%20Dune"}},
		{"https://open.spotify.com/", "The Shining", PlaylistEntry{Name: "Reading The Shining", URL: "https://open.spotify.com/search/Reading%20The%20Shining"}},
		{"http://web.test", "Cats/Dogs?", PlaylistEntry{Name: "Reading Cats/Dogs?", URL: "http://web.test/search/Reading%20Cats%2FDogs%3F"}},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackLink(tt.webURL, tt.title))
		})
	}
}

func TestSetLiteral(t *testing.T) {
	assert.Equal(t, "{'Science Fiction'}", setLiteral([]string{"Science Fiction"}))
	assert.Equal(t, "{'Horror', 'Romance'}", setLiteral([]string{"Horror", "Romance"}))
	assert.Equal(t, "{}", setLiteral(nil))
	assert.Equal(t, `{"Children's"}`, setLiteral([]string{"Children's"}))
	assert.Equal(t, `{'Say "It\'s"'}`, setLiteral([]string{`Say "It's"`}))
	assert.Equal(t, `{'a\\b'}`, setLiteral([]string{`a\b`}))
}

func TestRecommendation_Message(t *testing.T) {
	rec := &Recommendation{
		Title:            "Dune",
		SummaryTruncated: "Spice.",
		ZeroShotGenre:    "Science Fiction",
		ModelGenre:       "Science Fiction",
		Genres:           []string{"Science Fiction"},
		PrimaryGenre:     "Science Fiction",
		Moods:            []string{"synthwave", "futuristic ambient", "cyberpunk"},
		Playlists: []PlaylistEntry{
			{Name: "Synthwave Nights", URL: "https://open.spotify.com/playlist/1"},
			{Name: "Arrakis", URL: "https://open.spotify.com/playlist/2"},
		},
		Fallback: FallbackLink("", "Dune"),
	}

	want := "📘 Enter the book title: Dune\n" +
		"\n" +
		"📖 Title Match: Dune\n" +
		"📝 Summary: Spice.\n" +
		"\n" +
		"🤖 Zero-shot Genre: Science Fiction\n" +
		"🌟 Trained Model Genre: Science Fiction\n" +
		"\n" +
		"🌟 Final Genre(s): {'Science Fiction'}\n" +
		"\n" +
		"🎵 Music moods based on genre: Science Fiction → synthwave, futuristic ambient, cyberpunk\n" +
		"\n" +
		"🎷 Suggested Playlists:\n" +
		"• Synthwave Nights : https://open.spotify.com/playlist/1\n" +
		"• Arrakis : https://open.spotify.com/playlist/2\n" +
		"\n" +
		"🔎 Searching Spotify for playlists titled like: Reading Dune\n" +
		"• Reading Dune : https://open.spotify.com/search/Reading%20Dune\n"

	assert.Equal(t, want, rec.Message())
}

func TestRecommendation_Message_Placeholder(t *testing.T) {
	rec := &Recommendation{
		Title:     "Dune",
		Genres:    []string{"Horror", "Romance"},
		Playlists: []PlaylistEntry{{Name: NoTokenName, URL: PlaceholderURL}},
		Fallback:  FallbackLink("", "Dune"),
	}

	msg := rec.Message()
	assert.Contains(t, msg, "🌟 Final Genre(s): {'Horror', 'Romance'}\n")
	assert.Contains(t, msg, "🎷 Suggested Playlists:\n• No token available : #\n")
	assert.Contains(t, msg, "📝 Summary: \n")
}
