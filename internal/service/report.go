package service

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// SummaryLimit is the number of characters of the summary shown in a report.
const SummaryLimit = 250

// DefaultWebURL is the public Spotify web player.
const DefaultWebURL = "https://open.spotify.com"

// Recommendation is the outcome of one recommendation request.
type Recommendation struct {
	ID               string          `json:"id" doc:"Recommendation ID"`
	Title            string          `json:"title" doc:"Trimmed book title"`
	Summary          string          `json:"summary" doc:"Full book description; empty when none was found"`
	SummaryTruncated string          `json:"summaryTruncated" doc:"Description shortened for display"`
	SummaryMarkdown  string          `json:"summaryMarkdown,omitempty" doc:"Description with publisher HTML rendered as Markdown"`
	ZeroShotGenre    string          `json:"zeroShotGenre" doc:"Top label of the zero-shot classifier"`
	ModelGenre       string          `json:"modelGenre" doc:"Label of the title classifier"`
	Genres           []string        `json:"genres" doc:"Distinct candidate genres, title classifier first"`
	PrimaryGenre     string          `json:"primaryGenre" doc:"Genre chosen by priority"`
	Moods            []string        `json:"moods" doc:"Mood keywords for the primary genre"`
	Playlists        []PlaylistEntry `json:"playlists" doc:"Playlist suggestions, never empty"`
	Fallback         PlaylistEntry   `json:"fallback" doc:"Web search link for the title"`
}

// TruncateSummary shortens s to SummaryLimit characters followed by "...".
// Shorter strings are returned unchanged.
func TruncateSummary(s string) string {
	if utf8.RuneCountInString(s) <= SummaryLimit {
		return s
	}
	runes := []rune(s)
	return string(runes[:SummaryLimit]) + "..."
}

// FallbackLink returns the web search entry for "Reading <title>".
func FallbackLink(webURL, title string) PlaylistEntry {
	if webURL == "" {
		webURL = DefaultWebURL
	}
	query := ReadingQuery(title)
	return PlaylistEntry{
		Name: query,
		URL:  strings.TrimRight(webURL, "/") + "/search/" + url.PathEscape(query),
	}
}

// Message renders the plain-text report returned by POST /recommend.
func (r *Recommendation) Message() string {
	var b strings.Builder

	b.WriteString("📘 Enter the book title: " + r.Title + "\n")
	b.WriteString("\n")
	b.WriteString("📖 Title Match: " + r.Title + "\n")
	b.WriteString("📝 Summary: " + r.SummaryTruncated + "\n")
	b.WriteString("\n")
	b.WriteString("🤖 Zero-shot Genre: " + r.ZeroShotGenre + "\n")
	b.WriteString("🌟 Trained Model Genre: " + r.ModelGenre + "\n")
	b.WriteString("\n")
	b.WriteString("🌟 Final Genre(s): " + setLiteral(r.Genres) + "\n")
	b.WriteString("\n")
	b.WriteString("🎵 Music moods based on genre: " + r.PrimaryGenre + " → " + strings.Join(r.Moods, ", ") + "\n")
	b.WriteString("\n")
	b.WriteString("🎷 Suggested Playlists:\n")
	for i, p := range r.Playlists {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• " + p.Name + " : " + p.URL)
	}
	b.WriteString("\n")
	b.WriteString("\n")
	b.WriteString("🔎 Searching Spotify for playlists titled like: " + r.Fallback.Name + "\n")
	b.WriteString("• " + r.Fallback.Name + " : " + r.Fallback.URL + "\n")

	return b.String()
}

// setLiteral formats labels as a set literal, e.g. {'Horror', 'Romance'}.
func setLiteral(labels []string) string {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = quoteLabel(l)
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}

// quoteLabel single-quotes s, switching to double quotes when s contains a
// single quote and no double quote.
func quoteLabel(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteByte(quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
