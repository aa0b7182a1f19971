package service

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Books descriptions are sometimes publisher HTML (<p>, <b>, <i>, <br>).
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// DescriptionMarkdown renders an HTML description as Markdown for display.
// Descriptions without markup return "" so clients fall back to Summary.
func DescriptionMarkdown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !containsHTML(s) {
		return ""
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(markdown)
}
