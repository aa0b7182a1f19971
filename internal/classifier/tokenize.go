package classifier

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// A token is a run of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// tokenize normalizes text (NFKC, case folded) and returns its word n-grams
// for n in [1, ngramMax], unigrams first.
func tokenize(text string, ngramMax int) []string {
	folded := cases.Fold().String(norm.NFKC.String(text))
	words := tokenPattern.FindAllString(folded, -1)
	if ngramMax <= 1 || len(words) < 2 {
		return words
	}

	out := make([]string, 0, len(words)*ngramMax)
	out = append(out, words...)
	for n := 2; n <= ngramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			out = append(out, strings.Join(words[i:i+n], " "))
		}
	}
	return out
}
