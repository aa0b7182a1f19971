// Package id generates prefixed NanoID identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the identifiers moodshelf hands out.
const (
	PrefixRecommendation = "rec"
	PrefixRequest        = "req"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "rec-V1StGXR8_Z5jdHi6B-myT").
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// Recommendation returns an ID for a recommendation. Entropy failure is not
// worth failing a request over, so it degrades to a fixed marker.
func Recommendation() string {
	id, err := Generate(PrefixRecommendation)
	if err != nil {
		return PrefixRecommendation + "-unknown"
	}
	return id
}
