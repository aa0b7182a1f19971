// Package classifier provides the two genre classifiers behind a
// recommendation: a statistical title model and a zero-shot text model.
package classifier

import (
	"context"
	"errors"
)

// Sentinel errors shared by both classifiers.
var (
	ErrEmptyResult  = errors.New("classifier: empty result")
	ErrNoInput      = errors.New("classifier: no input")
	ErrInvalidModel = errors.New("classifier: invalid model")
)

// TitleClassifier predicts one genre label per input title.
type TitleClassifier interface {
	Predict(ctx context.Context, titles []string) ([]string, error)
}

// TextClassifier ranks candidate labels by relevance to text.
type TextClassifier interface {
	Classify(ctx context.Context, text string, labels []string) (*ZeroShotResult, error)
}

// ZeroShotResult is a ranking of candidate labels, best first.
// Labels and Scores are parallel slices.
type ZeroShotResult struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// Top returns the best-ranked label.
func (r *ZeroShotResult) Top() (string, error) {
	if r == nil || len(r.Labels) == 0 {
		return "", ErrEmptyResult
	}
	return r.Labels[0], nil
}

// LabelSet reports whether a label belongs to the genre universe.
type LabelSet interface {
	Known(genre string) bool
}
