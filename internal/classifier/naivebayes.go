package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"os"
	"slices"
	"sync/atomic"

	"github.com/goccy/go-json"

	"github.com/listenupapp/moodshelf/internal/metrics"
)

// Model is the exported state of a count-vectorizer plus multinomial naive
// Bayes pipeline.
type Model struct {
	Classes        []string       `json:"classes"`
	ClassLogPrior  []float64      `json:"class_log_prior"`
	Vocabulary     map[string]int `json:"vocabulary"`
	FeatureLogProb [][]float64    `json:"feature_log_prob"`
	NgramMax       int            `json:"ngram_max"`
}

// Validate checks the model's dimensions agree.
func (m *Model) Validate() error {
	if len(m.Classes) == 0 {
		return fmt.Errorf("%w: no classes", ErrInvalidModel)
	}
	if len(m.ClassLogPrior) != len(m.Classes) {
		return fmt.Errorf("%w: %d priors for %d classes", ErrInvalidModel, len(m.ClassLogPrior), len(m.Classes))
	}
	if len(m.FeatureLogProb) != len(m.Classes) {
		return fmt.Errorf("%w: %d feature rows for %d classes", ErrInvalidModel, len(m.FeatureLogProb), len(m.Classes))
	}
	features := len(m.Vocabulary)
	for i, row := range m.FeatureLogProb {
		if len(row) != features {
			return fmt.Errorf("%w: class %q has %d features, vocabulary has %d", ErrInvalidModel, m.Classes[i], len(row), features)
		}
	}
	for tok, idx := range m.Vocabulary {
		if idx < 0 || idx >= features {
			return fmt.Errorf("%w: token %q index %d out of range", ErrInvalidModel, tok, idx)
		}
	}
	if m.NgramMax < 0 {
		return fmt.Errorf("%w: negative ngram_max", ErrInvalidModel)
	}
	return nil
}

// predict returns the highest scoring class. Ties go to the lower class index.
func (m *Model) predict(title string) string {
	counts := make(map[int]int)
	for _, tok := range tokenize(title, m.NgramMax) {
		if idx, ok := m.Vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	// Summed in feature index order, independent of map iteration.
	features := slices.Sorted(maps.Keys(counts))

	best, bestScore := 0, math.Inf(-1)
	for c := range m.Classes {
		var likelihood float64
		for _, idx := range features {
			likelihood += float64(counts[idx]) * m.FeatureLogProb[c][idx]
		}
		if score := m.ClassLogPrior[c] + likelihood; score > bestScore {
			best, bestScore = c, score
		}
	}
	return m.Classes[best]
}

// LoadModel reads and validates a model file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// NaiveBayes is a TitleClassifier backed by a model file. The model can be
// swapped at runtime with Reload; in-flight predictions keep the model they
// started with.
type NaiveBayes struct {
	path   string
	labels LabelSet
	logger *slog.Logger
	model  atomic.Pointer[Model]
}

// NewNaiveBayes loads the model at path. Classes missing from labels are
// logged; they still resolve, as unranked genres with default moods.
func NewNaiveBayes(path string, labels LabelSet, logger *slog.Logger) (*NaiveBayes, error) {
	nb := &NaiveBayes{path: path, labels: labels, logger: logger}
	if err := nb.Reload(); err != nil {
		return nil, err
	}
	return nb, nil
}

// Reload re-reads the model file. On error the current model stays active.
func (nb *NaiveBayes) Reload() error {
	m, err := LoadModel(nb.path)
	metrics.RecordModelReload(err)
	if err != nil {
		return fmt.Errorf("load model %s: %w", nb.path, err)
	}

	if nb.labels != nil {
		for _, c := range m.Classes {
			if !nb.labels.Known(c) {
				nb.logger.Warn("model class not in genre table", "class", c)
			}
		}
	}

	nb.model.Store(m)
	nb.logger.Info("title model loaded",
		"path", nb.path,
		"classes", len(m.Classes),
		"vocabulary", len(m.Vocabulary),
	)
	return nil
}

// Predict returns one label per title.
func (nb *NaiveBayes) Predict(ctx context.Context, titles []string) ([]string, error) {
	if len(titles) == 0 {
		return nil, ErrNoInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := nb.model.Load()
	out := make([]string, len(titles))
	for i, t := range titles {
		out[i] = m.predict(t)
	}
	return out, nil
}

// Classes returns the labels the current model can produce.
func (nb *NaiveBayes) Classes() []string {
	return slices.Clone(nb.model.Load().Classes)
}

// Path returns the model file path.
func (nb *NaiveBayes) Path() string {
	return nb.path
}
