// Package genre provides the genre-to-mood table, the genre priority ranking
// and the resolver that picks one primary genre from classifier candidates.
package genre

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrNoCandidates is returned when Resolve is called with nothing to resolve.
var ErrNoCandidates = errors.New("genre: no candidates to resolve")

// Tables holds the mood and priority tables. It is immutable once built and
// safe for concurrent use.
type Tables struct {
	labels       []string
	moods        map[string][]string
	priorities   map[string]int
	defaultMoods []string
}

// NewTables builds tables from seeds. Seeds are validated; the order of seeds
// becomes the candidate-label order.
func NewTables(seeds []Seed, defaultMoods []string) (*Tables, error) {
	if err := validateSeeds(seeds, defaultMoods); err != nil {
		return nil, err
	}

	t := &Tables{
		labels:       make([]string, 0, len(seeds)),
		moods:        make(map[string][]string, len(seeds)),
		priorities:   make(map[string]int),
		defaultMoods: slices.Clone(defaultMoods),
	}
	for _, s := range seeds {
		t.labels = append(t.labels, s.Name)
		t.moods[s.Name] = slices.Clone(s.Moods)
		if s.Priority > 0 {
			t.priorities[s.Name] = s.Priority
		}
	}
	return t, nil
}

// DefaultTables returns the built-in tables.
func DefaultTables() *Tables {
	t, err := NewTables(DefaultSeeds, DefaultMoods)
	if err != nil {
		panic(fmt.Sprintf("genre: invalid built-in table: %v", err))
	}
	return t
}

func validateSeeds(seeds []Seed, defaultMoods []string) error {
	if len(seeds) == 0 {
		return errors.New("genre table is empty")
	}
	if len(defaultMoods) == 0 {
		return errors.New("default moods cannot be empty")
	}

	seen := make(map[string]string, len(seeds))
	for i, s := range seeds {
		if s.Name == "" {
			return fmt.Errorf("genre #%d has no name", i+1)
		}
		if len(s.Moods) == 0 {
			return fmt.Errorf("genre %q has no moods", s.Name)
		}
		if s.Priority < 0 {
			return fmt.Errorf("genre %q has negative priority %d", s.Name, s.Priority)
		}
		slug := Slugify(s.Name)
		if other, dup := seen[slug]; dup {
			return fmt.Errorf("genre %q duplicates %q", s.Name, other)
		}
		seen[slug] = s.Name
	}
	return nil
}

// Labels returns the candidate-label universe in table order.
func (t *Tables) Labels() []string {
	return slices.Clone(t.labels)
}

// Known reports whether genre has a mood mapping.
func (t *Tables) Known(genre string) bool {
	_, ok := t.moods[genre]
	return ok
}

// Moods returns the mood keywords for genre, or the default moods.
func (t *Tables) Moods(genre string) []string {
	if m, ok := t.moods[genre]; ok {
		return slices.Clone(m)
	}
	return slices.Clone(t.defaultMoods)
}

// DefaultMoods returns the fallback mood list.
func (t *Tables) DefaultMoods() []string {
	return slices.Clone(t.defaultMoods)
}

// Rank returns the priority of genre. Lower wins.
func (t *Tables) Rank(genre string) int {
	if p, ok := t.priorities[genre]; ok {
		return p
	}
	return UnrankedPriority
}

// Ranked reports whether genre has an explicit priority.
func (t *Tables) Ranked(genre string) bool {
	_, ok := t.priorities[genre]
	return ok
}

// Candidates builds the ordered, deduplicated candidate list from the
// statistical and zero-shot predictions. Empty labels are dropped.
func Candidates(model, zeroShot string) []string {
	out := make([]string, 0, 2)
	for _, g := range []string{model, zeroShot} {
		if g == "" || slices.Contains(out, g) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Resolve picks the primary genre: lowest rank wins, and equal ranks keep
// candidate order, so the earlier candidate wins a tie.
func (t *Tables) Resolve(candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}

	sorted := slices.Clone(candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return t.Rank(sorted[i]) < t.Rank(sorted[j])
	})
	return sorted[0], nil
}
