package archetype

import (
	"strings"

	"github.com/samber/lo"
)

// Bucket awards Weights to each archetype when a trait equals one of
// Keywords (case-insensitive).
type Bucket struct {
	Keywords []string
	Weights  map[Archetype]int
}

// DefaultBuckets is the built-in trait table.
var DefaultBuckets = []Bucket{
	{
		Keywords: []string{"wisdom", "listening", "peace", "empathy"},
		Weights:  map[Archetype]int{Mentor: 2, Nurturer: 1},
	},
	{
		Keywords: []string{"grit", "hard work", "drive", "confidence"},
		Weights:  map[Archetype]int{Challenger: 2, Motivator: 1},
	},
	{
		Keywords: []string{"motivation", "optimism", "hope", "believe"},
		Weights:  map[Archetype]int{Motivator: 2, Challenger: 1},
	},
	{
		Keywords: []string{"kindness", "caring", "self-care", "gratitude"},
		Weights:  map[Archetype]int{Nurturer: 2, Mentor: 1},
	},
	{
		Keywords: []string{"leadership", "teamwork", "strategy"},
		Weights:  map[Archetype]int{Strategist: 2, Challenger: 1},
	},
	{
		Keywords: []string{"creativity", "curiosity", "innovation"},
		Weights:  map[Archetype]int{Innovator: 2, Strategist: 1},
	},
}

// Matcher scores traits against a keyword table.
type Matcher struct {
	index map[string]map[Archetype]int
}

// Option configures a Matcher.
type Option func(*matcherConfig)

type matcherConfig struct {
	buckets []Bucket
}

// WithBuckets replaces the trait table. The first bucket that lists a
// keyword owns it.
func WithBuckets(buckets []Bucket) Option {
	return func(c *matcherConfig) {
		if buckets != nil {
			c.buckets = buckets
		}
	}
}

// NewMatcher builds a Matcher over DefaultBuckets unless overridden.
func NewMatcher(opts ...Option) *Matcher {
	cfg := matcherConfig{buckets: DefaultBuckets}
	for _, opt := range opts {
		opt(&cfg)
	}

	index := make(map[string]map[Archetype]int)
	for _, b := range cfg.buckets {
		for _, kw := range b.Keywords {
			key := strings.ToLower(strings.TrimSpace(kw))
			if _, taken := index[key]; taken {
				continue
			}
			index[key] = b.Weights
		}
	}
	return &Matcher{index: index}
}

// Scores returns the accumulated score of every archetype, indexed by
// Archetype. Traits are treated as a set; an unknown trait adds one point
// to every archetype.
func (m *Matcher) Scores(traits []string) []int {
	scores := make([]int, len(All))
	for _, trait := range lo.Uniq(traits) {
		weights, ok := m.index[strings.ToLower(strings.TrimSpace(trait))]
		if !ok {
			for i := range scores {
				scores[i]++
			}
			continue
		}
		for a, w := range weights {
			if a.valid() {
				scores[a] += w
			}
		}
	}
	return scores
}

// BestMatch returns the highest-scoring archetype. Ties go to the archetype
// declared first, so an empty trait set yields Mentor.
func (m *Matcher) BestMatch(traits []string) Archetype {
	scores := m.Scores(traits)
	best := Mentor
	for _, a := range All {
		if scores[a] > scores[best] {
			best = a
		}
	}
	return best
}
