// Package semantic scores text against catalogs using a word-similarity
// capability.
package semantic

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/okian/herocoach/pkg/logger"
	"github.com/okian/herocoach/pkg/metrics"
)

// Thresholds used by the advice matchers.
const (
	GoodWordMatch    = 0.6 // a label word counts only above this similarity
	LabelMatchCutoff = 0.3 // overall label score must exceed this
	GoalMatchCutoff  = 0.2 // goal-to-advice score must exceed this
	TopCandidates    = 3   // random pick pool for label advice
)

// Embedding scores the similarity of two words. Implementations may fail
// for individual pairs (e.g. unknown words).
type Embedding interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Rand is the randomness source for uniform picks. *math/rand.Rand
// satisfies it.
type Rand interface {
	Intn(n int) int
}

// Matcher implements the semantic matching operations. A nil embedding
// means the capability is absent and every operation takes its fallback.
type Matcher struct {
	embedding   Embedding
	concurrency int
	logger      logger.Logger

	randMu sync.Mutex
	rnd    Rand
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithEmbedding sets the word-similarity capability.
func WithEmbedding(e Embedding) Option {
	return func(m *Matcher) {
		m.embedding = e
	}
}

// WithConcurrency bounds parallel similarity calls within one operation.
func WithConcurrency(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMatcher creates a Matcher. rnd is required; it is guarded internally
// so a non-thread-safe source such as *rand.Rand is fine.
func NewMatcher(rnd Rand, opts ...Option) *Matcher {
	m := &Matcher{
		rnd:         rnd,
		concurrency: runtime.NumCPU(),
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HasEmbedding reports whether a similarity capability is configured.
func (m *Matcher) HasEmbedding() bool { return m.embedding != nil }

// PickIndex returns a uniform index in [0, n) from the injected source.
func (m *Matcher) PickIndex(n int) int {
	m.randMu.Lock()
	defer m.randMu.Unlock()
	return m.rnd.Intn(n)
}

// WordSimilarity scores two words. Without an embedding it is lexical:
// 1 for case-insensitively equal words, 0 otherwise.
func (m *Matcher) WordSimilarity(ctx context.Context, a, b string) (float64, error) {
	if m.embedding == nil {
		if strings.EqualFold(a, b) {
			return 1, nil
		}
		return 0, nil
	}
	s, err := m.embedding.Similarity(ctx, a, b)
	if err != nil {
		metrics.RecordEmbeddingError()
		return 0, fmt.Errorf("similarity %q/%q: %w", a, b, err)
	}
	return s, nil
}

// BestSentenceSimilarity averages WordSimilarity over every word pair of
// the two texts. Pairs the capability cannot score are left out of the
// average; empty input or no scorable pair yields 0.
func (m *Matcher) BestSentenceSimilarity(ctx context.Context, text1, text2 string) (float64, error) {
	words1 := words(text1)
	words2 := words(text2)
	if len(words1) == 0 || len(words2) == 0 {
		return 0, nil
	}
	if m.embedding == nil {
		metrics.RecordEmbeddingFallback("sentence_similarity")
	}

	type row struct {
		sum   float64
		count int
	}
	rows := make([]row, len(words1))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.concurrency)
	for i, w1 := range words1 {
		eg.Go(func() error {
			for _, w2 := range words2 {
				if err := egCtx.Err(); err != nil {
					return err
				}
				s, err := m.WordSimilarity(egCtx, w1, w2)
				if err != nil {
					continue
				}
				rows[i].sum += s
				rows[i].count++
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, fmt.Errorf("sentence similarity: %w", err)
	}

	var total float64
	var count int
	for _, r := range rows {
		total += r.sum
		count += r.count
	}
	if count == 0 {
		return 0, nil
	}
	return total / float64(count), nil
}

// bestWordMatch returns the highest similarity of word against candidates,
// never below 0. Unscorable pairs are ignored.
func (m *Matcher) bestWordMatch(ctx context.Context, word string, candidates []string) (float64, error) {
	best := 0.0
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		s, err := m.WordSimilarity(ctx, word, c)
		if err != nil {
			continue
		}
		best = max(best, s)
	}
	return best, nil
}

// words lowercases text and splits it on whitespace, trimming surrounding
// punctuation from each word.
func words(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// labelWords splits a label on spaces, ampersands and commas.
func labelWords(label string) []string {
	parts := strings.FieldsFunc(label, func(r rune) bool {
		return r == '&' || r == ',' || unicode.IsSpace(r)
	})
	return lo.Map(parts, func(p string, _ int) string { return strings.ToLower(p) })
}

type scored[T any] struct {
	item  T
	score float64
}

// sortByScore orders candidates by descending score, keeping catalog order
// among equal scores.
func sortByScore[T any](items []scored[T]) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })
}
