// Package extraction turns free-form goal text into grouped, labelled goals.
package extraction

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/herocoach/internal/domain/dates"
	"github.com/okian/herocoach/internal/domain/model"
	"github.com/okian/herocoach/internal/domain/textproc"
	"github.com/okian/herocoach/pkg/logger"
	"github.com/okian/herocoach/pkg/metrics"
)

const (
	defaultClassifyTimeout = 10 * time.Second
	skipReasonNone         = "none_label"
	skipReasonError        = "classifier_error"
)

// Classifier assigns a category label to a single clause.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Extractor runs normalization, segmentation, classification, date
// extraction and grouping.
type Extractor struct {
	classifier  Classifier
	normalizer  *textproc.Normalizer
	segmenter   *textproc.Segmenter
	dates       *dates.Extractor
	concurrency int
	timeout     time.Duration
	logger      logger.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithNormalizer overrides the text normalizer.
func WithNormalizer(n *textproc.Normalizer) Option {
	return func(e *Extractor) {
		if n != nil {
			e.normalizer = n
		}
	}
}

// WithSegmenter overrides the clause segmenter.
func WithSegmenter(s *textproc.Segmenter) Option {
	return func(e *Extractor) {
		if s != nil {
			e.segmenter = s
		}
	}
}

// WithDateExtractor overrides the due-date extractor.
func WithDateExtractor(d *dates.Extractor) Option {
	return func(e *Extractor) {
		if d != nil {
			e.dates = d
		}
	}
}

// WithConcurrency bounds the number of in-flight classifier calls per
// extraction.
func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithClassifyTimeout limits each classifier call.
func WithClassifyTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExtractor creates an Extractor backed by classifier.
func NewExtractor(classifier Classifier, opts ...Option) *Extractor {
	e := &Extractor{
		classifier:  classifier,
		normalizer:  textproc.NewNormalizer(),
		segmenter:   textproc.NewSegmenter(),
		dates:       dates.NewExtractor(),
		concurrency: runtime.NumCPU(),
		timeout:     defaultClassifyTimeout,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// classified is the outcome of one clause; ok is false when it is dropped.
type classified struct {
	label string
	ok    bool
}

// ExtractGoals returns the goal groups found in text, in input order.
// Clauses that fail classification or are labelled "none" are skipped.
// The only error is ctx cancellation.
func (e *Extractor) ExtractGoals(ctx context.Context, text string) ([]model.ExtractedGoalGroup, error) {
	start := time.Now()

	clauses := e.segmenter.Segment(e.normalizer.Normalize(text))
	if len(clauses) == 0 {
		metrics.RecordExtraction(0, float64(time.Since(start).Milliseconds()))
		return []model.ExtractedGoalGroup{}, nil
	}
	metrics.RecordClauses(len(clauses))

	results, err := e.classifyAll(ctx, clauses)
	if err != nil {
		return nil, err
	}

	var g Grouper
	for i, clause := range clauses {
		if !results[i].ok {
			continue
		}
		cleaned, due := e.dates.Extract(strings.ToLower(clause))
		g.Feed(results[i].label, cleaned, due)
	}

	groups := g.Close()
	if groups == nil {
		groups = []model.ExtractedGoalGroup{}
	}

	metrics.RecordExtraction(len(groups), float64(time.Since(start).Milliseconds()))
	e.logger.Debug(ctx, "goals extracted",
		logger.Int("clauses", len(clauses)),
		logger.Int("groups", len(groups)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return groups, nil
}

// classifyAll classifies clauses concurrently and returns results indexed
// like clauses. Per-clause failures never abort the group.
func (e *Extractor) classifyAll(ctx context.Context, clauses []string) ([]classified, error) {
	results := make([]classified, len(clauses))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.concurrency)

	for i, clause := range clauses {
		eg.Go(func() error {
			label, err := e.classify(egCtx, clause)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				metrics.RecordClauseSkipped(skipReasonError)
				e.logger.Warn(egCtx, "clause classification failed, skipping",
					logger.Int("index", i),
					logger.String("clause", clause),
					logger.Error(err),
				)
				return nil
			}
			if label == "" || label == model.NoneLabel {
				metrics.RecordClauseSkipped(skipReasonNone)
				return nil
			}
			results[i] = classified{label: label, ok: true}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("extract goals: %w", err)
	}
	return results, nil
}

func (e *Extractor) classify(ctx context.Context, clause string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	label, err := e.classifier.Classify(callCtx, clause)
	metrics.RecordClassifierLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordClassifierError()
		return "", fmt.Errorf("%w: %w", ErrClassification, err)
	}
	return label, nil
}
