// Package advisor orchestrates coaching: advice for goals, the coach
// persona and motivational quotes.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"github.com/okian/herocoach/internal/domain/archetype"
	"github.com/okian/herocoach/internal/domain/labels"
	"github.com/okian/herocoach/internal/domain/model"
	"github.com/okian/herocoach/internal/domain/semantic"
	"github.com/okian/herocoach/pkg/logger"
	"github.com/okian/herocoach/pkg/metrics"
)

// DefaultAdvice is returned when neither semantic nor trait matching finds
// anything.
const DefaultAdvice = "Break this goal down into smaller, manageable steps. Start with what you can do today."

// Advice sources.
const (
	SourceSemantic = "semantic"
	SourceTrait    = "trait"
	SourceDefault  = "default"
)

// Advice is the coach's advice for a goal and where it came from.
type Advice struct {
	Text   string `json:"text"`
	Label  string `json:"label,omitempty"`
	Source string `json:"source"`
}

// Profile cache lifetime; a profile untouched this long starts fresh.
const (
	profileTTL     = time.Hour
	profileCleanup = 10 * time.Minute
)

// QuoteResult is a quote lookup; Changed is false when the same quote as
// the previous lookup for the same trait profile came back.
type QuoteResult struct {
	Quote   model.Quote `json:"quote"`
	Changed bool        `json:"changed"`
}

// Analysis is a whole goal text with its predicted label and advice.
type Analysis struct {
	Goal   string      `json:"goal"`
	Label  string      `json:"label"`
	Info   labels.Info `json:"label_info"`
	Advice Advice      `json:"advice"`
}

// CoachView is the coach for a trait set plus an optional response to a goal.
type CoachView struct {
	archetype.Coach
	Response string `json:"response,omitempty"`
}

// Engine holds the catalogs and per-profile caches. A profile is the
// normalised trait set of the caller, so the coach and the last quote are
// remembered per trait set rather than shared by every caller. It never
// persists anything; callers store the returned values.
type Engine struct {
	matcher    *semantic.Matcher
	archetypes *archetype.Matcher
	advice     []model.Advice
	quotes     []model.Quote
	logger     logger.Logger

	mu         sync.Mutex
	coaches    *gocache.Cache
	lastQuotes *gocache.Cache
}

// Option configures an Engine.
type Option func(*Engine)

// WithArchetypeMatcher overrides the archetype matcher.
func WithArchetypeMatcher(m *archetype.Matcher) Option {
	return func(e *Engine) {
		if m != nil {
			e.archetypes = m
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine over the given catalogs.
func NewEngine(matcher *semantic.Matcher, advice []model.Advice, quotes []model.Quote, opts ...Option) *Engine {
	e := &Engine{
		matcher:    matcher,
		archetypes: archetype.NewMatcher(),
		advice:     slices.Clone(advice),
		quotes:     slices.Clone(quotes),
		logger:     logger.Nop(),
		coaches:    gocache.New(profileTTL, profileCleanup),
		lastQuotes: gocache.New(profileTTL, profileCleanup),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AdviceForLabel returns advice for a goal labelled label. It tries the
// semantic label match first, then a random catalog entry whose label is
// one of traits, then DefaultAdvice. The only error is ctx cancellation.
func (e *Engine) AdviceForLabel(ctx context.Context, label string, traits []string) (Advice, error) {
	a, err := e.matcher.LabelAdviceMatch(ctx, label, e.advice)
	switch {
	case err == nil:
		metrics.RecordAdviceMatch(SourceSemantic)
		return Advice{Text: a.Text, Label: a.Label, Source: SourceSemantic}, nil
	case errors.Is(err, semantic.ErrEmbeddingUnavailable), errors.Is(err, semantic.ErrNoMatch):
		e.logger.Debug(ctx, "no semantic advice, using trait fallback",
			logger.String("label", label),
			logger.Error(err),
		)
	default:
		return Advice{}, fmt.Errorf("advice for label %q: %w", label, err)
	}
	return e.fallbackAdvice(traits), nil
}

func (e *Engine) fallbackAdvice(traits []string) Advice {
	byTrait := lo.Filter(e.advice, func(a model.Advice, _ int) bool {
		return lo.Contains(traits, a.Label)
	})
	if len(byTrait) == 0 {
		metrics.RecordAdviceMatch(SourceDefault)
		return Advice{Text: DefaultAdvice, Source: SourceDefault}
	}
	metrics.RecordAdviceMatch(SourceTrait)
	q := e.matcher.PickIndex(len(byTrait))
	return Advice{Text: byTrait[q].Text, Label: byTrait[q].Label, Source: SourceTrait}
}

// GoalAdvice returns up to one advice item per trait for goal.
func (e *Engine) GoalAdvice(ctx context.Context, goal, predictedLabel string, traits []string) ([]model.Advice, error) {
	return e.matcher.GoalAdviceMatch(ctx, goal, predictedLabel, traits, e.advice)
}

// Coach returns the coach for traits, computed once per trait profile.
func (e *Engine) Coach(traits []string) archetype.Coach {
	key := profileKey(traits)

	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.coaches.Get(key); ok {
		return v.(archetype.Coach) //nolint:forcetypeassert // only coaches are stored
	}
	c := e.archetypes.NewCoach(traits)
	e.coaches.SetDefault(key, c)
	return c
}

// CoachResponse is the coach's opening line for goal.
func (e *Engine) CoachResponse(traits []string, goal string) string {
	return e.Coach(traits).Archetype.Respond(goal)
}

// Quote returns a quote for roleModel, or ok false for an empty catalog.
// Changed compares against the last quote returned for the same traits.
func (e *Engine) Quote(roleModel string, traits []string) (QuoteResult, bool) {
	q, ok := e.matcher.BestQuoteMatch(roleModel, traits, e.quotes)
	if !ok {
		return QuoteResult{}, false
	}

	key := profileKey(traits)
	e.mu.Lock()
	defer e.mu.Unlock()
	last, seen := e.lastQuotes.Get(key)
	changed := !seen || last.(string) != q.Text //nolint:forcetypeassert // only quote texts are stored
	e.lastQuotes.SetDefault(key, q.Text)
	return QuoteResult{Quote: q, Changed: changed}, true
}

// MatchReflection finds the past reflection closest to goal.
func (e *Engine) MatchReflection(ctx context.Context, goal model.Goal, reflections []model.Reflection) (*model.ReflectionMatch, error) {
	return e.matcher.BestReflectionMatch(ctx, goal, reflections)
}

// profileKey normalises a trait set into a cache key.
func profileKey(traits []string) string {
	key := lo.Uniq(lo.Map(traits, func(t string, _ int) string {
		return strings.ToLower(strings.TrimSpace(t))
	}))
	sort.Strings(key)
	return strings.Join(key, "\x00")
}
