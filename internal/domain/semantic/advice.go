package semantic

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/okian/herocoach/internal/domain/model"
	"github.com/okian/herocoach/pkg/logger"
	"github.com/okian/herocoach/pkg/metrics"
)

// LabelAdviceMatch picks advice whose catalog label is semantically close
// to label. Each label word is matched to its best catalog-label word; only
// matches above GoodWordMatch contribute, and the sum is divided by the
// number of label words. Entries scoring above LabelMatchCutoff are ranked
// and one of the top TopCandidates is returned at random.
//
// It returns ErrEmbeddingUnavailable without an embedding and ErrNoMatch
// when nothing qualifies.
func (m *Matcher) LabelAdviceMatch(ctx context.Context, label string, catalog []model.Advice) (model.Advice, error) {
	if m.embedding == nil {
		metrics.RecordEmbeddingFallback("label_advice")
		return model.Advice{}, ErrEmbeddingUnavailable
	}

	want := labelWords(label)
	if len(want) == 0 || len(catalog) == 0 {
		return model.Advice{}, ErrNoMatch
	}

	scores := make([]float64, len(catalog))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.concurrency)
	for i, item := range catalog {
		eg.Go(func() error {
			s, err := m.labelScore(egCtx, want, labelWords(item.Label))
			if err != nil {
				return err
			}
			scores[i] = s
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return model.Advice{}, fmt.Errorf("label advice match: %w", err)
	}

	var candidates []scored[model.Advice]
	for i, s := range scores {
		if s > LabelMatchCutoff {
			candidates = append(candidates, scored[model.Advice]{item: catalog[i], score: s})
		}
	}
	if len(candidates) == 0 {
		return model.Advice{}, ErrNoMatch
	}

	sortByScore(candidates)
	top := candidates[:min(TopCandidates, len(candidates))]
	chosen := top[m.PickIndex(len(top))]

	m.logger.Debug(ctx, "label advice matched",
		logger.String("label", label),
		logger.String("advice_label", chosen.item.Label),
		logger.Float64("score", chosen.score),
		logger.Int("candidates", len(candidates)),
	)
	return chosen.item, nil
}

// labelScore is the averaged good-match similarity of want against have.
// It is 0 when no word of want has a good match.
func (m *Matcher) labelScore(ctx context.Context, want, have []string) (float64, error) {
	var total float64
	var good int
	for _, w := range want {
		best, err := m.bestWordMatch(ctx, w, have)
		if err != nil {
			return 0, err
		}
		if best > GoodWordMatch {
			total += best
			good++
		}
	}
	if good == 0 {
		return 0, nil
	}
	return total / float64(len(want)), nil
}

// GoalAdviceMatch returns at most one advice item per trait. Candidates are
// the catalog entries whose label equals the trait (case-insensitive).
// With goal text each candidate is scored per goal word (1 for a word that
// appears in the advice, else the best similarity) averaged over the goal
// words; the best candidate above GoalMatchCutoff wins. Without goal text,
// or without an embedding, a candidate is picked at random.
//
// Traits are visited in sorted order. predictedLabel is informational.
func (m *Matcher) GoalAdviceMatch(ctx context.Context, goal, predictedLabel string, traits []string, catalog []model.Advice) ([]model.Advice, error) {
	goalWords := words(goal)
	random := len(goalWords) == 0 || m.embedding == nil
	if len(goalWords) > 0 && m.embedding == nil {
		metrics.RecordEmbeddingFallback("goal_advice")
	}

	ordered := lo.Uniq(traits)
	sort.Strings(ordered)

	m.logger.Debug(ctx, "matching goal advice",
		logger.String("predicted_label", predictedLabel),
		logger.Strings("traits", ordered),
		logger.Bool("random", random),
	)

	out := make([]model.Advice, 0, len(ordered))
	for _, trait := range ordered {
		candidates := lo.Filter(catalog, func(a model.Advice, _ int) bool {
			return strings.EqualFold(a.Label, trait)
		})
		if len(candidates) == 0 {
			continue
		}

		if random {
			out = append(out, candidates[m.PickIndex(len(candidates))])
			continue
		}

		best, ok, err := m.bestGoalCandidate(ctx, goalWords, candidates)
		if err != nil {
			return nil, fmt.Errorf("goal advice match: %w", err)
		}
		if ok {
			out = append(out, best)
		}
	}
	return out, nil
}

func (m *Matcher) bestGoalCandidate(ctx context.Context, goalWords []string, candidates []model.Advice) (model.Advice, bool, error) {
	var ranked []scored[model.Advice]
	for _, item := range candidates {
		itemWords := words(item.Text)
		var total float64
		for _, gw := range goalWords {
			if lo.Contains(itemWords, gw) {
				total++
				continue
			}
			best, err := m.bestWordMatch(ctx, gw, itemWords)
			if err != nil {
				return model.Advice{}, false, err
			}
			total += best
		}
		score := total / float64(len(goalWords))
		if score > GoalMatchCutoff {
			ranked = append(ranked, scored[model.Advice]{item: item, score: score})
		}
	}
	if len(ranked) == 0 {
		return model.Advice{}, false, nil
	}
	sortByScore(ranked)
	return ranked[0].item, true, nil
}
