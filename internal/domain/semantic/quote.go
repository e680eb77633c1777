package semantic

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/okian/herocoach/internal/domain/model"
	"github.com/okian/herocoach/pkg/logger"
	"github.com/okian/herocoach/pkg/metrics"
)

// Quote lookup outcomes.
const (
	QuoteFromRoleModel = "role_model"
	QuoteRandom        = "random"
	QuoteNone          = "none"
)

// BestQuoteMatch returns a random quote by roleModel (author contains it,
// case-insensitive), else a random quote from the whole catalog. ok is
// false only for an empty catalog. traits are informational.
func (m *Matcher) BestQuoteMatch(roleModel string, traits []string, quotes []model.Quote) (model.Quote, bool) {
	if rm := strings.ToLower(strings.TrimSpace(roleModel)); rm != "" {
		byAuthor := lo.Filter(quotes, func(q model.Quote, _ int) bool {
			return strings.Contains(strings.ToLower(q.Author), rm)
		})
		if len(byAuthor) > 0 {
			metrics.RecordQuoteLookup(QuoteFromRoleModel)
			return byAuthor[m.PickIndex(len(byAuthor))], true
		}
	}

	if len(quotes) == 0 {
		metrics.RecordQuoteLookup(QuoteNone)
		return model.Quote{}, false
	}
	metrics.RecordQuoteLookup(QuoteRandom)
	return quotes[m.PickIndex(len(quotes))], true
}

// BestReflectionMatch returns the reflection most similar to goal, comparing
// "title label" against "goal title content". Ties keep the earliest
// reflection. It returns nil for an empty list.
func (m *Matcher) BestReflectionMatch(ctx context.Context, goal model.Goal, reflections []model.Reflection) (*model.ReflectionMatch, error) {
	if len(reflections) == 0 {
		return nil, nil
	}

	goalText := goal.Title + " " + goal.Label
	var best *model.ReflectionMatch
	for _, r := range reflections {
		score, err := m.BestSentenceSimilarity(ctx, goalText, r.GoalTitle+" "+r.Content)
		if err != nil {
			return nil, fmt.Errorf("reflection match: %w", err)
		}
		if best == nil || score > best.Score {
			best = &model.ReflectionMatch{Reflection: r, Score: score}
		}
	}

	m.logger.Debug(ctx, "reflection matched",
		logger.String("goal", goal.Title),
		logger.String("reflection_id", best.Reflection.ID),
		logger.Float64("score", best.Score),
	)
	return best, nil
}
