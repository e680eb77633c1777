// Package classifier provides goal-label classifiers.
package classifier

import (
	"context"
	"regexp"
	"strings"

	"github.com/okian/herocoach/internal/domain/model"
)

// LabelKeywords associates a label with words that indicate it.
type LabelKeywords struct {
	Label    string
	Keywords []string
}

// DefaultKeywords covers the app's ten goal labels.
var DefaultKeywords = []LabelKeywords{
	{Label: "Personal Growth", Keywords: []string{"grow", "growth", "habit", "meditate", "journal", "confidence", "mindset", "improve", "myself"}},
	{Label: "Humor", Keywords: []string{"joke", "jokes", "funny", "laugh", "comedy", "stand-up"}},
	{Label: "Health & Fitness", Keywords: []string{"exercise", "run", "running", "gym", "workout", "weight", "marathon", "diet", "sleep", "healthy", "fitness", "yoga", "stretch"}},
	{Label: "Recreation & Leisure", Keywords: []string{"travel", "trip", "vacation", "hike", "hiking", "game", "games", "play", "movie", "hobby", "paint", "guitar", "piano"}},
	{Label: "Family/Friends/Relationships", Keywords: []string{"family", "friend", "friends", "mom", "dad", "partner", "kids", "parents", "call", "visit", "date", "relationship"}},
	{Label: "Finance", Keywords: []string{"save", "saving", "money", "budget", "invest", "debt", "pay off", "taxes", "retirement"}},
	{Label: "Career", Keywords: []string{"job", "promotion", "career", "work", "boss", "interview", "resume", "report", "project", "business", "client"}},
	{Label: "Education/Training", Keywords: []string{"learn", "study", "read", "books", "course", "class", "degree", "exam", "language", "spanish", "practice", "certification"}},
	{Label: "Time Management/Organization", Keywords: []string{"organize", "schedule", "plan", "clean", "declutter", "routine", "calendar", "procrastinate", "early", "productive"}},
	{Label: "Philanthropic", Keywords: []string{"volunteer", "donate", "charity", "help", "community", "mentor", "give back"}},
}

type labelPattern struct {
	label string
	re    *regexp.Regexp
}

// Keyword is an offline classifier that counts whole-word keyword hits.
type Keyword struct {
	patterns []labelPattern
}

// NewKeyword builds a Keyword classifier; nil table means DefaultKeywords.
func NewKeyword(table []LabelKeywords) *Keyword {
	if table == nil {
		table = DefaultKeywords
	}
	k := &Keyword{}
	for _, lk := range table {
		quoted := make([]string, 0, len(lk.Keywords))
		for _, kw := range lk.Keywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(kw)))
			}
		}
		if len(quoted) == 0 {
			continue
		}
		k.patterns = append(k.patterns, labelPattern{
			label: lk.Label,
			re:    regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`),
		})
	}
	return k
}

// Classify returns the label with the most keyword hits; ties go to the
// label listed first. Text without hits is "none".
func (k *Keyword) Classify(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lower := strings.ToLower(text)
	best, bestHits := model.NoneLabel, 0
	for _, p := range k.patterns {
		if hits := len(p.re.FindAllStringIndex(lower, -1)); hits > bestHits {
			best, bestHits = p.label, hits
		}
	}
	return best, nil
}

// Labels lists the labels this classifier can produce, in table order.
func (k *Keyword) Labels() []string {
	out := make([]string, len(k.patterns))
	for i, p := range k.patterns {
		out[i] = p.label
	}
	return out
}
