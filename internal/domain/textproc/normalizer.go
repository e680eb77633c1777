// Package textproc turns free-form goal text (typed or transcribed) into
// normalized text and ordered candidate clauses.
package textproc

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultAuxiliaryPhrases are filler phrases that carry no goal content.
var DefaultAuxiliaryPhrases = []string{
	"i really wanna",
	"i wanna",
	"i want to",
	"i need to",
	"i definitely need to",
	"but i do not know where to start",
	"i do not know where to start",
	"i gotta",
	"i should",
	"but i also want to",
	"i also want to",
	"but i",
	"i also",
}

var (
	wannaRe    = regexp.MustCompile(`\bwanna\b`)
	dontRe     = regexp.MustCompile(`\bdon['’]t\b`)
	suffixNtRe = regexp.MustCompile(`n['’]t\b`)
)

// Normalizer lowercases text, expands contractions and strips filler phrases.
// It is safe for concurrent use.
type Normalizer struct {
	phrases *regexp.Regexp // nil when no phrases are configured
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*normalizerConfig)

type normalizerConfig struct {
	phrases []string
}

// WithAuxiliaryPhrases replaces the filler phrase table.
func WithAuxiliaryPhrases(phrases []string) NormalizerOption {
	return func(c *normalizerConfig) {
		c.phrases = append([]string(nil), phrases...)
	}
}

// NewNormalizer builds a Normalizer with DefaultAuxiliaryPhrases unless
// overridden.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	cfg := normalizerConfig{phrases: DefaultAuxiliaryPhrases}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Normalizer{phrases: compilePhrases(cfg.phrases)}
}

// compilePhrases builds one alternation, longest phrase first, so the
// result of a removal pass does not depend on table order.
func compilePhrases(phrases []string) *regexp.Regexp {
	parts := make([]string, 0, len(phrases))
	for _, p := range phrases {
		// phrases are matched after expansion, so "i wanna" must become "i want to"
		words := strings.Fields(expandContractions(strings.ToLower(p)))
		if len(words) == 0 {
			continue
		}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		parts = append(parts, strings.Join(words, `\s+`))
	}
	if len(parts) == 0 {
		return nil
	}
	sort.SliceStable(parts, func(i, j int) bool { return len(parts[i]) > len(parts[j]) })
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)\b`)
}

// Normalize applies, in order: lowercasing, contraction expansion, filler
// phrase removal and whitespace collapsing. Removal repeats until no phrase
// is left, so Normalize(Normalize(x)) == Normalize(x). Text made only of
// filler yields "".
func (n *Normalizer) Normalize(text string) string {
	s := collapse(expandContractions(strings.ToLower(text)))

	if n.phrases == nil {
		return s
	}
	for n.phrases.MatchString(s) {
		s = collapse(n.phrases.ReplaceAllString(s, " "))
	}
	return s
}

func expandContractions(s string) string {
	s = wannaRe.ReplaceAllString(s, "want to")
	s = dontRe.ReplaceAllString(s, "do not")
	return suffixNtRe.ReplaceAllString(s, " not")
}

// collapse squeezes whitespace runs to one space and trims the ends.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
