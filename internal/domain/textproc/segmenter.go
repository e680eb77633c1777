package textproc

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Separator is the uniform boundary token clauses are split on.
const Separator = "and"

const conjunction = "but"

// sentenceEnd matches a period that ends a sentence, leaving decimals
// such as "3.5" intact.
var sentenceEnd = regexp.MustCompile(`\.(\s|$)`)

// Segmenter splits normalized text into ordered candidate clauses.
type Segmenter struct {
	lang language.Tag
}

// NewSegmenter returns a Segmenter that title-cases clauses in English.
func NewSegmenter() *Segmenter {
	return &Segmenter{lang: language.English}
}

// Segment replaces commas, sentence-ending periods and inner "but" tokens
// with the "and" separator, splits on it and title-cases every clause.
// Clause order follows the source text; empty pieces (including stray
// separators at either edge) are dropped.
func (s *Segmenter) Segment(text string) []string {
	text = strings.ReplaceAll(text, ",", " "+Separator+" ")
	text = sentenceEnd.ReplaceAllString(text, " "+Separator+"$1")

	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}

	// A Caser is stateful; one per call keeps Segment safe for concurrent use.
	caser := cases.Title(s.lang)

	var (
		clauses []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			clauses = append(clauses, caser.String(strings.Join(current, " ")))
			current = current[:0]
		}
	}

	last := len(tokens) - 1
	for i, tok := range tokens {
		if isSeparator(tok, i, last) {
			flush()
			continue
		}
		current = append(current, tok)
	}
	flush()

	return clauses
}

// isSeparator reports whether the token at position i is a boundary.
// "but" only separates when it sits between two other tokens.
func isSeparator(tok string, i, last int) bool {
	switch strings.ToLower(tok) {
	case Separator:
		return true
	case conjunction:
		return i > 0 && i < last
	default:
		return false
	}
}
