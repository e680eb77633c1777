// Package dates resolves relative due-date phrases inside a goal clause.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MaxDays caps "in N days" offsets so huge N cannot overflow time arithmetic.
const MaxDays = 1_000_000

// Offset moves a reference time forward.
type Offset struct {
	Years, Months, Days int
}

// apply returns t shifted by o.
func (o Offset) apply(t time.Time) time.Time {
	return t.AddDate(o.Years, o.Months, o.Days)
}

// Phrase maps a named relative date to its offset.
type Phrase struct {
	Text   string
	Offset Offset
}

// DefaultPhrases is scanned in order; the first phrase found wins.
var DefaultPhrases = []Phrase{
	{Text: "tomorrow", Offset: Offset{Days: 1}},
	{Text: "next week", Offset: Offset{Days: 7}},
	{Text: "next month", Offset: Offset{Months: 1}},
}

var inDaysRe = regexp.MustCompile(`\bin (\d+) days\b`)

// phraseRe matches a named phrase introduced by "by" or "in" as whole words.
func phraseRe(text string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:by|in) ` + regexp.QuoteMeta(text) + `\b`)
}

// Extractor finds relative-date phrases and resolves them against a clock.
type Extractor struct {
	phrases []Phrase
	res     []*regexp.Regexp
	now     func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPhrases replaces the named phrase table.
func WithPhrases(phrases []Phrase) Option {
	return func(e *Extractor) {
		e.phrases = append([]Phrase(nil), phrases...)
	}
}

// WithClock sets the time source used as "now".
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// NewExtractor creates an Extractor with DefaultPhrases and time.Now.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		phrases: DefaultPhrases,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.res = make([]*regexp.Regexp, len(e.phrases))
	for i, p := range e.phrases {
		e.res[i] = phraseRe(p.Text)
	}
	return e
}

// Extract removes date phrases from clause and returns the cleaned text and
// the resolved due date (nil when nothing matched).
//
// Phrases match whole words only. Named phrases ("by tomorrow", "in next
// week") are checked first and the first one present wins. "in N days" is checked afterwards regardless, and
// when it matches it overwrites the named-phrase date.
func (e *Extractor) Extract(clause string) (string, *time.Time) {
	now := e.now()
	cleaned := strings.ToLower(clause)
	var due *time.Time

	for i, p := range e.phrases {
		if !e.res[i].MatchString(cleaned) {
			continue
		}
		cleaned = e.res[i].ReplaceAllString(cleaned, "")
		d := p.Offset.apply(now)
		due = &d
		break
	}

	if m := inDaysRe.FindStringSubmatchIndex(cleaned); m != nil {
		days := parseDays(cleaned[m[2]:m[3]])
		cleaned = cleaned[:m[0]] + cleaned[m[1]:]
		d := now.AddDate(0, 0, days)
		due = &d
	}

	return strings.Join(strings.Fields(cleaned), " "), due
}

// parseDays reads a base-10 day count, clamping to MaxDays.
func parseDays(digits string) int {
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || n > MaxDays {
		// only range errors reach here since the regexp admits digits only
		return MaxDays
	}
	return int(n)
}
