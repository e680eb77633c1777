package semantic_test

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/okian/herocoach/internal/domain/model"
	"github.com/okian/herocoach/internal/domain/semantic"
	. "github.com/smartystreets/goconvey/convey"
)

var errUnknown = errors.New("unknown word")

// fakeEmbedding scores identical words 1, listed pairs by table, known words
// 0 and fails for words in unknown.
type fakeEmbedding struct {
	pairs   map[[2]string]float64
	unknown map[string]bool
}

func newFakeEmbedding(pairs map[string]float64, unknown ...string) *fakeEmbedding {
	f := &fakeEmbedding{pairs: map[[2]string]float64{}, unknown: map[string]bool{}}
	for k, v := range pairs {
		ab := strings.SplitN(k, "|", 2)
		f.pairs[[2]string{ab[0], ab[1]}] = v
		f.pairs[[2]string{ab[1], ab[0]}] = v
	}
	for _, u := range unknown {
		f.unknown[u] = true
	}
	return f
}

func (f *fakeEmbedding) Similarity(_ context.Context, a, b string) (float64, error) {
	if f.unknown[a] || f.unknown[b] {
		return 0, errUnknown
	}
	if a == b {
		return 1, nil
	}
	return f.pairs[[2]string{a, b}], nil
}

// fixedRand always picks idx modulo n.
type fixedRand struct{ idx int }

func (r fixedRand) Intn(n int) int { return r.idx % n }

func TestMatcher_Similarity(t *testing.T) {
	ctx := context.Background()

	Convey("Without an embedding similarity is lexical", t, func() {
		m := semantic.NewMatcher(fixedRand{})
		So(m.HasEmbedding(), ShouldBeFalse)

		s, err := m.WordSimilarity(ctx, "Run", "run")
		So(err, ShouldBeNil)
		So(s, ShouldEqual, 1)

		s, err = m.WordSimilarity(ctx, "run", "walk")
		So(err, ShouldBeNil)
		So(s, ShouldEqual, 0)
	})

	Convey("Given a fake embedding", t, func() {
		emb := newFakeEmbedding(map[string]float64{
			"run|sprint":  0.8,
			"fast|sprint": 0.4,
		}, "xyz")
		m := semantic.NewMatcher(fixedRand{}, semantic.WithEmbedding(emb), semantic.WithConcurrency(2))

		Convey("WordSimilarity wraps capability errors", func() {
			_, err := m.WordSimilarity(ctx, "xyz", "run")
			So(errors.Is(err, errUnknown), ShouldBeTrue)
		})

		Convey("Sentence similarity averages every word pair", func() {
			s, err := m.BestSentenceSimilarity(ctx, "Run fast", "sprint")
			So(err, ShouldBeNil)
			So(s, ShouldAlmostEqual, 0.6, 1e-9)
		})

		Convey("Unscorable pairs are left out of the average", func() {
			s, err := m.BestSentenceSimilarity(ctx, "run xyz", "sprint")
			So(err, ShouldBeNil)
			So(s, ShouldAlmostEqual, 0.8, 1e-9)

			s, err = m.BestSentenceSimilarity(ctx, "xyz", "sprint")
			So(err, ShouldBeNil)
			So(s, ShouldEqual, 0)
		})

		Convey("Empty input yields zero", func() {
			for _, pair := range [][2]string{{"", "sprint"}, {"run", "  "}, {"", ""}} {
				s, err := m.BestSentenceSimilarity(ctx, pair[0], pair[1])
				So(err, ShouldBeNil)
				So(s, ShouldEqual, 0)
			}
		})

		Convey("A cancelled context is reported", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := m.BestSentenceSimilarity(cctx, "run fast", "sprint")
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestMatcher_LabelAdviceMatch(t *testing.T) {
	ctx := context.Background()
	emb := newFakeEmbedding(map[string]float64{
		"health|wellness": 0.7,
		"fitness|fit":     0.65,
		"fitness|gym":     0.62,
		"health|money":    0.55,
	}, "qwerty")
	catalog := []model.Advice{
		{Label: "Fitness", Text: "A"},
		{Label: "Health", Text: "B"},
		{Label: "Money", Text: "C"},
		{Label: "Wellness", Text: "D"},
		{Label: "Fit", Text: "E"},
		{Label: "Gym", Text: "F"},
		{Label: "Qwerty", Text: "G"},
	}

	Convey("Without an embedding the capability is reported unavailable", t, func() {
		m := semantic.NewMatcher(fixedRand{})
		_, err := m.LabelAdviceMatch(ctx, "Health & Fitness", catalog)
		So(errors.Is(err, semantic.ErrEmbeddingUnavailable), ShouldBeTrue)
	})

	Convey("Given an embedding", t, func() {
		Convey("The pick comes from the top three by score", func() {
			// Fitness .5, Health .5, Wellness .35, Fit .325, Gym .31
			want := []string{"A", "B", "D"}
			for idx := 0; idx < 6; idx++ {
				m := semantic.NewMatcher(fixedRand{idx: idx}, semantic.WithEmbedding(emb))
				a, err := m.LabelAdviceMatch(ctx, "Health & Fitness", catalog)
				So(err, ShouldBeNil)
				So(a.Text, ShouldEqual, want[idx%3])
			}
		})

		Convey("A seeded source only ever yields qualifying top entries", func() {
			m := semantic.NewMatcher(rand.New(rand.NewSource(7)), semantic.WithEmbedding(emb))
			for i := 0; i < 50; i++ {
				a, err := m.LabelAdviceMatch(ctx, "Health & Fitness", catalog)
				So(err, ShouldBeNil)
				So([]string{"A", "B", "D"}, ShouldContain, a.Text)
			}
		})

		Convey("Entries at or below the overall cutoff are never returned", func() {
			m := semantic.NewMatcher(fixedRand{}, semantic.WithEmbedding(emb))
			// wellness scores 0.7 / 4 words = 0.175
			_, err := m.LabelAdviceMatch(ctx, "Health Plan Daily Routine", []model.Advice{{Label: "Wellness", Text: "D"}})
			So(errors.Is(err, semantic.ErrNoMatch), ShouldBeTrue)
		})

		Convey("Word matches at or below the good-match threshold do not count", func() {
			m := semantic.NewMatcher(fixedRand{}, semantic.WithEmbedding(emb))
			_, err := m.LabelAdviceMatch(ctx, "Health", []model.Advice{{Label: "Money", Text: "C"}})
			So(errors.Is(err, semantic.ErrNoMatch), ShouldBeTrue)
		})

		Convey("Commas and ampersands split label words", func() {
			m := semantic.NewMatcher(fixedRand{}, semantic.WithEmbedding(emb))
			a, err := m.LabelAdviceMatch(ctx, "gym,qwerty", []model.Advice{{Label: "Fitness & Qwerty", Text: "X"}})
			So(err, ShouldBeNil)
			So(a.Text, ShouldEqual, "X")
		})

		Convey("Empty label or catalog yields no match", func() {
			m := semantic.NewMatcher(fixedRand{}, semantic.WithEmbedding(emb))
			_, err := m.LabelAdviceMatch(ctx, " & ", catalog)
			So(errors.Is(err, semantic.ErrNoMatch), ShouldBeTrue)
			_, err = m.LabelAdviceMatch(ctx, "Health", nil)
			So(errors.Is(err, semantic.ErrNoMatch), ShouldBeTrue)
		})
	})
}

func TestMatcher_GoalAdviceMatch(t *testing.T) {
	ctx := context.Background()
	catalog := []model.Advice{
		{Label: "Grit", Text: "Keep going when it hurts."},
		{Label: "grit", Text: "Rest is part of training."},
		{Label: "Wisdom", Text: "Listen more than you speak."},
	}
	emb := newFakeEmbedding(map[string]float64{"training|practice": 0.9})

	Convey("Given an embedding and goal text", t, func() {
		m := semantic.NewMatcher(fixedRand{}, semantic.WithEmbedding(emb))

		Convey("Exact word containment picks the best candidate per trait", func() {
			out, err := m.GoalAdviceMatch(ctx, "Keep going!", "Health & Fitness", []string{"wisdom", "Grit"}, catalog)
			So(err, ShouldBeNil)
			So(out, ShouldHaveLength, 1)
			So(out[0].Text, ShouldEqual, "Keep going when it hurts.")
		})

		Convey("Similarity contributes when words differ", func() {
			// practice ~ training 0.9, daily 0 -> 0.45
			out, err := m.GoalAdviceMatch(ctx, "practice daily", "", []string{"grit"}, catalog)
			So(err, ShouldBeNil)
			So(out, ShouldHaveLength, 1)
			So(out[0].Text, ShouldEqual, "Rest is part of training.")
		})

		Convey("Traits without catalog entries contribute nothing", func() {
			out, err := m.GoalAdviceMatch(ctx, "keep going", "", []string{"humor"}, catalog)
			So(err, ShouldBeNil)
			So(out, ShouldBeEmpty)
		})
	})

	Convey("Without goal text a candidate is picked at random per trait", t, func() {
		m := semantic.NewMatcher(fixedRand{idx: 1}, semantic.WithEmbedding(emb))
		out, err := m.GoalAdviceMatch(ctx, "   ", "", []string{"Wisdom", "grit", "grit"}, catalog)
		So(err, ShouldBeNil)
		So(out, ShouldHaveLength, 2)
		// sorted traits: "Wisdom" before "grit"
		So(out[0].Text, ShouldEqual, "Listen more than you speak.")
		So(out[1].Text, ShouldEqual, "Rest is part of training.")
	})

	Convey("Without an embedding a candidate is picked at random per trait", t, func() {
		m := semantic.NewMatcher(fixedRand{})
		out, err := m.GoalAdviceMatch(ctx, "keep going", "", []string{"grit"}, catalog)
		So(err, ShouldBeNil)
		So(out, ShouldHaveLength, 1)
		So(out[0].Text, ShouldEqual, "Keep going when it hurts.")
	})
}

func TestMatcher_BestQuoteMatch(t *testing.T) {
	quotes := []model.Quote{
		{Text: "Stay hungry.", Author: "Steve Jobs"},
		{Text: "Imagination is more important than knowledge.", Author: "Albert Einstein"},
		{Text: "Life is like riding a bicycle.", Author: "Albert Einstein"},
	}

	Convey("A role model narrows the pick to their quotes", t, func() {
		m := semantic.NewMatcher(fixedRand{idx: 1})
		q, ok := m.BestQuoteMatch(" EINSTEIN ", nil, quotes)
		So(ok, ShouldBeTrue)
		So(q.Text, ShouldEqual, "Life is like riding a bicycle.")
	})

	Convey("An unknown role model falls back to the whole catalog", t, func() {
		m := semantic.NewMatcher(fixedRand{idx: 0})
		q, ok := m.BestQuoteMatch("Ada Lovelace", nil, quotes)
		So(ok, ShouldBeTrue)
		So(q.Author, ShouldEqual, "Steve Jobs")
	})

	Convey("No role model picks any quote", t, func() {
		m := semantic.NewMatcher(fixedRand{idx: 2})
		q, ok := m.BestQuoteMatch("", []string{"grit"}, quotes)
		So(ok, ShouldBeTrue)
		So(q.Text, ShouldEqual, "Life is like riding a bicycle.")
	})

	Convey("An empty catalog yields nothing", t, func() {
		m := semantic.NewMatcher(fixedRand{})
		_, ok := m.BestQuoteMatch("Einstein", nil, nil)
		So(ok, ShouldBeFalse)
	})
}

func TestMatcher_BestReflectionMatch(t *testing.T) {
	ctx := context.Background()
	goal := model.Goal{Title: "Run marathon", Label: "Health"}

	Convey("No reflections yields nil", t, func() {
		m := semantic.NewMatcher(fixedRand{})
		match, err := m.BestReflectionMatch(ctx, goal, nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeNil)
	})

	Convey("The highest-scoring reflection wins and ties keep the first", t, func() {
		m := semantic.NewMatcher(fixedRand{})
		reflections := []model.Reflection{
			{ID: "r1", GoalTitle: "Bake bread", Content: "it was fun"},
			{ID: "r2", GoalTitle: "Run marathon", Content: "legs tired"},
			{ID: "r3", GoalTitle: "Run marathon", Content: "legs tired"},
		}
		match, err := m.BestReflectionMatch(ctx, goal, reflections)
		So(err, ShouldBeNil)
		So(match, ShouldNotBeNil)
		So(match.Reflection.ID, ShouldEqual, "r2")
		// run, marathon match out of 3 x 4 pairs
		So(match.Score, ShouldAlmostEqual, 2.0/12.0, 1e-9)
	})

	Convey("Embedding scores drive the choice", t, func() {
		emb := newFakeEmbedding(map[string]float64{
			"run|jog":      0.9,
			"marathon|jog": 0.5,
			"health|jog":   0.3,
		})
		m := semantic.NewMatcher(fixedRand{}, semantic.WithEmbedding(emb))
		reflections := []model.Reflection{
			{ID: "a", GoalTitle: "Paint", Content: ""},
			{ID: "b", GoalTitle: "Jog", Content: ""},
		}
		match, err := m.BestReflectionMatch(ctx, goal, reflections)
		So(err, ShouldBeNil)
		So(match.Reflection.ID, ShouldEqual, "b")
		So(match.Score, ShouldAlmostEqual, (0.9+0.5+0.3)/3, 1e-9)
	})
}
