package dates_test

import (
	"testing"
	"time"

	"github.com/okian/herocoach/internal/domain/dates"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExtractor_Extract(t *testing.T) {
	now := time.Date(2026, time.January, 31, 9, 30, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	Convey("Given an extractor with a fixed clock", t, func() {
		e := dates.NewExtractor(dates.WithClock(clock))

		Convey("When the clause says by tomorrow", func() {
			text, due := e.Extract("finish the report by tomorrow")

			Convey("Then the phrase should be removed and due is one day later", func() {
				So(text, ShouldEqual, "finish the report")
				So(due, ShouldNotBeNil)
				So(*due, ShouldEqual, now.AddDate(0, 0, 1))
			})
		})

		Convey("When the clause says in N days", func() {
			text, due := e.Extract("submit taxes in 14 days")

			Convey("Then due should be N days later", func() {
				So(text, ShouldEqual, "submit taxes")
				So(due, ShouldNotBeNil)
				So(*due, ShouldEqual, now.AddDate(0, 0, 14))
			})
		})

		Convey("When the clause says by next week", func() {
			text, due := e.Extract("Clean The Garage by next week")

			Convey("Then due should be seven days later and text lowercased", func() {
				So(text, ShouldEqual, "clean the garage")
				So(*due, ShouldEqual, now.AddDate(0, 0, 7))
			})
		})

		Convey("When the clause says in next month", func() {
			_, due := e.Extract("visit grandma in next month")

			Convey("Then due should be one calendar month later", func() {
				So(*due, ShouldEqual, now.AddDate(0, 1, 0))
			})
		})

		Convey("When the phrase sits mid-clause", func() {
			text, _ := e.Extract("call mom by tomorrow evening")

			Convey("Then inner whitespace should be collapsed", func() {
				So(text, ShouldEqual, "call mom evening")
			})
		})

		Convey("When several named phrases appear", func() {
			text, due := e.Extract("plan trip by next month and pack by tomorrow")

			Convey("Then the first phrase in table order wins", func() {
				So(*due, ShouldEqual, now.AddDate(0, 0, 1))
				So(text, ShouldEqual, "plan trip by next month and pack")
			})
		})

		Convey("When a named phrase and N days both match", func() {
			text, due := e.Extract("book flights by tomorrow or in 3 days")

			Convey("Then the N days resolution should win", func() {
				So(*due, ShouldEqual, now.AddDate(0, 0, 3))
				So(text, ShouldEqual, "book flights or")
			})
		})

		Convey("When tomorrow appears without a preposition", func() {
			text, due := e.Extract("tomorrow is a new day")

			Convey("Then nothing should be resolved", func() {
				So(text, ShouldEqual, "tomorrow is a new day")
				So(due, ShouldBeNil)
			})
		})

		Convey("When date words are only part of longer words", func() {
			Convey("Then a day count inside a word is left alone", func() {
				text, due := e.Extract("join 5 days of yoga")
				So(text, ShouldEqual, "join 5 days of yoga")
				So(due, ShouldBeNil)
			})

			Convey("Then a preposition inside a word is left alone", func() {
				text, due := e.Extract("standby tomorrow shift")
				So(text, ShouldEqual, "standby tomorrow shift")
				So(due, ShouldBeNil)
			})

			Convey("Then a phrase running into a longer word is left alone", func() {
				text, due := e.Extract("meet by tomorrowland")
				So(text, ShouldEqual, "meet by tomorrowland")
				So(due, ShouldBeNil)
			})
		})

		Convey("When N is enormous", func() {
			_, due := e.Extract("retire in 99999999999999999999999 days")

			Convey("Then the offset should be clamped", func() {
				So(*due, ShouldEqual, now.AddDate(0, 0, dates.MaxDays))
			})
		})

		Convey("When N is zero", func() {
			_, due := e.Extract("start in 0 days")

			Convey("Then due should be now", func() {
				So(*due, ShouldEqual, now)
			})
		})

		Convey("When the clause has no date", func() {
			text, due := e.Extract("  learn to juggle ")

			Convey("Then only trimming should happen", func() {
				So(text, ShouldEqual, "learn to juggle")
				So(due, ShouldBeNil)
			})
		})
	})

	Convey("Given an extractor with a custom phrase table", t, func() {
		e := dates.NewExtractor(
			dates.WithClock(clock),
			dates.WithPhrases([]dates.Phrase{{Text: "next year", Offset: dates.Offset{Years: 1}}}),
		)

		Convey("Then only the custom phrases should resolve", func() {
			text, due := e.Extract("run a marathon by next year")
			So(text, ShouldEqual, "run a marathon")
			So(*due, ShouldEqual, now.AddDate(1, 0, 0))

			_, due = e.Extract("run by tomorrow")
			So(due, ShouldBeNil)
		})
	})
}
