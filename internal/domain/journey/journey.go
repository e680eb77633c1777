// Package journey tracks a user's rank as goals are completed.
package journey

import "fmt"

// Rank is a stage of the hero journey.
type Rank int

const (
	Rookie Rank = iota
	Guardian
	Hero
)

// Ranks lists every rank in ascending order.
var Ranks = []Rank{Rookie, Guardian, Hero}

var rankInfo = [...]struct {
	name        string
	required    int
	description string
}{
	Rookie:   {"Rookie", 0, "Beginning your journey to become a hero"},
	Guardian: {"Guardian", 5, "Protecting and guiding others on their path"},
	Hero:     {"Hero", 10, "A true champion of personal growth"},
}

func (r Rank) String() string {
	if r < Rookie || r > Hero {
		return fmt.Sprintf("rank(%d)", int(r))
	}
	return rankInfo[r].name
}

// RequiredGoals is the completed-goal count needed to reach r.
func (r Rank) RequiredGoals() int { return rankInfo[r].required }

// Description is a short flavour text.
func (r Rank) Description() string { return rankInfo[r].description }

// MarshalText implements encoding.TextMarshaler.
func (r Rank) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// RankFor returns the rank earned by completed goals.
func RankFor(completed int) Rank {
	rank := Rookie
	for _, r := range Ranks {
		if completed >= rankInfo[r].required {
			rank = r
		}
	}
	return rank
}

// Progress is a snapshot of the journey.
type Progress struct {
	Level       int    `json:"level"`
	Rank        Rank   `json:"rank"`
	Description string `json:"description"`
	// NextRankAt is the completed-goal count of the next rank, 0 at the top.
	NextRankAt int `json:"next_rank_at"`
}

// ProgressFor computes the journey snapshot; negative counts are treated as 0.
func ProgressFor(completed int) Progress {
	if completed < 0 {
		completed = 0
	}
	rank := RankFor(completed)
	p := Progress{
		Level:       completed,
		Rank:        rank,
		Description: rank.Description(),
	}
	if rank < Hero {
		p.NextRankAt = (rank + 1).RequiredGoals()
	}
	return p
}
