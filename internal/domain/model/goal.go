// Package model contains domain models passed between layers.
package model

import "time"

// NoneLabel is the classifier label that marks a clause as not a goal.
const NoneLabel = "none"

// MiniGoal is a subordinate clause of an extracted goal group.
type MiniGoal struct {
	Title   string     `json:"title"`
	DueDate *time.Time `json:"due_date,omitempty"` // nil when no date phrase was found
}

// ExtractedGoalGroup is one contiguous run of same-label clauses.
// MainGoal is the cleaned text of the first clause in the run.
type ExtractedGoalGroup struct {
	Label     string     `json:"label"`
	MainGoal  string     `json:"main_goal"`
	MiniGoals []MiniGoal `json:"mini_goals"`
}

// Goal identifies a user goal for matching purposes.
type Goal struct {
	Title string `json:"title"`
	Label string `json:"label"`
}

// GoalDraft is a goal ready to be persisted by a caller.
type GoalDraft struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Label     string          `json:"label"`
	CreatedAt time.Time       `json:"created_at"`
	MiniGoals []MiniGoalDraft `json:"mini_goals"`
}

// MiniGoalDraft is a mini-goal with a resolved due date.
type MiniGoalDraft struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	DueDate   time.Time `json:"due_date"`
	Completed bool      `json:"completed"`
}

// IsCompleted reports whether every mini-goal is done. A goal without
// mini-goals is never complete.
func (g GoalDraft) IsCompleted() bool {
	if len(g.MiniGoals) == 0 {
		return false
	}
	for _, m := range g.MiniGoals {
		if !m.Completed {
			return false
		}
	}
	return true
}
