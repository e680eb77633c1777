package extraction

import (
	"time"

	"github.com/okian/herocoach/internal/domain/model"
)

// groupState is the state of the run-length grouping machine.
type groupState int

const (
	stateIdle groupState = iota // no open group
	stateOpen                   // a group with label Grouper.label is open
)

// Grouper merges consecutive same-label clauses into goal groups.
// The first clause of a run becomes the main goal and later clauses of the
// same run become mini-goals. Labels are compared only with the previous
// retained clause, so identical labels separated by another label form
// distinct groups. The zero value is ready to use.
type Grouper struct {
	state   groupState
	label   string
	current model.ExtractedGoalGroup
	done    []model.ExtractedGoalGroup
}

// Feed adds one classified clause.
func (g *Grouper) Feed(label, text string, due *time.Time) {
	if g.state == stateOpen && label == g.label {
		g.current.MiniGoals = append(g.current.MiniGoals, model.MiniGoal{Title: text, DueDate: due})
		return
	}

	g.closeCurrent()
	g.state = stateOpen
	g.label = label
	g.current = model.ExtractedGoalGroup{
		Label:     label,
		MainGoal:  text,
		MiniGoals: []model.MiniGoal{},
	}
}

// Close ends the open group and returns every finished group in order.
// Groups with an empty main goal or label are dropped.
func (g *Grouper) Close() []model.ExtractedGoalGroup {
	g.closeCurrent()
	g.state = stateIdle
	g.label = ""
	out := g.done
	g.done = nil
	return out
}

func (g *Grouper) closeCurrent() {
	if g.state != stateOpen {
		return
	}
	if g.current.MainGoal != "" && g.current.Label != "" {
		g.done = append(g.done, g.current)
	}
	g.current = model.ExtractedGoalGroup{}
}
