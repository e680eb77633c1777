// Package archetype maps a user's chosen traits to a coaching archetype.
package archetype

import (
	"fmt"
	"strings"
)

// Archetype is a coaching persona.
type Archetype int

// Declaration order is also the tie-break order of Matcher.BestMatch.
const (
	Mentor Archetype = iota
	Challenger
	Motivator
	Nurturer
	Strategist
	Innovator
)

// All lists every archetype in declaration order.
var All = []Archetype{Mentor, Challenger, Motivator, Nurturer, Strategist, Innovator}

type meta struct {
	name        string
	displayName string
	description string
	style       string
	response    string // %s is replaced by the goal
}

var metadata = [...]meta{
	Mentor: {
		name:        "mentor",
		displayName: "The Wise Mentor",
		description: "A wise and experienced guide who combines deep knowledge with patient understanding.",
		style:       "speaks with wisdom and uses thought-provoking questions",
		response:    "I see wisdom in your goal to %s. Let's explore this path together and understand its deeper meaning.",
	},
	Challenger: {
		name:        "challenger",
		displayName: "The Challenger",
		description: "A dynamic force who pushes you to exceed your own expectations and break through barriers.",
		style:       "uses direct, action-oriented language and challenging questions",
		response:    "That's an interesting goal - to %s. Are you ready to push your limits and make it happen?",
	},
	Motivator: {
		name:        "motivator",
		displayName: "The Motivator",
		description: "An energetic enthusiast who inspires you to take action and stay positive.",
		style:       "speaks with enthusiasm and energy, using positive reinforcement",
		response:    "I love your ambition to %s! Together, we'll turn this goal into reality with passion and determination!",
	},
	Nurturer: {
		name:        "nurturer",
		displayName: "The Nurturer",
		description: "A supportive presence who helps you grow while maintaining balance and well-being.",
		style:       "uses gentle, supportive language and emphasizes personal growth",
		response:    "Your goal to %s is a wonderful step in your personal journey. Let's nurture this aspiration together.",
	},
	Strategist: {
		name:        "strategist",
		displayName: "The Strategist",
		description: "An analytical thinker who helps you plan and execute your goals effectively.",
		style:       "communicates clearly and logically, focusing on practical steps",
		response:    "Your goal to %s is clear. Let's break this down into actionable steps and create a winning strategy.",
	},
	Innovator: {
		name:        "innovator",
		displayName: "The Innovator",
		description: "A creative force who helps you think outside the box and find unique solutions.",
		style:       "speaks creatively and encourages exploring new perspectives",
		response:    "What an interesting goal - to %s! Let's think creatively about unique ways to achieve this.",
	},
}

func (a Archetype) valid() bool { return a >= Mentor && a <= Innovator }

// String returns the short identifier, e.g. "mentor".
func (a Archetype) String() string {
	if !a.valid() {
		return fmt.Sprintf("archetype(%d)", int(a))
	}
	return metadata[a].name
}

// DisplayName returns the human-readable name, e.g. "The Wise Mentor".
func (a Archetype) DisplayName() string {
	if !a.valid() {
		return ""
	}
	return metadata[a].displayName
}

// Description returns a one-sentence personality summary.
func (a Archetype) Description() string {
	if !a.valid() {
		return ""
	}
	return metadata[a].description
}

// SpeakingStyle describes how the coach talks.
func (a Archetype) SpeakingStyle() string {
	if !a.valid() {
		return ""
	}
	return metadata[a].style
}

// Respond returns the coach's opening line for goal.
func (a Archetype) Respond(goal string) string {
	if !a.valid() {
		return ""
	}
	return fmt.Sprintf(metadata[a].response, strings.TrimSpace(goal))
}

// MarshalText implements encoding.TextMarshaler.
func (a Archetype) MarshalText() ([]byte, error) {
	if !a.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownArchetype, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Archetype) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Parse accepts either the short identifier or the display name.
func Parse(s string) (Archetype, error) {
	s = strings.TrimSpace(s)
	for _, a := range All {
		if strings.EqualFold(s, metadata[a].name) || strings.EqualFold(s, metadata[a].displayName) {
			return a, nil
		}
	}
	return Mentor, fmt.Errorf("%w: %q", ErrUnknownArchetype, s)
}
