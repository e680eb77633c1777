package model

import "time"

// Advice is a static catalog entry.
type Advice struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Quote is a static catalog entry.
type Quote struct {
	Text   string   `json:"text"`
	Author string   `json:"author"`
	Labels []string `json:"labels"`
}

// Reflection is a past diary entry written after working on a goal.
type Reflection struct {
	ID        string    `json:"id,omitempty"`
	GoalTitle string    `json:"goal_title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ReflectionMatch pairs a reflection with its similarity score.
type ReflectionMatch struct {
	Reflection Reflection `json:"reflection"`
	Score      float64    `json:"score"`
}
