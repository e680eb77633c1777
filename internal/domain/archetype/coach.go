package archetype

import (
	"sort"

	"github.com/samber/lo"
)

// Coach is the persona presented to the user.
type Coach struct {
	Name          string    `json:"name"`
	Archetype     Archetype `json:"archetype"`
	Traits        []string  `json:"traits"`
	Personality   string    `json:"personality"`
	SpeakingStyle string    `json:"speaking_style"`
}

// NewCoach builds the coach that best fits traits.
func (m *Matcher) NewCoach(traits []string) Coach {
	a := m.BestMatch(traits)
	set := lo.Uniq(traits)
	sort.Strings(set)
	return Coach{
		Name:          "Coach " + a.DisplayName(),
		Archetype:     a,
		Traits:        set,
		Personality:   a.Description(),
		SpeakingStyle: a.SpeakingStyle(),
	}
}
