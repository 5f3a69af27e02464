package domain

import "time"

// Suggestion is an AI-proposed starting configuration.
type Suggestion struct {
	DurationMin int
	Mode        Mode
	Personality Personality
	Reasoning   string
	Tip         string
}

func FallbackSuggestion() Suggestion {
	return Suggestion{
		DurationMin: 25,
		Mode:        ModeFocused,
		Personality: PersonalitySupportiveFriend,
		Reasoning:   "Starting with a standard focused session.",
		Tip:         "Clear your desk.",
	}
}

// PastSession is the slice of session history a suggestion is based on.
type PastSession struct {
	StartedAt    time.Time
	DurationMin  int
	FocusPercent float64
	Distractions int
	Mode         Mode
	Goal         string
}

// SuggestionHistory is how many recent sessions feed a suggestion.
const SuggestionHistory = 3

// Adopt folds a suggestion into the config the user is about to start.
func (c Config) Adopt(s Suggestion) Config {
	out := c
	if s.DurationMin > 0 {
		out.DurationMin = s.DurationMin
	}
	switch s.Mode {
	case ModeHardcore, ModeFocused, ModeChill, ModeCustom:
		out.Mode = s.Mode
	}
	switch s.Personality {
	case PersonalitySupportiveFriend, PersonalityDrillSergeant, PersonalityRoastMode, PersonalityCalmCoach, PersonalityHypeMode:
		out.Personality = s.Personality
	}
	return out
}
