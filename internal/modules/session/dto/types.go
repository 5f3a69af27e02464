package dto

import "time"

type StartInput struct {
	Goal string
}

type EndInput struct {
	// Confirmed is set once the user has agreed to end early.
	Confirmed bool
}

type ChatTurn struct {
	Role string
	Text string
	At   time.Time
}

type StateOutput struct {
	SessionID         string
	Status            string
	StartTime         time.Time
	Goal              string
	Mode              string
	DurationMin       int
	ElapsedSec        int
	FocusSec          int
	DistractionSec    int
	RemainingSec      int
	DistractionCount  int
	Breakdown         map[string]int
	CurrentStreak     float64
	LongestStreak     float64
	NextBreakIn       int
	BreaksEnabled     bool
	BreaksTaken       int
	ActiveDistraction string
	FocusPercent      float64
	Chat              []ChatTurn
}

type InsightsOutput struct {
	Positive    string
	Improvement string
	Pattern     string
}

type RecordOutput struct {
	ID               string
	StartedAt        time.Time
	EndedAt          time.Time
	TotalMin         int
	FocusMin         int
	DistractedMin    int
	FocusPercent     float64
	DistractionCount int
	Breakdown        map[string]int
	LongestStreak    float64
	BreaksTaken      int
	Mode             string
	Goal             string
	Insights         *InsightsOutput
	NotePath         string
}

type EventOutput struct {
	Kind     string
	Type     string
	Notified bool
	At       time.Time
	State    StateOutput
}

type TickOutput struct {
	State StateOutput
	// Due is set once the planned duration has elapsed.
	Due bool
}
