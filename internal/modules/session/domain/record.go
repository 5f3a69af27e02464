package domain

import (
	"math"
	"time"
)

type Insights struct {
	Positive    string `json:"positive"`
	Improvement string `json:"improvement"`
	Pattern     string `json:"pattern"`
}

// Record is the summary written when a session completes.
type Record struct {
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
	Insights         *Insights
	NotePath         string
}

func (s State) Record(endedAt time.Time) Record {
	breakdown := make(map[string]int, len(s.Breakdown))
	for k, v := range s.Breakdown {
		breakdown[k] = v
	}
	return Record{
		ID:               s.SessionID,
		StartedAt:        s.StartTime,
		EndedAt:          endedAt,
		TotalMin:         s.ElapsedTime / 60,
		FocusMin:         s.FocusTime / 60,
		DistractedMin:    s.DistractionTime / 60,
		FocusPercent:     math.Round(s.FocusPercent()*10) / 10,
		DistractionCount: s.DistractionCount,
		Breakdown:        breakdown,
		LongestStreak:    math.Round(s.LongestStreak*10) / 10,
		BreaksTaken:      s.BreaksTaken,
		Mode:             s.Mode,
		Goal:             s.Goal,
	}
}
