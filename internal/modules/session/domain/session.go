package domain

import (
	"strings"
	"time"
)

const SchemaVersion = 1

// SnapshotMaxAge bounds how old a saved session may be and still resume.
const SnapshotMaxAge = 24 * time.Hour

// BreakExtension is added to the countdown by ExtendBreak.
const BreakExtension = 300

// ChatLimit bounds the chat transcript kept in the snapshot.
const ChatLimit = 50

type Status string

const (
	StatusActive     Status = "active"
	StatusPaused     Status = "paused"
	StatusBreak      Status = "break"
	StatusDistracted Status = "distracted"
	StatusCompleted  Status = "completed"
)

type DistractionType string

const (
	DistractionPhone       DistractionType = "phone"
	DistractionLeftDesk    DistractionType = "leftDesk"
	DistractionSocialMedia DistractionType = "socialMedia"
	DistractionOther       DistractionType = "other"
)

// NormalizeDistraction maps a free-form classifier label onto the fixed set.
func NormalizeDistraction(raw string) DistractionType {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "phone"), strings.Contains(s, "texting"):
		return DistractionPhone
	case strings.Contains(s, "left"), strings.Contains(s, "missing"):
		return DistractionLeftDesk
	case strings.Contains(s, "social"):
		return DistractionSocialMedia
	default:
		return DistractionOther
	}
}

type ChatMessage struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Schedule is the work/break rhythm in seconds. Disabled means no breaks.
type Schedule struct {
	Enabled  bool `json:"enabled"`
	WorkSec  int  `json:"work_sec"`
	BreakSec int  `json:"break_sec"`
}

// State is the live session. Every counter is in seconds except the streaks,
// which are minutes.
type State struct {
	SchemaVersion     int             `json:"schema_version"`
	SessionID         string          `json:"session_id"`
	Status            Status          `json:"status"`
	StartTime         time.Time       `json:"start_time"`
	SavedAt           time.Time       `json:"saved_at"`
	Goal              string          `json:"goal"`
	Mode              string          `json:"mode"`
	DurationMin       int             `json:"duration_min"`
	Schedule          Schedule        `json:"schedule"`
	ElapsedTime       int             `json:"elapsed_time"`
	FocusTime         int             `json:"focus_time"`
	DistractionTime   int             `json:"distraction_time"`
	DistractionCount  int             `json:"distraction_count"`
	Breakdown         map[string]int  `json:"distraction_breakdown"`
	CurrentStreak     float64         `json:"current_streak"`
	LongestStreak     float64         `json:"longest_streak"`
	NextBreakIn       int             `json:"next_break_in"`
	BreaksTaken       int             `json:"breaks_taken"`
	ActiveDistraction DistractionType `json:"active_distraction,omitempty"`
	ChatHistory       []ChatMessage   `json:"chat_history"`
}

func NewState(id, goal, mode string, durationMin int, schedule Schedule, now time.Time) State {
	s := State{
		SchemaVersion: SchemaVersion,
		SessionID:     id,
		Status:        StatusActive,
		StartTime:     now,
		SavedAt:       now,
		Goal:          strings.TrimSpace(goal),
		Mode:          mode,
		DurationMin:   durationMin,
		Schedule:      schedule,
		Breakdown:     map[string]int{},
	}
	if schedule.Enabled {
		s.NextBreakIn = schedule.WorkSec
	}
	return s
}

// Tick advances the session by one second. The break countdown is held while
// the user is distracted.
func (s *State) Tick() {
	switch s.Status {
	case StatusActive:
		s.ElapsedTime++
		s.FocusTime++
		s.CurrentStreak += 1.0 / 60.0
		if s.CurrentStreak > s.LongestStreak {
			s.LongestStreak = s.CurrentStreak
		}
		if s.Schedule.Enabled {
			s.NextBreakIn--
			if s.NextBreakIn <= 0 {
				s.Status = StatusBreak
				s.NextBreakIn = s.Schedule.BreakSec
				s.BreaksTaken++
			}
		}
	case StatusDistracted:
		s.ElapsedTime++
		s.DistractionTime++
	case StatusBreak:
		s.NextBreakIn--
		if s.NextBreakIn <= 0 {
			s.Status = StatusActive
			s.NextBreakIn = s.Schedule.WorkSec
		}
	}
}

// Due reports whether the planned duration has been worked through.
func (s State) Due() bool {
	return s.DurationMin > 0 && s.ElapsedTime >= s.DurationMin*60
}

func (s *State) RegisterDistraction(t DistractionType) {
	if s.Status == StatusCompleted {
		return
	}
	if s.Breakdown == nil {
		s.Breakdown = map[string]int{}
	}
	s.Status = StatusDistracted
	s.DistractionCount++
	s.Breakdown[string(t)]++
	s.CurrentStreak = 0
	s.ActiveDistraction = t
}

func (s *State) ResolveDistraction() {
	if s.Status == StatusDistracted {
		s.Status = StatusActive
	}
	s.ActiveDistraction = ""
}

func (s *State) TogglePause() {
	switch s.Status {
	case StatusActive:
		s.Status = StatusPaused
	case StatusPaused:
		s.Status = StatusActive
	}
}

func (s *State) StartBreak() {
	if s.Status == StatusCompleted || s.Status == StatusBreak {
		return
	}
	s.Status = StatusBreak
	s.NextBreakIn = s.Schedule.BreakSec
	if s.NextBreakIn <= 0 {
		s.NextBreakIn = BreakExtension
	}
	s.BreaksTaken++
	s.ActiveDistraction = ""
}

func (s *State) EndBreak() {
	if s.Status != StatusBreak {
		return
	}
	s.Status = StatusActive
	s.NextBreakIn = s.Schedule.WorkSec
}

func (s *State) ExtendBreak() {
	if s.Status == StatusBreak {
		s.NextBreakIn += BreakExtension
	}
}

func (s *State) AppendChat(role, text string, at time.Time) {
	s.ChatHistory = append(s.ChatHistory, ChatMessage{Role: role, Text: text, At: at})
	if len(s.ChatHistory) > ChatLimit {
		s.ChatHistory = append([]ChatMessage(nil), s.ChatHistory[len(s.ChatHistory)-ChatLimit:]...)
	}
}

func (s *State) Complete() {
	s.Status = StatusCompleted
	s.ActiveDistraction = ""
}

// Resumable reports whether a saved snapshot may be picked up again.
func (s State) Resumable(now time.Time) bool {
	if s.SessionID == "" || s.Status == StatusCompleted {
		return false
	}
	return now.Sub(s.SavedAt) < SnapshotMaxAge
}

func (s State) FocusPercent() float64 {
	if s.ElapsedTime <= 0 {
		return 0
	}
	return float64(s.FocusTime) / float64(s.ElapsedTime) * 100
}

func (s State) Clone() State {
	out := s
	out.Breakdown = make(map[string]int, len(s.Breakdown))
	for k, v := range s.Breakdown {
		out.Breakdown[k] = v
	}
	out.ChatHistory = append([]ChatMessage(nil), s.ChatHistory...)
	return out
}

// ShouldNotify decides whether a distraction earns a desktop notification.
func ShouldNotify(t DistractionType, strictest, terminalFocused, permitted bool) bool {
	if !permitted || terminalFocused {
		return false
	}
	switch t {
	case DistractionPhone:
		return true
	case DistractionLeftDesk:
		return strictest
	}
	return false
}
