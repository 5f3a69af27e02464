package dto

type AnalyzeInput struct {
	Frame         []byte
	Goal          string
	ElapsedSec    int
	CurrentStreak float64
}

type VerdictOutput struct {
	IsDistracted    bool
	DistractionType string
	Confidence      float64
}

type PlanInput struct {
	DistractionType  string
	Goal             string
	Personality      string
	DistractionCount int
	Breakdown        map[string]int
}

type PlanOutput struct {
	Tone                string
	Message             string
	RecommendedRecovery string
	ShouldAlarm         bool
}

type TasksInput struct {
	Goal  string
	Count int
}

type TaskOutput struct {
	Type         string
	Prompt       string
	EstimatedSec int
}

type ValidateInput struct {
	Task   string
	Answer string
	Goal   string
}

type ValidationOutput struct {
	Valid    bool
	Feedback string
}

type SessionSummary struct {
	DurationMin  int
	FocusPercent float64
}

type SuggestInput struct {
	Goal    string
	History []SessionSummary
}

type SuggestionOutput struct {
	DurationMin int
	Mode        string
	Personality string
	Reasoning   string
	Tips        string
}

type ChatTurn struct {
	Role string
	Text string
}

type ChatInput struct {
	History []ChatTurn
	Message string
	Goal    string
}

type InsightsInput struct {
	DurationMin      int
	FocusPercent     float64
	DistractionCount int
}

type InsightsOutput struct {
	Positive    string
	Improvement string
	Pattern     string
}
