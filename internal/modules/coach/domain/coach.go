package domain

import "strings"

// Kind names the purpose of a model request. Backends that do not run a
// language model (the offline plugin) answer by kind alone.
type Kind string

const (
	KindAnalyze  Kind = "analyze"
	KindPlan     Kind = "plan"
	KindTasks    Kind = "tasks"
	KindValidate Kind = "validate"
	KindSuggest  Kind = "suggest"
	KindChat     Kind = "chat"
	KindInsights Kind = "insights"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Turn struct {
	Role Role
	Text string
}

// Request is a single model call.
type Request struct {
	Kind      Kind
	System    string
	Prompt    string
	Image     []byte
	ImageMIME string
	History   []Turn
	MaxTokens int
	JSON      bool
	Context   map[string]string
}

// Verdict is the classifier reply for one frame.
type Verdict struct {
	IsDistracted    bool    `json:"isDistracted"`
	DistractionType string  `json:"distractionType"`
	Confidence      float64 `json:"confidence"`
}

func SafeVerdict() Verdict {
	return Verdict{IsDistracted: false, DistractionType: "none", Confidence: 0}
}

func (v Verdict) Normalize() Verdict {
	switch strings.ToLower(strings.TrimSpace(v.DistractionType)) {
	case "phone":
		v.DistractionType = "phone"
	case "leftdesk", "left_desk", "left desk":
		v.DistractionType = "leftDesk"
	default:
		v.DistractionType = "none"
	}
	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 100 {
		v.Confidence = 100
	}
	return v
}

type AnalysisContext struct {
	Goal          string
	ElapsedSec    int
	CurrentStreak float64
}

type Plan struct {
	Tone                string `json:"interventionTone"`
	Message             string `json:"customMessage"`
	RecommendedRecovery string `json:"recommendedRecovery"`
	ShouldAlarm         bool   `json:"shouldAlarm"`
}

func FallbackPlan() Plan {
	return Plan{
		Tone:                "firm",
		Message:             "Focus check. Let's get back to work.",
		RecommendedRecovery: "simple_click",
		ShouldAlarm:         true,
	}
}

func (p Plan) Normalize() Plan {
	switch p.Tone {
	case "gentle", "firm", "strict", "humorous":
	default:
		p.Tone = "firm"
	}
	switch p.RecommendedRecovery {
	case "context_aware", "physical_reset", "reflection", "simple_click":
	default:
		p.RecommendedRecovery = ""
	}
	if strings.TrimSpace(p.Message) == "" {
		p.Message = FallbackPlan().Message
	}
	return p
}

type PlanContext struct {
	DistractionType  string
	Goal             string
	Personality      string
	DistractionCount int
	Breakdown        map[string]int
}

type Task struct {
	Type          string `json:"taskType"`
	Prompt        string `json:"taskPrompt"`
	EstimatedTime int    `json:"estimatedTime"`
}

func FallbackTask() Task {
	return Task{Type: "planning", Prompt: "What is the next immediate step?", EstimatedTime: 20}
}

func (t Task) Valid() bool {
	return strings.TrimSpace(t.Prompt) != ""
}

// TaskBatchSize is how many recovery tasks one generation call asks for.
const TaskBatchSize = 5

type Validation struct {
	Valid    bool   `json:"isValid"`
	Feedback string `json:"feedback"`
}

func AcceptedValidation() Validation {
	return Validation{Valid: true, Feedback: "Accepted."}
}

type SessionSummary struct {
	DurationMin  int
	FocusPercent float64
}

type Suggestion struct {
	DurationMin int    `json:"recommendedDuration"`
	Mode        string `json:"recommendedMode"`
	Personality string `json:"recommendedPersonality"`
	Reasoning   string `json:"reasoning"`
	Tips        string `json:"tips"`
}

func FallbackSuggestion() Suggestion {
	return Suggestion{
		DurationMin: 25,
		Mode:        "focused",
		Personality: "supportive_friend",
		Reasoning:   "Starting with a standard focused session.",
		Tips:        "Clear your desk.",
	}
}

// ChatHistoryLimit bounds how many prior turns are sent with a chat request.
const ChatHistoryLimit = 6

const FallbackChatReply = "Let's get back to work."

type SessionStats struct {
	DurationMin      int
	FocusPercent     float64
	DistractionCount int
}

type Insights struct {
	Positive    string `json:"positive"`
	Improvement string `json:"improvement"`
	Pattern     string `json:"pattern"`
}

func FallbackInsights() Insights {
	return Insights{
		Positive:    "Good focus session.",
		Improvement: "Try to reduce interruptions.",
		Pattern:     "Consistent effort.",
	}
}
