package out

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"focustree/internal/modules/coach/domain"
	coachout "focustree/internal/modules/coach/port/out"
)

// OfflineModel answers every request from canned templates keyed by
// request kind. It never looks at images, so it never reports a distraction.
type OfflineModel struct{}

func NewOfflineModel() *OfflineModel {
	return &OfflineModel{}
}

var _ coachout.Model = (*OfflineModel)(nil)

var offlineLines = map[string]string{
	"drill_sergeant":    "Eyes front. The work is not going to do itself.",
	"roast_mode":        "Wow, riveting stuff over there. Your task misses you.",
	"calm_coach":        "Notice where your attention went, and gently bring it back.",
	"hype_mode":         "Let's go! Back in the zone, you've got this!",
	"supportive_friend": "Hey, quick nudge. Let's get back to it together.",
}

var offlineTones = map[string]string{
	"drill_sergeant":    "strict",
	"roast_mode":        "humorous",
	"calm_coach":        "gentle",
	"hype_mode":         "firm",
	"supportive_friend": "gentle",
}

func (m *OfflineModel) Generate(ctx context.Context, req domain.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var payload any
	switch req.Kind {
	case domain.KindAnalyze:
		payload = domain.SafeVerdict()
	case domain.KindPlan:
		payload = offlinePlan(req.Context)
	case domain.KindTasks:
		payload = offlineTasks(req.Context["goal"], atoiOr(req.Context["count"], domain.TaskBatchSize))
	case domain.KindValidate:
		answer := strings.Fields(req.Context["answer"])
		if len(answer) >= 3 {
			payload = domain.Validation{Valid: true, Feedback: "Good."}
		} else {
			payload = domain.Validation{Valid: false, Feedback: "Say a bit more."}
		}
	case domain.KindSuggest:
		s := domain.FallbackSuggestion()
		if atoiOr(req.Context["sessions"], 0) > 0 {
			s.Reasoning = "Keeping a steady focused block based on recent sessions."
		}
		payload = s
	case domain.KindChat:
		goal := strings.TrimSpace(req.Context["goal"])
		if goal == "" {
			return "Pick the smallest next step and do it now.", nil
		}
		return fmt.Sprintf("Stay with %s. Pick the smallest next step and do it now.", goal), nil
	case domain.KindInsights:
		payload = offlineInsights(req.Context)
	default:
		return "", fmt.Errorf("unsupported request kind %q", req.Kind)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func offlinePlan(c map[string]string) domain.Plan {
	personality := c["personality"]
	line, ok := offlineLines[personality]
	if !ok {
		line = offlineLines["supportive_friend"]
	}
	tone, ok := offlineTones[personality]
	if !ok {
		tone = "firm"
	}
	count := atoiOr(c["count"], 1)
	recovery := "simple_click"
	if count >= 3 {
		recovery = "reflection"
	}
	return domain.Plan{Tone: tone, Message: line, RecommendedRecovery: recovery, ShouldAlarm: count >= 2}
}

func offlineTasks(goal string, n int) []domain.Task {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		goal = "your task"
	}
	templates := []domain.Task{
		{Type: "planning", Prompt: fmt.Sprintf("What is the very next step for %s?", goal), EstimatedTime: 20},
		{Type: "listing", Prompt: fmt.Sprintf("List three things you still need to finish %s.", goal), EstimatedTime: 30},
		{Type: "explanation", Prompt: fmt.Sprintf("Explain in one sentence where you left off on %s.", goal), EstimatedTime: 25},
		{Type: "definition", Prompt: fmt.Sprintf("Define done for %s in your own words.", goal), EstimatedTime: 20},
		{Type: "planning", Prompt: fmt.Sprintf("What could block you on %s in the next ten minutes?", goal), EstimatedTime: 25},
	}
	if n <= 0 {
		n = domain.TaskBatchSize
	}
	out := make([]domain.Task, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, templates[i%len(templates)])
	}
	return out
}

func offlineInsights(c map[string]string) domain.Insights {
	out := domain.FallbackInsights()
	focus := atoiOr(c["focus"], -1)
	distractions := atoiOr(c["distractions"], -1)
	switch {
	case focus >= 90:
		out.Positive = "Excellent focus, nearly the whole session on task."
	case focus >= 70:
		out.Positive = "Solid session, most of the time on task."
	case focus >= 0:
		out.Positive = "You showed up and kept coming back."
	}
	if distractions == 0 {
		out.Improvement = "Try a longer session next time."
	}
	return out
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}
