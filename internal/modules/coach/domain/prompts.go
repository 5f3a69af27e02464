package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const analyzePrompt = `Analyze the image for productivity. Return ONLY JSON: {"isDistracted": boolean, "distractionType": "phone" | "leftDesk" | "none", "confidence": number (0-100)}.

Rules:
1. "phone": only when the user is actively holding a phone near the face or typing on it. A phone lying on the desk is not a distraction.
2. "leftDesk": only when the chair is clearly empty. A partially visible person or someone reaching for something is "none".
3. "none": drinking water, writing notes or looking at the monitor are not distractions.

Be lenient. If unsure, return "none".`

func AnalyzeRequest(frame []byte, c AnalysisContext) Request {
	return Request{
		Kind:      KindAnalyze,
		Prompt:    analyzePrompt,
		Image:     frame,
		ImageMIME: "image/jpeg",
		MaxTokens: 100,
		JSON:      true,
		Context: map[string]string{
			"goal":    c.Goal,
			"elapsed": strconv.Itoa(c.ElapsedSec),
			"streak":  strconv.FormatFloat(c.CurrentStreak, 'f', 1, 64),
		},
	}
}

func PlanRequest(c PlanContext) Request {
	history, _ := json.Marshal(sortedBreakdown(c.Breakdown))
	prompt := fmt.Sprintf(`User distracted (%s). Task: %s. Personality: %s. Distractions so far: %d, by type: %s.
Plan an intervention. Return ONLY JSON: {"interventionTone": "gentle" | "firm" | "strict" | "humorous", "customMessage": string, "recommendedRecovery": "context_aware" | "physical_reset" | "reflection" | "simple_click", "shouldAlarm": boolean}.
The message is spoken aloud, keep it under 25 words and in the personality's voice.`,
		c.DistractionType, orUnknown(c.Goal), c.Personality, c.DistractionCount, history)
	return Request{
		Kind:      KindPlan,
		Prompt:    prompt,
		MaxTokens: 200,
		JSON:      true,
		Context: map[string]string{
			"distraction": c.DistractionType,
			"personality": c.Personality,
			"count":       strconv.Itoa(c.DistractionCount),
		},
	}
}

func TasksRequest(goal string, n int) Request {
	return Request{
		Kind: KindTasks,
		Prompt: fmt.Sprintf(`Generate %d quick engagement tasks that pull the user back into: %q.
Return ONLY a JSON array of {"taskType": "definition" | "explanation" | "listing" | "planning", "taskPrompt": string, "estimatedTime": seconds}.`, n, orUnknown(goal)),
		JSON:    true,
		Context: map[string]string{"goal": goal, "count": strconv.Itoa(n)},
	}
}

func ValidateRequest(task, answer, goal string) Request {
	return Request{
		Kind:      KindValidate,
		Prompt:    fmt.Sprintf(`Task: %q. Answer: %q. Working on: %q. Is the answer a genuine attempt? Return ONLY JSON {"isValid": boolean, "feedback": string}.`, task, answer, goal),
		MaxTokens: 40,
		JSON:      true,
		Context:   map[string]string{"task": task, "answer": answer},
	}
}

func SuggestRequest(goal string, history []SessionSummary) Request {
	compact := make([]map[string]any, 0, len(history))
	for _, s := range history {
		compact = append(compact, map[string]any{"d": s.DurationMin, "f": s.FocusPercent})
	}
	raw, _ := json.Marshal(compact)
	return Request{
		Kind: KindSuggest,
		Prompt: fmt.Sprintf(`Suggest a focus session config. History (d=minutes, f=focus %%): %s. Goal: %q.
Return ONLY JSON {"recommendedDuration": minutes, "recommendedMode": "hardcore" | "focused" | "chill", "recommendedPersonality": "supportive_friend" | "drill_sergeant" | "roast_mode" | "calm_coach" | "hype_mode", "reasoning": string, "tips": string}.`, raw, goal),
		JSON:    true,
		Context: map[string]string{"goal": goal, "sessions": strconv.Itoa(len(history))},
	}
}

func ChatRequest(history []Turn, message, goal string) Request {
	if len(history) > ChatHistoryLimit {
		history = history[len(history)-ChatHistoryLimit:]
	}
	return Request{
		Kind:      KindChat,
		System:    fmt.Sprintf("Focus assistant for someone working on: %s. Be brief.", orUnknown(goal)),
		Prompt:    message,
		History:   append([]Turn(nil), history...),
		MaxTokens: 100,
		Context:   map[string]string{"goal": goal},
	}
}

func InsightsRequest(s SessionStats) Request {
	raw, _ := json.Marshal(map[string]any{"t": s.DurationMin, "f": s.FocusPercent, "d": s.DistractionCount})
	return Request{
		Kind:    KindInsights,
		Prompt:  fmt.Sprintf(`Give insights for this focus session: %s. Return ONLY JSON {"positive": string, "improvement": string, "pattern": string}.`, raw),
		JSON:    true,
		Context: map[string]string{"focus": strconv.FormatFloat(s.FocusPercent, 'f', 0, 64), "distractions": strconv.Itoa(s.DistractionCount)},
	}
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "an unspecified task"
	}
	return s
}

type breakdownEntry struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

func sortedBreakdown(m map[string]int) []breakdownEntry {
	out := make([]breakdownEntry, 0, len(m))
	for k, v := range m {
		out = append(out, breakdownEntry{Type: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
