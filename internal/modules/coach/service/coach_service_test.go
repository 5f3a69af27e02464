package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"focustree/internal/modules/coach/domain"
	apperrors "focustree/internal/platform/errors"
	"focustree/internal/platform/logging"
)

type fakeModel struct {
	reply string
	err   error
	block bool
	last  domain.Request
}

func (m *fakeModel) Generate(ctx context.Context, req domain.Request) (string, error) {
	m.last = req
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.reply, m.err
}

func newService(model *fakeModel) *CoachService {
	t := DefaultTimeouts()
	t.Analysis = 50 * time.Millisecond
	t.Plan = 50 * time.Millisecond
	return NewCoachService(model, t, logging.Discard())
}

func TestAnalyzeDecodesFencedReply(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: "```json\n{\"isDistracted\": true, \"distractionType\": \"phone\", \"confidence\": 88}\n```"}
	v, err := newService(model).Analyze(context.Background(), []byte{0xff, 0xd8}, domain.AnalysisContext{Goal: "thesis"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !v.IsDistracted || v.DistractionType != "phone" || v.Confidence != 88 {
		t.Fatalf("unexpected verdict: %+v", v)
	}
	if model.last.Kind != domain.KindAnalyze || len(model.last.Image) != 2 {
		t.Fatalf("unexpected request: %+v", model.last)
	}
}

func TestAnalyzeTimeoutReturnsSafeVerdict(t *testing.T) {
	t.Parallel()

	v, err := newService(&fakeModel{block: true}).Analyze(context.Background(), nil, domain.AnalysisContext{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if v != domain.SafeVerdict() {
		t.Fatalf("expected safe verdict, got %+v", v)
	}
}

func TestRateLimitErrorsAreWrapped(t *testing.T) {
	t.Parallel()

	_, err := newService(&fakeModel{err: errors.New("status 429 RESOURCE_EXHAUSTED")}).Analyze(context.Background(), nil, domain.AnalysisContext{})
	if !errors.Is(err, apperrors.ErrRateLimited) {
		t.Fatalf("expected rate limited, got %v", err)
	}
}

func TestPlanFallbackOnGarbage(t *testing.T) {
	t.Parallel()

	plan, err := newService(&fakeModel{reply: "sure thing!"}).PlanIntervention(context.Background(), domain.PlanContext{DistractionType: "phone"})
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if plan != domain.FallbackPlan() {
		t.Fatalf("expected fallback plan, got %+v", plan)
	}
}

func TestPlanNormalizesUnknownValues(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: `{"interventionTone":"sarcastic","customMessage":"","recommendedRecovery":"dance","shouldAlarm":false}`}
	plan, err := newService(model).PlanIntervention(context.Background(), domain.PlanContext{})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.Tone != "firm" || plan.RecommendedRecovery != "" || plan.Message == "" || plan.ShouldAlarm {
		t.Fatalf("unexpected plan: %+v", plan)
	}
}

func TestGenerateTasksFiltersAndFallsBack(t *testing.T) {
	t.Parallel()

	model := &fakeModel{reply: `{"tasks":[{"taskType":"listing","taskPrompt":"List two things","estimatedTime":0},{"taskType":"x","taskPrompt":"  "}]}`}
	tasks, err := newService(model).GenerateTasks(context.Background(), "essay", 0)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].EstimatedTime != domain.FallbackTask().EstimatedTime {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	if model.last.Context["count"] != "5" {
		t.Fatalf("expected default batch size, got %q", model.last.Context["count"])
	}

	tasks, err = newService(&fakeModel{reply: "[]"}).GenerateTasks(context.Background(), "essay", 3)
	if err == nil || len(tasks) != 1 || tasks[0] != domain.FallbackTask() {
		t.Fatalf("expected fallback task, got %+v err=%v", tasks, err)
	}
}

func TestValidateAnswerAcceptsOnError(t *testing.T) {
	t.Parallel()

	v, err := newService(&fakeModel{err: errors.New("boom")}).ValidateAnswer(context.Background(), "task", "answer", "goal")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !v.Valid || v.Feedback != "Accepted." {
		t.Fatalf("expected accepted validation, got %+v", v)
	}
}

func TestChatTrimsHistory(t *testing.T) {
	t.Parallel()

	history := make([]domain.Turn, 0, 10)
	for i := 0; i < 10; i++ {
		history = append(history, domain.Turn{Role: domain.RoleUser, Text: "q"})
	}
	model := &fakeModel{reply: "  Keep going.  "}
	reply, err := newService(model).Chat(context.Background(), history, "help", "thesis")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "Keep going." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if len(model.last.History) != domain.ChatHistoryLimit {
		t.Fatalf("expected %d turns, got %d", domain.ChatHistoryLimit, len(model.last.History))
	}
}

func TestNilModelUsesFallbacks(t *testing.T) {
	t.Parallel()

	svc := NewCoachService(nil, DefaultTimeouts(), logging.Discard())
	insights, err := svc.Insights(context.Background(), domain.SessionStats{})
	if !errors.Is(err, apperrors.ErrModelUnavailable) {
		t.Fatalf("expected model unavailable, got %v", err)
	}
	if insights != domain.FallbackInsights() {
		t.Fatalf("unexpected insights %+v", insights)
	}
	s, _ := svc.SuggestConfig(context.Background(), "goal", nil)
	if s != domain.FallbackSuggestion() {
		t.Fatalf("unexpected suggestion %+v", s)
	}
}
