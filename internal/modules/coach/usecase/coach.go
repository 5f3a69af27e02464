package usecase

import (
	"context"

	"focustree/internal/modules/coach/domain"
	coachdto "focustree/internal/modules/coach/dto"
	coachin "focustree/internal/modules/coach/port/in"
	"focustree/internal/modules/coach/service"
)

type Interactor struct {
	svc *service.CoachService
}

func NewInteractor(svc *service.CoachService) coachin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Analyze(ctx context.Context, input coachdto.AnalyzeInput) (coachdto.VerdictOutput, error) {
	v, err := i.svc.Analyze(ctx, input.Frame, domain.AnalysisContext{
		Goal:          input.Goal,
		ElapsedSec:    input.ElapsedSec,
		CurrentStreak: input.CurrentStreak,
	})
	return coachdto.VerdictOutput{IsDistracted: v.IsDistracted, DistractionType: v.DistractionType, Confidence: v.Confidence}, err
}

func (i *Interactor) PlanIntervention(ctx context.Context, input coachdto.PlanInput) (coachdto.PlanOutput, error) {
	p, err := i.svc.PlanIntervention(ctx, domain.PlanContext{
		DistractionType:  input.DistractionType,
		Goal:             input.Goal,
		Personality:      input.Personality,
		DistractionCount: input.DistractionCount,
		Breakdown:        input.Breakdown,
	})
	return coachdto.PlanOutput{
		Tone:                p.Tone,
		Message:             p.Message,
		RecommendedRecovery: p.RecommendedRecovery,
		ShouldAlarm:         p.ShouldAlarm,
	}, err
}

func (i *Interactor) GenerateTasks(ctx context.Context, input coachdto.TasksInput) ([]coachdto.TaskOutput, error) {
	tasks, err := i.svc.GenerateTasks(ctx, input.Goal, input.Count)
	out := make([]coachdto.TaskOutput, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, coachdto.TaskOutput{Type: t.Type, Prompt: t.Prompt, EstimatedSec: t.EstimatedTime})
	}
	return out, err
}

func (i *Interactor) ValidateAnswer(ctx context.Context, input coachdto.ValidateInput) (coachdto.ValidationOutput, error) {
	v, err := i.svc.ValidateAnswer(ctx, input.Task, input.Answer, input.Goal)
	return coachdto.ValidationOutput{Valid: v.Valid, Feedback: v.Feedback}, err
}

func (i *Interactor) SuggestConfig(ctx context.Context, input coachdto.SuggestInput) (coachdto.SuggestionOutput, error) {
	history := make([]domain.SessionSummary, 0, len(input.History))
	for _, h := range input.History {
		history = append(history, domain.SessionSummary{DurationMin: h.DurationMin, FocusPercent: h.FocusPercent})
	}
	s, err := i.svc.SuggestConfig(ctx, input.Goal, history)
	return coachdto.SuggestionOutput{
		DurationMin: s.DurationMin,
		Mode:        s.Mode,
		Personality: s.Personality,
		Reasoning:   s.Reasoning,
		Tips:        s.Tips,
	}, err
}

func (i *Interactor) Chat(ctx context.Context, input coachdto.ChatInput) (string, error) {
	history := make([]domain.Turn, 0, len(input.History))
	for _, turn := range input.History {
		role := domain.RoleUser
		if turn.Role != string(domain.RoleUser) {
			role = domain.RoleModel
		}
		history = append(history, domain.Turn{Role: role, Text: turn.Text})
	}
	return i.svc.Chat(ctx, history, input.Message, input.Goal)
}

func (i *Interactor) Insights(ctx context.Context, input coachdto.InsightsInput) (coachdto.InsightsOutput, error) {
	out, err := i.svc.Insights(ctx, domain.SessionStats{
		DurationMin:      input.DurationMin,
		FocusPercent:     input.FocusPercent,
		DistractionCount: input.DistractionCount,
	})
	return coachdto.InsightsOutput{Positive: out.Positive, Improvement: out.Improvement, Pattern: out.Pattern}, err
}
