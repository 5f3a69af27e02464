package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"focustree/internal/modules/coach/domain"
	coachout "focustree/internal/modules/coach/port/out"
	apperrors "focustree/internal/platform/errors"
	"focustree/internal/platform/failopen"
	"focustree/internal/platform/timeouts"
)

// Timeouts holds the deadline of each call kind.
type Timeouts struct {
	Analysis   time.Duration
	Plan       time.Duration
	Validation time.Duration
	Suggestion time.Duration
	Tasks      time.Duration
	Chat       time.Duration
	Insights   time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Analysis:   timeouts.Analysis,
		Plan:       timeouts.Plan,
		Validation: timeouts.Validation,
		Suggestion: timeouts.Suggestion,
		Tasks:      timeouts.Tasks,
		Chat:       timeouts.Chat,
		Insights:   timeouts.Insights,
	}
}

// CoachService wraps every model call in a deadline and a fallback. Each
// method returns a usable value even when it also returns an error.
type CoachService struct {
	model    coachout.Model
	timeouts Timeouts
	log      hclog.Logger
	tracer   trace.Tracer
}

func NewCoachService(model coachout.Model, t Timeouts, log hclog.Logger) *CoachService {
	return &CoachService{model: model, timeouts: t, log: log, tracer: otel.Tracer("focustree/coach")}
}

func (s *CoachService) Analyze(ctx context.Context, frame []byte, c domain.AnalysisContext) (domain.Verdict, error) {
	return call(ctx, s, domain.AnalyzeRequest(frame, c), s.timeouts.Analysis, domain.SafeVerdict(), func(text string) (domain.Verdict, error) {
		out := domain.Verdict{}
		if err := domain.Decode(text, &out); err != nil {
			return domain.Verdict{}, err
		}
		return out.Normalize(), nil
	})
}

func (s *CoachService) PlanIntervention(ctx context.Context, c domain.PlanContext) (domain.Plan, error) {
	return call(ctx, s, domain.PlanRequest(c), s.timeouts.Plan, domain.FallbackPlan(), func(text string) (domain.Plan, error) {
		out := domain.Plan{}
		if err := domain.Decode(text, &out); err != nil {
			return domain.Plan{}, err
		}
		return out.Normalize(), nil
	})
}

func (s *CoachService) GenerateTasks(ctx context.Context, goal string, n int) ([]domain.Task, error) {
	if n <= 0 {
		n = domain.TaskBatchSize
	}
	fallback := []domain.Task{domain.FallbackTask()}
	return call(ctx, s, domain.TasksRequest(goal, n), s.timeouts.Tasks, fallback, func(text string) ([]domain.Task, error) {
		var raw []domain.Task
		if err := domain.DecodeList(text, &raw); err != nil {
			return nil, err
		}
		tasks := make([]domain.Task, 0, len(raw))
		for _, t := range raw {
			if t.Valid() {
				if t.EstimatedTime <= 0 {
					t.EstimatedTime = domain.FallbackTask().EstimatedTime
				}
				tasks = append(tasks, t)
			}
		}
		if len(tasks) == 0 {
			return nil, fmt.Errorf("no usable tasks in reply")
		}
		return tasks, nil
	})
}

func (s *CoachService) ValidateAnswer(ctx context.Context, task, answer, goal string) (domain.Validation, error) {
	return call(ctx, s, domain.ValidateRequest(task, answer, goal), s.timeouts.Validation, domain.AcceptedValidation(), func(text string) (domain.Validation, error) {
		out := domain.Validation{}
		if err := domain.Decode(text, &out); err != nil {
			return domain.Validation{}, err
		}
		if strings.TrimSpace(out.Feedback) == "" {
			if out.Valid {
				out.Feedback = "Good."
			} else {
				out.Feedback = "Try again with a real attempt."
			}
		}
		return out, nil
	})
}

func (s *CoachService) SuggestConfig(ctx context.Context, goal string, history []domain.SessionSummary) (domain.Suggestion, error) {
	return call(ctx, s, domain.SuggestRequest(goal, history), s.timeouts.Suggestion, domain.FallbackSuggestion(), func(text string) (domain.Suggestion, error) {
		out := domain.Suggestion{}
		if err := domain.Decode(text, &out); err != nil {
			return domain.Suggestion{}, err
		}
		if out.DurationMin <= 0 {
			return domain.Suggestion{}, fmt.Errorf("suggestion without duration")
		}
		return out, nil
	})
}

func (s *CoachService) Chat(ctx context.Context, history []domain.Turn, message, goal string) (string, error) {
	return call(ctx, s, domain.ChatRequest(history, message, goal), s.timeouts.Chat, domain.FallbackChatReply, func(text string) (string, error) {
		text = strings.TrimSpace(text)
		if text == "" {
			return "Let's focus.", nil
		}
		return text, nil
	})
}

func (s *CoachService) Insights(ctx context.Context, stats domain.SessionStats) (domain.Insights, error) {
	return call(ctx, s, domain.InsightsRequest(stats), s.timeouts.Insights, domain.FallbackInsights(), func(text string) (domain.Insights, error) {
		out := domain.Insights{}
		if err := domain.Decode(text, &out); err != nil {
			return domain.Insights{}, err
		}
		return out, nil
	})
}

func call[T any](ctx context.Context, s *CoachService, req domain.Request, timeout time.Duration, fallback T, parse func(string) (T, error)) (T, error) {
	ctx, span := s.tracer.Start(ctx, "coach."+string(req.Kind), trace.WithAttributes(
		attribute.String("coach.kind", string(req.Kind)),
		attribute.Int64("coach.timeout_ms", timeout.Milliseconds()),
	))
	defer span.End()

	if s.model == nil {
		span.SetStatus(codes.Error, "no model")
		return fallback, apperrors.ErrModelUnavailable
	}
	out, err := failopen.Call(ctx, timeout, fallback, func(ctx context.Context) (T, error) {
		text, err := s.model.Generate(ctx, req)
		if err != nil {
			return fallback, err
		}
		return parse(text)
	})
	if err != nil {
		if domain.IsRateLimited(err) && !errors.Is(err, apperrors.ErrRateLimited) {
			err = fmt.Errorf("%w: %v", apperrors.ErrRateLimited, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Warn("coach call failed, using fallback", "kind", req.Kind, "error", err)
		return fallback, err
	}
	return out, nil
}
