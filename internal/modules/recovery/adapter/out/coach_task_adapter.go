package out

import (
	"context"

	coachdto "focustree/internal/modules/coach/dto"
	coachin "focustree/internal/modules/coach/port/in"
	"focustree/internal/modules/recovery/domain"
	recoveryout "focustree/internal/modules/recovery/port/out"
)

// CoachTaskAdapter serves task generation and answer validation from the
// coach.
type CoachTaskAdapter struct {
	coach coachin.Usecase
}

func NewCoachTaskAdapter(coach coachin.Usecase) *CoachTaskAdapter {
	return &CoachTaskAdapter{coach: coach}
}

var (
	_ recoveryout.TaskSource = (*CoachTaskAdapter)(nil)
	_ recoveryout.Validator  = (*CoachTaskAdapter)(nil)
)

func (a *CoachTaskAdapter) Generate(ctx context.Context, goal string, n int) ([]domain.Task, error) {
	out, err := a.coach.GenerateTasks(ctx, coachdto.TasksInput{Goal: goal, Count: n})
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(out))
	for _, t := range out {
		tasks = append(tasks, domain.Task{Type: t.Type, Prompt: t.Prompt, EstimatedSec: t.EstimatedSec})
	}
	return tasks, nil
}

func (a *CoachTaskAdapter) Validate(ctx context.Context, task, answer, goal string) (domain.Result, error) {
	out, err := a.coach.ValidateAnswer(ctx, coachdto.ValidateInput{Task: task, Answer: answer, Goal: goal})
	return domain.Result{Valid: out.Valid, Feedback: out.Feedback}, err
}
