package out

import (
	"context"

	"focustree/internal/modules/recovery/domain"
)

// TaskSource generates context-aware recovery tasks for a goal.
type TaskSource interface {
	Generate(ctx context.Context, goal string, n int) ([]domain.Task, error)
}

// Validator judges a free-text answer. On failure it returns an accepting
// result next to the error.
type Validator interface {
	Validate(ctx context.Context, task, answer, goal string) (domain.Result, error)
}
