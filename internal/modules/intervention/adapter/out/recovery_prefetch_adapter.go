package out

import (
	"context"

	"focustree/internal/modules/intervention/domain"
	interventionout "focustree/internal/modules/intervention/port/out"
	recoveryin "focustree/internal/modules/recovery/port/in"
)

type RecoveryPrefetchAdapter struct {
	recovery recoveryin.Usecase
}

func NewRecoveryPrefetchAdapter(recovery recoveryin.Usecase) interventionout.TaskPrefetcher {
	return &RecoveryPrefetchAdapter{recovery: recovery}
}

func (a *RecoveryPrefetchAdapter) Prefetch(ctx context.Context, goal string) (domain.Task, error) {
	t, err := a.recovery.Prefetch(ctx, goal)
	return domain.Task{Type: t.Type, Prompt: t.Prompt, EstimatedSec: t.EstimatedSec}, err
}
