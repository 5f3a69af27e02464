package in

import (
	"context"

	"focustree/internal/modules/recovery/dto"
)

type Usecase interface {
	NewChallenge(ctx context.Context, input dto.ChallengeInput) (dto.ChallengeOutput, error)
	Submit(ctx context.Context, input dto.SubmitInput) (dto.ResultOutput, error)
	// Prefetch returns the next context-aware task, fetching a batch if needed.
	Prefetch(ctx context.Context, goal string) (dto.TaskOutput, error)
	ResetQueue()
}
