package in

import (
	"context"

	"focustree/internal/modules/coach/dto"
)

// Usecase is the remote coach. Every method returns a fallback value together
// with any error, so callers may log the error and carry on.
type Usecase interface {
	Analyze(ctx context.Context, input dto.AnalyzeInput) (dto.VerdictOutput, error)
	PlanIntervention(ctx context.Context, input dto.PlanInput) (dto.PlanOutput, error)
	GenerateTasks(ctx context.Context, input dto.TasksInput) ([]dto.TaskOutput, error)
	ValidateAnswer(ctx context.Context, input dto.ValidateInput) (dto.ValidationOutput, error)
	SuggestConfig(ctx context.Context, input dto.SuggestInput) (dto.SuggestionOutput, error)
	Chat(ctx context.Context, input dto.ChatInput) (string, error)
	Insights(ctx context.Context, input dto.InsightsInput) (dto.InsightsOutput, error)
}
