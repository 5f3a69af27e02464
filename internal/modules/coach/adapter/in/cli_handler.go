package in

import (
	"context"

	coachdto "focustree/internal/modules/coach/dto"
	coachin "focustree/internal/modules/coach/port/in"
)

type CLIHandler struct {
	usecase coachin.Usecase
}

func NewCLIHandler(usecase coachin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Insights asks for feedback on a finished session. The fallback text comes
// back together with any error.
func (h CLIHandler) Insights(ctx context.Context, durationMin int, focusPercent float64, distractions int) (coachdto.InsightsOutput, error) {
	return h.usecase.Insights(ctx, coachdto.InsightsInput{
		DurationMin:      durationMin,
		FocusPercent:     focusPercent,
		DistractionCount: distractions,
	})
}

func (h CLIHandler) Suggest(ctx context.Context, goal string) (coachdto.SuggestionOutput, error) {
	return h.usecase.SuggestConfig(ctx, coachdto.SuggestInput{Goal: goal})
}
