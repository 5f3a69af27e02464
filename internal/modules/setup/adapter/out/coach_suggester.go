package out

import (
	"context"

	coachdto "focustree/internal/modules/coach/dto"
	coachin "focustree/internal/modules/coach/port/in"
	"focustree/internal/modules/setup/domain"
	setupout "focustree/internal/modules/setup/port/out"
)

type CoachSuggester struct {
	coach coachin.Usecase
}

func NewCoachSuggester(coach coachin.Usecase) setupout.Suggester {
	return &CoachSuggester{coach: coach}
}

func (a *CoachSuggester) Suggest(ctx context.Context, goal string, history []domain.PastSession) (domain.Suggestion, error) {
	summaries := make([]coachdto.SessionSummary, 0, len(history))
	for _, h := range history {
		summaries = append(summaries, coachdto.SessionSummary{DurationMin: h.DurationMin, FocusPercent: h.FocusPercent})
	}
	out, err := a.coach.SuggestConfig(ctx, coachdto.SuggestInput{Goal: goal, History: summaries})
	if err != nil {
		return domain.Suggestion{}, err
	}
	return domain.Suggestion{
		DurationMin: out.DurationMin,
		Mode:        domain.Mode(out.Mode),
		Personality: domain.Personality(out.Personality),
		Reasoning:   out.Reasoning,
		Tip:         out.Tips,
	}, nil
}
