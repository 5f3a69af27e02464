package out

import (
	"context"

	coachdto "focustree/internal/modules/coach/dto"
	coachin "focustree/internal/modules/coach/port/in"
	"focustree/internal/modules/session/domain"
	sessionout "focustree/internal/modules/session/port/out"
)

type CoachInsightsAdapter struct {
	coach coachin.Usecase
}

func NewCoachInsightsAdapter(coach coachin.Usecase) sessionout.InsightsSource {
	return &CoachInsightsAdapter{coach: coach}
}

func (a *CoachInsightsAdapter) Insights(ctx context.Context, r domain.Record) (domain.Insights, error) {
	out, err := a.coach.Insights(ctx, coachdto.InsightsInput{
		DurationMin:      r.TotalMin,
		FocusPercent:     r.FocusPercent,
		DistractionCount: r.DistractionCount,
	})
	return domain.Insights{Positive: out.Positive, Improvement: out.Improvement, Pattern: out.Pattern}, err
}
