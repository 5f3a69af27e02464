package out

import (
	"context"

	coachdto "focustree/internal/modules/coach/dto"
	coachin "focustree/internal/modules/coach/port/in"
	"focustree/internal/modules/intervention/domain"
	interventionout "focustree/internal/modules/intervention/port/out"
)

type CoachPlanner struct {
	coach coachin.Usecase
}

func NewCoachPlanner(coach coachin.Usecase) interventionout.Planner {
	return &CoachPlanner{coach: coach}
}

func (p *CoachPlanner) Plan(ctx context.Context, req interventionout.PlanRequest) (domain.Plan, error) {
	out, err := p.coach.PlanIntervention(ctx, coachdto.PlanInput{
		DistractionType:  req.DistractionType,
		Goal:             req.Session.Goal,
		Personality:      req.Personality,
		DistractionCount: req.Session.DistractionCount,
		Breakdown:        req.Session.Breakdown,
	})
	if err != nil {
		return domain.Plan{}, err
	}
	return domain.Plan{
		Tone:                out.Tone,
		Message:             out.Message,
		RecommendedRecovery: out.RecommendedRecovery,
		ShouldAlarm:         out.ShouldAlarm,
	}, nil
}
