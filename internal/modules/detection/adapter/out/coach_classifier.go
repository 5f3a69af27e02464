package out

import (
	"context"

	coachdto "focustree/internal/modules/coach/dto"
	coachin "focustree/internal/modules/coach/port/in"
	"focustree/internal/modules/detection/domain"
	detectionout "focustree/internal/modules/detection/port/out"
)

type CoachClassifier struct {
	coach coachin.Usecase
}

func NewCoachClassifier(coach coachin.Usecase) detectionout.Classifier {
	return &CoachClassifier{coach: coach}
}

func (c *CoachClassifier) Classify(ctx context.Context, jpeg []byte, cond domain.Conditions) (domain.Verdict, error) {
	out, err := c.coach.Analyze(ctx, coachdto.AnalyzeInput{
		Frame:         jpeg,
		Goal:          cond.Goal,
		ElapsedSec:    cond.ElapsedSec,
		CurrentStreak: cond.CurrentStreak,
	})
	return domain.Verdict{Distracted: out.IsDistracted, Type: out.DistractionType, Confidence: out.Confidence}, err
}
