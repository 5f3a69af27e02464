package usecase

import (
	"context"

	"focustree/internal/modules/recovery/domain"
	recoverydto "focustree/internal/modules/recovery/dto"
	recoveryin "focustree/internal/modules/recovery/port/in"
	"focustree/internal/modules/recovery/service"
	apperrors "focustree/internal/platform/errors"
)

type Interactor struct {
	svc *service.RecoveryService
}

func NewInteractor(svc *service.RecoveryService) recoveryin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) NewChallenge(ctx context.Context, input recoverydto.ChallengeInput) (recoverydto.ChallengeOutput, error) {
	var prefetched *domain.Task
	if input.Prefetched != nil {
		t := fromTask(*input.Prefetched)
		prefetched = &t
	}
	ch := i.svc.Challenge(ctx, input.Method, input.Mode, input.DistractionCount, input.Goal, prefetched)
	return toChallenge(ch), nil
}

func (i *Interactor) Submit(ctx context.Context, input recoverydto.SubmitInput) (recoverydto.ResultOutput, error) {
	if input.Challenge.Kind == "" {
		return recoverydto.ResultOutput{}, apperrors.ErrInvalidInput
	}
	res := i.svc.Submit(ctx, fromChallenge(input.Challenge), input.Answers, input.Goal)
	return recoverydto.ResultOutput{Valid: res.Valid, Feedback: res.Feedback}, nil
}

func (i *Interactor) Prefetch(ctx context.Context, goal string) (recoverydto.TaskOutput, error) {
	task, err := i.svc.Prefetch(ctx, goal)
	return toTask(task), err
}

func (i *Interactor) ResetQueue() {
	i.svc.ResetQueue()
}

func toTask(t domain.Task) recoverydto.TaskOutput {
	return recoverydto.TaskOutput{Type: t.Type, Prompt: t.Prompt, EstimatedSec: t.EstimatedSec}
}

func fromTask(t recoverydto.TaskOutput) domain.Task {
	return domain.Task{Type: t.Type, Prompt: t.Prompt, EstimatedSec: t.EstimatedSec}
}

func toChallenge(ch domain.Challenge) recoverydto.ChallengeOutput {
	out := recoverydto.ChallengeOutput{Kind: string(ch.Kind), Title: ch.Title, Prompt: ch.Prompt}
	for _, p := range ch.Problems {
		out.Problems = append(out.Problems, recoverydto.ProblemOutput{A: p.A, B: p.B, Op: p.Op, Text: p.String()})
	}
	if ch.Exercise != nil {
		out.DurationSec = ch.Exercise.DurationSec
	}
	if ch.Kind == domain.KindReflection {
		out.MinWords = domain.MinReflectionWords
	}
	if ch.Task != nil {
		t := toTask(*ch.Task)
		out.Task = &t
	}
	return out
}

func fromChallenge(in recoverydto.ChallengeOutput) domain.Challenge {
	ch := domain.Challenge{Kind: domain.Kind(in.Kind), Title: in.Title, Prompt: in.Prompt}
	for _, p := range in.Problems {
		ch.Problems = append(ch.Problems, domain.Problem{A: p.A, B: p.B, Op: p.Op})
	}
	if in.DurationSec > 0 {
		ch.Exercise = &domain.Exercise{Instruction: in.Prompt, DurationSec: in.DurationSec}
	}
	if in.Task != nil {
		t := fromTask(*in.Task)
		ch.Task = &t
	}
	return ch
}
