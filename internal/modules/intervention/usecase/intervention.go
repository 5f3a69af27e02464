package usecase

import (
	"context"

	"focustree/internal/modules/intervention/domain"
	interventiondto "focustree/internal/modules/intervention/dto"
	interventionin "focustree/internal/modules/intervention/port/in"
	"focustree/internal/modules/intervention/service"
	apperrors "focustree/internal/platform/errors"
)

type Interactor struct {
	svc *service.Machine
}

func NewInteractor(svc *service.Machine) interventionin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) State() interventiondto.StateOutput {
	return toState(i.svc.Snapshot())
}

func (i *Interactor) Active() bool {
	return i.svc.Active()
}

func (i *Interactor) Trigger(ctx context.Context, distractionType string) error {
	if distractionType == "" {
		return apperrors.ErrInvalidInput
	}
	return i.svc.Trigger(ctx, distractionType)
}

func (i *Interactor) HandleImBack(ctx context.Context) (interventiondto.StateOutput, error) {
	snap, err := i.svc.HandleImBack(ctx)
	if err != nil {
		return interventiondto.StateOutput{}, err
	}
	return toState(snap), nil
}

func (i *Interactor) Resolve(ctx context.Context) (interventiondto.StateOutput, error) {
	snap, err := i.svc.Resolve(ctx)
	if err != nil {
		return interventiondto.StateOutput{}, err
	}
	return toState(snap), nil
}

func (i *Interactor) Subscribe(fn func(interventiondto.StateOutput)) {
	i.svc.Subscribe(func(s domain.Snapshot) { fn(toState(s)) })
}

func (i *Interactor) Close() {
	i.svc.Close()
}

func toState(s domain.Snapshot) interventiondto.StateOutput {
	out := interventiondto.StateOutput{
		State:   string(s.State),
		Type:    s.Type,
		Episode: s.Episode,
		Message: s.Message,
		Tone:    s.Tone,
		Planned: s.Planned,
	}
	if s.Task != nil {
		out.Task = &interventiondto.TaskOutput{Type: s.Task.Type, Prompt: s.Task.Prompt, EstimatedSec: s.Task.EstimatedSec}
	}
	return out
}
