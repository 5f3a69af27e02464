package usecase

import (
	"context"
	"strings"

	"focustree/internal/modules/setup/domain"
	setupdto "focustree/internal/modules/setup/dto"
	setupin "focustree/internal/modules/setup/port/in"
	"focustree/internal/modules/setup/service"
	apperrors "focustree/internal/platform/errors"
)

type Interactor struct {
	svc *service.ConfigService
}

func NewInteractor(svc *service.ConfigService) setupin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Current(ctx context.Context) (domain.Config, error) {
	return i.svc.Current(ctx)
}

func (i *Interactor) Update(ctx context.Context, input setupdto.UpdateInput) (domain.Config, error) {
	return i.svc.Update(ctx, input.Patch)
}

func (i *Interactor) Set(ctx context.Context, input setupdto.SetInput) (domain.Config, error) {
	if strings.TrimSpace(input.Key) == "" {
		return domain.Config{}, apperrors.ErrInvalidInput
	}
	return i.svc.Set(ctx, input.Key, input.Value)
}

func (i *Interactor) Reset(ctx context.Context) (domain.Config, error) {
	return i.svc.Reset(ctx)
}

func (i *Interactor) Suggest(ctx context.Context, input setupdto.SuggestInput) (setupdto.SuggestionOutput, error) {
	base, err := i.svc.Current(ctx)
	if err != nil {
		return setupdto.SuggestionOutput{}, err
	}
	goal := strings.TrimSpace(input.Goal)
	if goal == "" {
		goal = base.WorkingOn
	}
	suggestion, fallback := i.svc.Suggest(ctx, goal)
	cfg := base.Adopt(suggestion)
	if goal != base.WorkingOn {
		cfg = cfg.Apply(domain.Patch{WorkingOn: &goal})
	}
	if input.Adopt {
		updated, err := i.svc.Update(ctx, domain.Patch{
			DurationMin: &cfg.DurationMin,
			Mode:        &cfg.Mode,
			Personality: &cfg.Personality,
			WorkingOn:   &cfg.WorkingOn,
		})
		if err != nil {
			return setupdto.SuggestionOutput{}, err
		}
		cfg = updated
	}
	return setupdto.SuggestionOutput{
		DurationMin: suggestion.DurationMin,
		Mode:        string(suggestion.Mode),
		Personality: string(suggestion.Personality),
		Reasoning:   suggestion.Reasoning,
		Tip:         suggestion.Tip,
		Fallback:    fallback,
		Config:      cfg,
	}, nil
}

func (i *Interactor) Subscribe(fn func(domain.Config)) {
	i.svc.Subscribe(fn)
}

func (i *Interactor) Watch(ctx context.Context) error {
	return i.svc.Watch(ctx)
}
