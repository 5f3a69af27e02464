package in

import (
	"context"

	"focustree/internal/modules/setup/domain"
	"focustree/internal/modules/setup/dto"
)

type Usecase interface {
	Current(ctx context.Context) (domain.Config, error)
	Update(ctx context.Context, input dto.UpdateInput) (domain.Config, error)
	Set(ctx context.Context, input dto.SetInput) (domain.Config, error)
	Reset(ctx context.Context) (domain.Config, error)
	Suggest(ctx context.Context, input dto.SuggestInput) (dto.SuggestionOutput, error)
	Subscribe(fn func(domain.Config))
	Watch(ctx context.Context) error
}
