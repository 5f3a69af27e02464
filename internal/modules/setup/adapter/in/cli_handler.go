package in

import (
	"context"

	setupdto "focustree/internal/modules/setup/dto"
	setupin "focustree/internal/modules/setup/port/in"
)

type CLIHandler struct {
	usecase setupin.Usecase
}

func NewCLIHandler(usecase setupin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (setupdto.Config, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Set(ctx context.Context, key, value string) (setupdto.Config, error) {
	return h.usecase.Set(ctx, setupdto.SetInput{Key: key, Value: value})
}

func (h CLIHandler) Update(ctx context.Context, patch setupdto.Patch) (setupdto.Config, error) {
	return h.usecase.Update(ctx, setupdto.UpdateInput{Patch: patch})
}

func (h CLIHandler) Reset(ctx context.Context) (setupdto.Config, error) {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) Suggest(ctx context.Context, goal string, adopt bool) (setupdto.SuggestionOutput, error) {
	return h.usecase.Suggest(ctx, setupdto.SuggestInput{Goal: goal, Adopt: adopt})
}

func (h CLIHandler) Subscribe(fn func(setupdto.Config)) {
	h.usecase.Subscribe(fn)
}

func (h CLIHandler) Watch(ctx context.Context) error {
	return h.usecase.Watch(ctx)
}
