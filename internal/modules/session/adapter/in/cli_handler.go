package in

import (
	"context"

	sessiondto "focustree/internal/modules/session/dto"
	sessionin "focustree/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, goal string) (sessiondto.StateOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{Goal: goal})
}

func (h CLIHandler) Restore(ctx context.Context) (sessiondto.StateOutput, bool, error) {
	return h.usecase.Restore(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (sessiondto.StateOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Tick(ctx context.Context) (sessiondto.TickOutput, error) {
	return h.usecase.Tick(ctx)
}

func (h CLIHandler) TogglePause(ctx context.Context) (sessiondto.StateOutput, error) {
	return h.usecase.TogglePause(ctx)
}

func (h CLIHandler) StartBreak(ctx context.Context) (sessiondto.StateOutput, error) {
	return h.usecase.StartBreak(ctx)
}

func (h CLIHandler) EndBreak(ctx context.Context) (sessiondto.StateOutput, error) {
	return h.usecase.EndBreak(ctx)
}

func (h CLIHandler) ExtendBreak(ctx context.Context) (sessiondto.StateOutput, error) {
	return h.usecase.ExtendBreak(ctx)
}

func (h CLIHandler) End(ctx context.Context, confirmed bool) (sessiondto.RecordOutput, error) {
	return h.usecase.End(ctx, sessiondto.EndInput{Confirmed: confirmed})
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) SetTerminalFocused(focused bool) {
	h.usecase.SetTerminalFocused(focused)
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]sessiondto.RecordOutput, error) {
	return h.usecase.History(ctx, limit)
}

func (h CLIHandler) Subscribe(fn func(sessiondto.EventOutput)) {
	h.usecase.Subscribe(fn)
}
