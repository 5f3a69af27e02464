package in

import (
	"context"

	"focustree/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StateOutput, error)
	Restore(ctx context.Context) (dto.StateOutput, bool, error)
	Current(ctx context.Context) (dto.StateOutput, error)
	MustActive() dto.StateOutput
	Tick(ctx context.Context) (dto.TickOutput, error)

	RegisterDistraction(ctx context.Context, distractionType string) (dto.StateOutput, error)
	ResolveDistraction(ctx context.Context) (dto.StateOutput, error)
	TogglePause(ctx context.Context) (dto.StateOutput, error)
	StartBreak(ctx context.Context) (dto.StateOutput, error)
	EndBreak(ctx context.Context) (dto.StateOutput, error)
	ExtendBreak(ctx context.Context) (dto.StateOutput, error)
	AppendChat(ctx context.Context, role, text string) (dto.StateOutput, error)
	End(ctx context.Context, input dto.EndInput) (dto.RecordOutput, error)
	Reset(ctx context.Context) error

	SetTerminalFocused(focused bool)
	History(ctx context.Context, limit int) ([]dto.RecordOutput, error)
	Subscribe(fn func(dto.EventOutput))
}
