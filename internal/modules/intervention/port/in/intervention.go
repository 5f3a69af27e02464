package in

import (
	"context"

	"focustree/internal/modules/intervention/dto"
)

type Usecase interface {
	State() dto.StateOutput
	Active() bool
	// Trigger enters WARNING for a confirmed distraction. Planning continues
	// in the background.
	Trigger(ctx context.Context, distractionType string) error
	HandleImBack(ctx context.Context) (dto.StateOutput, error)
	// Resolve ends the intervention, also when it was a false alarm.
	Resolve(ctx context.Context) (dto.StateOutput, error)
	Subscribe(fn func(dto.StateOutput))
	Close()
}
