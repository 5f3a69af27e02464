package in

import (
	"context"

	interventiondto "focustree/internal/modules/intervention/dto"
	interventionin "focustree/internal/modules/intervention/port/in"
)

type TUIHandler struct {
	usecase interventionin.Usecase
}

func NewTUIHandler(usecase interventionin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) State() interventiondto.StateOutput {
	return h.usecase.State()
}

func (h TUIHandler) ImBack(ctx context.Context) (interventiondto.StateOutput, error) {
	return h.usecase.HandleImBack(ctx)
}

func (h TUIHandler) FalseAlarm(ctx context.Context) (interventiondto.StateOutput, error) {
	return h.usecase.Resolve(ctx)
}

func (h TUIHandler) CompleteRecovery(ctx context.Context) (interventiondto.StateOutput, error) {
	return h.usecase.Resolve(ctx)
}

// SimulateDistraction triggers an intervention by hand.
func (h TUIHandler) SimulateDistraction(ctx context.Context, distractionType string) error {
	return h.usecase.Trigger(ctx, distractionType)
}

func (h TUIHandler) Subscribe(fn func(interventiondto.StateOutput)) {
	h.usecase.Subscribe(fn)
}
