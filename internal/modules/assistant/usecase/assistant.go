package usecase

import (
	"context"

	"focustree/internal/modules/assistant/domain"
	"focustree/internal/modules/assistant/dto"
	assistantin "focustree/internal/modules/assistant/port/in"
	"focustree/internal/modules/assistant/service"
)

type Interactor struct {
	svc *service.Assistant
}

func NewInteractor(svc *service.Assistant) assistantin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Ask(ctx context.Context, input dto.AskInput) (dto.ReplyOutput, error) {
	reply, err := i.svc.Ask(ctx, input.Text)
	return dto.ReplyOutput{Text: reply.Text, Cached: reply.Cached, Fallback: reply.Fallback}, err
}

func (i *Interactor) Status() dto.StatusOutput {
	return dto.StatusOutput{Remaining: i.svc.Remaining(), Limit: domain.HourlyLimit}
}

func (i *Interactor) Reset() {
	i.svc.Reset()
}
