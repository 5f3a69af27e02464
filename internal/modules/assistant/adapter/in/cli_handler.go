package in

import (
	"context"

	"focustree/internal/modules/assistant/dto"
	assistantin "focustree/internal/modules/assistant/port/in"
)

type CLIHandler struct {
	usecase assistantin.Usecase
}

func NewCLIHandler(usecase assistantin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Ask(ctx context.Context, text string) (dto.ReplyOutput, error) {
	return h.usecase.Ask(ctx, dto.AskInput{Text: text})
}

func (h CLIHandler) Remaining() int {
	return h.usecase.Status().Remaining
}
