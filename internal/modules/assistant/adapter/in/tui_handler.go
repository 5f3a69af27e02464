package in

import (
	"context"

	"focustree/internal/modules/assistant/dto"
	assistantin "focustree/internal/modules/assistant/port/in"
)

type TUIHandler struct {
	usecase assistantin.Usecase
}

func NewTUIHandler(usecase assistantin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Ask(ctx context.Context, text string) (dto.ReplyOutput, error) {
	return h.usecase.Ask(ctx, dto.AskInput{Text: text})
}

func (h TUIHandler) Status() dto.StatusOutput {
	return h.usecase.Status()
}

func (h TUIHandler) Reset() {
	h.usecase.Reset()
}
