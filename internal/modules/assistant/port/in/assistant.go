package in

import (
	"context"

	"focustree/internal/modules/assistant/dto"
)

type Usecase interface {
	Ask(ctx context.Context, input dto.AskInput) (dto.ReplyOutput, error)
	Status() dto.StatusOutput
	Reset()
}
