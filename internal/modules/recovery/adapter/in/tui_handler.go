package in

import (
	"context"

	recoverydto "focustree/internal/modules/recovery/dto"
	recoveryin "focustree/internal/modules/recovery/port/in"
)

type TUIHandler struct {
	usecase recoveryin.Usecase
}

func NewTUIHandler(usecase recoveryin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) NewChallenge(ctx context.Context, method, mode string, count int, goal string, prefetched *recoverydto.TaskOutput) (recoverydto.ChallengeOutput, error) {
	return h.usecase.NewChallenge(ctx, recoverydto.ChallengeInput{
		Method:           method,
		Mode:             mode,
		DistractionCount: count,
		Goal:             goal,
		Prefetched:       prefetched,
	})
}

func (h TUIHandler) Submit(ctx context.Context, ch recoverydto.ChallengeOutput, answers []string, goal string) (recoverydto.ResultOutput, error) {
	return h.usecase.Submit(ctx, recoverydto.SubmitInput{Challenge: ch, Answers: answers, Goal: goal})
}

func (h TUIHandler) ResetQueue() {
	h.usecase.ResetQueue()
}
