package out

import (
	"context"

	"focustree/internal/modules/assistant/domain"
	assistantout "focustree/internal/modules/assistant/port/out"
	coachdto "focustree/internal/modules/coach/dto"
	coachin "focustree/internal/modules/coach/port/in"
)

type CoachChatAdapter struct {
	coach coachin.Usecase
}

func NewCoachChatAdapter(coach coachin.Usecase) assistantout.Coach {
	return &CoachChatAdapter{coach: coach}
}

func (a *CoachChatAdapter) Chat(ctx context.Context, history []domain.Turn, message, goal string) (string, error) {
	turns := make([]coachdto.ChatTurn, 0, len(history))
	for _, t := range history {
		turns = append(turns, coachdto.ChatTurn{Role: t.Role, Text: t.Text})
	}
	return a.coach.Chat(ctx, coachdto.ChatInput{History: turns, Message: message, Goal: goal})
}
