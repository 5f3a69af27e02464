package out

import (
	"context"
	"sync"

	"focustree/internal/modules/assistant/domain"
	assistantout "focustree/internal/modules/assistant/port/out"
	sessionin "focustree/internal/modules/session/port/in"
)

// SessionTranscript keeps the chat inside the running session snapshot. It
// must only be used while a session is active.
type SessionTranscript struct {
	session sessionin.Usecase
}

func NewSessionTranscript(session sessionin.Usecase) assistantout.Transcript {
	return &SessionTranscript{session: session}
}

func (t *SessionTranscript) Load(context.Context) (string, []domain.Turn, error) {
	state := t.session.MustActive()
	turns := make([]domain.Turn, 0, len(state.Chat))
	for _, c := range state.Chat {
		turns = append(turns, domain.Turn{Role: c.Role, Text: c.Text})
	}
	return state.Goal, turns, nil
}

func (t *SessionTranscript) Append(ctx context.Context, role, text string) error {
	_, err := t.session.AppendChat(ctx, role, text)
	return err
}

// MemoryTranscript holds a chat that is not tied to a session, as used by the
// one-shot command line chat.
type MemoryTranscript struct {
	goal  string
	mu    sync.Mutex
	turns []domain.Turn
}

func NewMemoryTranscript(goal string) *MemoryTranscript {
	return &MemoryTranscript{goal: goal}
}

func (t *MemoryTranscript) Load(context.Context) (string, []domain.Turn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.goal, append([]domain.Turn(nil), t.turns...), nil
}

func (t *MemoryTranscript) Append(_ context.Context, role, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, domain.Turn{Role: role, Text: text})
	return nil
}
