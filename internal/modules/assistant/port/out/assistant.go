package out

import (
	"context"

	"focustree/internal/modules/assistant/domain"
)

// Coach answers chat messages. On failure it returns fallback text next to
// the error.
type Coach interface {
	Chat(ctx context.Context, history []domain.Turn, message, goal string) (string, error)
}

// Transcript is the running session's chat log.
type Transcript interface {
	Load(ctx context.Context) (goal string, turns []domain.Turn, err error)
	Append(ctx context.Context, role, text string) error
}
