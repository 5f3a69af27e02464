package out

import (
	"context"

	"focustree/internal/modules/intervention/domain"
	setupdomain "focustree/internal/modules/setup/domain"
)

// Session is the session clock seen from the machine.
type Session interface {
	RegisterDistraction(ctx context.Context, distractionType string) (domain.SessionInfo, error)
	ResolveDistraction(ctx context.Context) error
}

type Config interface {
	Current(ctx context.Context) (setupdomain.Config, error)
	SetRecoveryMethod(ctx context.Context, method setupdomain.RecoveryMethod) error
}

type PlanRequest struct {
	DistractionType string
	Personality     string
	Session         domain.SessionInfo
}

// Planner asks the coach for an intervention plan. It bounds its own
// deadline.
type Planner interface {
	Plan(ctx context.Context, req PlanRequest) (domain.Plan, error)
}

// TaskPrefetcher fetches the next context-aware recovery task.
type TaskPrefetcher interface {
	Prefetch(ctx context.Context, goal string) (domain.Task, error)
}

// Alarm plays the escalation sound until stopped. Stop is idempotent.
type Alarm interface {
	Start(ctx context.Context, volume int) error
	Stop()
}

// Speaker says one message, cutting off any utterance in progress.
type Speaker interface {
	Speak(ctx context.Context, text string, voice domain.Voice) error
	Stop()
}
