package out

import (
	"context"

	"focustree/internal/modules/intervention/domain"
	interventionout "focustree/internal/modules/intervention/port/out"
	sessionin "focustree/internal/modules/session/port/in"
)

type SessionAdapter struct {
	sessions sessionin.Usecase
}

func NewSessionAdapter(sessions sessionin.Usecase) interventionout.Session {
	return &SessionAdapter{sessions: sessions}
}

func (a *SessionAdapter) RegisterDistraction(ctx context.Context, distractionType string) (domain.SessionInfo, error) {
	state, err := a.sessions.RegisterDistraction(ctx, distractionType)
	if err != nil {
		return domain.SessionInfo{}, err
	}
	return domain.SessionInfo{Goal: state.Goal, DistractionCount: state.DistractionCount, Breakdown: state.Breakdown}, nil
}

func (a *SessionAdapter) ResolveDistraction(ctx context.Context) error {
	_, err := a.sessions.ResolveDistraction(ctx)
	return err
}
