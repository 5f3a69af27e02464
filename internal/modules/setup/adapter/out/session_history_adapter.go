package out

import (
	"context"

	sessionin "focustree/internal/modules/session/port/in"
	"focustree/internal/modules/setup/domain"
	setupout "focustree/internal/modules/setup/port/out"
)

type SessionHistoryAdapter struct {
	sessions sessionin.Usecase
}

func NewSessionHistoryAdapter(sessions sessionin.Usecase) setupout.HistorySource {
	return &SessionHistoryAdapter{sessions: sessions}
}

func (a *SessionHistoryAdapter) Recent(ctx context.Context, limit int) ([]domain.PastSession, error) {
	records, err := a.sessions.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PastSession, 0, len(records))
	for _, r := range records {
		out = append(out, domain.PastSession{
			StartedAt:    r.StartedAt,
			DurationMin:  r.TotalMin,
			FocusPercent: r.FocusPercent,
			Distractions: r.DistractionCount,
			Mode:         domain.Mode(r.Mode),
			Goal:         r.Goal,
		})
	}
	return out, nil
}
