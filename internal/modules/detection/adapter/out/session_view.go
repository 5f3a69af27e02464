package out

import (
	"context"
	"errors"
	"time"

	"focustree/internal/modules/detection/domain"
	detectionout "focustree/internal/modules/detection/port/out"
	sessionin "focustree/internal/modules/session/port/in"
	setupin "focustree/internal/modules/setup/port/in"
	apperrors "focustree/internal/platform/errors"
)

// SessionView reads session status and tolerance settings fresh on every
// call.
type SessionView struct {
	sessions sessionin.Usecase
	setup    setupin.Usecase
}

func NewSessionView(sessions sessionin.Usecase, setup setupin.Usecase) detectionout.SessionView {
	return &SessionView{sessions: sessions, setup: setup}
}

func (v *SessionView) Conditions(ctx context.Context) (domain.Conditions, error) {
	state, err := v.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveSession) {
			return domain.Conditions{}, nil
		}
		return domain.Conditions{}, err
	}
	cfg, err := v.setup.Current(ctx)
	if err != nil {
		return domain.Conditions{}, err
	}
	return domain.Conditions{
		Active:        state.Status == "active",
		Goal:          state.Goal,
		ElapsedSec:    state.ElapsedSec,
		CurrentStreak: state.CurrentStreak,
		Tolerance:     time.Duration(cfg.Custom.DistractionTolerance) * time.Second,
		Hardcore:      cfg.Strictest(),
	}, nil
}
