package usecase

import (
	"context"

	"focustree/internal/modules/session/domain"
	sessiondto "focustree/internal/modules/session/dto"
	sessionin "focustree/internal/modules/session/port/in"
	sessionout "focustree/internal/modules/session/port/out"
	"focustree/internal/modules/session/service"
	setupdomain "focustree/internal/modules/setup/domain"
	apperrors "focustree/internal/platform/errors"
)

type Interactor struct {
	svc    *service.SessionService
	config sessionout.ConfigSource
}

func NewInteractor(svc *service.SessionService, config sessionout.ConfigSource) sessionin.Usecase {
	return &Interactor{svc: svc, config: config}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StateOutput, error) {
	state, err := i.svc.Start(ctx, input.Goal)
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	return toState(state), nil
}

func (i *Interactor) Restore(ctx context.Context) (sessiondto.StateOutput, bool, error) {
	state, ok, err := i.svc.Restore(ctx)
	if err != nil || !ok {
		return sessiondto.StateOutput{}, ok, err
	}
	return toState(state), true, nil
}

func (i *Interactor) Current(_ context.Context) (sessiondto.StateOutput, error) {
	state, err := i.svc.Current()
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	return toState(state), nil
}

func (i *Interactor) MustActive() sessiondto.StateOutput {
	return toState(i.svc.MustActive())
}

func (i *Interactor) Tick(ctx context.Context) (sessiondto.TickOutput, error) {
	state, due, err := i.svc.Tick(ctx)
	if err != nil {
		return sessiondto.TickOutput{}, err
	}
	return sessiondto.TickOutput{State: toState(state), Due: due}, nil
}

func (i *Interactor) RegisterDistraction(ctx context.Context, distractionType string) (sessiondto.StateOutput, error) {
	return wrap(i.svc.RegisterDistraction(ctx, distractionType))
}

func (i *Interactor) ResolveDistraction(ctx context.Context) (sessiondto.StateOutput, error) {
	return wrap(i.svc.ResolveDistraction(ctx))
}

func (i *Interactor) TogglePause(ctx context.Context) (sessiondto.StateOutput, error) {
	return wrap(i.svc.TogglePause(ctx))
}

func (i *Interactor) StartBreak(ctx context.Context) (sessiondto.StateOutput, error) {
	return wrap(i.svc.StartBreak(ctx))
}

func (i *Interactor) EndBreak(ctx context.Context) (sessiondto.StateOutput, error) {
	return wrap(i.svc.EndBreak(ctx))
}

func (i *Interactor) ExtendBreak(ctx context.Context) (sessiondto.StateOutput, error) {
	return wrap(i.svc.ExtendBreak(ctx))
}

func (i *Interactor) AppendChat(ctx context.Context, role, text string) (sessiondto.StateOutput, error) {
	return wrap(i.svc.AppendChat(ctx, role, text))
}

// End applies the exit rule of the configured mode unless the planned
// duration has already elapsed.
func (i *Interactor) End(ctx context.Context, input sessiondto.EndInput) (sessiondto.RecordOutput, error) {
	state, err := i.svc.Current()
	if err != nil {
		return sessiondto.RecordOutput{}, err
	}
	if !state.Due() {
		cfg, err := i.config.Current(ctx)
		if err != nil {
			return sessiondto.RecordOutput{}, err
		}
		switch cfg.ExitRule() {
		case setupdomain.ExitBlocked:
			return sessiondto.RecordOutput{}, apperrors.ErrExitBlocked
		case setupdomain.ExitConfirm:
			if !input.Confirmed {
				return sessiondto.RecordOutput{}, apperrors.ErrConfirmRequired
			}
		}
	}
	record, err := i.svc.End(ctx)
	if err != nil {
		return sessiondto.RecordOutput{}, err
	}
	return toRecord(record), nil
}

func (i *Interactor) Reset(ctx context.Context) error {
	return i.svc.Reset(ctx)
}

func (i *Interactor) SetTerminalFocused(focused bool) {
	i.svc.SetTerminalFocused(focused)
}

func (i *Interactor) History(ctx context.Context, limit int) ([]sessiondto.RecordOutput, error) {
	records, err := i.svc.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.RecordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, toRecord(r))
	}
	return out, nil
}

func (i *Interactor) Subscribe(fn func(sessiondto.EventOutput)) {
	i.svc.Subscribe(func(event domain.Event, state domain.State) {
		fn(sessiondto.EventOutput{
			Kind:     string(event.Kind),
			Type:     string(event.Type),
			Notified: event.Notified,
			At:       event.At,
			State:    toState(state),
		})
	})
}

func wrap(state domain.State, err error) (sessiondto.StateOutput, error) {
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	return toState(state), nil
}

func toState(s domain.State) sessiondto.StateOutput {
	chat := make([]sessiondto.ChatTurn, 0, len(s.ChatHistory))
	for _, m := range s.ChatHistory {
		chat = append(chat, sessiondto.ChatTurn{Role: m.Role, Text: m.Text, At: m.At})
	}
	remaining := s.DurationMin*60 - s.ElapsedTime
	if remaining < 0 {
		remaining = 0
	}
	return sessiondto.StateOutput{
		SessionID:         s.SessionID,
		Status:            string(s.Status),
		StartTime:         s.StartTime,
		Goal:              s.Goal,
		Mode:              s.Mode,
		DurationMin:       s.DurationMin,
		ElapsedSec:        s.ElapsedTime,
		FocusSec:          s.FocusTime,
		DistractionSec:    s.DistractionTime,
		RemainingSec:      remaining,
		DistractionCount:  s.DistractionCount,
		Breakdown:         s.Breakdown,
		CurrentStreak:     s.CurrentStreak,
		LongestStreak:     s.LongestStreak,
		NextBreakIn:       s.NextBreakIn,
		BreaksEnabled:     s.Schedule.Enabled,
		BreaksTaken:       s.BreaksTaken,
		ActiveDistraction: string(s.ActiveDistraction),
		FocusPercent:      s.FocusPercent(),
		Chat:              chat,
	}
}

func toRecord(r domain.Record) sessiondto.RecordOutput {
	out := sessiondto.RecordOutput{
		ID:               r.ID,
		StartedAt:        r.StartedAt,
		EndedAt:          r.EndedAt,
		TotalMin:         r.TotalMin,
		FocusMin:         r.FocusMin,
		DistractedMin:    r.DistractedMin,
		FocusPercent:     r.FocusPercent,
		DistractionCount: r.DistractionCount,
		Breakdown:        r.Breakdown,
		LongestStreak:    r.LongestStreak,
		BreaksTaken:      r.BreaksTaken,
		Mode:             r.Mode,
		Goal:             r.Goal,
		NotePath:         r.NotePath,
	}
	if r.Insights != nil {
		out.Insights = &sessiondto.InsightsOutput{
			Positive:    r.Insights.Positive,
			Improvement: r.Insights.Improvement,
			Pattern:     r.Insights.Pattern,
		}
	}
	return out
}
