package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"focustree/internal/modules/session/domain"
	sessionout "focustree/internal/modules/session/port/out"
	setupdomain "focustree/internal/modules/setup/domain"
	"focustree/internal/platform/clock"
	apperrors "focustree/internal/platform/errors"
	"focustree/internal/platform/id"
)

// snapshotEvery is how many ticks pass between snapshot writes. Mutations
// write immediately.
const snapshotEvery = 10

// SessionService owns the live session state. All counters change under its
// lock; collaborators only see copies.
type SessionService struct {
	clock    clock.Clock
	idGen    id.Generator
	active   sessionout.ActiveSessionStore
	records  sessionout.RecordStore
	notes    sessionout.NoteStore
	insights sessionout.InsightsSource
	config   sessionout.ConfigSource
	notifier sessionout.Notifier
	log      hclog.Logger

	mu              sync.Mutex
	state           *domain.State
	ticks           int
	terminalFocused bool
	observers       []func(domain.Event, domain.State)
}

type Deps struct {
	Clock    clock.Clock
	IDGen    id.Generator
	Active   sessionout.ActiveSessionStore
	Records  sessionout.RecordStore
	Notes    sessionout.NoteStore
	Insights sessionout.InsightsSource
	Config   sessionout.ConfigSource
	Notifier sessionout.Notifier
	Log      hclog.Logger
}

func NewSessionService(d Deps) *SessionService {
	return &SessionService{
		clock:           d.Clock,
		idGen:           d.IDGen,
		active:          d.Active,
		records:         d.Records,
		notes:           d.Notes,
		insights:        d.Insights,
		config:          d.Config,
		notifier:        d.Notifier,
		log:             d.Log,
		terminalFocused: true,
	}
}

func (s *SessionService) Start(ctx context.Context, goal string) (domain.State, error) {
	cfg, err := s.config.Current(ctx)
	if err != nil {
		return domain.State{}, err
	}
	if goal == "" {
		goal = cfg.WorkingOn
	}

	s.mu.Lock()
	if s.state != nil && s.state.Status != domain.StatusCompleted {
		s.mu.Unlock()
		return domain.State{}, apperrors.ErrActiveSessionExists
	}
	state := domain.NewState(s.idGen.New(), goal, string(cfg.Mode), cfg.DurationMin, scheduleOf(cfg), s.clock.Now())
	s.state = &state
	s.ticks = 0
	snapshot := state.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.emit(ctx, domain.Event{Kind: domain.EventStarted}, snapshot)
	s.log.Info("session started", "id", snapshot.SessionID, "mode", snapshot.Mode, "goal", snapshot.Goal)
	return snapshot, nil
}

// Restore picks up a saved session younger than a day that was not completed.
// Stale snapshots are discarded.
func (s *SessionService) Restore(ctx context.Context) (domain.State, bool, error) {
	if s.active == nil {
		return domain.State{}, false, nil
	}
	saved, err := s.active.LoadActive(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveSession) {
			return domain.State{}, false, nil
		}
		return domain.State{}, false, err
	}
	if !saved.Resumable(s.clock.Now()) {
		if err := s.active.ClearActive(ctx); err != nil {
			s.log.Warn("clear stale session snapshot", "error", err)
		}
		return domain.State{}, false, nil
	}
	if saved.Breakdown == nil {
		saved.Breakdown = map[string]int{}
	}

	s.mu.Lock()
	if s.state != nil && s.state.Status != domain.StatusCompleted {
		s.mu.Unlock()
		return domain.State{}, false, apperrors.ErrActiveSessionExists
	}
	s.state = &saved
	s.ticks = 0
	snapshot := saved.Clone()
	s.mu.Unlock()

	s.emit(ctx, domain.Event{Kind: domain.EventResumed}, snapshot)
	s.log.Info("session resumed", "id", snapshot.SessionID, "elapsed", snapshot.ElapsedTime)
	return snapshot, true, nil
}

func (s *SessionService) Current() (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return domain.State{}, apperrors.ErrNoActiveSession
	}
	return s.state.Clone(), nil
}

// MustActive returns the session and panics when none exists. Reaching it
// without a session is a wiring bug.
func (s *SessionService) MustActive() domain.State {
	state, err := s.Current()
	if err != nil {
		panic("session: accessed before a session was started")
	}
	return state
}

// Tick advances the clock one second. due reports that the planned duration
// has been worked through.
func (s *SessionService) Tick(ctx context.Context) (state domain.State, due bool, err error) {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return domain.State{}, false, apperrors.ErrNoActiveSession
	}
	before := s.state.Status
	s.state.Tick()
	s.ticks++
	snapshot := s.state.Clone()
	save := s.ticks%snapshotEvery == 0 || before != snapshot.Status
	s.mu.Unlock()

	if save {
		s.persist(ctx, snapshot)
	}
	if before != snapshot.Status && snapshot.Status == domain.StatusBreak {
		s.emit(ctx, domain.Event{Kind: domain.EventBreak}, snapshot)
	}
	return snapshot, snapshot.Status != domain.StatusCompleted && snapshot.Due(), nil
}

// RegisterDistraction records a confirmed distraction and decides whether
// to raise a desktop notification.
func (s *SessionService) RegisterDistraction(ctx context.Context, raw string) (domain.State, error) {
	kind := domain.NormalizeDistraction(raw)
	cfg, err := s.config.Current(ctx)
	if err != nil {
		s.log.Warn("read config for notification policy", "error", err)
		cfg = setupdomain.Default()
	}

	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return domain.State{}, apperrors.ErrNoActiveSession
	}
	s.state.RegisterDistraction(kind)
	notify := domain.ShouldNotify(kind, cfg.Strictest(), s.terminalFocused, cfg.Permissions.Notifications)
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	if notify && s.notifier != nil {
		if err := s.notifier.Notify(ctx, "Focus check", notificationBody(kind)); err != nil {
			s.log.Warn("desktop notification failed", "error", err)
		}
	}
	s.emit(ctx, domain.Event{Kind: domain.EventDistraction, Type: kind, Notified: notify}, snapshot)
	return snapshot, nil
}

func (s *SessionService) ResolveDistraction(ctx context.Context) (domain.State, error) {
	return s.mutate(ctx, domain.EventResolved, func(st *domain.State) error {
		st.ResolveDistraction()
		return nil
	})
}

func (s *SessionService) TogglePause(ctx context.Context) (domain.State, error) {
	return s.mutate(ctx, domain.EventPaused, func(st *domain.State) error {
		st.TogglePause()
		return nil
	})
}

func (s *SessionService) StartBreak(ctx context.Context) (domain.State, error) {
	return s.mutate(ctx, domain.EventBreak, func(st *domain.State) error {
		st.StartBreak()
		return nil
	})
}

func (s *SessionService) EndBreak(ctx context.Context) (domain.State, error) {
	cfg, err := s.config.Current(ctx)
	if err != nil {
		return domain.State{}, err
	}
	return s.mutate(ctx, domain.EventBreak, func(st *domain.State) error {
		if st.Status == domain.StatusBreak && cfg.Strictest() {
			return apperrors.ErrBreakLocked
		}
		st.EndBreak()
		return nil
	})
}

func (s *SessionService) ExtendBreak(ctx context.Context) (domain.State, error) {
	return s.mutate(ctx, domain.EventBreak, func(st *domain.State) error {
		st.ExtendBreak()
		return nil
	})
}

func (s *SessionService) AppendChat(ctx context.Context, role, text string) (domain.State, error) {
	now := s.clock.Now()
	return s.mutate(ctx, domain.EventChat, func(st *domain.State) error {
		st.AppendChat(role, text, now)
		return nil
	})
}

// End completes the session and writes its record. Insights are requested
// from the coach; failures leave fallback text in place.
func (s *SessionService) End(ctx context.Context) (domain.Record, error) {
	s.mu.Lock()
	if s.state == nil || s.state.Status == domain.StatusCompleted {
		s.mu.Unlock()
		return domain.Record{}, apperrors.ErrNoActiveSession
	}
	s.state.Complete()
	now := s.clock.Now()
	snapshot := s.state.Clone()
	s.mu.Unlock()

	record := snapshot.Record(now)
	if s.insights != nil {
		insights, err := s.insights.Insights(ctx, record)
		if err != nil {
			s.log.Warn("session insights unavailable", "error", err)
		}
		record.Insights = &insights
	}
	if s.notes != nil {
		path, err := s.notes.SaveNote(ctx, record)
		if err != nil {
			return record, fmt.Errorf("write session note: %w", err)
		}
		record.NotePath = path
	}
	if s.records != nil {
		if err := s.records.SaveRecord(ctx, record); err != nil {
			return record, fmt.Errorf("save session record: %w", err)
		}
	}
	if s.active != nil {
		if err := s.active.ClearActive(ctx); err != nil {
			s.log.Warn("clear session snapshot", "error", err)
		}
	}
	s.emit(ctx, domain.Event{Kind: domain.EventEnded}, snapshot)
	s.log.Info("session ended", "id", record.ID, "focus_percent", record.FocusPercent, "distractions", record.DistractionCount)
	return record, nil
}

// Reset drops the live session without writing a record.
func (s *SessionService) Reset(ctx context.Context) error {
	s.mu.Lock()
	var snapshot domain.State
	if s.state != nil {
		snapshot = s.state.Clone()
	}
	s.state = nil
	s.mu.Unlock()

	if s.active != nil {
		if err := s.active.ClearActive(ctx); err != nil {
			return err
		}
	}
	s.emit(ctx, domain.Event{Kind: domain.EventReset}, snapshot)
	return nil
}

func (s *SessionService) SetTerminalFocused(focused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminalFocused = focused
}

func (s *SessionService) History(ctx context.Context, limit int) ([]domain.Record, error) {
	if s.records == nil {
		return nil, nil
	}
	return s.records.Recent(ctx, limit)
}

// Subscribe registers fn for every session event. fn runs on the mutating
// goroutine after the lock is released.
func (s *SessionService) Subscribe(fn func(domain.Event, domain.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *SessionService) mutate(ctx context.Context, kind domain.EventKind, fn func(*domain.State) error) (domain.State, error) {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return domain.State{}, apperrors.ErrNoActiveSession
	}
	if err := fn(s.state); err != nil {
		s.mu.Unlock()
		return domain.State{}, err
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.emit(ctx, domain.Event{Kind: kind}, snapshot)
	return snapshot, nil
}

// persist writes the snapshot. Storage failures are logged and the
// in-memory session carries on.
func (s *SessionService) persist(ctx context.Context, state domain.State) {
	if s.active == nil {
		return
	}
	state.SavedAt = s.clock.Now()
	if err := s.active.SaveActive(ctx, state); err != nil {
		s.log.Warn("save session snapshot", "error", err)
	}
}

func (s *SessionService) emit(ctx context.Context, event domain.Event, state domain.State) {
	event.ID = s.idGen.New()
	event.SessionID = state.SessionID
	if event.At.IsZero() {
		event.At = s.clock.Now()
	}
	if s.records != nil && (event.Kind == domain.EventDistraction || event.Kind == domain.EventResolved) {
		if err := s.records.AppendEvent(ctx, event); err != nil {
			s.log.Warn("append session event", "kind", event.Kind, "error", err)
		}
	}
	s.mu.Lock()
	observers := append([]func(domain.Event, domain.State){}, s.observers...)
	s.mu.Unlock()
	for _, fn := range observers {
		fn(event, state)
	}
}

func scheduleOf(cfg setupdomain.Config) domain.Schedule {
	if cfg.BreakSchedule.Type == setupdomain.BreakNone {
		return domain.Schedule{}
	}
	return domain.Schedule{
		Enabled:  true,
		WorkSec:  cfg.BreakSchedule.WorkInterval * 60,
		BreakSec: cfg.BreakSchedule.BreakDuration * 60,
	}
}

func notificationBody(kind domain.DistractionType) string {
	switch kind {
	case domain.DistractionPhone:
		return "Phone down. Back to work."
	case domain.DistractionLeftDesk:
		return "You left your desk. Come back when you're ready."
	}
	return "Time to refocus."
}
