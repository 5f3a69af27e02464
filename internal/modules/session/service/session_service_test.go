package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"focustree/internal/modules/session/domain"
	"focustree/internal/modules/session/service"
	setupdomain "focustree/internal/modules/setup/domain"
	"focustree/internal/platform/clock"
	apperrors "focustree/internal/platform/errors"
)

type seqID struct {
	mu sync.Mutex
	n  int
}

func (s *seqID) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return "id-" + string(rune('a'+s.n-1))
}

type memActive struct {
	saved   *domain.State
	saves   int
	cleared int
}

func (m *memActive) SaveActive(_ context.Context, s domain.State) error {
	m.saves++
	m.saved = &s
	return nil
}

func (m *memActive) LoadActive(context.Context) (domain.State, error) {
	if m.saved == nil {
		return domain.State{}, apperrors.ErrNoActiveSession
	}
	return *m.saved, nil
}

func (m *memActive) ClearActive(context.Context) error {
	m.cleared++
	m.saved = nil
	return nil
}

type memRecords struct {
	records []domain.Record
	events  []domain.Event
}

func (m *memRecords) SaveRecord(_ context.Context, r domain.Record) error {
	m.records = append(m.records, r)
	return nil
}

func (m *memRecords) AppendEvent(_ context.Context, e domain.Event) error {
	m.events = append(m.events, e)
	return nil
}

func (m *memRecords) Recent(context.Context, int) ([]domain.Record, error) {
	return m.records, nil
}

type fakeNotes struct{ saved []domain.Record }

func (f *fakeNotes) SaveNote(_ context.Context, r domain.Record) (string, error) {
	f.saved = append(f.saved, r)
	return "/notes/" + r.ID + ".md", nil
}

type fakeInsights struct{ err error }

func (f fakeInsights) Insights(context.Context, domain.Record) (domain.Insights, error) {
	return domain.Insights{Positive: "kept going", Improvement: "fewer phone checks", Pattern: "late slump"}, f.err
}

type staticConfig struct{ cfg setupdomain.Config }

func (s staticConfig) Current(context.Context) (setupdomain.Config, error) { return s.cfg, nil }

type fakeNotifier struct{ bodies []string }

func (f *fakeNotifier) Notify(_ context.Context, _, body string) error {
	f.bodies = append(f.bodies, body)
	return nil
}

type harness struct {
	svc      *service.SessionService
	clock    *clock.Fake
	active   *memActive
	records  *memRecords
	notes    *fakeNotes
	notifier *fakeNotifier
}

func newHarness(cfg setupdomain.Config) harness {
	h := harness{
		clock:    clock.NewFake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)),
		active:   &memActive{},
		records:  &memRecords{},
		notes:    &fakeNotes{},
		notifier: &fakeNotifier{},
	}
	h.svc = service.NewSessionService(service.Deps{
		Clock:    h.clock,
		IDGen:    &seqID{},
		Active:   h.active,
		Records:  h.records,
		Notes:    h.notes,
		Insights: fakeInsights{err: errors.New("coach offline")},
		Config:   staticConfig{cfg: cfg},
		Notifier: h.notifier,
		Log:      hclog.NewNullLogger(),
	})
	return h
}

func TestStartUsesConfiguredGoalAndRejectsSecondSession(t *testing.T) {
	t.Parallel()
	cfg := setupdomain.Default()
	cfg.WorkingOn = "thesis chapter"
	h := newHarness(cfg)

	state, err := h.svc.Start(context.Background(), "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if state.Goal != "thesis chapter" || state.Status != domain.StatusActive {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.NextBreakIn != 25*60 {
		t.Fatalf("expected pomodoro countdown, got %d", state.NextBreakIn)
	}
	if h.active.saves != 1 {
		t.Fatalf("start should snapshot once, got %d", h.active.saves)
	}
	if _, err := h.svc.Start(context.Background(), "other"); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected ErrActiveSessionExists, got %v", err)
	}
}

func TestTickSnapshotsPeriodicallyAndReportsDue(t *testing.T) {
	t.Parallel()
	cfg := setupdomain.Default()
	cfg.DurationMin = 1
	cfg.BreakSchedule = setupdomain.BreakSchedule{Type: setupdomain.BreakNone}
	h := newHarness(cfg)
	if _, err := h.svc.Start(context.Background(), "x"); err != nil {
		t.Fatalf("start: %v", err)
	}

	var due bool
	for i := 0; i < 60; i++ {
		_, d, err := h.svc.Tick(context.Background())
		if err != nil {
			t.Fatalf("tick: %v", err)
		}
		due = d
	}
	if !due {
		t.Fatalf("expected session due after planned minute")
	}
	if h.active.saves != 1+6 {
		t.Fatalf("expected start plus 6 periodic snapshots, got %d", h.active.saves)
	}
}

func TestRegisterDistractionNotifiesOnlyWhenUnfocused(t *testing.T) {
	t.Parallel()
	cfg := setupdomain.Default()
	cfg.Permissions.Notifications = true
	h := newHarness(cfg)
	ctx := context.Background()
	if _, err := h.svc.Start(ctx, "x"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := h.svc.RegisterDistraction(ctx, "phone"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(h.notifier.bodies) != 0 {
		t.Fatalf("focused terminal must not notify")
	}
	if _, err := h.svc.ResolveDistraction(ctx); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	h.svc.SetTerminalFocused(false)
	state, err := h.svc.RegisterDistraction(ctx, "Phone in hand")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(h.notifier.bodies) != 1 {
		t.Fatalf("expected one notification, got %d", len(h.notifier.bodies))
	}
	if state.Breakdown["phone"] != 2 || state.Status != domain.StatusDistracted {
		t.Fatalf("unexpected state %+v", state)
	}
	if _, err := h.svc.ResolveDistraction(ctx); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := h.svc.RegisterDistraction(ctx, "leftDesk"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(h.notifier.bodies) != 1 {
		t.Fatalf("left desk only notifies in hardcore")
	}

	kinds := []domain.EventKind{}
	for _, e := range h.records.events {
		kinds = append(kinds, e.Kind)
	}
	if len(kinds) != 5 || kinds[0] != domain.EventDistraction || kinds[1] != domain.EventResolved {
		t.Fatalf("unexpected event log %v", kinds)
	}
	if !h.records.events[2].Notified {
		t.Fatalf("second distraction event should be marked notified")
	}
}

func TestEndBreakLockedInHardcore(t *testing.T) {
	t.Parallel()
	cfg := setupdomain.Default()
	cfg.Mode = setupdomain.ModeHardcore
	h := newHarness(cfg)
	ctx := context.Background()
	if _, err := h.svc.Start(ctx, "x"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.svc.StartBreak(ctx); err != nil {
		t.Fatalf("start break: %v", err)
	}
	if _, err := h.svc.EndBreak(ctx); !errors.Is(err, apperrors.ErrBreakLocked) {
		t.Fatalf("expected ErrBreakLocked, got %v", err)
	}
	state, err := h.svc.ExtendBreak(ctx)
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if state.NextBreakIn != 5*60+domain.BreakExtension {
		t.Fatalf("unexpected break countdown %d", state.NextBreakIn)
	}
}

func TestEndWritesRecordWithFallbackInsights(t *testing.T) {
	t.Parallel()
	h := newHarness(setupdomain.Default())
	ctx := context.Background()
	if _, err := h.svc.Start(ctx, "x"); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 120; i++ {
		if _, _, err := h.svc.Tick(ctx); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	h.clock.Advance(2 * time.Minute)

	var ended bool
	h.svc.Subscribe(func(e domain.Event, _ domain.State) {
		if e.Kind == domain.EventEnded {
			ended = true
		}
	})
	record, err := h.svc.End(ctx)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if record.TotalMin != 2 || record.Insights == nil || record.Insights.Positive != "kept going" {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.NotePath != "/notes/id-a.md" {
		t.Fatalf("note path not recorded: %q", record.NotePath)
	}
	if len(h.records.records) != 1 || h.active.cleared != 1 || !ended {
		t.Fatalf("end must persist the record and clear the snapshot")
	}
	if _, err := h.svc.End(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("second end should fail, got %v", err)
	}
}

func TestRestoreDiscardsStaleSnapshot(t *testing.T) {
	t.Parallel()
	h := newHarness(setupdomain.Default())
	ctx := context.Background()
	stale := domain.NewState("old", "x", "focused", 60, domain.Schedule{}, h.clock.Now().Add(-25*time.Hour))
	h.active.saved = &stale

	if _, ok, err := h.svc.Restore(ctx); err != nil || ok {
		t.Fatalf("stale snapshot must not restore: ok=%v err=%v", ok, err)
	}
	if h.active.cleared != 1 {
		t.Fatalf("stale snapshot should be cleared")
	}

	fresh := domain.NewState("new", "x", "focused", 60, domain.Schedule{}, h.clock.Now().Add(-time.Hour))
	fresh.ElapsedTime = 600
	h.active.saved = &fresh
	state, ok, err := h.svc.Restore(ctx)
	if err != nil || !ok {
		t.Fatalf("fresh snapshot should restore: ok=%v err=%v", ok, err)
	}
	if state.SessionID != "new" || state.ElapsedTime != 600 {
		t.Fatalf("unexpected restored state %+v", state)
	}
}

func TestMustActivePanicsWithoutSession(t *testing.T) {
	t.Parallel()
	h := newHarness(setupdomain.Default())
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	h.svc.MustActive()
}
