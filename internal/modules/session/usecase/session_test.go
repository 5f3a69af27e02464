package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	sessionout "focustree/internal/modules/session/adapter/out"
	sessiondto "focustree/internal/modules/session/dto"
	sessionin "focustree/internal/modules/session/port/in"
	"focustree/internal/modules/session/service"
	"focustree/internal/modules/session/usecase"
	setupdomain "focustree/internal/modules/setup/domain"
	"focustree/internal/platform/clock"
	apperrors "focustree/internal/platform/errors"
	"focustree/internal/platform/id"
)

type staticConfig struct{ cfg setupdomain.Config }

func (s staticConfig) Current(context.Context) (setupdomain.Config, error) { return s.cfg, nil }

func newUsecase(t *testing.T, cfg setupdomain.Config) (sessionin.Usecase, *clock.Fake, string) {
	t.Helper()
	dir := t.TempDir()
	records, err := sessionout.NewSQLiteRecordStore(filepath.Join(dir, "focustree.db"))
	if err != nil {
		t.Fatalf("open record store: %v", err)
	}
	t.Cleanup(func() { _ = records.Close() })
	clk := clock.NewFake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	config := staticConfig{cfg: cfg}
	svc := service.NewSessionService(service.Deps{
		Clock:   clk,
		IDGen:   id.UUID{},
		Active:  sessionout.NewFileActiveSessionStore(filepath.Join(dir, "active-session.json")),
		Records: records,
		Notes:   sessionout.NewMarkdownNoteStore(filepath.Join(dir, "sessions")),
		Config:  config,
		Log:     hclog.NewNullLogger(),
	})
	return usecase.NewInteractor(svc, config), clk, dir
}

func TestSessionLifecycleWritesNoteAndHistory(t *testing.T) {
	t.Parallel()
	cfg := setupdomain.Default()
	cfg.Custom.ExitFriction = setupdomain.ExitNone
	uc, _, dir := newUsecase(t, cfg)
	ctx := context.Background()

	start, err := uc.Start(ctx, sessiondto.StartInput{Goal: "Read chapter 1"})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if start.SessionID == "" || !start.BreaksEnabled {
		t.Fatalf("unexpected start state %+v", start)
	}
	if _, err := os.Stat(filepath.Join(dir, "active-session.json")); err != nil {
		t.Fatalf("active snapshot must exist: %v", err)
	}

	for i := 0; i < 90; i++ {
		if _, err := uc.Tick(ctx); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	if _, err := uc.RegisterDistraction(ctx, "phone"); err != nil {
		t.Fatalf("register distraction: %v", err)
	}
	for i := 0; i < 30; i++ {
		if _, err := uc.Tick(ctx); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	current, err := uc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.FocusPercent != 75 || current.ActiveDistraction != "phone" {
		t.Fatalf("unexpected current state %+v", current)
	}
	if _, err := uc.ResolveDistraction(ctx); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	record, err := uc.End(ctx, sessiondto.EndInput{})
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if record.TotalMin != 2 || record.DistractionCount != 1 {
		t.Fatalf("unexpected record %+v", record)
	}
	note, err := os.ReadFile(record.NotePath)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if !strings.Contains(string(note), "# Read chapter 1") || !strings.Contains(string(note), "- phone: 1") {
		t.Fatalf("unexpected note:\n%s", note)
	}
	if _, err := os.Stat(filepath.Join(dir, "active-session.json")); !os.IsNotExist(err) {
		t.Fatalf("snapshot should be cleared, stat err=%v", err)
	}

	history, err := uc.History(ctx, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Goal != "Read chapter 1" || history[0].Breakdown["phone"] != 1 {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestEndAppliesExitRules(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		mode      setupdomain.Mode
		friction  setupdomain.ExitFriction
		confirmed bool
		want      error
	}{
		{"hardcore blocks", setupdomain.ModeHardcore, setupdomain.ExitSevere, true, apperrors.ErrExitBlocked},
		{"focused needs confirm", setupdomain.ModeFocused, setupdomain.ExitMild, false, apperrors.ErrConfirmRequired},
		{"focused confirmed", setupdomain.ModeFocused, setupdomain.ExitMild, true, nil},
		{"chill immediate", setupdomain.ModeChill, setupdomain.ExitSevere, false, nil},
		{"custom without friction", setupdomain.ModeCustom, setupdomain.ExitNone, false, nil},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := setupdomain.Default()
			cfg.Mode = tc.mode
			cfg.Custom.ExitFriction = tc.friction
			uc, _, _ := newUsecase(t, cfg)
			ctx := context.Background()
			if _, err := uc.Start(ctx, sessiondto.StartInput{Goal: "x"}); err != nil {
				t.Fatalf("start: %v", err)
			}
			_, err := uc.End(ctx, sessiondto.EndInput{Confirmed: tc.confirmed})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDueSessionEndsEvenInHardcore(t *testing.T) {
	t.Parallel()
	cfg := setupdomain.Default()
	cfg.Mode = setupdomain.ModeHardcore
	cfg.DurationMin = 1
	cfg.BreakSchedule = setupdomain.BreakSchedule{Type: setupdomain.BreakNone}
	uc, _, _ := newUsecase(t, cfg)
	ctx := context.Background()
	if _, err := uc.Start(ctx, sessiondto.StartInput{Goal: "x"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	var tick sessiondto.TickOutput
	for i := 0; i < 60; i++ {
		out, err := uc.Tick(ctx)
		if err != nil {
			t.Fatalf("tick: %v", err)
		}
		tick = out
	}
	if !tick.Due || tick.State.RemainingSec != 0 {
		t.Fatalf("expected due session, got %+v", tick)
	}
	if _, err := uc.End(ctx, sessiondto.EndInput{}); err != nil {
		t.Fatalf("due session should end: %v", err)
	}
}

func TestRestoreResumesSnapshotAcrossInstances(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	clk := clock.NewFake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	config := staticConfig{cfg: setupdomain.Default()}
	build := func() sessionin.Usecase {
		svc := service.NewSessionService(service.Deps{
			Clock:  clk,
			IDGen:  id.UUID{},
			Active: sessionout.NewFileActiveSessionStore(filepath.Join(dir, "active-session.json")),
			Config: config,
			Log:    hclog.NewNullLogger(),
		})
		return usecase.NewInteractor(svc, config)
	}
	ctx := context.Background()

	first := build()
	started, err := first.Start(ctx, sessiondto.StartInput{Goal: "x"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := first.TogglePause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}

	clk.Advance(2 * time.Hour)
	second := build()
	restored, ok, err := second.Restore(ctx)
	if err != nil || !ok {
		t.Fatalf("expected restore: ok=%v err=%v", ok, err)
	}
	if restored.SessionID != started.SessionID || restored.Status != "paused" {
		t.Fatalf("unexpected restored state %+v", restored)
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	t.Parallel()
	uc, _, _ := newUsecase(t, setupdomain.Default())
	ctx := context.Background()
	var kinds []string
	uc.Subscribe(func(e sessiondto.EventOutput) { kinds = append(kinds, e.Kind) })

	if _, err := uc.Start(ctx, sessiondto.StartInput{Goal: "x"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := uc.AppendChat(ctx, "user", "hello"); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if err := uc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if strings.Join(kinds, ",") != "started,chat,reset" {
		t.Fatalf("unexpected events %v", kinds)
	}
	if _, err := uc.Current(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no session after reset, got %v", err)
	}
}
