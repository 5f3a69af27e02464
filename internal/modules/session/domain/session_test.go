package domain

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestState(schedule Schedule) State {
	return NewState("s-1", "  write report ", "focused", 60, schedule, t0)
}

func TestTickCountsFocusAndStreak(t *testing.T) {
	t.Parallel()
	s := newTestState(Schedule{})
	for i := 0; i < 120; i++ {
		s.Tick()
	}
	if s.ElapsedTime != 120 || s.FocusTime != 120 || s.DistractionTime != 0 {
		t.Fatalf("unexpected counters %+v", s)
	}
	if s.CurrentStreak < 1.99 || s.CurrentStreak > 2.01 {
		t.Fatalf("expected ~2 minute streak, got %f", s.CurrentStreak)
	}
	if s.Goal != "write report" {
		t.Fatalf("goal should be trimmed, got %q", s.Goal)
	}
}

func TestDistractionHoldsBreakCountdown(t *testing.T) {
	t.Parallel()
	s := newTestState(Schedule{Enabled: true, WorkSec: 10, BreakSec: 5})
	s.Tick()
	s.Tick()
	s.RegisterDistraction(DistractionPhone)
	for i := 0; i < 30; i++ {
		s.Tick()
	}
	if s.NextBreakIn != 8 {
		t.Fatalf("countdown must hold while distracted, got %d", s.NextBreakIn)
	}
	if s.DistractionTime != 30 || s.CurrentStreak != 0 {
		t.Fatalf("unexpected distraction counters %+v", s)
	}
	if s.Breakdown["phone"] != 1 || s.ActiveDistraction != DistractionPhone {
		t.Fatalf("distraction not recorded: %+v", s.Breakdown)
	}
	s.ResolveDistraction()
	if s.Status != StatusActive || s.ActiveDistraction != "" {
		t.Fatalf("resolve should reactivate, got %s", s.Status)
	}
}

func TestScheduledBreakStartsAndEnds(t *testing.T) {
	t.Parallel()
	s := newTestState(Schedule{Enabled: true, WorkSec: 3, BreakSec: 2})
	for i := 0; i < 3; i++ {
		s.Tick()
	}
	if s.Status != StatusBreak || s.NextBreakIn != 2 || s.BreaksTaken != 1 {
		t.Fatalf("expected break after work interval, got %s next=%d", s.Status, s.NextBreakIn)
	}
	elapsed := s.ElapsedTime
	s.ExtendBreak()
	if s.NextBreakIn != 2+BreakExtension {
		t.Fatalf("extend should add %d, got %d", BreakExtension, s.NextBreakIn)
	}
	for i := 0; i < 2+BreakExtension; i++ {
		s.Tick()
	}
	if s.Status != StatusActive || s.NextBreakIn != 3 {
		t.Fatalf("expected work to resume, got %s next=%d", s.Status, s.NextBreakIn)
	}
	if s.ElapsedTime != elapsed {
		t.Fatalf("break time must not count as elapsed work")
	}
}

func TestPauseFreezesCounters(t *testing.T) {
	t.Parallel()
	s := newTestState(Schedule{})
	s.TogglePause()
	s.Tick()
	if s.Status != StatusPaused || s.ElapsedTime != 0 {
		t.Fatalf("paused session must not advance")
	}
	s.TogglePause()
	if s.Status != StatusActive {
		t.Fatalf("expected active after second toggle")
	}
}

func TestManualBreakWithoutScheduleUsesExtension(t *testing.T) {
	t.Parallel()
	s := newTestState(Schedule{})
	s.RegisterDistraction(DistractionOther)
	s.StartBreak()
	if s.Status != StatusBreak || s.NextBreakIn != BreakExtension || s.ActiveDistraction != "" {
		t.Fatalf("unexpected manual break %+v", s)
	}
	s.EndBreak()
	if s.Status != StatusActive {
		t.Fatalf("expected active after ending break")
	}
}

func TestResumable(t *testing.T) {
	t.Parallel()
	s := newTestState(Schedule{})
	if !s.Resumable(t0.Add(23 * time.Hour)) {
		t.Fatalf("fresh snapshot should resume")
	}
	if s.Resumable(t0.Add(24 * time.Hour)) {
		t.Fatalf("day old snapshot must not resume")
	}
	s.Complete()
	if s.Resumable(t0.Add(time.Minute)) {
		t.Fatalf("completed snapshot must not resume")
	}
}

func TestShouldNotify(t *testing.T) {
	t.Parallel()
	cases := []struct {
		kind      DistractionType
		strictest bool
		focused   bool
		permitted bool
		want      bool
	}{
		{DistractionPhone, false, false, true, true},
		{DistractionPhone, false, true, true, false},
		{DistractionPhone, false, false, false, false},
		{DistractionLeftDesk, false, false, true, false},
		{DistractionLeftDesk, true, false, true, true},
		{DistractionSocialMedia, true, false, true, false},
	}
	for _, tc := range cases {
		if got := ShouldNotify(tc.kind, tc.strictest, tc.focused, tc.permitted); got != tc.want {
			t.Fatalf("ShouldNotify(%+v) = %v", tc, got)
		}
	}
}

func TestNormalizeDistraction(t *testing.T) {
	t.Parallel()
	for raw, want := range map[string]DistractionType{
		"phone":            DistractionPhone,
		"Texting a friend": DistractionPhone,
		"leftDesk":         DistractionLeftDesk,
		"person missing":   DistractionLeftDesk,
		"socialMedia":      DistractionSocialMedia,
		"daydreaming":      DistractionOther,
	} {
		if got := NormalizeDistraction(raw); got != want {
			t.Fatalf("NormalizeDistraction(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestRecordRoundsAndCopies(t *testing.T) {
	t.Parallel()
	s := newTestState(Schedule{})
	for i := 0; i < 180; i++ {
		s.Tick()
	}
	s.RegisterDistraction(DistractionPhone)
	for i := 0; i < 60; i++ {
		s.Tick()
	}
	r := s.Record(t0.Add(time.Hour))
	if r.TotalMin != 4 || r.FocusMin != 3 || r.DistractedMin != 1 {
		t.Fatalf("unexpected minutes %+v", r)
	}
	if r.FocusPercent != 75 {
		t.Fatalf("expected 75%% focus, got %f", r.FocusPercent)
	}
	r.Breakdown["phone"] = 99
	if s.Breakdown["phone"] != 1 {
		t.Fatalf("record must copy the breakdown")
	}
}
