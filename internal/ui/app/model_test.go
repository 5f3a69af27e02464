package app

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	assistantdto "focustree/internal/modules/assistant/dto"
	detectiondto "focustree/internal/modules/detection/dto"
	interventiondto "focustree/internal/modules/intervention/dto"
	recoverydto "focustree/internal/modules/recovery/dto"
	sessiondto "focustree/internal/modules/session/dto"
	setupdto "focustree/internal/modules/setup/dto"
	apperrors "focustree/internal/platform/errors"
	recoveryview "focustree/internal/ui/views/recovery"
)

type fakeSession struct {
	state     sessiondto.StateOutput
	ends      []bool
	focused   []bool
	confirmed bool
}

func (s *fakeSession) Current(context.Context) (sessiondto.StateOutput, error) { return s.state, nil }
func (s *fakeSession) Tick(context.Context) (sessiondto.TickOutput, error) {
	return sessiondto.TickOutput{State: s.state}, nil
}
func (s *fakeSession) TogglePause(context.Context) (sessiondto.StateOutput, error) {
	s.state.Status = "paused"
	return s.state, nil
}
func (s *fakeSession) StartBreak(context.Context) (sessiondto.StateOutput, error) {
	s.state.Status = "break"
	return s.state, nil
}
func (s *fakeSession) EndBreak(context.Context) (sessiondto.StateOutput, error) {
	s.state.Status = "active"
	return s.state, nil
}
func (s *fakeSession) ExtendBreak(context.Context) (sessiondto.StateOutput, error) {
	s.state.NextBreakIn += 300
	return s.state, nil
}
func (s *fakeSession) End(_ context.Context, confirmed bool) (sessiondto.RecordOutput, error) {
	s.ends = append(s.ends, confirmed)
	if !confirmed {
		return sessiondto.RecordOutput{}, apperrors.ErrConfirmRequired
	}
	return sessiondto.RecordOutput{ID: s.state.SessionID, Goal: s.state.Goal, FocusPercent: 80}, nil
}
func (s *fakeSession) SetTerminalFocused(f bool) { s.focused = append(s.focused, f) }
func (s *fakeSession) History(context.Context, int) ([]sessiondto.RecordOutput, error) {
	return nil, nil
}
func (s *fakeSession) Subscribe(func(sessiondto.EventOutput)) {}

type fakeDetection struct{ stats detectiondto.StatsOutput }

func (d *fakeDetection) Stats() detectiondto.StatsOutput { return d.stats }
func (d *fakeDetection) SetMonitor(enabled bool)         { d.stats.MonitorEnabled = enabled }

type fakeIntervention struct {
	state   interventiondto.StateOutput
	imBacks int
}

func (i *fakeIntervention) State() interventiondto.StateOutput { return i.state }
func (i *fakeIntervention) ImBack(context.Context) (interventiondto.StateOutput, error) {
	i.imBacks++
	i.state.State = "RECOVERY"
	return i.state, nil
}
func (i *fakeIntervention) FalseAlarm(context.Context) (interventiondto.StateOutput, error) {
	i.state = interventiondto.StateOutput{State: "IDLE", Episode: i.state.Episode}
	return i.state, nil
}
func (i *fakeIntervention) CompleteRecovery(ctx context.Context) (interventiondto.StateOutput, error) {
	return i.FalseAlarm(ctx)
}
func (i *fakeIntervention) SimulateDistraction(context.Context, string) error { return nil }
func (i *fakeIntervention) Subscribe(func(interventiondto.StateOutput)) {}

type fakeRecovery struct{ method string }

func (r *fakeRecovery) NewChallenge(_ context.Context, method, _ string, _ int, _ string, _ *recoverydto.TaskOutput) (recoverydto.ChallengeOutput, error) {
	r.method = method
	return recoverydto.ChallengeOutput{Kind: "simple_click", Title: "Ready?"}, nil
}
func (r *fakeRecovery) Submit(context.Context, recoverydto.ChallengeOutput, []string, string) (recoverydto.ResultOutput, error) {
	return recoverydto.ResultOutput{Valid: true}, nil
}

type fakeAssistant struct{}

func (fakeAssistant) Ask(context.Context, string) (assistantdto.ReplyOutput, error) {
	return assistantdto.ReplyOutput{Text: "ok"}, nil
}
func (fakeAssistant) Status() assistantdto.StatusOutput { return assistantdto.StatusOutput{Limit: 15} }

type fakeConfig struct{}

func (fakeConfig) Show(context.Context) (setupdto.Config, error) {
	return setupdto.Config{Mode: "focused", RecoveryMethod: "reflection"}, nil
}
func (fakeConfig) Subscribe(func(setupdto.Config)) {}

type harness struct {
	session      *fakeSession
	detection    *fakeDetection
	intervention *fakeIntervention
	recovery     *fakeRecovery
	model        Model
}

func newHarness() *harness {
	h := &harness{
		session:      &fakeSession{state: sessiondto.StateOutput{SessionID: "s1", Goal: "draft intro", Status: "active", DurationMin: 25, RemainingSec: 900}},
		detection:    &fakeDetection{},
		intervention: &fakeIntervention{state: interventiondto.StateOutput{State: "IDLE"}},
		recovery:     &fakeRecovery{},
	}
	h.model = NewModel(Ports{
		Session:      h.session,
		Detection:    h.detection,
		Intervention: h.intervention,
		Recovery:     h.recovery,
		Assistant:    fakeAssistant{},
		Config:       fakeConfig{},
	})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.send(configMsg{cfg: setupdto.Config{Mode: "focused", RecoveryMethod: "reflection"}})
	h.send(stateMsg{state: h.session.state})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) key(k string) tea.Cmd {
	if k == "enter" {
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	}
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

// run executes cmd and feeds the results back, following the commands they
// return for a couple of rounds.
func (h *harness) run(cmd tea.Cmd) { h.runDepth(cmd, 2) }

func (h *harness) runDepth(cmd tea.Cmd, depth int) {
	if cmd == nil || depth == 0 {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			h.runDepth(c, depth)
		}
		return
	}
	if msg == nil {
		return
	}
	h.runDepth(h.send(msg), depth-1)
}

func TestWarningOverlayLeadsToRecovery(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.intervention.state = interventiondto.StateOutput{State: "WARNING", Type: "phone", Episode: 1, Message: "Phone down."}
	h.send(interventionMsg{state: h.intervention.state})
	if view := h.model.View(); !strings.Contains(view, "Phone down.") {
		t.Fatalf("expected warning overlay:\n%s", view)
	}

	h.run(h.key("enter"))
	if h.intervention.imBacks != 1 {
		t.Fatalf("expected I'm back to reach the machine")
	}
	if !h.model.recovery.Active() {
		t.Fatalf("expected recovery challenge to open")
	}
	if h.recovery.method != "reflection" {
		t.Fatalf("expected configured recovery method, got %q", h.recovery.method)
	}

	h.run(h.send(recoveryview.CompletedMsg{}))
	if h.model.dash.Intervention().State != "IDLE" || h.model.recovery.Active() {
		t.Fatalf("expected idle after recovery, got %+v", h.model.dash.Intervention())
	}
}

func TestEndAsksForConfirmation(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.run(h.key("e"))
	if !h.model.confirmEnd || h.model.summary != nil {
		t.Fatalf("expected confirmation prompt, status %q", h.model.status)
	}
	h.run(h.key("e"))
	if len(h.session.ends) != 2 || !h.session.ends[1] {
		t.Fatalf("expected confirmed end, got %v", h.session.ends)
	}
	if h.model.summary == nil || h.model.summary.Goal != "draft intro" {
		t.Fatalf("expected summary after end")
	}
}

func TestDueTickEndsSession(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.send(tickedMsg{out: sessiondto.TickOutput{State: h.session.state, Due: true}})
	if !h.model.ending {
		t.Fatalf("expected automatic end")
	}
	h.run(h.model.endCmd(true))
	if len(h.session.ends) != 1 || !h.session.ends[0] || h.model.summary == nil {
		t.Fatalf("expected confirmed end on due tick, got %v", h.session.ends)
	}
}

func TestFocusEventsReachSession(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.send(tea.BlurMsg{})
	h.send(tea.FocusMsg{})
	if len(h.session.focused) != 2 || h.session.focused[0] || !h.session.focused[1] {
		t.Fatalf("unexpected focus calls %v", h.session.focused)
	}
}

func TestMonitorToggle(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.key("m")
	if !h.detection.stats.MonitorEnabled {
		t.Fatalf("expected monitor enabled")
	}
	h.key("m")
	if h.detection.stats.MonitorEnabled {
		t.Fatalf("expected monitor disabled")
	}
}
