package recovery

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	recoverydto "focustree/internal/modules/recovery/dto"
)

type fakePort struct {
	challenge recoverydto.ChallengeOutput
	answers   []string
	valid     bool
}

func (p *fakePort) NewChallenge(context.Context, string, string, int, string, *recoverydto.TaskOutput) (recoverydto.ChallengeOutput, error) {
	return p.challenge, nil
}

func (p *fakePort) Submit(_ context.Context, _ recoverydto.ChallengeOutput, answers []string, _ string) (recoverydto.ResultOutput, error) {
	p.answers = answers
	if p.valid {
		return recoverydto.ResultOutput{Valid: true}, nil
	}
	return recoverydto.ResultOutput{Feedback: "Some answers are incorrect. Try again."}, nil
}

func keys(s string) []tea.KeyMsg {
	out := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		out = append(out, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return out
}

func TestMathChallengeCollectsAnswers(t *testing.T) {
	t.Parallel()

	port := &fakePort{challenge: recoverydto.ChallengeOutput{
		Kind:  "math_easy",
		Title: "Quick math",
		Problems: []recoverydto.ProblemOutput{
			{A: 2, B: 3, Op: "×", Text: "2 × 3"},
			{A: 4, B: 5, Op: "×", Text: "4 × 5"},
		},
	}}
	m := New(port)
	m.Open(Request{Method: "math_easy"})
	m, _ = m.Update(ChallengeLoadedMsg{Challenge: port.challenge})

	for _, k := range keys("6") {
		m, _ = m.Update(k)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	for _, k := range keys("21") {
		m, _ = m.Update(k)
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	res, err := port.Submit(context.Background(), port.challenge, m.answers(), "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(port.answers) != 2 || port.answers[0] != "6" || port.answers[1] != "21" {
		t.Fatalf("unexpected answers %v", port.answers)
	}

	m, _ = m.Update(SubmittedMsg{Result: res})
	if !m.Active() || m.feedback == "" {
		t.Fatalf("expected the challenge to stay open with feedback")
	}
}

func TestValidSubmissionCompletes(t *testing.T) {
	t.Parallel()

	port := &fakePort{challenge: recoverydto.ChallengeOutput{Kind: "simple_click", Title: "Ready?"}, valid: true}
	m := New(port)
	m.Open(Request{Method: "simple_click"})
	m, _ = m.Update(ChallengeLoadedMsg{Challenge: port.challenge})
	m, cmd := m.Update(SubmittedMsg{Result: recoverydto.ResultOutput{Valid: true}})
	if m.Active() {
		t.Fatalf("expected challenge closed")
	}
	if _, ok := cmd().(CompletedMsg); !ok {
		t.Fatalf("expected CompletedMsg")
	}
}

func TestPhysicalResetCountsSeconds(t *testing.T) {
	t.Parallel()

	port := &fakePort{challenge: recoverydto.ChallengeOutput{Kind: "physical_reset", Title: "Stand up", DurationSec: 2}}
	m := New(port)
	m.Open(Request{Method: "physical_reset"})
	m, _ = m.Update(ChallengeLoadedMsg{Challenge: port.challenge})
	m, _ = m.Update(tickMsg{gen: m.gen})
	if m.checking {
		t.Fatalf("submitted too early")
	}
	m, _ = m.Update(tickMsg{gen: m.gen - 1})
	if m.elapsed != 1 {
		t.Fatalf("stale tick counted: elapsed %d", m.elapsed)
	}
	m, _ = m.Update(tickMsg{gen: m.gen})
	if !m.checking {
		t.Fatalf("expected automatic submit after the exercise")
	}
	if got := m.answers(); len(got) != 1 || got[0] != "2" {
		t.Fatalf("unexpected answers %v", got)
	}
}
