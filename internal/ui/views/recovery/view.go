package recovery

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	recoverydto "focustree/internal/modules/recovery/dto"
	"focustree/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	NewChallenge(ctx context.Context, method, mode string, count int, goal string, prefetched *recoverydto.TaskOutput) (recoverydto.ChallengeOutput, error)
	Submit(ctx context.Context, ch recoverydto.ChallengeOutput, answers []string, goal string) (recoverydto.ResultOutput, error)
}

// Request describes the intervention the user is recovering from.
type Request struct {
	Method           string
	Mode             string
	DistractionCount int
	Goal             string
	Prefetched       *recoverydto.TaskOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

type ChallengeLoadedMsg struct {
	Challenge recoverydto.ChallengeOutput
	Err       error
}

type SubmittedMsg struct {
	Result recoverydto.ResultOutput
	Err    error
}

// CompletedMsg is emitted once the challenge has been passed.
type CompletedMsg struct{}

type tickMsg struct{ gen int }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port      Port
	goal      string
	challenge recoverydto.ChallengeOutput
	inputs    []textinput.Model
	area      textarea.Model
	focus     int
	elapsed   int
	gen       int
	feedback  string
	active    bool
	loading   bool
	checking  bool
	spinner   spinner.Model
	width     int
}

func New(port Port) Model {
	ta := textarea.New()
	ta.Placeholder = "Write your answer…"
	ta.ShowLineNumbers = false
	ta.SetHeight(5)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, area: ta, spinner: sp}
}

// Active reports whether a challenge is open.
func (m Model) Active() bool { return m.active }

// Open starts loading a challenge for req.
func (m *Model) Open(req Request) tea.Cmd {
	m.active = true
	m.loading = true
	m.feedback = ""
	m.goal = req.Goal
	m.gen++
	port := m.port
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ch, err := port.NewChallenge(context.Background(), req.Method, req.Mode, req.DistractionCount, req.Goal, req.Prefetched)
		return ChallengeLoadedMsg{Challenge: ch, Err: err}
	})
}

// Close abandons the open challenge.
func (m *Model) Close() {
	m.active = false
	m.loading = false
	m.checking = false
	m.gen++
}

func (m *Model) SetWidth(w int) {
	m.width = w
	m.area.SetWidth(max(w-8, 20))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	switch msg := msg.(type) {
	case ChallengeLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.feedback = msg.Err.Error()
			return m, nil
		}
		cmd := m.load(msg.Challenge)
		return m, cmd

	case SubmittedMsg:
		m.checking = false
		if msg.Err != nil {
			m.feedback = msg.Err.Error()
			return m, nil
		}
		if msg.Result.Valid {
			m.active = false
			return m, func() tea.Msg { return CompletedMsg{} }
		}
		m.feedback = msg.Result.Feedback
		return m, nil

	case tickMsg:
		if msg.gen != m.gen || m.challenge.Kind != "physical_reset" {
			return m, nil
		}
		m.elapsed++
		if m.elapsed >= m.challenge.DurationSec {
			cmd := m.submit()
			return m, cmd
		}
		return m, m.tick()

	case spinner.TickMsg:
		if !m.loading && !m.checking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.loading || m.checking {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.challenge.Kind {
	case "simple_click":
		if msg.String() == "enter" {
			cmd := m.submit()
			return m, cmd
		}
		return m, nil

	case "physical_reset":
		return m, nil

	case "math_easy", "math_hard":
		switch msg.String() {
		case "tab", "down":
			m.setFocus(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil
		case "enter":
			if m.focus < len(m.inputs)-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			cmd := m.submit()
			return m, cmd
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd

	default:
		if msg.String() == "ctrl+s" {
			cmd := m.submit()
			return m, cmd
		}
		var cmd tea.Cmd
		m.area, cmd = m.area.Update(msg)
		return m, cmd
	}
}

func (m *Model) load(ch recoverydto.ChallengeOutput) tea.Cmd {
	m.challenge = ch
	m.inputs = nil
	m.focus = 0
	m.elapsed = 0
	m.area.Reset()
	m.area.Blur()

	switch ch.Kind {
	case "math_easy", "math_hard":
		for range ch.Problems {
			ti := textinput.New()
			ti.CharLimit = 6
			ti.Width = 8
			ti.Placeholder = "?"
			m.inputs = append(m.inputs, ti)
		}
		m.setFocus(0)
		return textinput.Blink
	case "physical_reset":
		return m.tick()
	case "simple_click":
		return nil
	default:
		return m.area.Focus()
	}
}

func (m *Model) setFocus(i int) {
	if len(m.inputs) == 0 {
		return
	}
	i = (i + len(m.inputs)) % len(m.inputs)
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	m.focus = i
}

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m *Model) submit() tea.Cmd {
	m.checking = true
	ch, goal, port := m.challenge, m.goal, m.port
	answers := m.answers()
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := port.Submit(context.Background(), ch, answers, goal)
		return SubmittedMsg{Result: res, Err: err}
	})
}

func (m Model) answers() []string {
	switch m.challenge.Kind {
	case "simple_click":
		return nil
	case "physical_reset":
		return []string{strconv.Itoa(m.elapsed)}
	case "math_easy", "math_hard":
		out := make([]string, len(m.inputs))
		for i, in := range m.inputs {
			out[i] = strings.TrimSpace(in.Value())
		}
		return out
	default:
		return []string{m.area.Value()}
	}
}

func (m Model) View() string {
	if !m.active {
		return ""
	}
	if m.loading {
		return theme.Calm.Render(m.spinner.View() + " Preparing your way back…")
	}

	ch := m.challenge
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(ch.Title) + "\n\n")
	if ch.Prompt != "" {
		sb.WriteString(ch.Prompt + "\n\n")
	}

	switch ch.Kind {
	case "simple_click":
		sb.WriteString(theme.Muted.Render("enter: I'm focused"))
	case "physical_reset":
		left := ch.DurationSec - m.elapsed
		if left < 0 {
			left = 0
		}
		sb.WriteString(theme.Hot.Render(fmt.Sprintf("%ds", left)) + theme.Muted.Render(" remaining"))
	case "math_easy", "math_hard":
		for i, p := range ch.Problems {
			sb.WriteString(fmt.Sprintf("%-10s = %s\n", p.Text, m.inputs[i].View()))
		}
		sb.WriteString("\n" + theme.Muted.Render("tab: next  enter: submit"))
	default:
		sb.WriteString(m.area.View() + "\n")
		hint := "ctrl+s: submit"
		if ch.MinWords > 0 {
			hint = fmt.Sprintf("%d words  %s", wordCount(m.area.Value()), hint)
		}
		sb.WriteString(theme.Muted.Render(hint))
	}

	if m.checking {
		sb.WriteString("\n\n" + m.spinner.View() + " checking…")
	} else if m.feedback != "" {
		sb.WriteString("\n\n" + theme.Bad.Render(m.feedback))
	}

	w := m.width - 4
	if w < 30 {
		w = 60
	}
	return theme.Calm.Width(w).Render(sb.String())
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
