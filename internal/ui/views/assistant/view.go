package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	assistantdto "focustree/internal/modules/assistant/dto"
	apperrors "focustree/internal/platform/errors"
	"focustree/internal/ui/theme"
)

type Port interface {
	Ask(ctx context.Context, text string) (assistantdto.ReplyOutput, error)
	Status() assistantdto.StatusOutput
}

type RepliedMsg struct {
	Question string
	Reply    assistantdto.ReplyOutput
	Err      error
}

type line struct {
	role string
	text string
}

// Model is the focus assistant chat.
type Model struct {
	port    Port
	input   textinput.Model
	history viewport.Model
	spinner spinner.Model
	lines   []line
	pending int
	note    string
	focused bool
	width   int
	height  int
}

func New(port Port) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask the coach…"
	ti.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, input: ti, history: viewport.New(0, 0), spinner: sp}
}

func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.input.Focus()
}

func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
}

// Typing reports whether key presses should go to the input.
func (m Model) Typing() bool { return m.focused }

func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = max(w-6, 10)
	m.history.Width = max(w-4, 10)
	m.history.Height = max(h-6, 3)
	m.history.SetContent(m.renderLines())
}

// Ask sends text as if it had been typed into the input.
func (m *Model) Ask(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	m.lines = append(m.lines, line{role: "you", text: text})
	m.pending++
	m.refresh()
	port := m.port
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		reply, err := port.Ask(context.Background(), text)
		return RepliedMsg{Question: text, Reply: reply, Err: err}
	})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RepliedMsg:
		m.pending--
		switch {
		case errors.Is(msg.Err, apperrors.ErrQueueFull):
			m.note = "Too many questions waiting. Try again in a moment."
		case errors.Is(msg.Err, apperrors.ErrRateLimited):
			m.note = msg.Reply.Text
		case msg.Err != nil:
			m.note = msg.Err.Error()
		default:
			m.note = ""
			m.lines = append(m.lines, line{role: "coach", text: msg.Reply.Text})
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.focused {
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "esc":
			m.Blur()
			return m, nil
		case "enter":
			text := m.input.Value()
			m.input.SetValue("")
			cmd := m.Ask(text)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	status := m.port.Status()
	header := theme.Title.Render("Coach") + theme.Muted.Render(fmt.Sprintf("  %d/%d questions left this hour", status.Remaining, status.Limit))
	footer := m.input.View()
	if m.pending > 0 {
		footer = m.spinner.View() + " thinking…\n" + footer
	}
	if m.note != "" {
		footer = theme.Bad.Render(m.note) + "\n" + footer
	}
	if !m.focused {
		footer += "\n" + theme.Muted.Render("enter: type a question")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, theme.Pane.Width(max(m.width-4, 10)).Render(m.history.View()), footer)
}

func (m *Model) refresh() {
	m.history.SetContent(m.renderLines())
	m.history.GotoBottom()
}

func (m Model) renderLines() string {
	if len(m.lines) == 0 {
		return theme.Muted.Render("Stuck? Ask how to get moving again.")
	}
	wrap := lipgloss.NewStyle().Width(max(m.history.Width-2, 10))
	var sb strings.Builder
	for _, l := range m.lines {
		label := theme.Hot.Render(l.role + ": ")
		if l.role == "coach" {
			label = theme.Title.Render(l.role + ": ")
		}
		sb.WriteString(wrap.Render(label+l.text) + "\n")
	}
	return sb.String()
}
