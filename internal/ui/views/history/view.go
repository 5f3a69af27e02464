package history

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	sessiondto "focustree/internal/modules/session/dto"
	"focustree/internal/ui/theme"
)

const pageSize = 50

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	History(ctx context.Context, limit int) ([]sessiondto.RecordOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Records []sessiondto.RecordOutput
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type recordItem struct {
	record sessiondto.RecordOutput
}

func (i recordItem) Title() string {
	if i.record.Goal == "" {
		return i.record.StartedAt.Local().Format("Mon Jan 2 15:04")
	}
	return i.record.Goal
}

func (i recordItem) Description() string {
	return fmt.Sprintf("%s  %d min  %.0f%% focus", i.record.StartedAt.Local().Format("Jan 2 15:04"), i.record.TotalMin, i.record.FocusPercent)
}

func (i recordItem) FilterValue() string { return i.record.Goal }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	list    list.Model
	preview viewport.Model
	spinner spinner.Model
	loading bool
	err     error
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Sessions"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, preview: viewport.New(0, 0), spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the latest records, e.g. after a session ends.
func (m Model) Reload() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		records, err := port.History(context.Background(), pageSize)
		return LoadedMsg{Records: records, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.Records))
		for i, r := range msg.Records {
			items[i] = recordItem{record: r}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.showSelected()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.showSelected()
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading sessions…")
	}
	if m.err != nil {
		return theme.Bad.Render("history: " + m.err.Error())
	}
	listW := m.width * 4 / 10
	detailW := m.width - listW
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := theme.Pane.Padding(0).Width(detailW - 2).Height(m.height - 2).Render(m.preview.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
	m.showSelected()
}

func (m *Model) showSelected() {
	item, ok := m.list.SelectedItem().(recordItem)
	if !ok {
		m.preview.SetContent(theme.Muted.Render("No sessions yet"))
		return
	}
	m.preview.SetContent(Render(Summary(item.record), m.preview.Width))
}

// Summary renders a record as markdown.
func Summary(r sessiondto.RecordOutput) string {
	var sb strings.Builder
	title := r.Goal
	if title == "" {
		title = "Focus session"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "%s, %s mode\n\n", r.StartedAt.Local().Format("Monday Jan 2 2006, 15:04"), r.Mode)
	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Total | %d min |\n", r.TotalMin)
	fmt.Fprintf(&sb, "| Focused | %d min (%.1f%%) |\n", r.FocusMin, r.FocusPercent)
	fmt.Fprintf(&sb, "| Distracted | %d min |\n", r.DistractedMin)
	fmt.Fprintf(&sb, "| Longest streak | %.1f min |\n", r.LongestStreak)
	fmt.Fprintf(&sb, "| Breaks | %d |\n", r.BreaksTaken)

	if r.DistractionCount > 0 {
		fmt.Fprintf(&sb, "\n## Distractions (%d)\n\n", r.DistractionCount)
		kinds := make([]string, 0, len(r.Breakdown))
		for k, v := range r.Breakdown {
			if v > 0 {
				kinds = append(kinds, k)
			}
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(&sb, "- %s: %d\n", k, r.Breakdown[k])
		}
	}
	if r.Insights != nil {
		sb.WriteString("\n## Insights\n\n")
		fmt.Fprintf(&sb, "- **Went well:** %s\n", r.Insights.Positive)
		fmt.Fprintf(&sb, "- **Improve:** %s\n", r.Insights.Improvement)
		fmt.Fprintf(&sb, "- **Pattern:** %s\n", r.Insights.Pattern)
	}
	if r.NotePath != "" {
		fmt.Fprintf(&sb, "\n`%s`\n", r.NotePath)
	}
	return sb.String()
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]*glamour.TermRenderer{}
)

// Render formats markdown for the terminal, falling back to the raw text.
func Render(md string, width int) string {
	if width < 20 {
		width = 20
	}
	rendererMu.Lock()
	r, ok := renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width))
		if err != nil {
			r = nil
		}
		renderers[width] = r
	}
	rendererMu.Unlock()
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
