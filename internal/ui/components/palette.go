package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"focustree/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	commandStyle = lipgloss.NewStyle().Foreground(theme.Lavender)
	hintStyle    = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

type paletteCommand struct {
	name string
	arg  string
	help string
}

// Must stay in sync with executePalette in app/model.go.
var paletteCommands = []paletteCommand{
	{name: "pause", help: "pause or resume the session"},
	{name: "break", help: "start a break now"},
	{name: "break:end", help: "end the current break"},
	{name: "break:extend", help: "add five minutes to the break"},
	{name: "end", help: "finish the session"},
	{name: "monitor:on", help: "resume distraction detection"},
	{name: "monitor:off", help: "stop distraction detection"},
	{name: "ask", arg: "<question>", help: "ask the assistant"},
	{name: "simulate", arg: "<type>", help: "trigger an intervention"},
	{name: "history", help: "open past sessions"},
}

const (
	paletteMatches = 5
	paletteRecall  = 20
)

// Palette is a single-line command prompt with completion and recall of
// earlier commands.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	recent  []string
	cursor  int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "command (tab completes)"
	ti.CharLimit = 256
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with an empty prompt and focuses it.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.cursor = len(p.recent)
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.close()
			p.remember(val)
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if m := matchCommands(p.input.Value()); len(m) > 0 {
				completed := m[0].name
				if m[0].arg != "" {
					completed += " "
				}
				p.input.SetValue(completed)
				p.input.CursorEnd()
			}
			return p, nil
		case "up":
			if p.cursor > 0 {
				p.cursor--
				p.input.SetValue(p.recent[p.cursor])
				p.input.CursorEnd()
			}
			return p, nil
		case "down":
			if p.cursor < len(p.recent) {
				p.cursor++
				val := ""
				if p.cursor < len(p.recent) {
					val = p.recent[p.cursor]
				}
				p.input.SetValue(val)
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) remember(val string) {
	if val == "" || (len(p.recent) > 0 && p.recent[len(p.recent)-1] == val) {
		return
	}
	p.recent = append(p.recent, val)
	if len(p.recent) > paletteRecall {
		p.recent = p.recent[len(p.recent)-paletteRecall:]
	}
}

// matchCommands returns the commands whose name starts with the first word
// typed, in declaration order.
func matchCommands(input string) []paletteCommand {
	word := strings.ToLower(strings.TrimSpace(input))
	if i := strings.IndexByte(word, ' '); i >= 0 {
		word = word[:i]
	}
	var out []paletteCommand
	for _, c := range paletteCommands {
		if strings.HasPrefix(c.name, word) {
			out = append(out, c)
			if len(out) == paletteMatches {
				break
			}
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if matches := matchCommands(p.input.Value()); len(matches) > 0 {
		sb.WriteString("\n")
		for _, c := range matches {
			label := c.name
			if c.arg != "" {
				label += " " + c.arg
			}
			sb.WriteString("  " + commandStyle.Render(padRight(label, 24)) + hintStyle.Render(c.help) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
