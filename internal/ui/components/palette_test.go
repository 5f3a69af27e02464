package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeInto(p Palette, s string) Palette {
	for _, r := range s {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return p
}

func submit(t *testing.T, p Palette) (Palette, string) {
	t.Helper()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	msg, ok := cmd().(PaletteSubmitMsg)
	if !ok {
		t.Fatalf("expected PaletteSubmitMsg")
	}
	return p, msg.Input
}

func TestPaletteTabCompletesFirstMatch(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p = typeInto(p, "si")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p = typeInto(p, "phone")
	p, got := submit(t, p)
	if got != "simulate phone" {
		t.Fatalf("got %q", got)
	}
	if p.Visible() {
		t.Fatalf("palette should close on submit")
	}
}

func TestPaletteRecallsEarlierCommands(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	for _, c := range []string{"pause", "break", "break"} {
		p.Open()
		p = typeInto(p, c)
		p, _ = submit(t, p)
	}
	if len(p.recent) != 2 {
		t.Fatalf("expected repeated command collapsed, got %v", p.recent)
	}

	p.Open()
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if _, got := submit(t, p); got != "pause" {
		t.Fatalf("got %q", got)
	}
}

func TestMatchCommandsUsesFirstWord(t *testing.T) {
	t.Parallel()
	cases := map[string]int{
		"":              paletteMatches,
		"break":         3,
		"ask why":       1,
		"monitor:o":     2,
		"nothing-close": 0,
	}
	for input, want := range cases {
		if got := len(matchCommands(input)); got != want {
			t.Fatalf("%q: got %d matches, want %d", input, got, want)
		}
	}
}
