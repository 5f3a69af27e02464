package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	detectiondto "focustree/internal/modules/detection/dto"
	interventiondto "focustree/internal/modules/intervention/dto"
	sessiondto "focustree/internal/modules/session/dto"
	"focustree/internal/ui/theme"
)

// Model renders the live session. It holds no ports: the app model pushes
// fresh snapshots into it on every tick and event.
type Model struct {
	session      sessiondto.StateOutput
	stats        detectiondto.StatsOutput
	intervention interventiondto.StateOutput
	remaining    progress.Model
	focus        progress.Model
	width        int
	height       int
}

func New() Model {
	return Model{
		remaining: progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Lavender)), progress.WithoutPercentage()),
		focus:     progress.New(progress.WithSolidFill(string(theme.Green))),
	}
}

func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	bar := w/2 - 8
	if bar < 10 {
		bar = 10
	}
	m.remaining.Width = bar
	m.focus.Width = bar
}

func (m *Model) SetSession(s sessiondto.StateOutput)           { m.session = s }
func (m *Model) SetStats(s detectiondto.StatsOutput)           { m.stats = s }
func (m *Model) SetIntervention(s interventiondto.StateOutput) { m.intervention = s }
func (m Model) Session() sessiondto.StateOutput                { return m.session }
func (m Model) Intervention() interventiondto.StateOutput      { return m.intervention }

func (m Model) View() string {
	s := m.session
	if s.SessionID == "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No active session"))
	}

	left := m.renderClock()
	right := m.renderDetector()
	leftW := m.width / 2
	return lipgloss.JoinHorizontal(lipgloss.Top,
		theme.PaneActive.Width(leftW-4).Render(left),
		theme.Pane.Width(m.width-leftW-4).Render(right),
	)
}

func (m Model) renderClock() string {
	s := m.session
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.Goal) + "\n")
	sb.WriteString(statusLabel(s.Status) + theme.Muted.Render("  "+s.Mode) + "\n\n")

	total := s.DurationMin * 60
	done := 0.0
	if total > 0 {
		done = float64(total-s.RemainingSec) / float64(total)
	}
	sb.WriteString(theme.Muted.Render("remaining ") + Clock(s.RemainingSec) + "\n")
	sb.WriteString(m.remaining.ViewAs(clamp01(done)) + "\n\n")

	sb.WriteString(theme.Muted.Render("focus     ") + fmt.Sprintf("%s / %s", Clock(s.FocusSec), Clock(s.ElapsedSec)) + "\n")
	sb.WriteString(m.focus.ViewAs(clamp01(s.FocusPercent/100)) + "\n\n")

	sb.WriteString(fmt.Sprintf("%s%.1f min (best %.1f)\n", theme.Muted.Render("streak    "), s.CurrentStreak, s.LongestStreak))
	if s.BreaksEnabled {
		label := "next break"
		if s.Status == "break" {
			label = "break left"
		}
		sb.WriteString(fmt.Sprintf("%s %s  (%d taken)\n", theme.Muted.Render(fmt.Sprintf("%-9s", label)), Clock(s.NextBreakIn), s.BreaksTaken))
	}
	return sb.String()
}

func (m Model) renderDetector() string {
	st := m.stats
	s := m.session
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Distractions") + "\n\n")
	sb.WriteString(fmt.Sprintf("%s%d  (%s)\n", theme.Muted.Render("count     "), s.DistractionCount, Clock(s.DistractionSec)))
	for _, line := range breakdownLines(s.Breakdown) {
		sb.WriteString("  " + line + "\n")
	}
	sb.WriteString("\n")

	monitor := theme.Good.Render("on")
	if !st.MonitorEnabled {
		monitor = theme.Muted.Render("off")
	}
	camera := theme.Good.Render("ready")
	if !st.CameraReady {
		camera = theme.Bad.Render("unavailable")
	}
	sb.WriteString(theme.Muted.Render("monitor   ") + monitor + "\n")
	sb.WriteString(theme.Muted.Render("camera    ") + camera + "\n")
	sb.WriteString(fmt.Sprintf("%s%.2f\n", theme.Muted.Render("motion    "), st.LastMotion))
	if st.LastType != "" {
		verdict := theme.Good.Render("focused")
		if st.LastDistracted {
			verdict = theme.Bad.Render(st.LastType)
		}
		sb.WriteString(fmt.Sprintf("%s%s (%.0f%%)\n", theme.Muted.Render("last      "), verdict, st.LastConfidence))
	}
	if st.EpisodeRunning {
		sb.WriteString(fmt.Sprintf("%s%ds\n", theme.Muted.Render("episode   "), st.EpisodeSeconds))
	}
	if st.Backoff > 1 {
		sb.WriteString(fmt.Sprintf("%s%dx\n", theme.Muted.Render("backoff   "), st.Backoff))
	}
	if st.NextInterval > 0 {
		sb.WriteString(theme.Muted.Render("next look ") + st.NextInterval.String() + "\n")
	}
	return sb.String()
}

// Clock formats seconds as m:ss, or h:mm:ss past the hour.
func Clock(sec int) string {
	if sec < 0 {
		sec = 0
	}
	h, m, s := sec/3600, sec/60%60, sec%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func statusLabel(status string) string {
	switch status {
	case "active":
		return theme.Good.Render("● focusing")
	case "distracted":
		return theme.Bad.Render("● distracted")
	case "break":
		return theme.Hot.Render("● break")
	case "paused":
		return theme.Muted.Render("❚❚ paused")
	case "completed":
		return theme.Title.Render("✓ completed")
	}
	return theme.Muted.Render(status)
}

func breakdownLines(b map[string]int) []string {
	keys := make([]string, 0, len(b))
	for k, v := range b {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if b[keys[i]] != b[keys[j]] {
			return b[keys[i]] > b[keys[j]]
		}
		return keys[i] < keys[j]
	})
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%-10s %d", k, b[k]))
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
