package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	assistantdto "focustree/internal/modules/assistant/dto"
	detectiondto "focustree/internal/modules/detection/dto"
	interventiondto "focustree/internal/modules/intervention/dto"
	recoverydto "focustree/internal/modules/recovery/dto"
	sessiondto "focustree/internal/modules/session/dto"
	setupdto "focustree/internal/modules/setup/dto"
	apperrors "focustree/internal/platform/errors"
	"focustree/internal/ui/components"
	"focustree/internal/ui/theme"
	assistantview "focustree/internal/ui/views/assistant"
	"focustree/internal/ui/views/dashboard"
	historyview "focustree/internal/ui/views/history"
	recoveryview "focustree/internal/ui/views/recovery"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type sessionPort interface {
	Current(ctx context.Context) (sessiondto.StateOutput, error)
	Tick(ctx context.Context) (sessiondto.TickOutput, error)
	TogglePause(ctx context.Context) (sessiondto.StateOutput, error)
	StartBreak(ctx context.Context) (sessiondto.StateOutput, error)
	EndBreak(ctx context.Context) (sessiondto.StateOutput, error)
	ExtendBreak(ctx context.Context) (sessiondto.StateOutput, error)
	End(ctx context.Context, confirmed bool) (sessiondto.RecordOutput, error)
	SetTerminalFocused(focused bool)
	History(ctx context.Context, limit int) ([]sessiondto.RecordOutput, error)
	Subscribe(fn func(sessiondto.EventOutput))
}

type detectionPort interface {
	Stats() detectiondto.StatsOutput
	SetMonitor(enabled bool)
}

type interventionPort interface {
	State() interventiondto.StateOutput
	ImBack(ctx context.Context) (interventiondto.StateOutput, error)
	FalseAlarm(ctx context.Context) (interventiondto.StateOutput, error)
	CompleteRecovery(ctx context.Context) (interventiondto.StateOutput, error)
	SimulateDistraction(ctx context.Context, distractionType string) error
	Subscribe(fn func(interventiondto.StateOutput))
}

type recoveryPort interface {
	NewChallenge(ctx context.Context, method, mode string, count int, goal string, prefetched *recoverydto.TaskOutput) (recoverydto.ChallengeOutput, error)
	Submit(ctx context.Context, ch recoverydto.ChallengeOutput, answers []string, goal string) (recoverydto.ResultOutput, error)
}

type assistantPort interface {
	Ask(ctx context.Context, text string) (assistantdto.ReplyOutput, error)
	Status() assistantdto.StatusOutput
}

type configPort interface {
	Show(ctx context.Context) (setupdto.Config, error)
	Subscribe(fn func(setupdto.Config))
}

// Ports groups the handlers the TUI drives.
type Ports struct {
	Session      sessionPort
	Detection    detectionPort
	Intervention interventionPort
	Recovery     recoveryPort
	Assistant    assistantPort
	Config       configPort
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabSession tabID = iota
	tabCoach
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Session", "Coach", "History"}

// ─── async messages ───────────────────────────────────────────────────────────

type tickMsg time.Time

type tickedMsg struct {
	out sessiondto.TickOutput
	err error
}

type stateMsg struct {
	state sessiondto.StateOutput
	err   error
	label string
}

type endedMsg struct {
	record sessiondto.RecordOutput
	err    error
}

type interventionMsg struct {
	state interventiondto.StateOutput
	err   error
}

type sessionEventMsg struct{ event sessiondto.EventOutput }

type configMsg struct {
	cfg setupdto.Config
	err error
}

type errMsg struct{ err error }

// eventMsg carries a message published by a subscription.
type eventMsg struct{ msg tea.Msg }

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab        key.Binding
	Help       key.Binding
	Palette    key.Binding
	Quit       key.Binding
	Pause      key.Binding
	Break      key.Binding
	End        key.Binding
	Monitor    key.Binding
	ImBack     key.Binding
	FalseAlarm key.Binding
	Extend     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Pause:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
		Break:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "take a break")),
		End:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end session")),
		Monitor:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "camera monitor on/off")),
		ImBack:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "I'm back / end break")),
		FalseAlarm: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "false alarm")),
		Extend:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "extend break")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Break, k.End, k.Monitor},
		{k.ImBack, k.FalseAlarm, k.Extend},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model for a running session. It owns tab
// routing, the intervention and break overlays, the help overlay and the
// command palette. Rendering of each tab is delegated to sub-views.
type Model struct {
	ports  Ports
	events chan tea.Msg

	dash      dashboard.Model
	recovery  recoveryview.Model
	assistant assistantview.Model
	history   historyview.Model

	config     setupdto.Config
	activeTab  tabID
	keys       keyMap
	help       help.Model
	showHelp   bool
	palette    components.Palette
	confirmEnd bool
	ending     bool
	summary    *sessiondto.RecordOutput
	status     string
	width      int
	height     int
}

func NewModel(ports Ports) Model {
	m := Model{
		ports:     ports,
		events:    make(chan tea.Msg, 64),
		dash:      dashboard.New(),
		recovery:  recoveryview.New(ports.Recovery),
		assistant: assistantview.New(ports.Assistant),
		history:   historyview.New(ports.Session),
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "ready",
	}
	events := m.events
	publish := func(msg tea.Msg) {
		// Ticks reconcile anything dropped here.
		select {
		case events <- eventMsg{msg: msg}:
		default:
		}
	}
	ports.Session.Subscribe(func(e sessiondto.EventOutput) { publish(sessionEventMsg{event: e}) })
	ports.Intervention.Subscribe(func(s interventiondto.StateOutput) { publish(interventionMsg{state: s}) })
	ports.Config.Subscribe(func(c setupdto.Config) { publish(configMsg{cfg: c}) })
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCurrentCmd(),
		m.loadConfigCmd(),
		m.history.Init(),
		m.waitEvent(),
		tick(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette takes all key input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tea.FocusMsg:
		m.ports.Session.SetTerminalFocused(true)
		return m, nil

	case tea.BlurMsg:
		m.ports.Session.SetTerminalFocused(false)
		return m, nil

	case eventMsg:
		next, cmd := m.Update(msg.msg)
		return next, tea.Batch(cmd, m.waitEvent())

	case tickMsg:
		if m.summary != nil {
			return m, tea.Batch(cmds...)
		}
		return m, tea.Batch(append(cmds, m.tickCmd())...)

	case tickedMsg:
		cmds = append(cmds, tick())
		if msg.err != nil {
			if !errors.Is(msg.err, apperrors.ErrNoActiveSession) {
				m.status = "tick: " + msg.err.Error()
			}
			return m, tea.Batch(cmds...)
		}
		m.dash.SetSession(msg.out.State)
		cmds = append(cmds, m.refreshLive())
		if msg.out.Due && !m.ending {
			m.ending = true
			m.status = "planned time reached"
			cmds = append(cmds, m.endCmd(true))
		}
		return m, tea.Batch(cmds...)

	case stateMsg:
		if msg.err != nil {
			m.status = describe(msg.label, msg.err)
			return m, nil
		}
		m.dash.SetSession(msg.state)
		if msg.label != "" {
			m.status = msg.label
		}
		return m, nil

	case sessionEventMsg:
		m.dash.SetSession(msg.event.State)
		if msg.event.Kind == "distraction" && msg.event.Notified {
			m.status = "distraction noted: " + msg.event.Type
		}
		return m, tea.Batch(cmds...)

	case interventionMsg:
		if msg.err != nil {
			m.status = describe("intervention", msg.err)
			return m, tea.Batch(cmds...)
		}
		return m, tea.Batch(append(cmds, m.applyIntervention(msg.state))...)

	case configMsg:
		if msg.err != nil {
			m.status = describe("config", msg.err)
		} else {
			m.config = msg.cfg
		}
		return m, tea.Batch(cmds...)

	case endedMsg:
		m.ending = false
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, apperrors.ErrConfirmRequired):
				m.confirmEnd = true
				m.status = "press e again to end the session early"
			case errors.Is(msg.err, apperrors.ErrExitBlocked):
				m.status = "hardcore mode: the session runs until the planned time"
			default:
				m.status = describe("end", msg.err)
			}
			return m, nil
		}
		record := msg.record
		m.summary = &record
		m.recovery.Close()
		m.status = fmt.Sprintf("session complete: %.0f%% focus", record.FocusPercent)
		return m, m.history.Reload()

	case errMsg:
		m.status = msg.err.Error()
		return m, nil

	case recoveryview.CompletedMsg:
		m.status = "welcome back"
		return m, m.interventionCmd(m.ports.Intervention.CompleteRecovery)

	case recoveryview.ChallengeLoadedMsg, recoveryview.SubmittedMsg:
		var cmd tea.Cmd
		m.recovery, cmd = m.recovery.Update(msg)
		return m, cmd

	case assistantview.RepliedMsg:
		var cmd tea.Cmd
		m.assistant, cmd = m.assistant.Update(msg)
		return m, cmd

	case historyview.LoadedMsg:
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.recovery.Active() {
			var cmd tea.Cmd
			m.recovery, cmd = m.recovery.Update(msg)
			return m, cmd
		}
		if m.activeTab == tabCoach && m.assistant.Typing() {
			var cmd tea.Cmd
			m.assistant, cmd = m.assistant.Update(msg)
			return m, cmd
		}
		if m.activeTab == tabHistory && m.history.Filtering() {
			break
		}
		if handled, next, cmd := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	// Everything else goes to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabSession:
		m.recovery, tabCmd = m.recovery.Update(msg)
	case tabCoach:
		m.assistant, tabCmd = m.assistant.Update(msg)
	case tabHistory:
		m.history, tabCmd = m.history.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	s := msg.String()
	switch s {
	case "q":
		return true, m, tea.Quit
	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
		return true, m, nil
	case "shift+tab":
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		return true, m, nil
	case "?":
		m.showHelp = !m.showHelp
		return true, m, nil
	case ":":
		cmd := m.palette.Open()
		return true, m, cmd
	}

	if m.activeTab == tabCoach && s == "enter" {
		cmd := m.assistant.Focus()
		return true, m, cmd
	}
	if m.activeTab != tabSession || m.summary != nil {
		return false, m, nil
	}

	if iv := m.dash.Intervention(); iv.State == "WARNING" || iv.State == "ALARM" {
		switch s {
		case "enter":
			return true, m, m.interventionCmd(m.ports.Intervention.ImBack)
		case "f":
			return true, m, m.interventionCmd(m.ports.Intervention.FalseAlarm)
		}
		return true, m, nil
	}

	if m.dash.Session().Status == "break" {
		switch s {
		case "enter":
			return true, m, m.stateCmd("break ended", m.ports.Session.EndBreak)
		case "x":
			return true, m, m.stateCmd("break extended by 5 minutes", m.ports.Session.ExtendBreak)
		}
	}

	if s != "e" {
		m.confirmEnd = false
	}
	switch s {
	case "p":
		return true, m, m.stateCmd("", m.ports.Session.TogglePause)
	case "b":
		return true, m, m.stateCmd("break started", m.ports.Session.StartBreak)
	case "e":
		if m.ending {
			return true, m, nil
		}
		m.ending = true
		return true, m, m.endCmd(m.confirmEnd)
	case "m":
		enabled := !m.ports.Detection.Stats().MonitorEnabled
		m.ports.Detection.SetMonitor(enabled)
		m.dash.SetStats(m.ports.Detection.Stats())
		m.status = "camera monitor " + onOff(enabled)
		return true, m, nil
	}
	return false, m, nil
}

// applyIntervention moves the overlays along with the intervention state.
func (m *Model) applyIntervention(s interventiondto.StateOutput) tea.Cmd {
	prev := m.dash.Intervention()
	m.dash.SetIntervention(s)
	switch s.State {
	case "WARNING":
		if prev.Episode != s.Episode || prev.State != s.State {
			m.activeTab = tabSession
			m.recovery.Close()
		}
	case "ALARM":
		m.activeTab = tabSession
	case "RECOVERY":
		if m.recovery.Active() && prev.Episode == s.Episode {
			return nil
		}
		session := m.dash.Session()
		m.activeTab = tabSession
		return m.recovery.Open(recoveryview.Request{
			Method:           string(m.config.RecoveryMethod),
			Mode:             string(m.config.Mode),
			DistractionCount: session.DistractionCount,
			Goal:             session.Goal,
			Prefetched:       toRecoveryTask(s.Task),
		})
	default:
		if m.recovery.Active() {
			m.recovery.Close()
		}
	}
	return nil
}

// refreshLive pulls state that changes between events.
func (m *Model) refreshLive() tea.Cmd {
	m.dash.SetStats(m.ports.Detection.Stats())
	current := m.ports.Intervention.State()
	if current.State != m.dash.Intervention().State || current.Episode != m.dash.Intervention().Episode {
		return m.applyIntervention(current)
	}
	return nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView(contentH)
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView(h int) string {
	switch m.activeTab {
	case tabCoach:
		return m.assistant.View()
	case tabHistory:
		return m.history.View()
	}

	if m.summary != nil {
		body := historyview.Render(historyview.Summary(*m.summary), min(m.width-4, 100))
		return lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center,
			theme.Calm.Render(body+"\n\n"+theme.Muted.Render("q: quit")))
	}
	if overlay := m.overlay(); overlay != "" {
		return lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center, overlay)
	}
	return m.dash.View()
}

func (m Model) overlay() string {
	if m.recovery.Active() {
		return m.recovery.View()
	}
	iv := m.dash.Intervention()
	switch iv.State {
	case "WARNING", "ALARM":
		style := theme.Warning
		title := theme.Hot.Render("Focus check")
		if iv.State == "ALARM" {
			style = theme.Alarm
			title = theme.Bad.Render("Get back to work")
		}
		msg := iv.Message
		if msg == "" {
			msg = theme.Muted.Render("Looks like you drifted off (" + iv.Type + ")…")
		}
		return style.Width(min(m.width-8, 70)).Render(title + "\n\n" + msg + "\n\n" +
			theme.Muted.Render("enter: I'm back   f: false alarm"))
	}

	s := m.dash.Session()
	if s.Status == "break" {
		body := theme.Title.Render("Break") + "\n\n" +
			theme.Hot.Render(dashboard.Clock(s.NextBreakIn)) + theme.Muted.Render(" left") + "\n\n" +
			"Stand up, stretch, look away from the screen.\n\n" +
			theme.Muted.Render("enter: back to work   x: +5 min")
		return theme.Calm.Width(min(m.width-8, 60)).Render(body)
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	bar := "focustree  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if s := m.dash.Session(); s.SessionID != "" && m.summary == nil {
		left = theme.Hot.Render("● "+dashboard.Clock(s.RemainingSec)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left+strings.Repeat(" ", gap)+right)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "pause":
		return m, m.stateCmd("", m.ports.Session.TogglePause)
	case "break":
		return m, m.stateCmd("break started", m.ports.Session.StartBreak)
	case "break:end":
		return m, m.stateCmd("break ended", m.ports.Session.EndBreak)
	case "break:extend":
		return m, m.stateCmd("break extended by 5 minutes", m.ports.Session.ExtendBreak)
	case "end":
		m.ending = true
		return m, m.endCmd(true)
	case "monitor:on", "monitor:off":
		enabled := parts[0] == "monitor:on"
		m.ports.Detection.SetMonitor(enabled)
		m.status = "camera monitor " + onOff(enabled)
		return m, nil
	case "ask":
		if rest == "" {
			m.status = "usage: ask <question>"
			return m, nil
		}
		m.activeTab = tabCoach
		cmd := m.assistant.Ask(rest)
		return m, cmd
	case "simulate":
		if rest == "" {
			m.status = "usage: simulate <distraction type>"
			return m, nil
		}
		intervention := m.ports.Intervention
		return m, func() tea.Msg {
			if err := intervention.SimulateDistraction(context.Background(), rest); err != nil {
				return errMsg{err: err}
			}
			return nil
		}
	case "history":
		m.activeTab = tabHistory
		return m, m.history.Reload()
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	h := m.height - 4
	m.dash.SetSize(m.width, h)
	m.recovery.SetWidth(min(m.width-8, 80))
	m.assistant.SetSize(m.width, h)
	m.history, _ = m.history.Update(tea.WindowSizeMsg{Width: m.width, Height: h})
}

func describe(label string, err error) string {
	msg := err.Error()
	switch {
	case errors.Is(err, apperrors.ErrBreakLocked):
		msg = "breaks cannot be skipped in hardcore mode"
	case errors.Is(err, apperrors.ErrNoActiveSession):
		msg = "no active session"
	case errors.Is(err, apperrors.ErrNoIntervention):
		msg = "nothing to resolve"
	}
	if label == "" {
		return msg
	}
	return label + ": " + msg
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func toRecoveryTask(t *interventiondto.TaskOutput) *recoverydto.TaskOutput {
	if t == nil {
		return nil
	}
	return &recoverydto.TaskOutput{Type: t.Type, Prompt: t.Prompt, EstimatedSec: t.EstimatedSec}
}

// ─── async commands ───────────────────────────────────────────────────────────

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) waitEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg { return <-events }
}

func (m Model) tickCmd() tea.Cmd {
	session := m.ports.Session
	return func() tea.Msg {
		out, err := session.Tick(context.Background())
		return tickedMsg{out: out, err: err}
	}
}

func (m Model) loadCurrentCmd() tea.Cmd {
	session := m.ports.Session
	return func() tea.Msg {
		state, err := session.Current(context.Background())
		return stateMsg{state: state, err: err}
	}
}

func (m Model) loadConfigCmd() tea.Cmd {
	config := m.ports.Config
	return func() tea.Msg {
		cfg, err := config.Show(context.Background())
		return configMsg{cfg: cfg, err: err}
	}
}

func (m Model) stateCmd(label string, fn func(context.Context) (sessiondto.StateOutput, error)) tea.Cmd {
	return func() tea.Msg {
		state, err := fn(context.Background())
		return stateMsg{state: state, err: err, label: label}
	}
}

func (m Model) endCmd(confirmed bool) tea.Cmd {
	session := m.ports.Session
	return func() tea.Msg {
		record, err := session.End(context.Background(), confirmed)
		return endedMsg{record: record, err: err}
	}
}

func (m Model) interventionCmd(fn func(context.Context) (interventiondto.StateOutput, error)) tea.Cmd {
	return func() tea.Msg {
		state, err := fn(context.Background())
		return interventionMsg{state: state, err: err}
	}
}
