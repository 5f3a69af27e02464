package service

import (
	"context"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"focustree/internal/modules/intervention/domain"
	interventionout "focustree/internal/modules/intervention/port/out"
	setupdomain "focustree/internal/modules/setup/domain"
	"focustree/internal/platform/clock"
	apperrors "focustree/internal/platform/errors"
)

// Machine owns the intervention state. Every transition happens under mu;
// collaborators are called after it is released. Background planning and
// escalation timers carry the episode number they were started for and are
// dropped when it no longer matches.
type Machine struct {
	clock    clock.Clock
	session  interventionout.Session
	config   interventionout.Config
	planner  interventionout.Planner
	prefetch interventionout.TaskPrefetcher
	alarm    interventionout.Alarm
	speaker  interventionout.Speaker
	log      hclog.Logger

	bg     context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	snap      domain.Snapshot
	timer     clock.Timer
	closed    bool
	observers []func(domain.Snapshot)
}

type Deps struct {
	Clock    clock.Clock
	Session  interventionout.Session
	Config   interventionout.Config
	Planner  interventionout.Planner
	Prefetch interventionout.TaskPrefetcher
	Alarm    interventionout.Alarm
	Speaker  interventionout.Speaker
	Log      hclog.Logger
}

func NewMachine(d Deps) *Machine {
	bg, cancel := context.WithCancel(context.Background())
	return &Machine{
		clock:    d.Clock,
		session:  d.Session,
		config:   d.Config,
		planner:  d.Planner,
		prefetch: d.Prefetch,
		alarm:    d.Alarm,
		speaker:  d.Speaker,
		log:      d.Log,
		bg:       bg,
		cancel:   cancel,
		snap:     domain.Snapshot{State: domain.StateIdle},
	}
}

func (m *Machine) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

func (m *Machine) Active() bool {
	return m.Snapshot().Active()
}

// Trigger moves to WARNING, records the distraction and starts planning.
func (m *Machine) Trigger(ctx context.Context, distractionType string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return context.Canceled
	}
	m.stopTimerLocked()
	episode := m.snap.Episode + 1
	m.snap = domain.Snapshot{State: domain.StateWarning, Type: distractionType, Episode: episode}
	snap := m.snap
	// Counted while closed is false so Close waits for this plan.
	m.wg.Add(1)
	m.mu.Unlock()
	m.publish(snap)
	m.log.Info("intervention triggered", "type", distractionType, "episode", episode)

	info, err := m.session.RegisterDistraction(ctx, distractionType)
	if err != nil {
		m.log.Warn("register distraction", "error", err)
	}
	cfg, err := m.config.Current(ctx)
	if err != nil {
		m.log.Warn("read config for intervention", "error", err)
		cfg = setupdomain.Default()
	}
	go m.plan(episode, distractionType, info, cfg)
	return nil
}

func (m *Machine) plan(episode uint64, distractionType string, info domain.SessionInfo, cfg setupdomain.Config) {
	defer m.wg.Done()
	plan, err := m.planner.Plan(m.bg, interventionout.PlanRequest{
		DistractionType: distractionType,
		Personality:     string(cfg.Personality),
		Session:         info,
	})

	m.mu.Lock()
	if m.closed || m.snap.Episode != episode || m.snap.State != domain.StateWarning {
		m.mu.Unlock()
		m.log.Debug("discarding plan for a finished warning", "episode", episode)
		return
	}
	var delay time.Duration
	if err != nil {
		m.log.Warn("intervention plan failed, using fallback", "error", err)
		m.snap.Message = domain.FallbackMessage
		m.snap.Tone = domain.FallbackTone
		delay = domain.FallbackAlarmDelay
	} else {
		m.snap.Message = plan.Message
		m.snap.Tone = plan.Tone
		m.snap.Planned = true
		if plan.ShouldAlarm {
			delay = domain.PlanAlarmDelay
		}
	}
	if delay > 0 {
		m.timer = m.clock.AfterFunc(delay, func() { m.escalate(episode) })
	}
	snap := m.snap
	m.mu.Unlock()

	if m.speaker != nil {
		if err := m.speaker.Speak(m.bg, snap.Message, domain.VoiceFor(snap.Tone, string(cfg.Personality))); err != nil {
			m.log.Debug("speech unavailable", "error", err)
		}
	}
	m.publish(snap)
	if err != nil {
		return
	}

	recommended := setupdomain.RecoveryMethod(plan.RecommendedRecovery)
	if recommended.Valid() && recommended != cfg.RecoveryMethod {
		if err := m.config.SetRecoveryMethod(m.bg, recommended); err != nil {
			m.log.Warn("apply recommended recovery method", "method", recommended, "error", err)
		}
	}
	if recommended == setupdomain.RecoveryContextAware && m.prefetch != nil {
		m.wg.Add(1)
		go m.prefetchTask(episode, info.Goal)
	}
}

func (m *Machine) prefetchTask(episode uint64, goal string) {
	defer m.wg.Done()
	task, err := m.prefetch.Prefetch(m.bg, goal)
	if err != nil {
		m.log.Warn("prefetch recovery task", "error", err)
	}
	m.mu.Lock()
	if m.closed || m.snap.Episode != episode || !m.snap.Active() {
		m.mu.Unlock()
		return
	}
	m.snap.Task = &task
	snap := m.snap
	m.mu.Unlock()
	m.publish(snap)
}

// escalate starts the alarm if the same warning is still showing. An
// acknowledgement that lands while the alarm is starting stops it again.
func (m *Machine) escalate(episode uint64) {
	cfg, err := m.config.Current(m.bg)
	if err != nil {
		cfg = setupdomain.Default()
	}

	m.mu.Lock()
	if m.closed || m.snap.Episode != episode || m.snap.State != domain.StateWarning {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.snap.State = domain.StateAlarm
	m.mu.Unlock()

	if m.alarm != nil {
		if err := m.alarm.Start(m.bg, domain.AlarmVolume(cfg)); err != nil {
			m.log.Warn("start alarm", "error", err)
		}
	}
	snap, ringing := m.alarmCurrent(episode)
	if !ringing {
		m.stopAlarm()
		m.log.Debug("alarm stopped, intervention left ALARM while starting", "episode", episode)
		return
	}
	m.log.Info("intervention escalated", "episode", episode)
	m.publish(snap)
}

func (m *Machine) alarmCurrent(episode uint64) (domain.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, !m.closed && m.snap.Episode == episode && m.snap.State == domain.StateAlarm
}

// HandleImBack acknowledges a warning or alarm. Methods with a recovery
// challenge move to RECOVERY; the rest resolve immediately.
func (m *Machine) HandleImBack(ctx context.Context) (domain.Snapshot, error) {
	cfg, err := m.config.Current(ctx)
	if err != nil {
		m.log.Warn("read config for recovery", "error", err)
		cfg = setupdomain.Default()
	}

	m.mu.Lock()
	if m.snap.State != domain.StateWarning && m.snap.State != domain.StateAlarm {
		m.mu.Unlock()
		return domain.Snapshot{}, apperrors.ErrNoIntervention
	}
	m.stopTimerLocked()
	if !domain.NeedsRecoveryStep(cfg.RecoveryMethod) {
		m.mu.Unlock()
		m.stopAlarm()
		return m.Resolve(ctx)
	}
	m.snap.State = domain.StateRecovery
	snap := m.snap
	m.mu.Unlock()

	m.stopAlarm()
	m.publish(snap)
	return snap, nil
}

// Resolve returns to IDLE from any state and tells the session clock the
// distraction is over.
func (m *Machine) Resolve(ctx context.Context) (domain.Snapshot, error) {
	m.mu.Lock()
	if m.snap.State == domain.StateIdle {
		snap := m.snap
		m.mu.Unlock()
		return snap, nil
	}
	m.stopTimerLocked()
	m.snap = domain.Snapshot{State: domain.StateIdle, Episode: m.snap.Episode}
	snap := m.snap
	m.mu.Unlock()

	m.stopAlarm()
	if err := m.session.ResolveDistraction(ctx); err != nil {
		m.log.Warn("resolve distraction", "error", err)
	}
	m.publish(snap)
	return snap, nil
}

// Subscribe registers fn for every transition. fn runs without the machine
// lock held.
func (m *Machine) Subscribe(fn func(domain.Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// Close cancels the pending timer, silences alarm and voice, and waits for
// background planning and prefetches.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.stopTimerLocked()
	m.mu.Unlock()

	m.cancel()
	m.stopAlarm()
	if m.speaker != nil {
		m.speaker.Stop()
	}
	m.wg.Wait()
}

// PendingEscalation reports whether an escalation timer is armed.
func (m *Machine) PendingEscalation() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timer != nil
}

func (m *Machine) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Machine) stopAlarm() {
	if m.alarm != nil {
		m.alarm.Stop()
	}
}

func (m *Machine) publish(snap domain.Snapshot) {
	m.mu.Lock()
	observers := append([]func(domain.Snapshot){}, m.observers...)
	m.mu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}
