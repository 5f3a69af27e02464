package domain

import (
	"time"

	setupdomain "focustree/internal/modules/setup/domain"
)

type State string

const (
	StateIdle     State = "IDLE"
	StateWarning  State = "WARNING"
	StateAlarm    State = "ALARM"
	StateRecovery State = "RECOVERY"
)

const (
	// PlanAlarmDelay is the escalation delay after a plan that asks for the alarm.
	PlanAlarmDelay = 6 * time.Second
	// FallbackAlarmDelay is the escalation delay when no plan could be made.
	FallbackAlarmDelay = 5 * time.Second
)

// FallbackMessage is spoken when planning fails.
const FallbackMessage = "Focus check. Get back to work."

const (
	ToneGentle    = "gentle"
	ToneFirm      = "firm"
	ToneStrict    = "strict"
	ToneHumorous  = "humorous"
	FallbackTone  = ToneFirm
	defaultVolume = 70
)

// Plan is the coach's answer to a confirmed distraction.
type Plan struct {
	Tone                string
	Message             string
	RecommendedRecovery string
	ShouldAlarm         bool
}

// Task is a recovery task fetched ahead of time for the context-aware method.
type Task struct {
	Type         string
	Prompt       string
	EstimatedSec int
}

// SessionInfo is what planning needs to know about the running session.
type SessionInfo struct {
	Goal             string
	DistractionCount int
	Breakdown        map[string]int
}

// Snapshot is one observable state of the machine.
type Snapshot struct {
	State   State
	Type    string
	Episode uint64
	Message string
	Tone    string
	Planned bool
	Task    *Task
}

func (s Snapshot) Active() bool {
	return s.State != StateIdle
}

// NeedsRecoveryStep reports whether the configured method makes the user pass
// a challenge before the distraction is resolved.
func NeedsRecoveryStep(method setupdomain.RecoveryMethod) bool {
	switch method {
	case setupdomain.RecoveryContextAware, setupdomain.RecoveryPhysicalReset,
		setupdomain.RecoveryReflection, setupdomain.RecoveryProgressive:
		return true
	}
	return false
}

// AlarmVolume clamps the configured volume, defaulting when unset.
func AlarmVolume(cfg setupdomain.Config) int {
	v := cfg.Custom.AlertVolume
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	if v == 0 && cfg.Custom == (setupdomain.CustomSettings{}) {
		return defaultVolume
	}
	return v
}
