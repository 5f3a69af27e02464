package domain

import (
	"fmt"
	"strings"
)

const SchemaVersion = 1

type Mode string

const (
	ModeHardcore Mode = "hardcore"
	ModeFocused  Mode = "focused"
	ModeChill    Mode = "chill"
	ModeCustom   Mode = "custom"
)

type BreakType string

const (
	BreakPomodoro BreakType = "pomodoro"
	BreakExtended BreakType = "extended"
	BreakCustom   BreakType = "custom"
	BreakNone     BreakType = "none"
)

type Personality string

const (
	PersonalitySupportiveFriend Personality = "supportive_friend"
	PersonalityDrillSergeant    Personality = "drill_sergeant"
	PersonalityRoastMode        Personality = "roast_mode"
	PersonalityCalmCoach        Personality = "calm_coach"
	PersonalityHypeMode         Personality = "hype_mode"
)

type RecoveryMethod string

const (
	RecoveryContextAware  RecoveryMethod = "context_aware"
	RecoveryPhysicalReset RecoveryMethod = "physical_reset"
	RecoveryReflection    RecoveryMethod = "reflection"
	RecoverySimpleClick   RecoveryMethod = "simple_click"
	RecoveryProgressive   RecoveryMethod = "progressive"
)

type ExitFriction string

const (
	ExitNone   ExitFriction = "none"
	ExitMild   ExitFriction = "mild"
	ExitSevere ExitFriction = "severe"
)

type BreakSchedule struct {
	Type          BreakType `yaml:"type" json:"type"`
	WorkInterval  int       `yaml:"work_interval" json:"work_interval"`
	BreakDuration int       `yaml:"break_duration" json:"break_duration"`
}

type Permissions struct {
	Camera        bool `yaml:"camera" json:"camera"`
	Microphone    bool `yaml:"microphone" json:"microphone"`
	Notifications bool `yaml:"notifications" json:"notifications"`
}

type CustomSettings struct {
	DistractionTolerance int          `yaml:"distraction_tolerance" json:"distraction_tolerance"`
	AlertVolume          int          `yaml:"alert_volume" json:"alert_volume"`
	ExitFriction         ExitFriction `yaml:"exit_friction" json:"exit_friction"`
}

// Config is the per-session configuration chosen before a session starts.
type Config struct {
	SchemaVersion  int            `yaml:"schema_version" json:"schema_version"`
	Mode           Mode           `yaml:"mode" json:"mode"`
	DurationMin    int            `yaml:"duration" json:"duration"`
	BreakSchedule  BreakSchedule  `yaml:"break_schedule" json:"break_schedule"`
	Personality    Personality    `yaml:"personality" json:"personality"`
	RecoveryMethod RecoveryMethod `yaml:"recovery_method" json:"recovery_method"`
	WorkingOn      string         `yaml:"working_on" json:"working_on"`
	Permissions    Permissions    `yaml:"permissions" json:"permissions"`
	Custom         CustomSettings `yaml:"custom_settings" json:"custom_settings"`
}

func Default() Config {
	return Config{
		SchemaVersion:  SchemaVersion,
		Mode:           ModeFocused,
		DurationMin:    60,
		BreakSchedule:  BreakSchedule{Type: BreakPomodoro, WorkInterval: 25, BreakDuration: 5},
		Personality:    PersonalitySupportiveFriend,
		RecoveryMethod: RecoveryContextAware,
		Custom:         CustomSettings{DistractionTolerance: 60, AlertVolume: 70, ExitFriction: ExitMild},
	}
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeHardcore, ModeFocused, ModeChill, ModeCustom:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	switch c.BreakSchedule.Type {
	case BreakPomodoro, BreakExtended, BreakCustom, BreakNone:
	default:
		return fmt.Errorf("unknown break schedule %q", c.BreakSchedule.Type)
	}
	switch c.Personality {
	case PersonalitySupportiveFriend, PersonalityDrillSergeant, PersonalityRoastMode, PersonalityCalmCoach, PersonalityHypeMode:
	default:
		return fmt.Errorf("unknown personality %q", c.Personality)
	}
	if !c.RecoveryMethod.Valid() {
		return fmt.Errorf("unknown recovery method %q", c.RecoveryMethod)
	}
	switch c.Custom.ExitFriction {
	case ExitNone, ExitMild, ExitSevere:
	default:
		return fmt.Errorf("unknown exit friction %q", c.Custom.ExitFriction)
	}
	if c.DurationMin <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if c.BreakSchedule.Type != BreakNone && (c.BreakSchedule.WorkInterval <= 0 || c.BreakSchedule.BreakDuration <= 0) {
		return fmt.Errorf("break schedule intervals must be positive")
	}
	if c.Custom.AlertVolume < 0 || c.Custom.AlertVolume > 100 {
		return fmt.Errorf("alert volume must be within 0-100")
	}
	if c.Custom.DistractionTolerance < 0 {
		return fmt.Errorf("distraction tolerance must be non-negative")
	}
	return nil
}

func (m RecoveryMethod) Valid() bool {
	switch m {
	case RecoveryContextAware, RecoveryPhysicalReset, RecoveryReflection, RecoverySimpleClick, RecoveryProgressive:
		return true
	}
	return false
}

// Strictest reports whether the mode gets clamped tolerance and unskippable breaks.
func (c Config) Strictest() bool {
	return c.Mode == ModeHardcore
}

type ExitRule int

const (
	ExitConfirm ExitRule = iota
	ExitImmediate
	ExitBlocked
)

// ExitRule decides how ending a session early is handled.
func (c Config) ExitRule() ExitRule {
	switch c.Mode {
	case ModeHardcore:
		return ExitBlocked
	case ModeChill:
		return ExitImmediate
	}
	if c.Custom.ExitFriction == ExitNone {
		return ExitImmediate
	}
	return ExitConfirm
}

// Patch is a partial update. Nil fields are left untouched; custom settings
// merge field by field.
type Patch struct {
	Mode                 *Mode
	DurationMin          *int
	BreakSchedule        *BreakSchedule
	Personality          *Personality
	RecoveryMethod       *RecoveryMethod
	WorkingOn            *string
	Permissions          *Permissions
	DistractionTolerance *int
	AlertVolume          *int
	ExitFriction         *ExitFriction
}

func (c Config) Apply(p Patch) Config {
	out := c
	if p.Mode != nil {
		out.Mode = *p.Mode
	}
	if p.DurationMin != nil {
		out.DurationMin = *p.DurationMin
	}
	if p.BreakSchedule != nil {
		out.BreakSchedule = *p.BreakSchedule
	}
	if p.Personality != nil {
		out.Personality = *p.Personality
	}
	if p.RecoveryMethod != nil {
		out.RecoveryMethod = *p.RecoveryMethod
	}
	if p.WorkingOn != nil {
		out.WorkingOn = strings.TrimSpace(*p.WorkingOn)
	}
	if p.Permissions != nil {
		out.Permissions = *p.Permissions
	}
	if p.DistractionTolerance != nil {
		out.Custom.DistractionTolerance = *p.DistractionTolerance
	}
	if p.AlertVolume != nil {
		out.Custom.AlertVolume = *p.AlertVolume
	}
	if p.ExitFriction != nil {
		out.Custom.ExitFriction = *p.ExitFriction
	}
	return out
}

// FillDefaults completes a config decoded from an older or partial file.
func (c Config) FillDefaults() Config {
	d := Default()
	if c.SchemaVersion == 0 {
		c.SchemaVersion = d.SchemaVersion
	}
	if c.Mode == "" {
		c.Mode = d.Mode
	}
	if c.DurationMin == 0 {
		c.DurationMin = d.DurationMin
	}
	if c.BreakSchedule.Type == "" {
		c.BreakSchedule = d.BreakSchedule
	}
	if c.Personality == "" {
		c.Personality = d.Personality
	}
	if c.RecoveryMethod == "" {
		c.RecoveryMethod = d.RecoveryMethod
	}
	if c.Custom.ExitFriction == "" {
		c.Custom = CustomSettings{
			DistractionTolerance: firstNonZero(c.Custom.DistractionTolerance, d.Custom.DistractionTolerance),
			AlertVolume:          firstNonZero(c.Custom.AlertVolume, d.Custom.AlertVolume),
			ExitFriction:         d.Custom.ExitFriction,
		}
	}
	return c
}

func firstNonZero(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}
