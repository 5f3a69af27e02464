package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Keys accepted by ParsePatch, in display order.
var Keys = []string{
	"mode", "duration", "break.type", "break.work", "break.length", "personality",
	"recovery", "working_on", "tolerance", "volume", "exit_friction",
	"permissions.camera", "permissions.microphone", "permissions.notifications",
}

// ParsePatch turns a dotted key and a textual value into a Patch against base.
func ParsePatch(base Config, key, value string) (Patch, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	p := Patch{}
	switch key {
	case "mode":
		m := Mode(value)
		p.Mode = &m
	case "duration":
		n, err := atoi(key, value)
		if err != nil {
			return Patch{}, err
		}
		p.DurationMin = &n
	case "break.type", "break.work", "break.length":
		sched := base.BreakSchedule
		switch key {
		case "break.type":
			sched.Type = BreakType(value)
		case "break.work":
			n, err := atoi(key, value)
			if err != nil {
				return Patch{}, err
			}
			sched.WorkInterval = n
		default:
			n, err := atoi(key, value)
			if err != nil {
				return Patch{}, err
			}
			sched.BreakDuration = n
		}
		p.BreakSchedule = &sched
	case "personality":
		v := Personality(value)
		p.Personality = &v
	case "recovery":
		v := RecoveryMethod(value)
		p.RecoveryMethod = &v
	case "working_on":
		p.WorkingOn = &value
	case "tolerance":
		n, err := atoi(key, value)
		if err != nil {
			return Patch{}, err
		}
		p.DistractionTolerance = &n
	case "volume":
		n, err := atoi(key, value)
		if err != nil {
			return Patch{}, err
		}
		p.AlertVolume = &n
	case "exit_friction":
		v := ExitFriction(value)
		p.ExitFriction = &v
	case "permissions.camera", "permissions.microphone", "permissions.notifications":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return Patch{}, fmt.Errorf("%s: %w", key, err)
		}
		perms := base.Permissions
		switch key {
		case "permissions.camera":
			perms.Camera = b
		case "permissions.microphone":
			perms.Microphone = b
		default:
			perms.Notifications = b
		}
		p.Permissions = &perms
	default:
		return Patch{}, fmt.Errorf("unknown config key %q", key)
	}
	return p, nil
}

func atoi(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
