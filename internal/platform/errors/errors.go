package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrCameraUnavailable   = errors.New("camera unavailable")
	ErrModelUnavailable    = errors.New("ai model unavailable")
	ErrRateLimited         = errors.New("rate limited")
	ErrQueueFull           = errors.New("request queue full")
	ErrExitBlocked         = errors.New("session cannot be ended early in this mode")
	ErrConfirmRequired     = errors.New("confirmation required")
	ErrBreakLocked         = errors.New("breaks cannot be skipped in this mode")
	ErrNoIntervention      = errors.New("no intervention in progress")
)
