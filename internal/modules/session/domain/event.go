package domain

import "time"

type EventKind string

const (
	EventStarted     EventKind = "started"
	EventResumed     EventKind = "resumed"
	EventDistraction EventKind = "distraction"
	EventResolved    EventKind = "resolved"
	EventPaused      EventKind = "paused"
	EventBreak       EventKind = "break"
	EventChat        EventKind = "chat"
	EventEnded       EventKind = "ended"
	EventReset       EventKind = "reset"
)

// Event is a session mutation. Distraction events are also kept in the
// record store.
type Event struct {
	ID        string
	SessionID string
	Kind      EventKind
	Type      DistractionType
	At        time.Time
	Notified  bool
}
