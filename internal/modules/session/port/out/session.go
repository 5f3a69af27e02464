package out

import (
	"context"

	"focustree/internal/modules/session/domain"
	setupdomain "focustree/internal/modules/setup/domain"
)

type ActiveSessionStore interface {
	SaveActive(ctx context.Context, state domain.State) error
	LoadActive(ctx context.Context) (domain.State, error)
	ClearActive(ctx context.Context) error
}

type RecordStore interface {
	SaveRecord(ctx context.Context, record domain.Record) error
	AppendEvent(ctx context.Context, event domain.Event) error
	Recent(ctx context.Context, limit int) ([]domain.Record, error)
}

// NoteStore writes the human-readable summary of a finished session.
type NoteStore interface {
	SaveNote(ctx context.Context, record domain.Record) (string, error)
}

// InsightsSource returns coaching text for a finished session. It returns
// usable fallback text together with any error.
type InsightsSource interface {
	Insights(ctx context.Context, record domain.Record) (domain.Insights, error)
}

type ConfigSource interface {
	Current(ctx context.Context) (setupdomain.Config, error)
}

type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}
