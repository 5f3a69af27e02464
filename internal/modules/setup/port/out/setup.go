package out

import (
	"context"

	"focustree/internal/modules/setup/domain"
)

type ConfigStore interface {
	Load(ctx context.Context) (domain.Config, error)
	Save(ctx context.Context, cfg domain.Config) error
	// Watch blocks until ctx is done, calling onChange for every valid
	// rewrite of the stored config.
	Watch(ctx context.Context, onChange func(domain.Config)) error
}

type Suggester interface {
	Suggest(ctx context.Context, goal string, history []domain.PastSession) (domain.Suggestion, error)
}

type HistorySource interface {
	Recent(ctx context.Context, limit int) ([]domain.PastSession, error)
}
