package out

import (
	"context"
	"image"

	"focustree/internal/modules/detection/domain"
)

// FrameSource is a camera or a replay of captured frames. Open may fail with
// apperrors.ErrCameraUnavailable.
type FrameSource interface {
	Open(ctx context.Context) error
	Frame(ctx context.Context) (image.Image, error)
	Close() error
}

// Classifier labels one JPEG frame. On failure it still returns a safe
// verdict next to the error.
type Classifier interface {
	Classify(ctx context.Context, jpeg []byte, c domain.Conditions) (domain.Verdict, error)
}

type SessionView interface {
	Conditions(ctx context.Context) (domain.Conditions, error)
}

type Interventions interface {
	Active(ctx context.Context) bool
	Trigger(ctx context.Context, distractionType string) error
}
