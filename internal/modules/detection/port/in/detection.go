package in

import (
	"context"

	"focustree/internal/modules/detection/dto"
)

type Usecase interface {
	// OpenCamera acquires the frame source ahead of Run. It fails with
	// apperrors.ErrCameraUnavailable when no frames can be read.
	OpenCamera(ctx context.Context) error
	// Run drives detection cycles until ctx is cancelled.
	Run(ctx context.Context) error
	SetMonitorEnabled(enabled bool)
	// ResetEpisode forgets any partial episode and the previous motion frame.
	ResetEpisode()
	Stats() dto.StatsOutput
}
