//go:build !gst

package out

import (
	"context"
	"fmt"
	"image"

	hclog "github.com/hashicorp/go-hclog"

	detectionout "focustree/internal/modules/detection/port/out"
	apperrors "focustree/internal/platform/errors"
)

// noCamera stands in when the binary is built without gstreamer.
type noCamera struct {
	device string
}

func NewCameraSource(device string, _ hclog.Logger) detectionout.FrameSource {
	return &noCamera{device: device}
}

func (c *noCamera) Open(context.Context) error {
	return fmt.Errorf("%w: %s: built without gstreamer support (rebuild with -tags gst or use --frames)", apperrors.ErrCameraUnavailable, c.device)
}

func (c *noCamera) Frame(context.Context) (image.Image, error) {
	return nil, apperrors.ErrCameraUnavailable
}

func (c *noCamera) Close() error { return nil }
