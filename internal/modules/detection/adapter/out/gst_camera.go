//go:build gst

package out

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	detectionout "focustree/internal/modules/detection/port/out"
	apperrors "focustree/internal/platform/errors"
)

const (
	captureWidth  = 640
	captureHeight = 480
	frameWait     = 2 * time.Second
)

// GstCamera captures RGBA frames from a V4L2 device through an appsink. Only
// the latest frame is kept.
type GstCamera struct {
	device string
	log    hclog.Logger

	mu       sync.Mutex
	pipeline *gst.Pipeline
	latest   *image.RGBA
	ready    chan struct{}
}

func NewCameraSource(device string, log hclog.Logger) detectionout.FrameSource {
	return &GstCamera{device: device, log: log}
}

func (c *GstCamera) Open(ctx context.Context) error {
	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return fmt.Errorf("%w: create pipeline: %v", apperrors.ErrCameraUnavailable, err)
	}
	src, err := gst.NewElement("v4l2src")
	if err != nil {
		return fmt.Errorf("%w: create v4l2src: %v", apperrors.ErrCameraUnavailable, err)
	}
	src.SetProperty("device", c.device)
	convert, err := gst.NewElement("videoconvert")
	if err != nil {
		return fmt.Errorf("%w: create videoconvert: %v", apperrors.ErrCameraUnavailable, err)
	}
	scale, err := gst.NewElement("videoscale")
	if err != nil {
		return fmt.Errorf("%w: create videoscale: %v", apperrors.ErrCameraUnavailable, err)
	}
	filter, err := gst.NewElement("capsfilter")
	if err != nil {
		return fmt.Errorf("%w: create capsfilter: %v", apperrors.ErrCameraUnavailable, err)
	}
	filter.SetProperty("caps", gst.NewCapsFromString(fmt.Sprintf("video/x-raw,format=RGBA,width=%d,height=%d", captureWidth, captureHeight)))
	sink, err := app.NewAppSink()
	if err != nil {
		return fmt.Errorf("%w: create appsink: %v", apperrors.ErrCameraUnavailable, err)
	}
	sink.SetProperty("sync", false)
	sink.SetProperty("max-buffers", 1)
	sink.SetProperty("drop", true)

	pipeline.AddMany(src, convert, scale, filter, sink.Element)
	if err := gst.ElementLinkMany(src, convert, scale, filter, sink.Element); err != nil {
		return fmt.Errorf("%w: link pipeline: %v", apperrors.ErrCameraUnavailable, err)
	}

	ready := make(chan struct{})
	c.mu.Lock()
	c.ready = ready
	c.mu.Unlock()
	sink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: c.onSample,
	})

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("%w: start pipeline: %v", apperrors.ErrCameraUnavailable, err)
	}
	c.mu.Lock()
	c.pipeline = pipeline
	c.mu.Unlock()

	// a device that never delivers a frame is treated as unavailable
	select {
	case <-ready:
	case <-time.After(frameWait):
		_ = c.Close()
		return fmt.Errorf("%w: no frames from %s", apperrors.ErrCameraUnavailable, c.device)
	case <-ctx.Done():
		_ = c.Close()
		return ctx.Err()
	}
	c.log.Info("camera started", "device", c.device)
	return nil
}

func (c *GstCamera) onSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}
	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) < captureWidth*captureHeight*4 {
		buffer.Unmap()
		return gst.FlowOK
	}
	frame := image.NewRGBA(image.Rect(0, 0, captureWidth, captureHeight))
	copy(frame.Pix, data)
	buffer.Unmap()

	c.mu.Lock()
	c.latest = frame
	ready := c.ready
	c.ready = nil
	c.mu.Unlock()
	if ready != nil {
		close(ready)
	}
	return gst.FlowOK
}

func (c *GstCamera) Frame(_ context.Context) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest == nil {
		return nil, fmt.Errorf("no frame captured yet")
	}
	return c.latest, nil
}

func (c *GstCamera) Close() error {
	c.mu.Lock()
	pipeline := c.pipeline
	c.pipeline = nil
	c.latest = nil
	c.mu.Unlock()
	if pipeline == nil {
		return nil
	}
	if err := pipeline.SetState(gst.StateNull); err != nil {
		return fmt.Errorf("stop pipeline: %w", err)
	}
	return nil
}
