package domain

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

const (
	MotionWidth   = 64
	MotionHeight  = 48
	UploadWidth   = 320
	UploadHeight  = 240
	UploadQuality = 60
)

// Sampler turns camera frames into a motion score and an upload-sized JPEG.
// It keeps the previous motion buffer; it is not safe for concurrent use.
type Sampler struct {
	stride    int
	threshold int
	prev      []byte
	small     *image.RGBA
	upload    *image.RGBA
}

func NewSampler(t Tuning) *Sampler {
	stride := t.SampleStride
	if stride <= 0 {
		stride = 32
	}
	return &Sampler{
		stride:    stride,
		threshold: t.PixelThreshold,
		small:     image.NewRGBA(image.Rect(0, 0, MotionWidth, MotionHeight)),
		upload:    image.NewRGBA(image.Rect(0, 0, UploadWidth, UploadHeight)),
	}
}

// Empty reports whether a frame has no pixels to look at.
func Empty(img image.Image) bool {
	if img == nil {
		return true
	}
	b := img.Bounds()
	return b.Dx() == 0 || b.Dy() == 0
}

// Motion scores img against the previous frame and retains it for the next
// call. The first frame after construction or Reset scores 1.
func (s *Sampler) Motion(img image.Image) float64 {
	draw.ApproxBiLinear.Scale(s.small, s.small.Bounds(), img, img.Bounds(), draw.Src, nil)
	score := MotionScore(s.prev, s.small.Pix, s.stride, s.threshold)
	if s.prev == nil {
		s.prev = make([]byte, len(s.small.Pix))
	}
	copy(s.prev, s.small.Pix)
	return score
}

// Encode scales img to the upload size and returns it as JPEG.
func (s *Sampler) Encode(img image.Image) ([]byte, error) {
	draw.ApproxBiLinear.Scale(s.upload, s.upload.Bounds(), img, img.Bounds(), draw.Src, nil)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, s.upload, &jpeg.Options{Quality: UploadQuality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Sampler) Reset() {
	s.prev = nil
}

// MotionScore compares two RGBA buffers at every stride-th byte offset. A
// sample moves when the summed RGB difference exceeds threshold. The result
// is the moving fraction in [0,1]; with no previous buffer it is 1.
func MotionScore(prev, cur []byte, stride, threshold int) float64 {
	if prev == nil || len(prev) != len(cur) {
		return 1
	}
	if stride <= 0 {
		stride = 4
	}
	sampled, moving := 0, 0
	for i := 0; i+2 < len(cur); i += stride {
		sampled++
		diff := absDiff(cur[i], prev[i]) + absDiff(cur[i+1], prev[i+1]) + absDiff(cur[i+2], prev[i+2])
		if diff > threshold {
			moving++
		}
	}
	if sampled == 0 {
		return 0
	}
	return float64(moving) / float64(sampled)
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
