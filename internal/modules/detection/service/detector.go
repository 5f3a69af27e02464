package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"focustree/internal/modules/detection/domain"
	detectionout "focustree/internal/modules/detection/port/out"
	"focustree/internal/platform/clock"
	apperrors "focustree/internal/platform/errors"
)

// Detector runs the adaptive sampling loop. Session status and intervention
// state are read from their owners at decision time on every cycle.
type Detector struct {
	tuning        domain.Tuning
	source        detectionout.FrameSource
	classifier    detectionout.Classifier
	session       detectionout.SessionView
	interventions detectionout.Interventions
	clock         clock.Clock
	log           hclog.Logger

	mu          sync.Mutex
	sampler     *domain.Sampler
	episode     domain.Episode
	backoff     domain.Backoff
	monitor     bool
	cameraReady bool
	stats       domain.Stats
}

func NewDetector(
	tuning domain.Tuning,
	source detectionout.FrameSource,
	classifier detectionout.Classifier,
	session detectionout.SessionView,
	interventions detectionout.Interventions,
	clk clock.Clock,
	log hclog.Logger,
) *Detector {
	return &Detector{
		tuning:        tuning,
		source:        source,
		classifier:    classifier,
		session:       session,
		interventions: interventions,
		clock:         clk,
		log:           log,
		sampler:       domain.NewSampler(tuning),
		backoff:       domain.NewBackoff(tuning.MaxBackoff),
		monitor:       true,
	}
}

// OpenSource acquires the frame source. Without it the loop stays idle.
func (d *Detector) OpenSource(ctx context.Context) error {
	if d.source == nil {
		return apperrors.ErrCameraUnavailable
	}
	if err := d.source.Open(ctx); err != nil {
		if errors.Is(err, apperrors.ErrCameraUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", apperrors.ErrCameraUnavailable, err)
	}
	d.mu.Lock()
	d.cameraReady = true
	d.mu.Unlock()
	return nil
}

// Run schedules each cycle only after the previous one returns. It releases
// the frame source when ctx is cancelled.
func (d *Detector) Run(ctx context.Context) error {
	d.mu.Lock()
	ready := d.cameraReady
	d.mu.Unlock()
	if !ready {
		if err := d.OpenSource(ctx); err != nil {
			d.log.Warn("camera unavailable, detector idle", "error", err)
		}
	}
	defer d.closeSource()

	wake := make(chan struct{}, 1)
	schedule := func(delay time.Duration) clock.Timer {
		return d.clock.AfterFunc(delay, func() {
			select {
			case wake <- struct{}{}:
			default:
			}
		})
	}
	timer := schedule(0)
	defer func() { timer.Stop() }()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wake:
		}
		timer = schedule(d.Tick(ctx))
	}
}

// Tick runs one detection cycle and returns the delay before the next one.
func (d *Detector) Tick(ctx context.Context) (next time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("detection cycle panicked", "panic", r)
			d.mu.Lock()
			d.episode.Reset()
			next = d.tuning.NextInterval(false, 0, d.backoff.Multiplier())
			d.stats.NextInterval = next
			d.mu.Unlock()
		}
	}()

	d.mu.Lock()
	d.stats.Cycles++
	ready := d.cameraReady && d.monitor
	d.mu.Unlock()
	if !ready {
		return d.guard()
	}

	cond, err := d.session.Conditions(ctx)
	if err != nil || !cond.Active {
		return d.guard()
	}
	if d.interventions.Active(ctx) {
		return d.guard()
	}

	frame, err := d.source.Frame(ctx)
	if err != nil {
		d.log.Debug("frame unavailable", "error", err)
		return d.guard()
	}
	if domain.Empty(frame) {
		return d.guard()
	}

	d.mu.Lock()
	motion := d.sampler.Motion(frame)
	d.stats.LastMotion = motion
	// The cadence follows the episode and backoff as they stand before this
	// reading is classified.
	next = d.tuning.NextInterval(d.episode.Running(), motion, d.backoff.Multiplier())
	jpeg, err := d.sampler.Encode(frame)
	d.mu.Unlock()
	if err != nil {
		d.log.Warn("frame encode failed", "error", err)
		return d.guard()
	}

	verdict, err := d.classifier.Classify(ctx, jpeg, cond)
	if ctx.Err() != nil {
		return d.guard()
	}
	if d.interventions.Active(ctx) {
		d.log.Debug("intervention started during cycle, discarding verdict")
		return d.guard()
	}

	now := d.clock.Now()
	d.mu.Lock()
	switch {
	case err == nil:
		d.backoff.Succeeded()
	case errors.Is(err, apperrors.ErrRateLimited):
		d.backoff.RateLimited()
		d.log.Warn("classifier rate limited", "backoff", d.backoff.Multiplier())
	default:
		d.log.Warn("classifier failed, treating frame as focused", "error", err)
	}
	d.stats.Classified++
	d.stats.LastVerdict = verdict
	tolerance := d.tuning.EffectiveTolerance(cond.Tolerance, cond.Hardcore)
	kind, fire := d.episode.Observe(now, d.tuning.Qualifies(verdict), verdict.Type, tolerance)
	d.stats.NextInterval = next
	if fire {
		d.stats.Triggers++
		d.sampler.Reset()
	}
	d.mu.Unlock()

	if fire {
		d.log.Info("distraction confirmed", "type", kind, "tolerance", tolerance)
		if err := d.interventions.Trigger(ctx, kind); err != nil {
			d.log.Error("trigger intervention", "type", kind, "error", err)
		}
	}
	return next
}

func (d *Detector) SetMonitorEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.monitor = enabled
	if !enabled {
		d.episode.Reset()
	}
}

func (d *Detector) ResetEpisode() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.episode.Reset()
	d.sampler.Reset()
}

func (d *Detector) Stats() domain.Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.stats
	out.Backoff = d.backoff.Multiplier()
	out.EpisodeSince = d.episode.FirstSeen()
	out.CameraReady = d.cameraReady
	return out
}

func (d *Detector) MonitorEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.monitor
}

func (d *Detector) guard() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.NextInterval = d.tuning.GuardInterval
	return d.tuning.GuardInterval
}

func (d *Detector) closeSource() {
	d.mu.Lock()
	ready := d.cameraReady
	d.cameraReady = false
	d.mu.Unlock()
	if !ready || d.source == nil {
		return
	}
	if err := d.source.Close(); err != nil {
		d.log.Warn("close frame source", "error", err)
	}
}
