package usecase

import (
	"context"

	detectiondto "focustree/internal/modules/detection/dto"
	detectionin "focustree/internal/modules/detection/port/in"
	"focustree/internal/modules/detection/service"
	"focustree/internal/platform/clock"
)

type Interactor struct {
	svc   *service.Detector
	clock clock.Clock
}

func NewInteractor(svc *service.Detector, clk clock.Clock) detectionin.Usecase {
	return &Interactor{svc: svc, clock: clk}
}

func (i *Interactor) OpenCamera(ctx context.Context) error {
	return i.svc.OpenSource(ctx)
}

func (i *Interactor) Run(ctx context.Context) error {
	return i.svc.Run(ctx)
}

func (i *Interactor) SetMonitorEnabled(enabled bool) {
	i.svc.SetMonitorEnabled(enabled)
}

func (i *Interactor) ResetEpisode() {
	i.svc.ResetEpisode()
}

func (i *Interactor) Stats() detectiondto.StatsOutput {
	s := i.svc.Stats()
	out := detectiondto.StatsOutput{
		Cycles:         s.Cycles,
		Classified:     s.Classified,
		Triggers:       s.Triggers,
		LastMotion:     s.LastMotion,
		LastDistracted: s.LastVerdict.Distracted,
		LastType:       s.LastVerdict.Type,
		LastConfidence: s.LastVerdict.Confidence,
		Backoff:        s.Backoff,
		NextInterval:   s.NextInterval,
		EpisodeRunning: !s.EpisodeSince.IsZero(),
		CameraReady:    s.CameraReady,
		MonitorEnabled: i.svc.MonitorEnabled(),
	}
	if out.EpisodeRunning {
		out.EpisodeSeconds = int(i.clock.Now().Sub(s.EpisodeSince).Seconds())
	}
	return out
}
