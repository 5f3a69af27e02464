package domain

import "time"

// Tuning holds the detector thresholds and cadences. The defaults are
// starting points, not fixed law.
type Tuning struct {
	SampleStride        int
	PixelThreshold      int
	MotionBand          float64
	ConfidenceThreshold float64

	FastInterval   time.Duration
	MoveInterval   time.Duration
	StaticInterval time.Duration
	GuardInterval  time.Duration
	MaxBackoff     int

	DefaultTolerance  time.Duration
	HardcoreTolerance time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		SampleStride:        32,
		PixelThreshold:      60,
		MotionBand:          0.05,
		ConfidenceThreshold: 75,
		FastInterval:        3 * time.Second,
		MoveInterval:        5 * time.Second,
		StaticInterval:      15 * time.Second,
		GuardInterval:       2 * time.Second,
		MaxBackoff:          8,
		DefaultTolerance:    30 * time.Second,
		HardcoreTolerance:   10 * time.Second,
	}
}

// NextInterval picks the delay before the next cycle.
func (t Tuning) NextInterval(episodeRunning bool, motion float64, backoff int) time.Duration {
	if backoff < 1 {
		backoff = 1
	}
	base := t.StaticInterval
	switch {
	case episodeRunning:
		base = t.FastInterval
	case motion > t.MotionBand:
		base = t.MoveInterval
	}
	return base * time.Duration(backoff)
}

// EffectiveTolerance resolves the configured tolerance. Zero means unset.
func (t Tuning) EffectiveTolerance(configured time.Duration, hardcore bool) time.Duration {
	tol := configured
	if tol <= 0 {
		tol = t.DefaultTolerance
	}
	if hardcore && tol > t.HardcoreTolerance {
		tol = t.HardcoreTolerance
	}
	return tol
}

// Qualifies reports whether a verdict counts toward an episode.
func (t Tuning) Qualifies(v Verdict) bool {
	return v.Distracted && v.Type != "" && v.Type != TypeNone && v.Confidence > t.ConfidenceThreshold
}
