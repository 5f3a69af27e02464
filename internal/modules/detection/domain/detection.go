package domain

import "time"

const TypeNone = "none"

// Verdict is one classifier reading.
type Verdict struct {
	Distracted bool
	Type       string
	Confidence float64
}

// Conditions is what the detector needs to know about the running session at
// decision time.
type Conditions struct {
	Active        bool
	Goal          string
	ElapsedSec    int
	CurrentStreak float64
	Tolerance     time.Duration
	Hardcore      bool
}

// Episode tracks a run of qualifying readings.
type Episode struct {
	firstSeen time.Time
	kind      string
}

func (e *Episode) Running() bool {
	return !e.firstSeen.IsZero()
}

func (e *Episode) FirstSeen() time.Time {
	return e.firstSeen
}

// Observe folds one reading into the episode. It returns the distraction type
// to trigger once the episode has outlasted tolerance; the episode is cleared
// when that happens so a sustained run fires exactly once.
func (e *Episode) Observe(now time.Time, qualifies bool, kind string, tolerance time.Duration) (string, bool) {
	if !qualifies {
		e.Reset()
		return "", false
	}
	if e.firstSeen.IsZero() {
		e.firstSeen = now
		e.kind = kind
		return "", false
	}
	e.kind = kind
	if now.Sub(e.firstSeen) > tolerance {
		fired := e.kind
		e.Reset()
		return fired, true
	}
	return "", false
}

func (e *Episode) Reset() {
	e.firstSeen = time.Time{}
	e.kind = ""
}

// Backoff is the interval multiplier applied while the classifier is rate
// limited.
type Backoff struct {
	mult int
	max  int
}

func NewBackoff(max int) Backoff {
	if max < 1 {
		max = 1
	}
	return Backoff{mult: 1, max: max}
}

func (b Backoff) Multiplier() int {
	if b.mult < 1 {
		return 1
	}
	return b.mult
}

func (b *Backoff) RateLimited() {
	next := b.Multiplier() * 2
	if next > b.max {
		next = b.max
	}
	b.mult = next
}

func (b *Backoff) Succeeded() {
	b.mult = 1
}

// Stats is a read-only view of detector activity.
type Stats struct {
	Cycles       int
	Classified   int
	Triggers     int
	LastMotion   float64
	LastVerdict  Verdict
	Backoff      int
	NextInterval time.Duration
	EpisodeSince time.Time
	CameraReady  bool
}
