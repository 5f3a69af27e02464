package service

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"focustree/internal/modules/detection/domain"
	"focustree/internal/platform/clock"
	apperrors "focustree/internal/platform/errors"
	"focustree/internal/platform/logging"
)

type fakeSource struct {
	mu      sync.Mutex
	frames  []image.Image
	next    int
	openErr error
	closed  bool
}

func (s *fakeSource) Open(context.Context) error { return s.openErr }

func (s *fakeSource) Frame(context.Context) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil, errors.New("no frames")
	}
	f := s.frames[s.next%len(s.frames)]
	s.next++
	return f, nil
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type reply struct {
	verdict domain.Verdict
	err     error
}

type fakeClassifier struct {
	mu      sync.Mutex
	replies []reply
	calls   int
	during  func()
	panics  bool
}

func (c *fakeClassifier) Classify(context.Context, []byte, domain.Conditions) (domain.Verdict, error) {
	c.mu.Lock()
	c.calls++
	during := c.during
	if c.panics {
		c.mu.Unlock()
		panic("classifier exploded")
	}
	r := reply{verdict: domain.Verdict{Type: domain.TypeNone}}
	if len(c.replies) > 0 {
		r = c.replies[0]
		if len(c.replies) > 1 {
			c.replies = c.replies[1:]
		}
	}
	c.mu.Unlock()
	if during != nil {
		during()
	}
	return r.verdict, r.err
}

func (c *fakeClassifier) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fakeSession struct {
	cond domain.Conditions
}

func (s *fakeSession) Conditions(context.Context) (domain.Conditions, error) { return s.cond, nil }

type fakeInterventions struct {
	mu       sync.Mutex
	active   bool
	triggers []string
}

func (f *fakeInterventions) Active(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeInterventions) Trigger(_ context.Context, kind string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, kind)
	return nil
}

func (f *fakeInterventions) setActive(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = v
}

func still() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 160, 120))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 40, 40, 40, 255
	}
	return img
}

type harness struct {
	det        *Detector
	clock      *clock.Fake
	source     *fakeSource
	classifier *fakeClassifier
	session    *fakeSession
	iv         *fakeInterventions
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:      clock.NewFake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)),
		source:     &fakeSource{frames: []image.Image{still()}},
		classifier: &fakeClassifier{},
		session:    &fakeSession{cond: domain.Conditions{Active: true, Goal: "thesis", Tolerance: 10 * time.Second}},
		iv:         &fakeInterventions{},
	}
	h.det = NewDetector(domain.DefaultTuning(), h.source, h.classifier, h.session, h.iv, h.clock, logging.Discard())
	if err := h.det.OpenSource(context.Background()); err != nil {
		t.Fatalf("open source: %v", err)
	}
	return h
}

// step runs one cycle and advances the clock by the returned interval.
func (h *harness) step() time.Duration {
	next := h.det.Tick(context.Background())
	h.clock.Advance(next)
	return next
}

func distracted(kind string, confidence float64) reply {
	return reply{verdict: domain.Verdict{Distracted: true, Type: kind, Confidence: confidence}}
}

func TestTickGuardsWhenSessionNotActive(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.session.cond.Active = false
	if got := h.det.Tick(context.Background()); got != 2*time.Second {
		t.Fatalf("interval = %v, want guard", got)
	}
	if h.classifier.Calls() != 0 {
		t.Fatalf("classifier called while session inactive")
	}
}

func TestTickGuardsWhileInterventionActive(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.iv.setActive(true)
	if got := h.det.Tick(context.Background()); got != 2*time.Second {
		t.Fatalf("interval = %v, want guard", got)
	}
	if h.classifier.Calls() != 0 {
		t.Fatalf("classifier called during intervention")
	}
}

func TestTickGuardsWhenMonitorDisabled(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.det.SetMonitorEnabled(false)
	h.det.Tick(context.Background())
	if h.classifier.Calls() != 0 {
		t.Fatalf("classifier called while hidden")
	}
}

func TestSustainedEpisodeTriggersOnceAfterTolerance(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.classifier.replies = []reply{distracted("phone", 90)}
	start := h.clock.Now()

	for i := 0; i < 10 && len(h.iv.triggers) == 0; i++ {
		h.step()
	}
	if len(h.iv.triggers) != 1 || h.iv.triggers[0] != "phone" {
		t.Fatalf("triggers = %v, want one phone", h.iv.triggers)
	}
	if elapsed := h.clock.Now().Sub(start); elapsed <= 10*time.Second {
		t.Fatalf("triggered after %v, before tolerance", elapsed)
	}
	if h.det.Stats().Triggers != 1 {
		t.Fatalf("stats triggers = %d", h.det.Stats().Triggers)
	}
}

func TestLowConfidenceNeverTriggers(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.classifier.replies = []reply{distracted("phone", 75)}
	for i := 0; i < 20; i++ {
		h.step()
	}
	if len(h.iv.triggers) != 0 {
		t.Fatalf("unexpected triggers %v", h.iv.triggers)
	}
}

func TestSingleClearReadingResetsEpisode(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.session.cond.Tolerance = 20 * time.Second
	h.classifier.replies = []reply{
		distracted("phone", 90),
		distracted("phone", 90),
		{verdict: domain.Verdict{Type: domain.TypeNone}},
		distracted("phone", 90),
		distracted("phone", 90),
	}
	start := h.clock.Now()
	// Intervals: 5s (first frame), 3s, 3s, 15s (cleared, still), 3s.
	for i := 0; i < 5; i++ {
		h.step()
	}
	if since := h.det.Stats().EpisodeSince; !since.Equal(start.Add(11 * time.Second)) {
		t.Fatalf("episode should have restarted after the clear reading, since=%v", since.Sub(start))
	}
	if len(h.iv.triggers) != 0 {
		t.Fatalf("triggered too early: %v", h.iv.triggers)
	}
}

func TestIntervalIsChosenBeforeClassification(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.session.cond.Tolerance = time.Second
	h.classifier.replies = []reply{
		{verdict: domain.Verdict{Type: domain.TypeNone}},
		distracted("phone", 90),
		distracted("phone", 90),
	}
	if got := h.step(); got != 5*time.Second {
		t.Fatalf("first frame interval = %v, want 5s", got)
	}
	// The first qualifying reading opens the episode but this cycle was
	// scheduled as a still frame.
	if got := h.step(); got != 15*time.Second {
		t.Fatalf("opening reading interval = %v, want 15s", got)
	}
	if !h.det.Stats().EpisodeSince.Equal(h.clock.Now().Add(-15 * time.Second)) {
		t.Fatalf("episode should be running")
	}
	// The confirming cycle runs with the episode open and keeps the fast cadence.
	if got := h.step(); got != 3*time.Second {
		t.Fatalf("confirming reading interval = %v, want 3s", got)
	}
	if len(h.iv.triggers) != 1 {
		t.Fatalf("triggers = %v, want one", h.iv.triggers)
	}
}

func TestClassifierFailureUsesSlowInterval(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.classifier.replies = []reply{{verdict: domain.Verdict{Type: domain.TypeNone}, err: context.DeadlineExceeded}}
	first := h.step()
	if first != 5*time.Second {
		t.Fatalf("first frame interval = %v, want move interval", first)
	}
	if got := h.step(); got != 15*time.Second {
		t.Fatalf("interval = %v, want static interval", got)
	}
	if h.det.Stats().Backoff != 1 {
		t.Fatalf("timeouts must not change backoff")
	}
}

func TestRateLimitBackoffSequence(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	limited := reply{verdict: domain.Verdict{Type: domain.TypeNone}, err: apperrors.ErrRateLimited}
	h.classifier.replies = []reply{limited, limited, limited, limited, {verdict: domain.Verdict{Type: domain.TypeNone}}}

	if got := h.step(); got != 5*time.Second {
		t.Fatalf("first interval = %v, want 5s before any backoff", got)
	}
	// Each cycle waits with the multiplier it started with; the 429 it gets
	// raises the multiplier for the following cycle.
	steps := []struct{ interval, after int }{{2, 4}, {4, 8}, {8, 8}}
	for _, st := range steps {
		next := h.step()
		if next != 15*time.Second*time.Duration(st.interval) {
			t.Fatalf("interval = %v, want %v", next, 15*time.Second*time.Duration(st.interval))
		}
		if got := h.det.Stats().Backoff; got != st.after {
			t.Fatalf("backoff = %d, want %d", got, st.after)
		}
	}
	h.step()
	if got := h.det.Stats().Backoff; got != 1 {
		t.Fatalf("backoff after success = %d", got)
	}
}

func TestVerdictDiscardedWhenInterventionStartsMidCycle(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.session.cond.Tolerance = time.Second
	h.classifier.replies = []reply{distracted("phone", 95)}
	h.step()
	h.classifier.during = func() { h.iv.setActive(true) }
	if got := h.step(); got != 2*time.Second {
		t.Fatalf("interval = %v, want guard", got)
	}
	if len(h.iv.triggers) != 0 {
		t.Fatalf("verdict should have been discarded")
	}
}

func TestPanicInCycleIsRecovered(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.classifier.panics = true
	if got := h.det.Tick(context.Background()); got != 15*time.Second {
		t.Fatalf("interval after panic = %v", got)
	}
	if h.det.Stats().EpisodeSince != (time.Time{}) {
		t.Fatalf("episode should be cleared")
	}
}

func TestResetEpisodeClearsMotionBuffer(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.step()
	h.step()
	if h.det.Stats().LastMotion != 0 {
		t.Fatalf("still frame should score 0")
	}
	h.det.ResetEpisode()
	h.step()
	if h.det.Stats().LastMotion != 1 {
		t.Fatalf("motion after reset = %v, want 1", h.det.Stats().LastMotion)
	}
}

func TestRunStaysIdleWithoutCameraAndReleasesOnCancel(t *testing.T) {
	t.Parallel()

	source := &fakeSource{openErr: errors.New("permission denied")}
	classifier := &fakeClassifier{}
	det := NewDetector(domain.DefaultTuning(), source, classifier, &fakeSession{cond: domain.Conditions{Active: true}}, &fakeInterventions{}, clock.SystemClock{}, logging.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := det.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if classifier.Calls() != 0 {
		t.Fatalf("classifier called without camera")
	}
	if det.Stats().CameraReady {
		t.Fatalf("camera should not be ready")
	}
}

func TestRunClosesSourceOnCancel(t *testing.T) {
	t.Parallel()

	source := &fakeSource{frames: []image.Image{still()}}
	det := NewDetector(domain.DefaultTuning(), source, &fakeClassifier{}, &fakeSession{cond: domain.Conditions{Active: true}}, &fakeInterventions{}, clock.SystemClock{}, logging.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = det.Run(ctx)
	source.mu.Lock()
	defer source.mu.Unlock()
	if !source.closed {
		t.Fatalf("source not released")
	}
}

func waitUntil(t *testing.T, what string, ok func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !ok() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRunSchedulesCyclesOnTheInjectedClock(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.det.Run(ctx) }()

	waitUntil(t, "first cycle scheduled", func() bool { return h.clock.Pending() == 1 })
	h.clock.Advance(0)
	waitUntil(t, "first cycle", func() bool { return h.classifier.Calls() == 1 && h.clock.Pending() == 1 })

	h.clock.Advance(4 * time.Second)
	if h.classifier.Calls() != 1 {
		t.Fatalf("second cycle ran before its 5s interval")
	}
	h.clock.Advance(time.Second)
	waitUntil(t, "second cycle", func() bool { return h.classifier.Calls() == 2 })

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
	h.source.mu.Lock()
	defer h.source.mu.Unlock()
	if !h.source.closed {
		t.Fatalf("source not released")
	}
}
