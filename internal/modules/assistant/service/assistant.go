package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"focustree/internal/modules/assistant/domain"
	assistantout "focustree/internal/modules/assistant/port/out"
	"focustree/internal/platform/clock"
	apperrors "focustree/internal/platform/errors"
)

// Assistant answers focus questions one at a time. Repeated questions are
// served from memory and do not count against the hourly budget.
type Assistant struct {
	coach      assistantout.Coach
	transcript assistantout.Transcript
	clock      clock.Clock
	log        hclog.Logger
	limiter    *rate.Limiter
	slot       *semaphore.Weighted

	mu       sync.Mutex
	inFlight int
	cache    map[string]string
}

func NewAssistant(coach assistantout.Coach, transcript assistantout.Transcript, clk clock.Clock, log hclog.Logger) *Assistant {
	return &Assistant{
		coach:      coach,
		transcript: transcript,
		clock:      clk,
		log:        log,
		limiter:    rate.NewLimiter(rate.Every(domain.Refill), domain.HourlyLimit),
		slot:       semaphore.NewWeighted(1),
		cache:      map[string]string{},
	}
}

func (a *Assistant) Ask(ctx context.Context, text string) (domain.Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Reply{}, apperrors.ErrInvalidInput
	}
	key := domain.CacheKey(text)

	a.mu.Lock()
	if cached, ok := a.cache[key]; ok {
		a.mu.Unlock()
		return domain.Reply{Text: cached, Cached: true}, nil
	}
	if a.inFlight > domain.MaxWaiting {
		a.mu.Unlock()
		return domain.Reply{}, apperrors.ErrQueueFull
	}
	if !a.limiter.AllowN(a.clock.Now(), 1) {
		a.mu.Unlock()
		return domain.Reply{Text: domain.RateLimitMessage}, fmt.Errorf("%w: %s", apperrors.ErrRateLimited, domain.RateLimitMessage)
	}
	a.inFlight++
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.inFlight--
		a.mu.Unlock()
	}()

	if err := a.slot.Acquire(ctx, 1); err != nil {
		return domain.Reply{}, err
	}
	defer a.slot.Release(1)

	goal, turns, err := a.transcript.Load(ctx)
	if err != nil {
		return domain.Reply{}, err
	}
	history := append([]domain.Turn(nil), domain.LastTurns(turns, domain.HistoryTurns)...)
	if err := a.transcript.Append(ctx, domain.RoleUser, text); err != nil {
		a.log.Warn("record chat question", "error", err)
	}

	reply, err := a.coach.Chat(ctx, history, text, goal)
	fallback := err != nil
	if fallback {
		a.log.Warn("assistant reply failed, using fallback", "error", err)
		if strings.TrimSpace(reply) == "" {
			reply = domain.FallbackReply
		}
	}
	if err := a.transcript.Append(ctx, domain.RoleModel, reply); err != nil {
		a.log.Warn("record chat reply", "error", err)
	}
	if !fallback {
		a.mu.Lock()
		a.cache[key] = reply
		a.mu.Unlock()
	}
	return domain.Reply{Text: reply, Fallback: fallback}, nil
}

// Remaining reports how many uncached questions may be asked right now.
func (a *Assistant) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := int(a.limiter.TokensAt(a.clock.Now()))
	if n < 0 {
		return 0
	}
	return n
}

// Reset forgets cached replies, e.g. when a new session starts.
func (a *Assistant) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache = map[string]string{}
}
