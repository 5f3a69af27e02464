package domain

import (
	"strings"
	"time"
)

const (
	// HourlyLimit is how many uncached questions may be asked per hour.
	HourlyLimit = 15
	// MaxWaiting bounds the questions queued behind the one being answered.
	MaxWaiting = 3
	// HistoryTurns is how much of the transcript is sent with a question.
	HistoryTurns = 6
)

const (
	RateLimitMessage = "Rate limit reached. 15 questions per hour max."
	FallbackReply    = "Let's get back to work."
)

// Refill is the interval at which one question is returned to the budget.
const Refill = time.Hour / HourlyLimit

const (
	RoleUser  = "user"
	RoleModel = "model"
)

type Turn struct {
	Role string
	Text string
}

type Reply struct {
	Text     string
	Cached   bool
	Fallback bool
}

// CacheKey normalizes a question for reply memoization.
func CacheKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// LastTurns returns at most n of the most recent turns.
func LastTurns(turns []Turn, n int) []Turn {
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}
