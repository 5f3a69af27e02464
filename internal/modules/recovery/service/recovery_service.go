package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"focustree/internal/modules/recovery/domain"
	recoveryout "focustree/internal/modules/recovery/port/out"
)

type RecoveryService struct {
	queue     *TaskQueue
	validator recoveryout.Validator
	log       hclog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRecoveryService(queue *TaskQueue, validator recoveryout.Validator, rng *rand.Rand, log hclog.Logger) *RecoveryService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RecoveryService{queue: queue, validator: validator, rng: rng, log: log}
}

// Challenge builds the recovery step for the configured method. A task
// fetched ahead of time is used for context-aware recovery when present.
func (s *RecoveryService) Challenge(ctx context.Context, method, mode string, count int, goal string, prefetched *domain.Task) domain.Challenge {
	kind := domain.Select(method, mode, count)
	switch kind {
	case domain.KindReflection:
		return domain.Challenge{Kind: kind, Title: "Reflection", Prompt: s.pick(domain.ReflectionQuestions)}
	case domain.KindMathEasy, domain.KindMathHard:
		s.mu.Lock()
		problems := domain.EasyProblems(s.rng)
		if kind == domain.KindMathHard {
			problems = domain.HardProblems(s.rng)
		}
		s.mu.Unlock()
		return domain.Challenge{Kind: kind, Title: "Focus Check", Prompt: "Solve these to prove you're focused.", Problems: problems}
	case domain.KindPhysicalReset:
		s.mu.Lock()
		ex := domain.Exercises[s.rng.IntN(len(domain.Exercises))]
		s.mu.Unlock()
		return domain.Challenge{Kind: kind, Title: "Physical Reset", Prompt: ex.Instruction, Exercise: &ex}
	case domain.KindContextAware:
		task := domain.FallbackTask()
		if prefetched != nil && prefetched.Prompt != "" {
			task = *prefetched
		} else if s.queue != nil {
			task, _ = s.queue.Next(ctx, goal)
		}
		return domain.Challenge{Kind: kind, Title: "Back to the task", Prompt: task.Prompt, Task: &task}
	}
	return domain.Challenge{Kind: domain.KindSimpleClick, Title: "Ready to refocus?", Prompt: "Confirm you are back at work."}
}

// Submit checks answers against a challenge. Remote validation failures
// accept the answer.
func (s *RecoveryService) Submit(ctx context.Context, ch domain.Challenge, answers []string, goal string) domain.Result {
	first := ""
	if len(answers) > 0 {
		first = answers[0]
	}
	switch ch.Kind {
	case domain.KindSimpleClick:
		return domain.Result{Valid: true, Feedback: "Welcome back."}
	case domain.KindReflection:
		if n := domain.WordCount(first); n < domain.MinReflectionWords {
			return domain.Result{Feedback: fmt.Sprintf("Keep writing... %d / %d words", n, domain.MinReflectionWords)}
		}
		return domain.Result{Valid: true, Feedback: "Thanks for reflecting."}
	case domain.KindMathEasy, domain.KindMathHard:
		if !domain.CheckAnswers(ch.Problems, answers) {
			return domain.Result{Feedback: "Some answers are incorrect. Try again."}
		}
		return domain.Result{Valid: true, Feedback: "All correct."}
	case domain.KindPhysicalReset:
		elapsed, _ := strconv.Atoi(strings.TrimSpace(first))
		if ch.Exercise == nil || elapsed >= ch.Exercise.DurationSec {
			return domain.Result{Valid: true, Feedback: "Nice reset."}
		}
		return domain.Result{Feedback: fmt.Sprintf("%d seconds to go.", ch.Exercise.DurationSec-elapsed)}
	case domain.KindContextAware:
		return s.validate(ctx, ch, first, goal)
	}
	return domain.Result{Feedback: "Unknown challenge."}
}

func (s *RecoveryService) validate(ctx context.Context, ch domain.Challenge, answer, goal string) domain.Result {
	switch domain.Precheck(answer) {
	case domain.RejectLocally:
		return domain.Result{Feedback: "Give it a real attempt."}
	case domain.AcceptLocally:
		return domain.Result{Valid: true, Feedback: "Good."}
	}
	if s.validator == nil {
		return domain.Result{Valid: true, Feedback: "Accepted."}
	}
	result, err := s.validator.Validate(ctx, ch.Prompt, answer, goal)
	if err != nil {
		s.log.Warn("answer validation failed, accepting", "error", err)
		return domain.Result{Valid: true, Feedback: "Accepted."}
	}
	return result
}

func (s *RecoveryService) Prefetch(ctx context.Context, goal string) (domain.Task, error) {
	if s.queue == nil {
		return domain.FallbackTask(), nil
	}
	return s.queue.Next(ctx, goal)
}

func (s *RecoveryService) ResetQueue() {
	if s.queue != nil {
		s.queue.Reset()
	}
}

func (s *RecoveryService) pick(options []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return options[s.rng.IntN(len(options))]
}
