package domain

import "strings"

// BatchSize is how many context-aware tasks one fetch asks for.
const BatchSize = 5

type Task struct {
	Type         string
	Prompt       string
	EstimatedSec int
}

func FallbackTask() Task {
	return Task{Type: "planning", Prompt: "What is the next immediate step?", EstimatedSec: 20}
}

type Decision int

const (
	DecideRemotely Decision = iota
	RejectLocally
	AcceptLocally
)

const (
	minAnswerLen   = 3
	trustAnswerLen = 10
)

// Precheck settles obvious answers without asking the coach.
func Precheck(answer string) Decision {
	n := len([]rune(strings.TrimSpace(answer)))
	switch {
	case n < minAnswerLen:
		return RejectLocally
	case n > trustAnswerLen:
		return AcceptLocally
	}
	return DecideRemotely
}

// Result is the outcome of one submission.
type Result struct {
	Valid    bool
	Feedback string
}
