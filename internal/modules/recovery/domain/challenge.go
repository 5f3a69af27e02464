package domain

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

type Kind string

const (
	KindSimpleClick   Kind = "simple_click"
	KindReflection    Kind = "reflection"
	KindMathEasy      Kind = "math_easy"
	KindMathHard      Kind = "math_hard"
	KindPhysicalReset Kind = "physical_reset"
	KindContextAware  Kind = "context_aware"
)

// Select picks the challenge for a recovery. Progressive recovery, and
// context-aware recovery in hardcore mode, escalate with the distraction
// count.
func Select(method, mode string, count int) Kind {
	if method == "progressive" || (mode == "hardcore" && method == string(KindContextAware)) {
		switch {
		case count <= 1:
			return KindSimpleClick
		case count == 2:
			return KindReflection
		case count == 3:
			return KindMathEasy
		default:
			return KindMathHard
		}
	}
	switch k := Kind(method); k {
	case KindSimpleClick, KindReflection, KindMathEasy, KindMathHard, KindPhysicalReset, KindContextAware:
		return k
	}
	return KindSimpleClick
}

// Challenge is one recovery step shown to the user.
type Challenge struct {
	Kind     Kind
	Title    string
	Prompt   string
	Problems []Problem
	Exercise *Exercise
	Task     *Task
}

type Problem struct {
	A  int
	B  int
	Op string
}

func (p Problem) String() string {
	return fmt.Sprintf("%d %s %d", p.A, p.Op, p.B)
}

func (p Problem) Answer() int {
	switch p.Op {
	case "+":
		return p.A + p.B
	case "-":
		return p.A - p.B
	}
	return p.A * p.B
}

const (
	easyProblems = 3
	hardProblems = 5
)

// EasyProblems returns three products with factors in [2,11].
func EasyProblems(r *rand.Rand) []Problem {
	out := make([]Problem, easyProblems)
	for i := range out {
		out[i] = Problem{A: 2 + r.IntN(10), B: 2 + r.IntN(10), Op: "×"}
	}
	return out
}

// HardProblems mixes products with factors in [5,16] and sums or
// differences of a in [20,69] and b in [10,59].
func HardProblems(r *rand.Rand) []Problem {
	ops := []string{"+", "-", "×"}
	out := make([]Problem, hardProblems)
	for i := range out {
		op := ops[r.IntN(len(ops))]
		if op == "×" {
			out[i] = Problem{A: 5 + r.IntN(12), B: 5 + r.IntN(12), Op: op}
			continue
		}
		out[i] = Problem{A: 20 + r.IntN(50), B: 10 + r.IntN(50), Op: op}
	}
	return out
}

// CheckAnswers reports whether every answer parses to the right result.
func CheckAnswers(problems []Problem, answers []string) bool {
	if len(answers) != len(problems) {
		return false
	}
	for i, p := range problems {
		n, err := strconv.Atoi(strings.TrimSpace(answers[i]))
		if err != nil || n != p.Answer() {
			return false
		}
	}
	return true
}

// MinReflectionWords is the shortest accepted reflection.
const MinReflectionWords = 15

var ReflectionQuestions = []string{
	"Why did you start this focus session today?",
	"What is the single most important thing you need to finish?",
	"What distracted you, and was it worth it?",
	"How will you feel if you don't finish this work?",
}

func WordCount(s string) int {
	return len(strings.Fields(s))
}

type Exercise struct {
	Instruction string
	DurationSec int
}

var Exercises = []Exercise{
	{Instruction: "Stand up and do 10 jumping jacks", DurationSec: 20},
	{Instruction: "Stretch your arms above your head", DurationSec: 15},
	{Instruction: "Take 5 deep breaths", DurationSec: 20},
	{Instruction: "Roll your shoulders 10 times", DurationSec: 15},
	{Instruction: "Stand on one foot for 15 seconds", DurationSec: 15},
}
