package domain

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestSelectProgressive(t *testing.T) {
	t.Parallel()
	want := map[int]Kind{0: KindSimpleClick, 1: KindSimpleClick, 2: KindReflection, 3: KindMathEasy, 4: KindMathHard, 9: KindMathHard}
	for count, kind := range want {
		if got := Select("progressive", "focused", count); got != kind {
			t.Fatalf("progressive count %d: got %s want %s", count, got, kind)
		}
		if got := Select("context_aware", "hardcore", count); got != kind {
			t.Fatalf("hardcore context-aware count %d: got %s want %s", count, got, kind)
		}
	}
}

func TestSelectPlainMethods(t *testing.T) {
	t.Parallel()
	cases := map[string]Kind{
		"context_aware":  KindContextAware,
		"physical_reset": KindPhysicalReset,
		"reflection":     KindReflection,
		"simple_click":   KindSimpleClick,
		"juggling":       KindSimpleClick,
	}
	for method, want := range cases {
		if got := Select(method, "focused", 4); got != want {
			t.Fatalf("Select(%q) = %s, want %s", method, got, want)
		}
	}
}

func TestProblemRanges(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		easy := EasyProblems(r)
		if len(easy) != 3 {
			t.Fatalf("expected 3 easy problems")
		}
		for _, p := range easy {
			if p.Op != "×" || p.A < 2 || p.A > 11 || p.B < 2 || p.B > 11 {
				t.Fatalf("easy problem out of range: %+v", p)
			}
		}
		hard := HardProblems(r)
		if len(hard) != 5 {
			t.Fatalf("expected 5 hard problems")
		}
		for _, p := range hard {
			switch p.Op {
			case "×":
				if p.A < 5 || p.A > 16 || p.B < 5 || p.B > 16 {
					t.Fatalf("hard product out of range: %+v", p)
				}
			case "+", "-":
				if p.A < 20 || p.A > 69 || p.B < 10 || p.B > 59 {
					t.Fatalf("hard sum out of range: %+v", p)
				}
			default:
				t.Fatalf("unknown op %q", p.Op)
			}
		}
	}
}

func TestCheckAnswers(t *testing.T) {
	t.Parallel()
	problems := []Problem{{A: 3, B: 4, Op: "×"}, {A: 30, B: 12, Op: "-"}, {A: 20, B: 15, Op: "+"}}
	if !CheckAnswers(problems, []string{"12", " 18 ", "35"}) {
		t.Fatalf("correct answers rejected")
	}
	if CheckAnswers(problems, []string{"12", "18", "36"}) {
		t.Fatalf("wrong answer accepted")
	}
	if CheckAnswers(problems, []string{"12", "18"}) {
		t.Fatalf("missing answer accepted")
	}
	if CheckAnswers(problems, []string{"12", "x", "35"}) {
		t.Fatalf("non-numeric answer accepted")
	}
	if got := problems[1].String(); got != "30 - 12" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestPrecheck(t *testing.T) {
	t.Parallel()
	if Precheck(" ok ") != RejectLocally {
		t.Fatalf("two characters must be rejected")
	}
	if Precheck("define it") != DecideRemotely {
		t.Fatalf("mid-length answers go to the coach")
	}
	if Precheck("a much longer answer") != AcceptLocally {
		t.Fatalf("long answers are accepted locally")
	}
}

func TestWordCount(t *testing.T) {
	t.Parallel()
	words := strings.Repeat("word ", MinReflectionWords)
	if WordCount(words) != MinReflectionWords {
		t.Fatalf("unexpected count %d", WordCount(words))
	}
	if WordCount("  spaced\n\tout  ") != 2 {
		t.Fatalf("whitespace must not count")
	}
}
