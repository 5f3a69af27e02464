package slug_test

import (
	"strings"
	"testing"

	"focustree/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Write the Q3 report!": "write-the-q3-report",
		"   ":                  "focus",
		"--Deep  Work--":       "deep-work",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
	long := slug.Make(strings.Repeat("study ", 30))
	if len(long) > 48 || strings.HasSuffix(long, "-") {
		t.Fatalf("expected bounded slug, got %q", long)
	}
}
