package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"focustree/internal/modules/session/domain"
	sessionout "focustree/internal/modules/session/port/out"
	"focustree/internal/platform/markdown"
	"focustree/internal/platform/slug"
)

type noteFrontmatter struct {
	SchemaVersion    int            `yaml:"schema_version"`
	ID               string         `yaml:"id"`
	StartedAt        string         `yaml:"started_at"`
	EndedAt          string         `yaml:"ended_at"`
	Mode             string         `yaml:"mode"`
	Goal             string         `yaml:"goal"`
	TotalMinutes     int            `yaml:"total_minutes"`
	FocusMinutes     int            `yaml:"focus_minutes"`
	DistractedMin    int            `yaml:"distracted_minutes"`
	FocusPercent     float64        `yaml:"focus_percent"`
	DistractionCount int            `yaml:"distraction_count"`
	Breakdown        map[string]int `yaml:"distraction_breakdown,omitempty"`
	LongestStreak    float64        `yaml:"longest_streak_minutes"`
	BreaksTaken      int            `yaml:"breaks_taken"`
}

// MarkdownNoteStore writes one note per finished session under
// sessions/YYYY/MM/DD.
type MarkdownNoteStore struct {
	dir string
}

func NewMarkdownNoteStore(dir string) *MarkdownNoteStore {
	return &MarkdownNoteStore{dir: dir}
}

var _ sessionout.NoteStore = (*MarkdownNoteStore)(nil)

func (s *MarkdownNoteStore) SaveNote(_ context.Context, record domain.Record) (string, error) {
	date := record.StartedAt
	dir := filepath.Join(s.dir, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", date.Format("150405"), slug.Make(record.Goal)))

	meta := noteFrontmatter{
		SchemaVersion:    domain.SchemaVersion,
		ID:               record.ID,
		StartedAt:        record.StartedAt.Format(time.RFC3339),
		EndedAt:          record.EndedAt.Format(time.RFC3339),
		Mode:             record.Mode,
		Goal:             record.Goal,
		TotalMinutes:     record.TotalMin,
		FocusMinutes:     record.FocusMin,
		DistractedMin:    record.DistractedMin,
		FocusPercent:     record.FocusPercent,
		DistractionCount: record.DistractionCount,
		Breakdown:        record.Breakdown,
		LongestStreak:    record.LongestStreak,
		BreaksTaken:      record.BreaksTaken,
	}
	rendered, err := markdown.Render(meta, noteBody(record))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, rendered, 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	return path, nil
}

// LoadNote reads a note written by SaveNote back into a record. Insights are
// not recovered.
func (s *MarkdownNoteStore) LoadNote(path string) (domain.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Record{}, fmt.Errorf("read session note: %w", err)
	}
	meta := noteFrontmatter{}
	if _, err := markdown.Parse(raw, &meta); err != nil {
		return domain.Record{}, err
	}
	started, _ := time.Parse(time.RFC3339, meta.StartedAt)
	ended, _ := time.Parse(time.RFC3339, meta.EndedAt)
	return domain.Record{
		ID:               meta.ID,
		StartedAt:        started,
		EndedAt:          ended,
		TotalMin:         meta.TotalMinutes,
		FocusMin:         meta.FocusMinutes,
		DistractedMin:    meta.DistractedMin,
		FocusPercent:     meta.FocusPercent,
		DistractionCount: meta.DistractionCount,
		Breakdown:        meta.Breakdown,
		LongestStreak:    meta.LongestStreak,
		BreaksTaken:      meta.BreaksTaken,
		Mode:             meta.Mode,
		Goal:             meta.Goal,
		NotePath:         path,
	}, nil
}

func noteBody(r domain.Record) string {
	var b strings.Builder
	title := r.Goal
	if title == "" {
		title = "Focus session"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Duration: %d minutes (%d focused, %d distracted)\n", r.TotalMin, r.FocusMin, r.DistractedMin)
	fmt.Fprintf(&b, "- Focus: %.1f%%\n", r.FocusPercent)
	fmt.Fprintf(&b, "- Longest streak: %.1f minutes\n", r.LongestStreak)
	fmt.Fprintf(&b, "- Breaks: %d\n", r.BreaksTaken)

	if len(r.Breakdown) > 0 {
		b.WriteString("\n## Distractions\n\n")
		kinds := make([]string, 0, len(r.Breakdown))
		for k := range r.Breakdown {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(&b, "- %s: %d\n", k, r.Breakdown[k])
		}
	}
	if r.Insights != nil {
		b.WriteString("\n## Insights\n\n")
		fmt.Fprintf(&b, "- Went well: %s\n", r.Insights.Positive)
		fmt.Fprintf(&b, "- Try next: %s\n", r.Insights.Improvement)
		fmt.Fprintf(&b, "- Pattern: %s\n", r.Insights.Pattern)
	}
	return b.String()
}
