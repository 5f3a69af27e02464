package out

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"focustree/internal/modules/session/domain"
)

func TestSQLiteRecordStoreUpsertAndRecentOrder(t *testing.T) {
	t.Parallel()
	store, err := NewSQLiteRecordStore(filepath.Join(t.TempDir(), "db", "focustree.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	older := domain.Record{ID: "a", StartedAt: base, EndedAt: base.Add(time.Hour), TotalMin: 60, Mode: "focused", Goal: "old", Breakdown: map[string]int{"phone": 2}}
	newer := domain.Record{ID: "b", StartedAt: base.Add(24 * time.Hour), EndedAt: base.Add(25 * time.Hour), TotalMin: 30, Mode: "chill", Goal: "new",
		Insights: &domain.Insights{Positive: "p", Improvement: "i", Pattern: "x"}}
	for _, r := range []domain.Record{older, newer} {
		if err := store.SaveRecord(ctx, r); err != nil {
			t.Fatalf("save %s: %v", r.ID, err)
		}
	}
	older.FocusPercent = 88.5
	if err := store.SaveRecord(ctx, older); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "b" || recent[1].ID != "a" {
		t.Fatalf("unexpected order %+v", recent)
	}
	if recent[1].FocusPercent != 88.5 || recent[1].Breakdown["phone"] != 2 {
		t.Fatalf("upsert not applied: %+v", recent[1])
	}
	if recent[0].Insights == nil || recent[0].Insights.Pattern != "x" {
		t.Fatalf("insights not stored: %+v", recent[0])
	}
	if recent[1].Insights != nil {
		t.Fatalf("missing insights should stay nil")
	}

	limited, err := store.Recent(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("limit not applied: %v %d", err, len(limited))
	}
}

func TestSQLiteRecordStoreEvents(t *testing.T) {
	t.Parallel()
	store, err := NewSQLiteRecordStore(filepath.Join(t.TempDir(), "focustree.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	events := []domain.Event{
		{ID: "e1", SessionID: "s", Kind: domain.EventDistraction, Type: domain.DistractionPhone, Notified: true, At: at},
		{ID: "e2", SessionID: "s", Kind: domain.EventResolved, At: at.Add(time.Minute)},
		{ID: "e3", SessionID: "other", Kind: domain.EventDistraction, Type: domain.DistractionOther, At: at},
	}
	for _, e := range events {
		if err := store.AppendEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := store.Events(ctx, "s")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(got) != 2 || got[0].Type != domain.DistractionPhone || !got[0].Notified || got[1].Kind != domain.EventResolved {
		t.Fatalf("unexpected events %+v", got)
	}
}
