package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"focustree/internal/modules/session/domain"
	sessionout "focustree/internal/modules/session/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteRecordStore struct {
	db *sql.DB
}

func NewSQLiteRecordStore(dbPath string) (*SQLiteRecordStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteRecordStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

var _ sessionout.RecordStore = (*SQLiteRecordStore)(nil)

func (s *SQLiteRecordStore) ensureSchema(ctx context.Context) error {
	ddl := []string{`
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL,
  total_minutes INTEGER NOT NULL,
  focus_minutes INTEGER NOT NULL,
  distracted_minutes INTEGER NOT NULL,
  focus_percent REAL NOT NULL,
  distraction_count INTEGER NOT NULL,
  breakdown_json TEXT NOT NULL,
  longest_streak REAL NOT NULL,
  breaks_taken INTEGER NOT NULL,
  mode TEXT NOT NULL,
  goal TEXT NOT NULL,
  insights_json TEXT,
  note_path TEXT
);`, `
CREATE TABLE IF NOT EXISTS session_events (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  distraction_type TEXT,
  notified INTEGER NOT NULL,
  at TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS session_events_session ON session_events(session_id);`,
	}
	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create session tables: %w", err)
		}
	}
	return nil
}

func (s *SQLiteRecordStore) SaveRecord(ctx context.Context, r domain.Record) error {
	breakdown, err := json.Marshal(r.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}
	var insights sql.NullString
	if r.Insights != nil {
		raw, err := json.Marshal(r.Insights)
		if err != nil {
			return fmt.Errorf("marshal insights: %w", err)
		}
		insights = sql.NullString{String: string(raw), Valid: true}
	}
	const stmt = `
INSERT INTO sessions (id, started_at, ended_at, total_minutes, focus_minutes, distracted_minutes, focus_percent, distraction_count, breakdown_json, longest_streak, breaks_taken, mode, goal, insights_json, note_path)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  ended_at=excluded.ended_at,
  total_minutes=excluded.total_minutes,
  focus_minutes=excluded.focus_minutes,
  distracted_minutes=excluded.distracted_minutes,
  focus_percent=excluded.focus_percent,
  distraction_count=excluded.distraction_count,
  breakdown_json=excluded.breakdown_json,
  longest_streak=excluded.longest_streak,
  breaks_taken=excluded.breaks_taken,
  insights_json=excluded.insights_json,
  note_path=excluded.note_path;
`
	_, err = s.db.ExecContext(ctx, stmt,
		r.ID,
		r.StartedAt.Format(time.RFC3339),
		r.EndedAt.Format(time.RFC3339),
		r.TotalMin,
		r.FocusMin,
		r.DistractedMin,
		r.FocusPercent,
		r.DistractionCount,
		string(breakdown),
		r.LongestStreak,
		r.BreaksTaken,
		r.Mode,
		r.Goal,
		insights,
		r.NotePath,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLiteRecordStore) AppendEvent(ctx context.Context, e domain.Event) error {
	notified := 0
	if e.Notified {
		notified = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_events (id, session_id, kind, distraction_type, notified, at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, string(e.Kind), string(e.Type), notified, e.At.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert session event: %w", err)
	}
	return nil
}

// Recent returns finished sessions, newest first.
func (s *SQLiteRecordStore) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, started_at, ended_at, total_minutes, focus_minutes, distracted_minutes, focus_percent, distraction_count, breakdown_json, longest_streak, breaks_taken, mode, goal, insights_json, note_path
FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := []domain.Record{}
	for rows.Next() {
		var (
			r                  domain.Record
			started, ended     string
			breakdown          string
			insights, notePath sql.NullString
		)
		if err := rows.Scan(&r.ID, &started, &ended, &r.TotalMin, &r.FocusMin, &r.DistractedMin, &r.FocusPercent,
			&r.DistractionCount, &breakdown, &r.LongestStreak, &r.BreaksTaken, &r.Mode, &r.Goal, &insights, &notePath); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.EndedAt, _ = time.Parse(time.RFC3339, ended)
		r.Breakdown = map[string]int{}
		_ = json.Unmarshal([]byte(breakdown), &r.Breakdown)
		if insights.Valid {
			in := domain.Insights{}
			if err := json.Unmarshal([]byte(insights.String), &in); err == nil {
				r.Insights = &in
			}
		}
		r.NotePath = notePath.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// Events returns the recorded events of one session in order.
func (s *SQLiteRecordStore) Events(ctx context.Context, sessionID string) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, kind, distraction_type, notified, at FROM session_events WHERE session_id = ? ORDER BY at`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	out := []domain.Event{}
	for rows.Next() {
		var (
			e        domain.Event
			kind     string
			kindType sql.NullString
			notified int
			at       string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &kind, &kindType, &notified, &at); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		e.Kind = domain.EventKind(kind)
		e.Type = domain.DistractionType(kindType.String)
		e.Notified = notified == 1
		e.At, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteRecordStore) Close() error {
	return s.db.Close()
}
