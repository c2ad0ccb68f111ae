// Package sqlite persists analysis and lesson history in a single SQLite file
// through the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_user ON analyses(user_id, created_at);

CREATE TABLE IF NOT EXISTS lessons (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL DEFAULT '',
	video_id TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_lessons_user ON lessons(user_id, created_at);
`

// History implements domain.HistoryStore. Records are stored as JSON
// payloads next to the columns used for filtering and ordering.
type History struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("op=sqlite.Open: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("op=sqlite.Open: init schema: %w", err)
	}
	return &History{db: db}, nil
}

// Ping checks the database handle.
func (h *History) Ping(ctx context.Context) error { return h.db.PingContext(ctx) }

// Close closes the database.
func (h *History) Close() error { return h.db.Close() }

func (h *History) SaveAnalysis(ctx domain.Context, a domain.AnalysisResult) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("op=sqlite.SaveAnalysis: %w", err)
	}
	_, err = h.db.ExecContext(ctx,
		`INSERT INTO analyses (id, user_id, created_at, payload) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id, created_at=excluded.created_at, payload=excluded.payload`,
		a.ID, a.UserID, a.UploadDate.UnixNano(), string(payload))
	if err != nil {
		return fmt.Errorf("op=sqlite.SaveAnalysis: %w", err)
	}
	return nil
}

func (h *History) ListAnalyses(ctx domain.Context, ownerID string) ([]domain.AnalysisResult, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT payload FROM analyses WHERE (? = '' OR user_id = ?) ORDER BY created_at DESC, id DESC`,
		ownerID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("op=sqlite.ListAnalyses: %w", err)
	}
	out, err := scanPayloads[domain.AnalysisResult](rows)
	if err != nil {
		return nil, fmt.Errorf("op=sqlite.ListAnalyses: %w", err)
	}
	return out, nil
}

func (h *History) GetAnalysis(ctx domain.Context, id string) (domain.AnalysisResult, error) {
	var a domain.AnalysisResult
	if err := h.getPayload(ctx, `SELECT payload FROM analyses WHERE id = ?`, id, &a); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("op=sqlite.GetAnalysis: %w", err)
	}
	return a, nil
}

func (h *History) SaveLesson(ctx domain.Context, l domain.Lesson) error {
	payload, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("op=sqlite.SaveLesson: %w", err)
	}
	_, err = h.db.ExecContext(ctx,
		`INSERT INTO lessons (id, user_id, video_id, created_at, payload) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id, video_id=excluded.video_id, created_at=excluded.created_at, payload=excluded.payload`,
		l.ID, l.UserID, l.VideoID, l.CreatedAt.UnixNano(), string(payload))
	if err != nil {
		return fmt.Errorf("op=sqlite.SaveLesson: %w", err)
	}
	return nil
}

func (h *History) ListLessons(ctx domain.Context, ownerID string) ([]domain.Lesson, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT payload FROM lessons WHERE (? = '' OR user_id = ?) ORDER BY created_at DESC, id DESC`,
		ownerID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("op=sqlite.ListLessons: %w", err)
	}
	out, err := scanPayloads[domain.Lesson](rows)
	if err != nil {
		return nil, fmt.Errorf("op=sqlite.ListLessons: %w", err)
	}
	return out, nil
}

func (h *History) GetLesson(ctx domain.Context, id string) (domain.Lesson, error) {
	var l domain.Lesson
	if err := h.getPayload(ctx, `SELECT payload FROM lessons WHERE id = ?`, id, &l); err != nil {
		return domain.Lesson{}, fmt.Errorf("op=sqlite.GetLesson: %w", err)
	}
	return l, nil
}

func (h *History) DeleteLesson(ctx domain.Context, id string) (bool, error) {
	res, err := h.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("op=sqlite.DeleteLesson: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("op=sqlite.DeleteLesson: %w", err)
	}
	return n > 0, nil
}

func (h *History) getPayload(ctx context.Context, q, id string, dst any) error {
	var payload string
	err := h.db.QueryRowContext(ctx, q, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(payload), dst)
}

func scanPayloads[T any](rows *sql.Rows) ([]T, error) {
	defer func() { _ = rows.Close() }()
	out := make([]T, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(payload), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

var _ domain.HistoryStore = (*History)(nil)
