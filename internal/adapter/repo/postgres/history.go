package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// PgxPool is the subset of *pgxpool.Pool the repository needs.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// History implements domain.HistoryStore on top of two JSONB tables.
type History struct {
	Pool    PgxPool
	closeFn func()
}

// NewHistory constructs a History over pool. closeFn, when set, runs on Close.
func NewHistory(p PgxPool, closeFn func()) *History { return &History{Pool: p, closeFn: closeFn} }

// Migrate creates the tables when missing.
func (r *History) Migrate(ctx context.Context) error {
	if _, err := r.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("op=history.migrate: %w", err)
	}
	return nil
}

// Close releases the pool.
func (r *History) Close() error {
	if r.closeFn != nil {
		r.closeFn()
	}
	return nil
}

// SaveAnalysis inserts or replaces an analysis by id.
func (r *History) SaveAnalysis(ctx domain.Context, a domain.AnalysisResult) error {
	ctx, span := otel.Tracer("repo.history").Start(ctx, "history.SaveAnalysis")
	defer span.End()
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("op=history.save_analysis: %w", err)
	}
	q := `INSERT INTO analyses (id, user_id, created_at, payload) VALUES ($1,$2,$3,$4)
	ON CONFLICT (id) DO UPDATE SET user_id=EXCLUDED.user_id, created_at=EXCLUDED.created_at, payload=EXCLUDED.payload`
	if _, err := r.Pool.Exec(ctx, q, a.ID, a.UserID, a.UploadDate.UTC(), payload); err != nil {
		return fmt.Errorf("op=history.save_analysis: %w", err)
	}
	return nil
}

// ListAnalyses returns analyses newest first; an empty owner lists all.
func (r *History) ListAnalyses(ctx domain.Context, ownerID string) ([]domain.AnalysisResult, error) {
	ctx, span := otel.Tracer("repo.history").Start(ctx, "history.ListAnalyses")
	defer span.End()
	q := `SELECT payload FROM analyses WHERE ($1::text = '' OR user_id = $1) ORDER BY created_at DESC, id DESC`
	rows, err := r.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("op=history.list_analyses: %w", err)
	}
	out, err := collectPayloads[domain.AnalysisResult](rows)
	if err != nil {
		return nil, fmt.Errorf("op=history.list_analyses: %w", err)
	}
	return out, nil
}

// GetAnalysis loads one analysis.
func (r *History) GetAnalysis(ctx domain.Context, id string) (domain.AnalysisResult, error) {
	ctx, span := otel.Tracer("repo.history").Start(ctx, "history.GetAnalysis")
	defer span.End()
	var a domain.AnalysisResult
	if err := r.getPayload(ctx, `SELECT payload FROM analyses WHERE id=$1`, id, &a); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("op=history.get_analysis: %w", err)
	}
	return a, nil
}

// SaveLesson inserts or replaces a lesson by id.
func (r *History) SaveLesson(ctx domain.Context, l domain.Lesson) error {
	ctx, span := otel.Tracer("repo.history").Start(ctx, "history.SaveLesson")
	defer span.End()
	payload, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("op=history.save_lesson: %w", err)
	}
	q := `INSERT INTO lessons (id, user_id, video_id, created_at, payload) VALUES ($1,$2,$3,$4,$5)
	ON CONFLICT (id) DO UPDATE SET user_id=EXCLUDED.user_id, video_id=EXCLUDED.video_id, created_at=EXCLUDED.created_at, payload=EXCLUDED.payload`
	if _, err := r.Pool.Exec(ctx, q, l.ID, l.UserID, l.VideoID, l.CreatedAt.UTC(), payload); err != nil {
		return fmt.Errorf("op=history.save_lesson: %w", err)
	}
	return nil
}

// ListLessons returns lessons newest first; an empty owner lists all.
func (r *History) ListLessons(ctx domain.Context, ownerID string) ([]domain.Lesson, error) {
	ctx, span := otel.Tracer("repo.history").Start(ctx, "history.ListLessons")
	defer span.End()
	q := `SELECT payload FROM lessons WHERE ($1::text = '' OR user_id = $1) ORDER BY created_at DESC, id DESC`
	rows, err := r.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("op=history.list_lessons: %w", err)
	}
	out, err := collectPayloads[domain.Lesson](rows)
	if err != nil {
		return nil, fmt.Errorf("op=history.list_lessons: %w", err)
	}
	return out, nil
}

// GetLesson loads one lesson.
func (r *History) GetLesson(ctx domain.Context, id string) (domain.Lesson, error) {
	ctx, span := otel.Tracer("repo.history").Start(ctx, "history.GetLesson")
	defer span.End()
	var l domain.Lesson
	if err := r.getPayload(ctx, `SELECT payload FROM lessons WHERE id=$1`, id, &l); err != nil {
		return domain.Lesson{}, fmt.Errorf("op=history.get_lesson: %w", err)
	}
	return l, nil
}

// DeleteLesson removes a lesson and reports whether one existed.
func (r *History) DeleteLesson(ctx domain.Context, id string) (bool, error) {
	ctx, span := otel.Tracer("repo.history").Start(ctx, "history.DeleteLesson")
	defer span.End()
	tag, err := r.Pool.Exec(ctx, `DELETE FROM lessons WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("op=history.delete_lesson: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *History) getPayload(ctx context.Context, q, id string, dst any) error {
	var payload []byte
	err := r.Pool.QueryRow(ctx, q, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, dst)
}

func collectPayloads[T any](rows pgx.Rows) ([]T, error) {
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

var _ domain.HistoryStore = (*History)(nil)
