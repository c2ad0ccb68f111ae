package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/careerboost-api/internal/adapter/repo/memory"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

func TestHistory_Analyses(t *testing.T) {
	ctx := context.Background()
	h := memory.NewHistory()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, h.SaveAnalysis(ctx, domain.AnalysisResult{ID: "a1", UserID: "u1", UploadDate: base}))
	require.NoError(t, h.SaveAnalysis(ctx, domain.AnalysisResult{ID: "a2", UserID: "u2", UploadDate: base.Add(time.Hour)}))
	require.NoError(t, h.SaveAnalysis(ctx, domain.AnalysisResult{ID: "a3", UserID: "u1", UploadDate: base.Add(2 * time.Hour)}))

	all, err := h.ListAnalyses(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a3", "a2", "a1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	mine, err := h.ListAnalyses(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "a3", mine[0].ID)

	got, err := h.GetAnalysis(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, "u2", got.UserID)

	_, err = h.GetAnalysis(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, h.SaveAnalysis(ctx, domain.AnalysisResult{}), domain.ErrInvalidArgument)
}

func TestHistory_Lessons(t *testing.T) {
	ctx := context.Background()
	h := memory.NewHistory()
	defer func() { _ = h.Close() }()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, h.SaveLesson(ctx, domain.Lesson{ID: "l1", UserID: "u1", CreatedAt: base}))
	require.NoError(t, h.SaveLesson(ctx, domain.Lesson{ID: "l2", UserID: "u2", CreatedAt: base.Add(time.Minute)}))

	list, err := h.ListLessons(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "l2", list[0].ID)

	list, err = h.ListLessons(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	ok, err := h.DeleteLesson(ctx, "l1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.DeleteLesson(ctx, "l1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.GetLesson(ctx, "l1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := h.GetLesson(ctx, "l2")
	require.NoError(t, err)
	assert.Equal(t, "u2", got.UserID)
}
