// Package memory keeps analysis and lesson history in process memory. It is
// the default history backend and the one used by handler tests.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

// History implements domain.HistoryStore.
type History struct {
	mu       sync.RWMutex
	analyses map[string]domain.AnalysisResult
	lessons  map[string]domain.Lesson
}

// NewHistory returns an empty store.
func NewHistory() *History {
	return &History{
		analyses: make(map[string]domain.AnalysisResult),
		lessons:  make(map[string]domain.Lesson),
	}
}

func (h *History) SaveAnalysis(_ domain.Context, a domain.AnalysisResult) error {
	if a.ID == "" {
		return fmt.Errorf("op=memory.SaveAnalysis: %w: empty id", domain.ErrInvalidArgument)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.analyses[a.ID] = a
	return nil
}

// ListAnalyses returns analyses newest first. An empty owner lists all.
func (h *History) ListAnalyses(_ domain.Context, ownerID string) ([]domain.AnalysisResult, error) {
	h.mu.RLock()
	out := make([]domain.AnalysisResult, 0, len(h.analyses))
	for _, a := range h.analyses {
		if ownerID == "" || a.UserID == ownerID {
			out = append(out, a)
		}
	}
	h.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UploadDate.Equal(out[j].UploadDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].UploadDate.After(out[j].UploadDate)
	})
	return out, nil
}

func (h *History) GetAnalysis(_ domain.Context, id string) (domain.AnalysisResult, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	a, ok := h.analyses[id]
	if !ok {
		return domain.AnalysisResult{}, fmt.Errorf("op=memory.GetAnalysis: %w", domain.ErrNotFound)
	}
	return a, nil
}

func (h *History) SaveLesson(_ domain.Context, l domain.Lesson) error {
	if l.ID == "" {
		return fmt.Errorf("op=memory.SaveLesson: %w: empty id", domain.ErrInvalidArgument)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lessons[l.ID] = l
	return nil
}

// ListLessons returns lessons newest first. An empty owner lists all.
func (h *History) ListLessons(_ domain.Context, ownerID string) ([]domain.Lesson, error) {
	h.mu.RLock()
	out := make([]domain.Lesson, 0, len(h.lessons))
	for _, l := range h.lessons {
		if ownerID == "" || l.UserID == ownerID {
			out = append(out, l)
		}
	}
	h.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (h *History) GetLesson(_ domain.Context, id string) (domain.Lesson, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	l, ok := h.lessons[id]
	if !ok {
		return domain.Lesson{}, fmt.Errorf("op=memory.GetLesson: %w", domain.ErrNotFound)
	}
	return l, nil
}

func (h *History) DeleteLesson(_ domain.Context, id string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.lessons[id]
	delete(h.lessons, id)
	return ok, nil
}

// Close is a no-op.
func (h *History) Close() error { return nil }

var _ domain.HistoryStore = (*History)(nil)
