package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fairyhunter13/careerboost-api/internal/adapter/ai"
	"github.com/fairyhunter13/careerboost-api/internal/adapter/cache"
	"github.com/fairyhunter13/careerboost-api/internal/adapter/youtube"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/internal/observability"
)

// ProcessInput is a lesson request.
type ProcessInput struct {
	VideoURL string
	UserID   string
}

// lessonContent is what gets cached per video: the metadata and the
// generated draft. Ids and timestamps are assigned per request.
type lessonContent struct {
	Video          domain.VideoMetadata `json:"video"`
	Draft          ai.LessonDraft       `json:"draft"`
	Degraded       bool                 `json:"degraded"`
	DegradedReason string               `json:"degradedReason,omitempty"`
}

// LessonService turns a video link into a lesson: resolve the video id,
// fetch metadata, prompt, complete, parse (or fall back), assemble.
type LessonService struct {
	Videos    domain.VideoProvider
	Completer domain.Completer
	History   domain.LessonRepository
	Prompts   *ai.PromptBuilder
	Parser    *ai.Parser[ai.LessonDraft]
	Now       func() time.Time

	content *cache.Loader[lessonContent]
}

// NewLessonService wires the pipeline. A nil store disables caching.
func NewLessonService(videos domain.VideoProvider, c domain.Completer, history domain.LessonRepository, prompts *ai.PromptBuilder, store cache.Store, ttl time.Duration, dedup bool) *LessonService {
	s := &LessonService{
		Videos:    videos,
		Completer: c,
		History:   history,
		Prompts:   prompts,
		Parser:    ai.NewLessonParser(),
		Now:       time.Now,
	}
	if store != nil {
		s.content = cache.NewLoader(cache.NewTyped[lessonContent](store, "lesson", ttl), dedup)
	}
	return s
}

// Process builds a lesson for in.VideoURL. Invalid links fail before any
// provider call; metadata errors surface; generative errors fall back.
func (s *LessonService) Process(ctx context.Context, in ProcessInput) (domain.Lesson, error) {
	videoURL := strings.TrimSpace(in.VideoURL)
	if videoURL == "" {
		return domain.Lesson{}, domain.Invalid("videoUrl", "Video URL is required")
	}
	videoID, err := youtube.ExtractVideoID(videoURL)
	if err != nil {
		return domain.Lesson{}, err
	}
	ctx = observability.WithLogAttrs(ctx, slog.String("video_id", videoID))

	c, err := getOrLoad(ctx, s.content, videoID, func(ctx context.Context) (lessonContent, bool, error) {
		video, err := s.Videos.Video(ctx, videoID)
		if err != nil {
			return lessonContent{}, false, err
		}
		draft, o := s.generate(ctx, videoURL, video)
		return lessonContent{Video: video, Draft: draft, Degraded: o.Degraded, DegradedReason: o.Reason}, !o.Degraded, nil
	})
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("op=usecase.Process: %w", err)
	}

	lesson := ai.AssembleLesson(c.Draft, ai.LessonSource{
		VideoURL: videoURL,
		UserID:   strings.TrimSpace(in.UserID),
		Video:    c.Video,
	}, ai.Outcome{Degraded: c.Degraded, Reason: c.DegradedReason}, s.Now())

	lg := observability.LoggerFromContext(ctx)
	if s.History != nil {
		if err := s.History.SaveLesson(ctx, lesson); err != nil {
			lg.Error("saving lesson to history failed", slog.String("lesson_id", lesson.ID), slog.Any("error", err))
		}
	}
	lg.Info("lesson generated",
		slog.String("lesson_id", lesson.ID),
		slog.String("category", lesson.Category),
		slog.Bool("degraded", lesson.Degraded))
	return lesson, nil
}

func (s *LessonService) generate(ctx context.Context, videoURL string, v domain.VideoMetadata) (ai.LessonDraft, ai.Outcome) {
	raw, err := s.Completer.Complete(ctx, s.Prompts.Lesson(videoURL, v))
	if err != nil {
		return s.Parser.Fallback(ctx, err)
	}
	return s.Parser.Parse(ctx, raw)
}

// List returns stored lessons, newest first. An empty owner lists all.
func (s *LessonService) List(ctx context.Context, ownerID string) ([]domain.Lesson, error) {
	if s.History == nil {
		return []domain.Lesson{}, nil
	}
	out, err := s.History.ListLessons(ctx, strings.TrimSpace(ownerID))
	if err != nil {
		return nil, fmt.Errorf("op=usecase.ListLessons: %w", err)
	}
	return out, nil
}

// Get loads one stored lesson.
func (s *LessonService) Get(ctx context.Context, id string) (domain.Lesson, error) {
	if s.History == nil {
		return domain.Lesson{}, fmt.Errorf("op=usecase.GetLesson: %w", domain.ErrNotFound)
	}
	l, err := s.History.GetLesson(ctx, id)
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("op=usecase.GetLesson: %w", err)
	}
	return l, nil
}

// Delete removes a lesson and reports whether one existed.
func (s *LessonService) Delete(ctx context.Context, id string) (bool, error) {
	if s.History == nil {
		return false, nil
	}
	ok, err := s.History.DeleteLesson(ctx, id)
	if err != nil {
		return false, fmt.Errorf("op=usecase.DeleteLesson: %w", err)
	}
	return ok, nil
}
