package ai

import (
	"time"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/pkg/idgen"
)

// AnalysisStamp is the caller-owned metadata attached to an analysis.
type AnalysisStamp struct {
	FileName               string
	FileSize               int64
	UserID                 string
	JobDescriptionProvided bool
}

// StampAnalysis sets the fields the model does not own.
func StampAnalysis(a domain.AnalysisResult, s AnalysisStamp, o Outcome, now time.Time) domain.AnalysisResult {
	a.ID = idgen.WithPrefix("analysis")
	a.UploadDate = now.UTC()
	a.FileName = s.FileName
	a.FileSize = s.FileSize
	a.UserID = s.UserID
	a.JobDescriptionProvided = s.JobDescriptionProvided
	a.Degraded = o.Degraded
	a.DegradedReason = o.Reason
	return a
}

// LessonSource is the caller-owned input of a lesson.
type LessonSource struct {
	VideoURL string
	UserID   string
	Video    domain.VideoMetadata
}

// AssembleLesson merges a draft with video metadata. Duration and thumbnail
// always come from the video; title and category come from the draft when
// it has them.
func AssembleLesson(d LessonDraft, src LessonSource, o Outcome, now time.Time) domain.Lesson {
	title := d.VideoTitle
	if title == "" {
		title = src.Video.Title
	}
	category := d.Category
	if category == "" {
		category = src.Video.Category
	}
	if category == "" {
		category = domain.DefaultCategory
	}
	return domain.Lesson{
		ID:              idgen.New(),
		VideoID:         src.Video.ID,
		VideoURL:        src.VideoURL,
		Title:           title,
		ThumbnailURL:    src.Video.ThumbnailURL,
		Summary:         d.Summary,
		Notes:           d.Notes,
		QuizQuestions:   d.QuizQuestions,
		Flashcards:      d.Flashcards,
		Category:        category,
		DurationMinutes: src.Video.DurationMinutes,
		CreatedAt:       now.UTC(),
		UserID:          src.UserID,
		Source:          domain.LessonSource,
		Channel:         src.Video.Channel,
		ViewCount:       src.Video.ViewCount,
		Degraded:        o.Degraded,
		DegradedReason:  o.Reason,
	}
}
