package ai

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestStampAnalysis(t *testing.T) {
	a := StampAnalysis(FallbackAnalysis(), AnalysisStamp{
		FileName: "cv.pdf", FileSize: 2048, UserID: "u1", JobDescriptionProvided: true,
	}, Outcome{Degraded: true, Reason: StageSchema}, testNow)

	assert.True(t, strings.HasPrefix(a.ID, "analysis_"))
	assert.Equal(t, testNow, a.UploadDate)
	assert.Equal(t, "cv.pdf", a.FileName)
	assert.Equal(t, int64(2048), a.FileSize)
	assert.Equal(t, "u1", a.UserID)
	assert.True(t, a.JobDescriptionProvided)
	assert.True(t, a.Degraded)
	assert.Equal(t, StageSchema, a.DegradedReason)
}

func TestAssembleLesson(t *testing.T) {
	video := domain.VideoMetadata{
		ID:              "dQw4w9WgXcQ",
		Title:           "Original title",
		Channel:         "Channel",
		DurationMinutes: 63,
		ThumbnailURL:    "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		ViewCount:       99,
		Category:        "Technology",
	}
	src := LessonSource{VideoURL: "https://youtu.be/dQw4w9WgXcQ", UserID: "u1", Video: video}

	t.Run("draft fields win for title and category", func(t *testing.T) {
		d := FallbackLessonDraft()
		l := AssembleLesson(d, src, Outcome{Degraded: true, Reason: ReasonUpstream}, testNow)
		assert.Equal(t, "Educational Content", l.Title)
		assert.Equal(t, "Education", l.Category)
		assert.Equal(t, 63, l.DurationMinutes, "video duration overrides the draft")
		assert.Equal(t, video.ThumbnailURL, l.ThumbnailURL)
		assert.True(t, l.Degraded)
	})

	t.Run("video fields fill gaps", func(t *testing.T) {
		d := LessonDraft{Summary: "s", Notes: []string{"n"}}
		l := AssembleLesson(d, src, Outcome{}, testNow)
		assert.Equal(t, "Original title", l.Title)
		assert.Equal(t, "Technology", l.Category)
		assert.Equal(t, domain.LessonSource, l.Source)
		assert.Equal(t, "dQw4w9WgXcQ", l.VideoID)
		assert.Equal(t, "u1", l.UserID)
		assert.Equal(t, uint64(99), l.ViewCount)
		assert.Equal(t, testNow, l.CreatedAt)
		assert.NotEmpty(t, l.ID)
		assert.False(t, l.Degraded)
	})

	t.Run("default category", func(t *testing.T) {
		s := src
		s.Video.Category = ""
		l := AssembleLesson(LessonDraft{}, s, Outcome{}, testNow)
		assert.Equal(t, domain.DefaultCategory, l.Category)
	})
}
