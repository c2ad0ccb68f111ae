package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Recommendation sections and priorities accepted from the generative provider.
const (
	SectionSummary    = "summary"
	SectionSkills     = "skills"
	SectionExperience = "experience"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// LessonSource marks lessons built from the video metadata provider.
const LessonSource = "youtube_api_v3"

// DefaultCategory is returned when no category rule matches.
const DefaultCategory = "General"

// Score is a whole-number percentage. Model output such as 72.5 is rounded
// on decode; range clamping happens during normalization.
type Score int

// UnmarshalJSON accepts any JSON number and rounds it to the nearest integer.
// Magnitudes beyond the int32 range are bounded first so the conversion
// keeps the sign.
func (s *Score) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("score: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("score: not a finite number")
	}
	f = math.Max(math.MinInt32, math.Min(math.MaxInt32, f))
	*s = Score(math.Round(f))
	return nil
}

// Clamp bounds the score to [0,100].
func (s Score) Clamp() Score {
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	}
	return s
}

type Recommendation struct {
	Section     string `json:"section" validate:"required,oneof=summary skills experience"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" validate:"required,oneof=high medium low"`
}

type Improvement struct {
	Area       string `json:"area"`
	Suggestion string `json:"suggestion"`
	Impact     string `json:"impact"`
}

// AnalysisResult is the CV analysis returned to callers.
// Invariants: scores within [0,100]; skill lists deduplicated.
type AnalysisResult struct {
	ID                   string           `json:"id"`
	MatchScore           Score            `json:"matchScore" validate:"min=0,max=100"`
	IdentifiedSkills     []string         `json:"identifiedSkills"`
	SkillsToAdd          []string         `json:"skillsToAdd"`
	Recommendations      []Recommendation `json:"recommendations" validate:"dive"`
	OptimizedSummary     string           `json:"optimizedSummary"`
	CareerReadinessScore Score            `json:"careerReadinessScore" validate:"min=0,max=100"`
	Improvements         []Improvement    `json:"improvements"`

	FileName               string    `json:"fileName,omitempty"`
	FileSize               int64     `json:"fileSize,omitempty"`
	UserID                 string    `json:"userId,omitempty"`
	JobDescriptionProvided bool      `json:"jobDescriptionProvided"`
	UploadDate             time.Time `json:"uploadDate"`
	Degraded               bool      `json:"degraded"`
	DegradedReason         string    `json:"degradedReason,omitempty"`
}

// QuizQuestion invariant: CorrectAnswer is one of Options.
type QuizQuestion struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
}

type Flashcard struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back" validate:"required"`
}

// Lesson is the learning material generated for a single video.
type Lesson struct {
	ID              string         `json:"id"`
	VideoID         string         `json:"video_id"`
	VideoURL        string         `json:"video_url"`
	Title           string         `json:"video_title"`
	ThumbnailURL    string         `json:"thumbnail_url"`
	Summary         string         `json:"ai_summary"`
	Notes           []string       `json:"ai_notes"`
	QuizQuestions   []QuizQuestion `json:"quiz_questions"`
	Flashcards      []Flashcard    `json:"flashcards"`
	Category        string         `json:"category"`
	DurationMinutes int            `json:"duration_minutes"`
	CreatedAt       time.Time      `json:"created_at"`
	UserID          string         `json:"user_id,omitempty"`
	Source          string         `json:"source"`
	Channel         string         `json:"channel"`
	ViewCount       uint64         `json:"view_count"`
	Degraded        bool           `json:"degraded"`
	DegradedReason  string         `json:"degradedReason,omitempty"`
}

// VideoMetadata is the normalized view of a provider video record.
type VideoMetadata struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Channel         string    `json:"channel"`
	PublishedAt     time.Time `json:"publishedAt"`
	Tags            []string  `json:"tags"`
	DurationMinutes int       `json:"durationMinutes"`
	ThumbnailURL    string    `json:"thumbnailUrl"`
	ViewCount       uint64    `json:"viewCount"`
	LikeCount       uint64    `json:"likeCount"`
	Category        string    `json:"category"`
}

// JobFilters are the optional narrowing flags of a job search. Boolean flags
// reach the provider only when true; salary bounds only when present.
type JobFilters struct {
	FullTime  bool `json:"fullTime,omitempty"`
	PartTime  bool `json:"partTime,omitempty"`
	Permanent bool `json:"permanent,omitempty"`
	Contract  bool `json:"contract,omitempty"`
	SalaryMin *int `json:"salaryMin,omitempty"`
	SalaryMax *int `json:"salaryMax,omitempty"`
}

// JobQuery is the internal, provider-neutral search request.
type JobQuery struct {
	Keywords       string     `json:"keywords,omitempty"`
	Exclude        string     `json:"exclude,omitempty"`
	Location       string     `json:"location,omitempty"`
	Category       string     `json:"category,omitempty"`
	Page           int        `json:"page"`
	ResultsPerPage int        `json:"resultsPerPage"`
	SortBy         string     `json:"sortBy,omitempty"`
	SortDir        string     `json:"sortDir,omitempty"`
	Filters        JobFilters `json:"filters"`
}

type Job struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	SalaryMin     float64   `json:"salary_min,omitempty"`
	SalaryMax     float64   `json:"salary_max,omitempty"`
	ContractTime  string    `json:"contract_time,omitempty"`
	ContractType  string    `json:"contract_type,omitempty"`
	CategoryLabel string    `json:"category_label,omitempty"`
	CategoryTag   string    `json:"category_tag,omitempty"`
	RedirectURL   string    `json:"redirect_url"`
	Created       time.Time `json:"created"`
}

// JobSearchResult is a single provider page before pagination metadata.
type JobSearchResult struct {
	Results []Job `json:"results"`
	Count   int   `json:"count"`
}

// JobPage is one page of search results. TotalPages = ceil(Count/ResultsPerPage).
type JobPage struct {
	Results        []Job `json:"results"`
	Count          int   `json:"count"`
	Page           int   `json:"page"`
	ResultsPerPage int   `json:"resultsPerPage"`
	TotalPages     int   `json:"totalPages"`
}

// Category is a job category as exposed by the listings provider.
type Category struct {
	Label string `json:"label"`
	Tag   string `json:"tag"`
}

// TotalPages returns ceil(count/perPage), or 0 when perPage is not positive.
func TotalPages(count, perPage int) int {
	if perPage <= 0 || count <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// Context is an alias so ports read without importing context everywhere.
type Context = context.Context
