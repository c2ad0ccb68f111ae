package ai

import (
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/pkg/textx"
)

// LessonDraft is the model-owned part of a lesson, before video metadata
// and identifiers are stamped on.
type LessonDraft struct {
	VideoTitle      string                `json:"video_title"`
	Summary         string                `json:"summary" validate:"required"`
	Notes           []string              `json:"notes" validate:"min=1,dive,required"`
	QuizQuestions   []domain.QuizQuestion `json:"quiz_questions" validate:"min=1,dive"`
	Flashcards      []domain.Flashcard    `json:"flashcards" validate:"dive"`
	Category        string                `json:"category"`
	DurationMinutes float64               `json:"duration_minutes"`
}

var recordValidator = newRecordValidator()

func newRecordValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(answerInOptions, domain.QuizQuestion{})
	return v
}

func answerInOptions(sl validator.StructLevel) {
	q := sl.Current().Interface().(domain.QuizQuestion)
	if !slices.Contains(q.Options, q.CorrectAnswer) {
		sl.ReportError(q.CorrectAnswer, "CorrectAnswer", "correct_answer", "answer_in_options", "")
	}
}

func normalizeAnalysis(a *domain.AnalysisResult) {
	a.MatchScore = a.MatchScore.Clamp()
	a.CareerReadinessScore = a.CareerReadinessScore.Clamp()
	a.IdentifiedSkills = nonNil(textx.DedupeFold(a.IdentifiedSkills))
	a.SkillsToAdd = nonNil(textx.DedupeFold(a.SkillsToAdd))
	a.OptimizedSummary = strings.TrimSpace(a.OptimizedSummary)
	for i := range a.Recommendations {
		r := &a.Recommendations[i]
		r.Section = strings.ToLower(strings.TrimSpace(r.Section))
		r.Priority = strings.ToLower(strings.TrimSpace(r.Priority))
		r.Title = strings.TrimSpace(r.Title)
		r.Description = strings.TrimSpace(r.Description)
	}
	if a.Recommendations == nil {
		a.Recommendations = []domain.Recommendation{}
	}
	if a.Improvements == nil {
		a.Improvements = []domain.Improvement{}
	}
	// the model does not own these
	a.ID, a.FileName, a.UserID = "", "", ""
	a.Degraded, a.DegradedReason = false, ""
}

func normalizeLessonDraft(d *LessonDraft) {
	d.VideoTitle = strings.TrimSpace(d.VideoTitle)
	d.Summary = strings.TrimSpace(d.Summary)
	d.Category = strings.TrimSpace(d.Category)
	d.Notes = nonNil(textx.DedupeFold(d.Notes))

	quiz := make([]domain.QuizQuestion, 0, len(d.QuizQuestions))
	for _, q := range d.QuizQuestions {
		if fixed, ok := repairQuizQuestion(q); ok {
			quiz = append(quiz, fixed)
		}
	}
	d.QuizQuestions = quiz

	cards := make([]domain.Flashcard, 0, len(d.Flashcards))
	for _, c := range d.Flashcards {
		c.Front, c.Back = strings.TrimSpace(c.Front), strings.TrimSpace(c.Back)
		if c.Front != "" && c.Back != "" {
			cards = append(cards, c)
		}
	}
	d.Flashcards = cards
}

// repairQuizQuestion resolves correct_answer to one of the options. An
// answer that differs only by case or whitespace, or is an option letter
// (A, b, "C)"), is rewritten to the option text. Anything else is rejected.
func repairQuizQuestion(q domain.QuizQuestion) (domain.QuizQuestion, bool) {
	q.Question = strings.TrimSpace(q.Question)
	opts := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		if o = strings.TrimSpace(o); o != "" {
			opts = append(opts, o)
		}
	}
	q.Options = opts
	if q.Question == "" || len(opts) < 2 {
		return q, false
	}

	ans := strings.TrimSpace(q.CorrectAnswer)
	for _, o := range opts {
		if o == ans {
			q.CorrectAnswer = o
			return q, true
		}
	}
	for _, o := range opts {
		if strings.EqualFold(o, ans) {
			q.CorrectAnswer = o
			return q, true
		}
	}
	letter := strings.TrimRight(ans, ".):")
	if len(letter) == 1 {
		idx := int(strings.ToUpper(letter)[0]) - 'A'
		if idx >= 0 && idx < len(opts) {
			q.CorrectAnswer = opts[idx]
			return q, true
		}
	}
	return q, false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
