package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

const validAnalysis = "Here you go:\n```json\n" + `{
  "matchScore": 72.6,
  "identifiedSkills": ["Go", " go ", "SQL", ""],
  "skillsToAdd": ["Kubernetes", "Terraform"],
  "recommendations": [
    {"section": "Skills", "title": "Cloud", "description": "Add a cloud certification", "priority": "HIGH"}
  ],
  "optimizedSummary": "  Backend engineer focused on reliable services.  ",
  "careerReadinessScore": 150,
  "improvements": [{"area": "Experience", "suggestion": "Quantify impact", "impact": "Stronger CV"}]
}` + "\n```\nLet me know if you need more."

func TestAnalysisParser_Valid(t *testing.T) {
	p := NewAnalysisParser()
	got, out := p.Parse(context.Background(), validAnalysis)

	assert.False(t, out.Degraded)
	assert.Empty(t, out.Reason)
	assert.Equal(t, domain.Score(73), got.MatchScore)
	assert.Equal(t, domain.Score(100), got.CareerReadinessScore)
	assert.Equal(t, []string{"Go", "SQL"}, got.IdentifiedSkills)
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, got.SkillsToAdd)
	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, domain.SectionSkills, got.Recommendations[0].Section)
	assert.Equal(t, domain.PriorityHigh, got.Recommendations[0].Priority)
	assert.Equal(t, "Backend engineer focused on reliable services.", got.OptimizedSummary)
	require.Len(t, got.Improvements, 1)
}

func TestAnalysisParser_RepairsTrailingCommas(t *testing.T) {
	raw := `{"matchScore": 60, "identifiedSkills": ["Excel",], "skillsToAdd": [], "recommendations": [], "optimizedSummary": "ok",}`
	got, out := NewAnalysisParser().Parse(context.Background(), raw)
	assert.False(t, out.Degraded)
	assert.Equal(t, domain.Score(60), got.MatchScore)
	assert.Equal(t, []string{"Excel"}, got.IdentifiedSkills)
	assert.NotNil(t, got.Improvements)
}

func TestAnalysisParser_FallsBack(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{"empty", "", StageExtract},
		{"prose only", "I cannot analyze this CV.", StageExtract},
		{"truncated", `{"matchScore": 80, "identifiedSkills": ["Go"`, StageExtract},
		{"broken syntax", `{"matchScore": 80 "identifiedSkills": []}`, StageSyntax},
		{"missing required fields", `{"matchScore": 80}`, StageSchema},
		{"score as string", `{"matchScore": "80", "identifiedSkills": [], "skillsToAdd": [], "recommendations": [], "optimizedSummary": ""}`, StageSchema},
		{"skills not a list", `{"matchScore": 80, "identifiedSkills": "Go, SQL", "skillsToAdd": [], "recommendations": [], "optimizedSummary": ""}`, StageSchema},
		{"unknown priority", `{"matchScore": 80, "identifiedSkills": [], "skillsToAdd": [], "recommendations": [{"section":"skills","title":"t","priority":"urgent"}], "optimizedSummary": ""}`, StageSemantic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, out := NewAnalysisParser().Parse(context.Background(), tt.raw)
			assert.True(t, out.Degraded)
			assert.Equal(t, tt.reason, out.Reason)
			assert.Equal(t, FallbackAnalysis(), got)
		})
	}
}

func TestParser_FallbackForUpstreamFailure(t *testing.T) {
	got, out := NewLessonParser().Fallback(context.Background(), errors.New("quota"))
	assert.Equal(t, Outcome{Degraded: true, Reason: ReasonUpstream}, out)
	assert.Equal(t, FallbackLessonDraft(), got)
}

func lessonJSON(quiz string) string {
	return `{
  "video_title": "SQL Joins Explained",
  "summary": "Explains joins.",
  "notes": ["Inner joins keep matches", "Left joins keep the left side"],
  "quiz_questions": ` + quiz + `,
  "flashcards": [{"front": "JOIN", "back": "Combines tables"}, {"front": "", "back": "dropped"}],
  "category": "Technology"
}`
}

func TestLessonParser_QuizAnswers(t *testing.T) {
	quiz := `[
    {"question": "Exact?", "options": ["Yes", "No"], "correct_answer": "Yes"},
    {"question": "Case?", "options": ["Inner join", "Outer join"], "correct_answer": " inner JOIN "},
    {"question": "Letter?", "options": ["A row", "A column", "A table"], "correct_answer": "B)"},
    {"question": "Invalid?", "options": ["One", "Two"], "correct_answer": "Three"},
    {"question": "Too few options?", "options": ["Only"], "correct_answer": "Only"}
  ]`
	got, out := NewLessonParser().Parse(context.Background(), lessonJSON(quiz))
	require.False(t, out.Degraded, out.Reason)

	require.Len(t, got.QuizQuestions, 3)
	assert.Equal(t, "Yes", got.QuizQuestions[0].CorrectAnswer)
	assert.Equal(t, "Inner join", got.QuizQuestions[1].CorrectAnswer)
	assert.Equal(t, "A column", got.QuizQuestions[2].CorrectAnswer)
	for _, q := range got.QuizQuestions {
		assert.Contains(t, q.Options, q.CorrectAnswer)
	}
	assert.Len(t, got.Flashcards, 1)
	assert.Equal(t, "SQL Joins Explained", got.VideoTitle)
	assert.Equal(t, "Technology", got.Category)
}

func TestLessonParser_RejectsUnanswerableQuiz(t *testing.T) {
	quiz := `[{"question": "Which?", "options": ["A thing", "Another"], "correct_answer": "Neither"}]`
	got, out := NewLessonParser().Parse(context.Background(), lessonJSON(quiz))
	assert.True(t, out.Degraded)
	assert.Equal(t, StageSemantic, out.Reason)
	assert.Equal(t, FallbackLessonDraft(), got)
}

func TestLessonParser_StructuralFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"notes not a list", `{"summary": "s", "notes": "one long string", "quiz_questions": [], "flashcards": []}`},
		{"missing summary", `{"notes": ["n"], "quiz_questions": [], "flashcards": []}`},
		{"empty notes", `{"summary": "s", "notes": [], "quiz_questions": [], "flashcards": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, out := NewLessonParser().Parse(context.Background(), tt.raw)
			assert.True(t, out.Degraded)
			assert.Equal(t, StageSchema, out.Reason)
			assert.Equal(t, FallbackLessonDraft(), got)
		})
	}
}

func TestFallbacks_AreSchemaValid(t *testing.T) {
	a := FallbackAnalysis()
	assert.NoError(t, recordValidator.Struct(a))
	assert.Equal(t, domain.Score(45), a.MatchScore)

	d := FallbackLessonDraft()
	assert.NoError(t, recordValidator.Struct(d))
	assert.Equal(t, "Educational material", d.QuizQuestions[0].CorrectAnswer)

	// each call returns an independent value
	a.IdentifiedSkills[0] = "changed"
	assert.Equal(t, "Communication", FallbackAnalysis().IdentifiedSkills[0])
}
