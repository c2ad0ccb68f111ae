package ai

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/careerboost-api/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/pkg/textx"
)

const (
	lessonDescriptionChars = 800
	lessonTagLimit         = 10
)

// PromptBuilder renders the instruction payloads sent to the generative
// provider. CV text is cut to a token budget before it is embedded.
type PromptBuilder struct {
	counter     *tokencount.Counter
	maxCVTokens int
}

// NewPromptBuilder creates a builder; maxCVTokens <= 0 disables truncation.
func NewPromptBuilder(counter *tokencount.Counter, maxCVTokens int) *PromptBuilder {
	if counter == nil {
		counter = tokencount.NewCounter("")
	}
	return &PromptBuilder{counter: counter, maxCVTokens: maxCVTokens}
}

// CVAnalysis builds the CV analysis prompt. The job description section is
// included only when non-empty.
func (b *PromptBuilder) CVAnalysis(cvText, jobDescription string) string {
	cv, _ := b.counter.Truncate(strings.TrimSpace(cvText), b.maxCVTokens)

	var sb strings.Builder
	sb.WriteString("Analyze this CV for a South African job seeker and provide comprehensive feedback.\n\n")
	sb.WriteString("**CV Content:**\n")
	sb.WriteString(cv)
	sb.WriteString("\n\n")
	if jd := strings.TrimSpace(jobDescription); jd != "" {
		sb.WriteString("**Target Job Description:**\n")
		sb.WriteString(jd)
		sb.WriteString("\n\n")
	}
	sb.WriteString(cvInstructions)
	return sb.String()
}

// Lesson builds the learning-content prompt from real video metadata.
func (b *PromptBuilder) Lesson(videoURL string, v domain.VideoMetadata) string {
	desc := strings.TrimSpace(v.Description)
	if desc == "" {
		desc = "No description available"
	} else {
		desc = textx.Truncate(desc, lessonDescriptionChars)
	}
	tags := "No tags"
	if len(v.Tags) > 0 {
		n := min(len(v.Tags), lessonTagLimit)
		tags = strings.Join(v.Tags[:n], ", ")
	}
	return fmt.Sprintf(lessonTemplate, v.Title, v.Channel, v.DurationMinutes, videoURL, desc, tags,
		v.DurationMinutes, v.DurationMinutes)
}

const cvInstructions = `**Instructions:**
Provide a concise analysis in JSON format. Be specific and actionable.

{
    "matchScore": [number 0-100],
    "identifiedSkills": [array of skills found in CV],
    "skillsToAdd": [array of 8-12 missing skills relevant to South African job market],
    "recommendations": [
        {
            "section": "summary|skills|experience",
            "title": "Short title",
            "description": "Actionable advice",
            "priority": "high|medium|low"
        }
    ],
    "optimizedSummary": "Professional summary rewritten for South African job market",
    "careerReadinessScore": [number 0-100],
    "improvements": [
        {
            "area": "Specific area to improve",
            "suggestion": "How to improve it",
            "impact": "Expected impact"
        }
    ]
}

**Guidelines:**
- Keep everything SHORT and CLEAR
- identifiedSkills: Only list the 3-5 STRONGEST skills from CV
- skillsToAdd: Only 3-5 HIGH-IMPACT skills that matter most
- recommendations: Max 3-4 items, one sentence each
- optimizedSummary: 2-3 sentences maximum
- Focus on what REALLY matters for SA job market
- Return ONLY valid JSON, no extra text
`

const lessonTemplate = `You are an expert educational content creator. Create comprehensive learning materials for this YouTube video.

REAL VIDEO INFORMATION FROM YOUTUBE API:
- TITLE: %q
- CHANNEL: %q
- DURATION: %d minutes
- URL: %s
- DESCRIPTION: %s
- TAGS: %s

TASK: Generate structured learning content that would be appropriate for this specific video.

Create:
1. VIDEO_TITLE: An educational-focused title that reflects the content
2. SUMMARY: 2-3 paragraph comprehensive overview of what the video likely teaches
3. NOTES: 5-7 key learning points or takeaways
4. QUIZ_QUESTIONS: 5 multiple-choice questions testing understanding
5. FLASHCARDS: 5 educational flashcards for key concepts
6. CATEGORY: Most relevant educational category
7. DURATION: Use actual video duration: %d

GUIDELINES:
- Be realistic and accurate based on the video information
- Create genuinely useful educational content
- Make quiz questions educational and thought-provoking
- Ensure flashcards are helpful for knowledge retention
- Focus on learning value and practical applications
- correct_answer must repeat the exact text of one of the options

RETURN ONLY VALID JSON in this exact format:
{
  "video_title": "Educational Title Based on Video Content",
  "summary": "Comprehensive 2-3 paragraph summary of the educational content...",
  "notes": ["Key learning point 1", "Important concept 2", "Practical takeaway 3", "Critical insight 4", "Useful knowledge 5"],
  "quiz_questions": [
    {
      "question": "Educational multiple-choice question?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct_answer": "Option A"
    }
  ],
  "flashcards": [
    {"front": "Key term or concept", "back": "Clear explanation or definition"}
  ],
  "category": "Most Relevant Category",
  "duration_minutes": %d
}

IMPORTANT: Return ONLY the JSON object, no additional text or markdown.
`
