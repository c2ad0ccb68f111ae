package ai

import "github.com/fairyhunter13/careerboost-api/internal/domain"

// FallbackAnalysis is the fixed analysis returned when the model's output
// cannot be used. A fresh value is built on each call so callers may mutate it.
func FallbackAnalysis() domain.AnalysisResult {
	return domain.AnalysisResult{
		MatchScore:       45,
		IdentifiedSkills: []string{"Communication", "Teamwork", "Problem Solving"},
		SkillsToAdd: []string{
			"JavaScript", "Python", "SQL", "Excel",
			"Project Management", "Data Analysis", "Digital Marketing", "Customer Service",
		},
		Recommendations: []domain.Recommendation{
			{
				Section:     domain.SectionSummary,
				Title:       "Professional Summary",
				Description: "Strengthen your professional summary to highlight career aspirations and key achievements",
				Priority:    domain.PriorityHigh,
			},
			{
				Section:     domain.SectionSkills,
				Title:       "Technical Skills",
				Description: "Add relevant technical skills for your target industry",
				Priority:    domain.PriorityHigh,
			},
		},
		OptimizedSummary:     "Motivated professional with strong communication and teamwork skills, seeking to contribute to a dynamic organization while developing technical expertise.",
		CareerReadinessScore: 45,
		Improvements: []domain.Improvement{
			{Area: "Professional Summary", Suggestion: "Add quantified achievements and specific career goals", Impact: "Higher recruiter engagement"},
			{Area: "Skills Section", Suggestion: "Include technical skills relevant to your target role", Impact: "Better ATS matching"},
		},
	}
}

// FallbackLessonDraft is the fixed lesson content used when generation fails.
func FallbackLessonDraft() LessonDraft {
	return LessonDraft{
		VideoTitle: "Educational Content",
		Summary:    "This video contains educational material that can help you learn new concepts and skills.",
		Notes: []string{
			"The video covers important topics in its subject area",
			"Key concepts are explained throughout the content",
			"Practical examples and applications are provided",
			"The material is presented in an engaging format",
			"Viewers can gain valuable knowledge from this content",
		},
		QuizQuestions: []domain.QuizQuestion{{
			Question:      "What type of content does this video primarily contain?",
			Options:       []string{"Educational material", "Entertainment", "News reporting", "Commercial content"},
			CorrectAnswer: "Educational material",
		}},
		Flashcards: []domain.Flashcard{{
			Front: "Learning Objective",
			Back:  "The main educational goal of this video content",
		}},
		Category:        "Education",
		DurationMinutes: 15,
	}
}
