package domain

// Completer sends a fully formed prompt to the generative provider and returns
// the raw text. Implementations never retry.
type Completer interface {
	Complete(ctx Context, prompt string) (string, error)
}

// TextExtractor extracts text from a file at path with provided original filename.
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// VideoProvider resolves a video id into normalized metadata.
type VideoProvider interface {
	Video(ctx Context, id string) (VideoMetadata, error)
}

// JobProvider fetches listings and categories from the job provider.
type JobProvider interface {
	Search(ctx Context, q JobQuery) (JobSearchResult, error)
	Categories(ctx Context) ([]Category, error)
}

// AnalysisRepository stores CV analyses. An empty owner lists every analysis.
type AnalysisRepository interface {
	SaveAnalysis(ctx Context, a AnalysisResult) error
	ListAnalyses(ctx Context, ownerID string) ([]AnalysisResult, error)
	GetAnalysis(ctx Context, id string) (AnalysisResult, error)
}

// LessonRepository stores lessons. Delete reports whether a lesson was removed.
type LessonRepository interface {
	SaveLesson(ctx Context, l Lesson) error
	ListLessons(ctx Context, ownerID string) ([]Lesson, error)
	GetLesson(ctx Context, id string) (Lesson, error)
	DeleteLesson(ctx Context, id string) (bool, error)
}

// HistoryStore combines both repositories; every backend implements it.
type HistoryStore interface {
	AnalysisRepository
	LessonRepository
	Close() error
}
