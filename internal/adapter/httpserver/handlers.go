// Package httpserver contains HTTP handlers and middleware.
//
// It exposes the CV analysis, lesson and job search endpoints plus the
// health and readiness probes. Handlers only translate between HTTP and the
// use cases; every failure is rendered by writeError.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/careerboost-api/internal/config"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/internal/usecase"
)

// CVAnalyzer is the CV analysis use case.
type CVAnalyzer interface {
	Analyze(ctx context.Context, in usecase.AnalyzeInput) (domain.AnalysisResult, error)
	ListHistory(ctx context.Context, ownerID string) ([]domain.AnalysisResult, error)
	Get(ctx context.Context, id string) (domain.AnalysisResult, error)
}

// LessonManager is the video lesson use case.
type LessonManager interface {
	Process(ctx context.Context, in usecase.ProcessInput) (domain.Lesson, error)
	List(ctx context.Context, ownerID string) ([]domain.Lesson, error)
	Get(ctx context.Context, id string) (domain.Lesson, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// JobFinder is the job search use case.
type JobFinder interface {
	Search(ctx context.Context, q domain.JobQuery) (domain.JobPage, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

// ReadinessChecker reports dependency health for /readyz.
type ReadinessChecker interface {
	Check(ctx context.Context) ([]usecase.ReadinessCheck, bool)
}

// Server aggregates handlers dependencies.
type Server struct {
	Cfg       config.Config
	CV        CVAnalyzer
	Lessons   LessonManager
	Jobs      JobFinder
	Readiness ReadinessChecker
}

// NewServer constructs an HTTP server with all use cases wired. jobs may be
// nil when no listings provider is configured.
func NewServer(cfg config.Config, cv CVAnalyzer, lessons LessonManager, jobs JobFinder, ready ReadinessChecker) *Server {
	return &Server{Cfg: cfg, CV: cv, Lessons: lessons, Jobs: jobs, Readiness: ready}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() {
		vld = validator.New()
		vld.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return vld
}

// multipart parts above this size spill to disk
const uploadMemory = 4 << 20

// UploadAnalyzeHandler accepts a multipart CV (field "cv") with an optional
// jobDescription and returns the analysis.
func (s *Server) UploadAnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := s.Cfg.MaxUploadBytes()
		tooLarge := &requestError{kind: domain.ErrPayloadTooLarge, msg: fmt.Sprintf("File too large. Maximum size is %dMB.", s.Cfg.MaxUploadMB)}

		// headroom for the other form fields and multipart framing
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
		if err := r.ParseMultipartForm(uploadMemory); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
				writeError(w, r, tooLarge, map[string]any{"max_mb": s.Cfg.MaxUploadMB})
				return
			}
			writeError(w, r, domain.Invalid("cv", msgNoFile), nil)
			return
		}
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				LoggerFrom(r).Warn("multipart cleanup failed",
					slog.Any("error", &domain.ResourceError{Op: "remove", Path: "multipart", Err: err}))
			}
		}()

		file, header, err := r.FormFile("cv")
		if err != nil {
			writeError(w, r, domain.Invalid("cv", msgNoFile), nil)
			return
		}
		defer func() { _ = file.Close() }()

		if header.Size > maxBytes {
			writeError(w, r, tooLarge, map[string]any{"max_mb": s.Cfg.MaxUploadMB})
			return
		}
		unsupported := &requestError{kind: domain.ErrUnsupportedMedia, msg: msgInvalidType}
		if !allowedExt(header.Filename) {
			writeError(w, r, unsupported, map[string]any{"filename": header.Filename})
			return
		}
		mt, err := mimetype.DetectReader(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.UploadAnalyze: sniff: %w", err), nil)
			return
		}
		if !allowedMIMEFor(mt.String(), header.Filename) {
			writeError(w, r, unsupported, map[string]any{"filename": header.Filename, "mime": mt.String()})
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.UploadAnalyze: rewind: %w", err), nil)
			return
		}

		analysis, err := s.CV.Analyze(r.Context(), usecase.AnalyzeInput{
			FileName:       header.Filename,
			FileSize:       header.Size,
			File:           file,
			JobDescription: SanitizeString(r.FormValue("jobDescription")),
			UserID:         SanitizeString(r.FormValue("userId")),
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "analysis": analysis})
	}
}

// HistoryHandler lists stored analyses as a bare array, newest first.
func (s *Server) HistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.CV.ListHistory(r.Context(), SanitizeString(r.URL.Query().Get("userId")))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if items == nil {
			items = []domain.AnalysisResult{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// AnalysisHandler returns one stored analysis.
func (s *Server) AnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := ValidateID(id); err != nil {
			writeError(w, r, err, nil)
			return
		}
		a, err := s.CV.Get(r.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "NOT_FOUND", "Analysis not found.")
			return
		}
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "analysis": a})
	}
}

type processRequest struct {
	VideoURL string `json:"videoUrl" validate:"required,max=2048"`
	UserID   string `json:"userId" validate:"max=128"`
}

// ProcessVideoHandler builds a lesson from {videoUrl, userId?}.
func (s *Server) ProcessVideoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var req processRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, r, domain.Invalid("body", "Invalid JSON body"), nil)
			return
		}
		req.VideoURL = strings.TrimSpace(req.VideoURL)
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, validationFailure(err), nil)
			return
		}
		lesson, err := s.Lessons.Process(r.Context(), usecase.ProcessInput{VideoURL: req.VideoURL, UserID: req.UserID})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "lesson": lesson})
	}
}

// validationFailure turns validator errors into the domain field list.
// A missing videoUrl keeps its user-facing wording.
func validationFailure(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Invalid("body", err.Error())
	}
	out := &domain.ValidationError{}
	for _, fe := range verrs {
		field := fe.Field()
		msg := fmt.Sprintf("failed %s", fe.Tag())
		if field == "videoUrl" && fe.Tag() == "required" {
			msg = "Video URL is required"
		}
		if out.Message == "" {
			out.Message = msg
		}
		out.Fields = append(out.Fields, domain.FieldError{Field: field, Message: msg})
	}
	return out
}

// LessonsHandler lists lessons, optionally scoped by ?userId=.
func (s *Server) LessonsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessons, err := s.Lessons.List(r.Context(), SanitizeString(r.URL.Query().Get("userId")))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if lessons == nil {
			lessons = []domain.Lesson{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "lessons": lessons})
	}
}

// LessonHandler returns one stored lesson.
func (s *Server) LessonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := ValidateID(id); err != nil {
			writeError(w, r, err, nil)
			return
		}
		l, err := s.Lessons.Get(r.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "NOT_FOUND", msgLessonNotFnd)
			return
		}
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "lesson": l})
	}
}

// DeleteLessonHandler removes a lesson. Deleting an unknown id succeeds.
func (s *Server) DeleteLessonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := ValidateID(id); err != nil {
			writeError(w, r, err, nil)
			return
		}
		removed, err := s.Lessons.Delete(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		LoggerFrom(r).Info("lesson delete", slog.String("lesson_id", id), slog.Bool("removed", removed))
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Lesson deleted successfully"})
	}
}

// JobSearchHandler normalizes the query string and returns one result page.
func (s *Server) JobSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Jobs == nil {
			writeMessage(w, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Job search is not configured")
			return
		}
		q, err := usecase.NormalizeJobQuery(r.URL.Query())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		page, err := s.Jobs.Search(r.Context(), q)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

// JobCategoriesHandler returns the provider's categories as a bare array.
func (s *Server) JobCategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Jobs == nil {
			writeMessage(w, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Job search is not configured")
			return
		}
		cats, err := s.Jobs.Categories(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if cats == nil {
			cats = []domain.Category{}
		}
		writeJSON(w, http.StatusOK, cats)
	}
}

// ReadyzHandler reports 200 when every configured dependency answers, 503 otherwise.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := []usecase.ReadinessCheck{}
		ok := true
		if s.Readiness != nil {
			checks, ok = s.Readiness.Check(r.Context())
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}

// NotFoundHandler answers unknown routes.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
	}
}
