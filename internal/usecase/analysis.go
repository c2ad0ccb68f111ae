package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fairyhunter13/careerboost-api/internal/adapter/ai"
	"github.com/fairyhunter13/careerboost-api/internal/adapter/cache"
	obs "github.com/fairyhunter13/careerboost-api/internal/adapter/observability"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/internal/observability"
)

// MsgInsufficientText is returned when extraction yields too little text.
const MsgInsufficientText = "Could not extract sufficient text from the CV. Please ensure the file is readable and contains text."

// AnalyzeInput is one uploaded CV.
type AnalyzeInput struct {
	FileName       string
	FileSize       int64
	File           io.Reader
	JobDescription string
	UserID         string
}

// CVAnalysisService runs the upload pipeline: spool, extract, prompt,
// complete, parse (or fall back), stamp, record.
type CVAnalysisService struct {
	Extractor domain.TextExtractor
	Completer domain.Completer
	History   domain.AnalysisRepository
	Prompts   *ai.PromptBuilder
	Parser    *ai.Parser[domain.AnalysisResult]

	// MinTextChars is the extracted-text floor, in runes.
	MinTextChars int
	// TempDir receives the spooled upload; empty means os.TempDir.
	TempDir string
	Now     func() time.Time

	results *cache.Loader[domain.AnalysisResult]
}

// NewCVAnalysisService wires the pipeline. A nil store disables caching of
// model output.
func NewCVAnalysisService(ex domain.TextExtractor, c domain.Completer, history domain.AnalysisRepository, prompts *ai.PromptBuilder, store cache.Store, ttl time.Duration, dedup bool, minChars int) *CVAnalysisService {
	s := &CVAnalysisService{
		Extractor:    ex,
		Completer:    c,
		History:      history,
		Prompts:      prompts,
		Parser:       ai.NewAnalysisParser(),
		MinTextChars: minChars,
		Now:          time.Now,
	}
	if store != nil {
		s.results = cache.NewLoader(cache.NewTyped[domain.AnalysisResult](store, "analysis", ttl), dedup)
	}
	return s
}

type analysisKey struct {
	Text           string `json:"text"`
	JobDescription string `json:"jobDescription"`
}

// Analyze returns an analysis for the uploaded CV. Generative failures never
// surface: the result is the fallback analysis flagged as degraded. The
// spooled file is removed before returning.
func (s *CVAnalysisService) Analyze(ctx context.Context, in AnalyzeInput) (domain.AnalysisResult, error) {
	lg := observability.LoggerFromContext(ctx)

	path, err := s.spool(in)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("op=usecase.Analyze: %w", err)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			lg.Warn("temp file cleanup failed", slog.Any("error", &domain.ResourceError{Op: "remove", Path: path, Err: rmErr}))
		}
	}()

	text, err := s.Extractor.ExtractPath(ctx, in.FileName, path)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("op=usecase.Analyze: %w", err)
	}
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < s.MinTextChars {
		return domain.AnalysisResult{}, &domain.ValidationError{
			Message: MsgInsufficientText,
			Fields:  []domain.FieldError{{Field: "cv", Message: MsgInsufficientText}},
		}
	}
	jd := strings.TrimSpace(in.JobDescription)

	draft, err := getOrLoad(ctx, s.results, analysisKey{Text: text, JobDescription: jd}, func(ctx context.Context) (domain.AnalysisResult, bool, error) {
		a, o := s.generate(ctx, text, jd)
		a.Degraded, a.DegradedReason = o.Degraded, o.Reason
		return a, !o.Degraded, nil
	})
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("op=usecase.Analyze: %w", err)
	}

	outcome := ai.Outcome{Degraded: draft.Degraded, Reason: draft.DegradedReason}
	result := ai.StampAnalysis(draft, ai.AnalysisStamp{
		FileName:               in.FileName,
		FileSize:               in.FileSize,
		UserID:                 in.UserID,
		JobDescriptionProvided: jd != "",
	}, outcome, s.Now())
	if !result.Degraded {
		obs.ObserveMatchScore(int(result.MatchScore))
	}

	if s.History != nil {
		if err := s.History.SaveAnalysis(ctx, result); err != nil {
			lg.Error("saving analysis to history failed", slog.String("analysis_id", result.ID), slog.Any("error", err))
		}
	}
	lg.Info("cv analyzed",
		slog.String("analysis_id", result.ID),
		slog.Int("match_score", int(result.MatchScore)),
		slog.Bool("degraded", result.Degraded))
	return result, nil
}

func (s *CVAnalysisService) generate(ctx context.Context, text, jd string) (domain.AnalysisResult, ai.Outcome) {
	raw, err := s.Completer.Complete(ctx, s.Prompts.CVAnalysis(text, jd))
	if err != nil {
		return s.Parser.Fallback(ctx, err)
	}
	return s.Parser.Parse(ctx, raw)
}

func (s *CVAnalysisService) spool(in AnalyzeInput) (string, error) {
	if in.File == nil {
		return "", domain.Invalid("cv", "No file uploaded")
	}
	f, err := os.CreateTemp(s.TempDir, "cv-*"+strings.ToLower(filepath.Ext(in.FileName)))
	if err != nil {
		return "", err
	}
	_, err = io.Copy(f, in.File)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// ListHistory lists stored analyses, newest first.
func (s *CVAnalysisService) ListHistory(ctx context.Context, ownerID string) ([]domain.AnalysisResult, error) {
	if s.History == nil {
		return []domain.AnalysisResult{}, nil
	}
	out, err := s.History.ListAnalyses(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("op=usecase.ListHistory: %w", err)
	}
	return out, nil
}

// Get loads one stored analysis.
func (s *CVAnalysisService) Get(ctx context.Context, id string) (domain.AnalysisResult, error) {
	if s.History == nil {
		return domain.AnalysisResult{}, fmt.Errorf("op=usecase.GetAnalysis: %w", domain.ErrNotFound)
	}
	a, err := s.History.GetAnalysis(ctx, id)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("op=usecase.GetAnalysis: %w", err)
	}
	return a, nil
}
