package ai

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	obs "github.com/fairyhunter13/careerboost-api/internal/adapter/observability"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/internal/observability"
)

// Fallback reasons besides the parse stages.
const (
	ReasonUpstream = "upstream"
)

// Parse stages, reported as the fallback reason.
const (
	StageExtract  = "extract"
	StageSyntax   = "syntax"
	StageSchema   = "schema"
	StageDecode   = "decode"
	StageSemantic = "semantic"
)

// Outcome tells the caller whether it received the model's record or a
// fallback, and why.
type Outcome struct {
	Degraded bool
	Reason   string
}

// Parser turns raw model text into a validated T. It never fails: any
// problem yields the fallback record and a degraded Outcome.
type Parser[T any] struct {
	kind      string
	schema    *gojsonschema.Schema
	validate  *validator.Validate
	normalize func(*T)
	fallback  func() T
}

// Parse runs extract, syntax repair, structural schema check, decode,
// normalization and semantic validation, in that order.
func (p *Parser[T]) Parse(ctx context.Context, raw string) (T, Outcome) {
	v, err := p.decode(raw)
	if err != nil {
		return p.Fallback(ctx, err)
	}
	return v, Outcome{}
}

// Fallback returns the fallback record for cause, which is either a
// *domain.ParseError or a completion failure.
func (p *Parser[T]) Fallback(ctx context.Context, cause error) (T, Outcome) {
	reason := ReasonUpstream
	var pe *domain.ParseError
	if errors.As(cause, &pe) {
		reason = pe.Stage
	}
	obs.RecordFallback(p.kind, reason)
	observability.LoggerFromContext(ctx).Warn("generative output replaced by fallback",
		slog.String("kind", p.kind),
		slog.String("reason", reason),
		slog.Any("error", cause))
	return p.fallback(), Outcome{Degraded: true, Reason: reason}
}

func (p *Parser[T]) decode(raw string) (T, error) {
	var zero T
	obj, err := ExtractJSONObject(raw)
	if err != nil {
		return zero, p.fail(StageExtract, err.Error(), err)
	}

	if !json.Valid([]byte(obj)) {
		repaired := RepairTrailingCommas(obj)
		var probe any
		if err := json.Unmarshal([]byte(repaired), &probe); err != nil {
			return zero, p.fail(StageSyntax, err.Error(), err)
		}
		obj = repaired
	}

	res, err := p.schema.Validate(gojsonschema.NewStringLoader(obj))
	if err != nil {
		return zero, p.fail(StageSchema, err.Error(), err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return zero, p.fail(StageSchema, strings.Join(msgs, "; "), nil)
	}

	var v T
	if err := json.Unmarshal([]byte(obj), &v); err != nil {
		return zero, p.fail(StageDecode, err.Error(), err)
	}
	if p.normalize != nil {
		p.normalize(&v)
	}
	if err := p.validate.Struct(v); err != nil {
		return zero, p.fail(StageSemantic, err.Error(), err)
	}
	return v, nil
}

func (p *Parser[T]) fail(stage, reason string, err error) error {
	return &domain.ParseError{Kind: p.kind, Stage: stage, Reason: reason, Err: err}
}

// NewAnalysisParser parses CV analysis output.
func NewAnalysisParser() *Parser[domain.AnalysisResult] {
	return &Parser[domain.AnalysisResult]{
		kind:      "analysis",
		schema:    analysisSchema,
		validate:  recordValidator,
		normalize: normalizeAnalysis,
		fallback:  FallbackAnalysis,
	}
}

// NewLessonParser parses lesson output into a draft awaiting assembly.
func NewLessonParser() *Parser[LessonDraft] {
	return &Parser[LessonDraft]{
		kind:      "lesson",
		schema:    lessonSchema,
		validate:  recordValidator,
		normalize: normalizeLessonDraft,
		fallback:  FallbackLessonDraft,
	}
}

var (
	analysisSchema = mustSchema("analysis.json")
	lessonSchema   = mustSchema("lesson.json")
)
