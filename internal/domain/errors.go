package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedMedia  = errors.New("unsupported media type")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrRateLimited       = errors.New("rate limited")
	ErrUpstream          = errors.New("upstream failure")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrUpstreamNotFound  = errors.New("upstream not found")
	ErrSchemaInvalid     = errors.New("schema invalid")
	ErrInternal          = errors.New("internal error")
)

// UpstreamError describes a failed third-party call. Kind is one of the
// ErrUpstream* sentinels; every UpstreamError also matches ErrUpstream.
type UpstreamError struct {
	Provider   string
	Operation  string
	StatusCode int
	Kind       error
	Message    string
	Err        error
}

// NewUpstreamError builds an UpstreamError, defaulting Kind to ErrUpstream.
func NewUpstreamError(provider, operation string, status int, kind error, msg string, err error) *UpstreamError {
	if kind == nil {
		kind = ErrUpstream
	}
	return &UpstreamError{Provider: provider, Operation: operation, StatusCode: status, Kind: kind, Message: msg, Err: err}
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	if e.Operation != "" {
		b.WriteString(" " + e.Operation)
	}
	b.WriteString(": ")
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	case e.Kind != nil:
		b.WriteString(e.Kind.Error())
	default:
		b.WriteString(ErrUpstream.Error())
	}
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	return b.String()
}

// Is reports true for ErrUpstream so callers can match the whole class.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

func (e *UpstreamError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// ParseError is produced when generative output cannot be turned into a
// valid record. It is always recovered by substituting a fallback.
type ParseError struct {
	Kind   string
	Stage  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %s: %s", e.Kind, e.Stage)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSchemaInvalid, e.Err}
	}
	return []error{ErrSchemaInvalid}
}

// ResourceError wraps cleanup failures. It is logged, never returned to callers.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// FieldError is a single input validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists invalid input fields; it matches ErrInvalidArgument.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

// Invalid is shorthand for a single-field ValidationError.
func Invalid(field, msg string) error {
	return &ValidationError{Message: msg, Fields: []FieldError{{Field: field, Message: msg}}}
}
