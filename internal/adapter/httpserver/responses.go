package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/internal/observability"
)

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// requestError is an HTTP-level rejection that never reaches a use case,
// such as an oversized body or a disallowed file type.
type requestError struct {
	kind error
	msg  string
}

func (e *requestError) Error() string { return e.msg }
func (e *requestError) Unwrap() error { return e.kind }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorMapping struct {
	status  int
	code    string
	message string
}

// classify maps an error to status, code and the message shown to callers.
// Order matters: upstream kinds are checked before the generic not-found.
func classify(err error) errorMapping {
	var (
		ve  *domain.ValidationError
		ue  *domain.UpstreamError
		re  *requestError
		msg string
	)
	switch {
	case errors.As(err, &ve):
		msg = ve.Error()
	case errors.As(err, &re):
		msg = re.msg
	case errors.As(err, &ue):
		msg = ue.Message
	}

	m := errorMapping{status: http.StatusInternalServerError, code: "INTERNAL", message: "Internal server error"}
	switch {
	case errors.Is(err, domain.ErrUnsupportedMedia):
		m = errorMapping{http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Unsupported media type"}
	case errors.Is(err, domain.ErrPayloadTooLarge):
		m = errorMapping{http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Payload too large"}
	case errors.Is(err, domain.ErrInvalidArgument):
		m = errorMapping{http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid request"}
	case errors.Is(err, domain.ErrRateLimited):
		m = errorMapping{http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please try again later"}
	case errors.Is(err, observability.ErrCircuitOpen):
		m = errorMapping{http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Service temporarily unavailable"}
	case errors.Is(err, domain.ErrUpstreamTimeout):
		m = errorMapping{http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", "Upstream request timed out"}
	case errors.Is(err, domain.ErrUpstreamRateLimit):
		m = errorMapping{http.StatusServiceUnavailable, "UPSTREAM_RATE_LIMIT", "Upstream quota exceeded"}
	case errors.Is(err, domain.ErrUpstreamNotFound):
		m = errorMapping{http.StatusNotFound, "UPSTREAM_NOT_FOUND", "Resource not found"}
	case errors.Is(err, domain.ErrUpstream):
		m = errorMapping{http.StatusBadGateway, "UPSTREAM_ERROR", "Upstream request failed"}
	case errors.Is(err, domain.ErrNotFound):
		m = errorMapping{http.StatusNotFound, "NOT_FOUND", "Not found"}
	}
	if msg != "" && m.code != "INTERNAL" {
		m.message = msg
	}
	return m
}

// writeError renders err in the failure envelope. Server-side failures are
// logged with the request logger; client errors are left to the access log.
func writeError(w http.ResponseWriter, r *http.Request, err error, details any) {
	m := classify(err)
	if m.status >= http.StatusInternalServerError {
		LoggerFrom(r).Error("request failed",
			slog.Int("status", m.status),
			slog.String("code", m.code),
			slog.Any("error", err))
	}
	if details == nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) && len(ve.Fields) > 0 {
			details = ve.Fields
		}
	}
	writeJSON(w, m.status, errorEnvelope{Success: false, Error: m.message, Code: m.code, Details: details})
}

// writeMessage renders a failure envelope with a fixed status and message.
func writeMessage(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorEnvelope{Success: false, Error: msg, Code: code})
}
