package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/internal/observability"
)

func Test_writeError_Mapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", domain.Invalid("videoUrl", "Invalid YouTube URL"), http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid YouTube URL"},
		{"bare invalid", fmt.Errorf("op=x: %w", domain.ErrInvalidArgument), http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid request"},
		{"too large", &requestError{kind: domain.ErrPayloadTooLarge, msg: "File too large. Maximum size is 10MB."}, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "File too large. Maximum size is 10MB."},
		{"media", &requestError{kind: domain.ErrUnsupportedMedia, msg: msgInvalidType}, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", msgInvalidType},
		{"notfound", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "Not found"},
		{"rate", domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please try again later"},
		{"upstream timeout", domain.NewUpstreamError("adzuna", "search", 0, domain.ErrUpstreamTimeout, "request timed out after 30s", nil), http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", "request timed out after 30s"},
		{"upstream quota", domain.NewUpstreamError("youtube", "videos.list", 403, domain.ErrUpstreamRateLimit, "YouTube API quota exceeded", nil), http.StatusServiceUnavailable, "UPSTREAM_RATE_LIMIT", "YouTube API quota exceeded"},
		{"upstream not found", domain.NewUpstreamError("youtube", "videos.list", 404, domain.ErrUpstreamNotFound, "Video not found", nil), http.StatusNotFound, "UPSTREAM_NOT_FOUND", "Video not found"},
		{"upstream other", domain.NewUpstreamError("tika", "extract", 500, nil, "", nil), http.StatusBadGateway, "UPSTREAM_ERROR", "Upstream request failed"},
		{"circuit open", domain.NewUpstreamError("adzuna", "search", 0, domain.ErrUpstream, "service temporarily unavailable, please try again shortly", observability.ErrCircuitOpen), http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "service temporarily unavailable, please try again shortly"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "INTERNAL", "Internal server error"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			rw := httptest.NewRecorder()
			writeError(rw, r, c.err, nil)
			require.Equal(t, c.wantStatus, rw.Code)
			var e errorEnvelope
			require.NoError(t, json.NewDecoder(rw.Body).Decode(&e))
			assert.False(t, e.Success)
			assert.Equal(t, c.wantCode, e.Code)
			assert.Equal(t, c.wantMsg, e.Error)
		})
	}
}

func Test_writeError_ValidationDetails(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rw := httptest.NewRecorder()
	writeError(rw, r, domain.Invalid("page", "page must be a positive integer"), nil)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rw.Body).Decode(&body))
	details, ok := body["details"].([]any)
	require.True(t, ok, "details should list the invalid fields")
	require.Len(t, details, 1)
	assert.Equal(t, "page", details[0].(map[string]any)["field"])
}

func Test_writeError_InternalHidesCause(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rw := httptest.NewRecorder()
	writeError(rw, r, errors.New("pq: password authentication failed"), nil)
	assert.NotContains(t, rw.Body.String(), "password")
}
