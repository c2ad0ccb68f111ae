package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(HTTPMetricsMiddleware)
	r.Get("/youtube/lessons/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/youtube/lessons/{id}", http.MethodGet, "No Content"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/youtube/lessons/abc", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/youtube/lessons/{id}", http.MethodGet, "No Content"))
	assert.Equal(t, before+1, after)
}

func TestHTTPMetricsMiddleware_WithoutRouter(t *testing.T) {
	rec := httptest.NewRecorder()
	mw := HTTPMetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) }))
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRecordHelpers(t *testing.T) {
	InitMetrics()
	InitMetrics()

	RecordUpstream("adzuna", "search", "success", 120*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("adzuna", "search", "success")), 1.0)

	RecordCacheLookup("jobs", "hit")
	assert.GreaterOrEqual(t, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("jobs", "hit")), 1.0)

	RecordFallback("lesson", "schema")
	assert.GreaterOrEqual(t, testutil.ToFloat64(AIFallbacksTotal.WithLabelValues("lesson", "schema")), 1.0)

	ObserveMatchScore(72)
	ObserveMatchScore(140)
}
