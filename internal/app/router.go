package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	httpserver "github.com/fairyhunter13/careerboost-api/internal/adapter/httpserver"
	"github.com/fairyhunter13/careerboost-api/internal/adapter/observability"
	"github.com/fairyhunter13/careerboost-api/internal/config"
	"github.com/fairyhunter13/careerboost-api/internal/service/ratelimiter"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming spaces.
// If the input is empty, returns ["*"].
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func wildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// generativeLimiter limits the endpoints that call the generative provider.
// With a redis client the bucket is shared across replicas; otherwise each
// process keeps its own window.
func generativeLimiter(cfg config.Config, rdb redis.UniversalClient) func(http.Handler) http.Handler {
	if cfg.RateLimitPerMin <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if rdb != nil {
		lim := ratelimiter.NewRedisLuaLimiter(rdb, "careerboost:rate:", ratelimiter.NewBucketConfigFromPerMinute(cfg.RateLimitPerMin))
		return httpserver.RateLimit(lim, httprate.KeyByIP)
	}
	return httprate.Limit(cfg.RateLimitPerMin, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(httpserver.TooManyRequests))
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
// rdb may be nil.
func BuildRouter(cfg config.Config, srv *httpserver.Server, rdb redis.UniversalClient) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	if cfg.RequestTimeout > 0 {
		r.Use(httpserver.TimeoutMiddleware(cfg.RequestTimeout))
	}
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	origins := ParseOrigins(cfg.ClientURL)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: !wildcard(origins),
		MaxAge:           300,
	}))

	r.NotFound(httpserver.NotFoundHandler())

	r.Group(func(gr chi.Router) {
		gr.Use(generativeLimiter(cfg, rdb))
		gr.Post("/cv/upload-analyze", srv.UploadAnalyzeHandler())
		gr.Post("/youtube/process", srv.ProcessVideoHandler())
	})

	r.Get("/cv/history", srv.HistoryHandler())
	r.Get("/cv/analysis/{id}", srv.AnalysisHandler())
	r.Get("/youtube/lessons", srv.LessonsHandler())
	r.Get("/youtube/lessons/{id}", srv.LessonHandler())
	r.Delete("/youtube/lessons/{id}", srv.DeleteLessonHandler())
	r.Get("/jobs/search", srv.JobSearchHandler())
	r.Get("/jobs/categories", srv.JobCategoriesHandler())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })
	r.Get("/readyz", srv.ReadyzHandler())

	return httpserver.SecurityHeaders(r)
}
