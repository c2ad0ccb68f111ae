// Package app wires configuration, adapters and use cases into the HTTP
// router and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/careerboost-api/internal/adapter/ai"
	"github.com/fairyhunter13/careerboost-api/internal/adapter/ai/tokencount"
	"github.com/fairyhunter13/careerboost-api/internal/adapter/cache"
	"github.com/fairyhunter13/careerboost-api/internal/adapter/jobs/adzuna"
	"github.com/fairyhunter13/careerboost-api/internal/adapter/textextractor/tika"
	"github.com/fairyhunter13/careerboost-api/internal/adapter/youtube"
	"github.com/fairyhunter13/careerboost-api/internal/config"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
	"github.com/fairyhunter13/careerboost-api/internal/observability"
	"github.com/fairyhunter13/careerboost-api/internal/usecase"
)

// Container holds every wired component. Both binaries build one.
type Container struct {
	Cfg config.Config

	// Redis is nil unless a redis backed component is configured.
	Redis   redis.UniversalClient
	Cache   cache.Store
	History domain.HistoryStore

	Extractor *tika.Client
	Gemini    *ai.GeminiClient
	Videos    *youtube.Client
	Listings  *adzuna.Client

	CV        *usecase.CVAnalysisService
	Lessons   *usecase.LessonService
	Jobs      *usecase.JobService
	Readiness usecase.ReadinessService

	closers []func() error
}

// Build connects to the configured infrastructure and wires the use cases.
// On error everything opened so far is closed.
func Build(ctx context.Context, cfg config.Config) (_ *Container, err error) {
	c := &Container{Cfg: cfg}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	var redisProbe usecase.Probe
	if cfg.UsesRedis() {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("op=app.Build: REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		c.Redis = client
		c.closers = append(c.closers, client.Close)
		redisProbe = RedisPinger(client.Ping)
		if err := WaitFor(ctx, "redis", cfg.StartupTimeout, redisProbe); err != nil {
			return nil, err
		}
	}

	store, closeStore, err := cache.NewStore(cfg, c.Redis)
	if err != nil {
		return nil, fmt.Errorf("op=app.Build: %w", err)
	}
	c.Cache = store
	c.closers = append(c.closers, closeStore)

	history, dbPinger, err := OpenHistory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.History = history
	c.closers = append(c.closers, history.Close)

	guard := func(provider string) *observability.Guard {
		return observability.NewGuard(provider, observability.NewCircuitBreaker(provider, cfg.CircuitMaxFailures, cfg.CircuitOpenFor))
	}

	c.Gemini, err = ai.NewGeminiClient(ctx, cfg, guard("gemini"))
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, c.Gemini.Close)

	classifier, err := youtube.LoadClassifier(cfg.CategoryRulesFile)
	if err != nil {
		return nil, err
	}
	c.Videos, err = youtube.NewClient(ctx, cfg, guard("youtube"), classifier)
	if err != nil {
		return nil, err
	}

	c.Extractor = tika.New(cfg.TikaURL, cfg.TikaTimeout, guard("tika"))
	c.Listings = adzuna.New(cfg, guard("adzuna"))
	if !cfg.AdzunaEnabled() {
		slog.Warn("ADZUNA_APP_ID/ADZUNA_APP_KEY not set; job search calls will fail")
	}

	prompts := ai.NewPromptBuilder(tokencount.NewCounter(""), cfg.PromptMaxTokens)
	c.CV = usecase.NewCVAnalysisService(c.Extractor, c.Gemini, history, prompts, store, cfg.AnalysisCacheTTL, cfg.CacheDedup, cfg.MinCVTextChars)
	c.Lessons = usecase.NewLessonService(c.Videos, c.Gemini, history, prompts, store, cfg.LessonCacheTTL, cfg.CacheDedup)
	c.Jobs = usecase.NewJobService(c.Listings, store, cfg.JobsCacheTTL, cfg.CacheDedup)

	var tikaPinger Pinger
	if cfg.TikaURL != "" {
		tikaPinger = c.Extractor
	}
	c.Readiness = usecase.ReadinessService{
		Probes:  BuildReadinessProbes(redisProbe, dbPinger, tikaPinger),
		Timeout: readinessTimeout,
	}
	return c, nil
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
