package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/careerboost-api/internal/usecase"
)

const readinessTimeout = 2 * time.Second

// Pinger is the minimal interface for a dependency capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// RedisPingResult is the minimal return type of a Redis client's Ping.
type RedisPingResult interface{ Err() error }

// RedisPinger adapts a redis client Ping (which returns a command) to a probe.
func RedisPinger[R RedisPingResult](ping func(ctx context.Context) R) usecase.Probe {
	return func(ctx context.Context) error { return ping(ctx).Err() }
}

// BuildReadinessProbes returns the probes for the configured dependencies.
// A nil dependency is not configured and gets no probe.
func BuildReadinessProbes(redis usecase.Probe, db Pinger, tika Pinger) map[string]usecase.Probe {
	probes := map[string]usecase.Probe{}
	if redis != nil {
		probes["redis"] = redis
	}
	if db != nil {
		probes["db"] = db.Ping
	}
	if tika != nil {
		probes["tika"] = tika.Ping
	}
	return probes
}

// WaitFor retries probe with exponential backoff until it succeeds or
// maxElapsed passes. Used at startup so a slow database does not crash the
// process. maxElapsed <= 0 means a single attempt.
func WaitFor(ctx context.Context, name string, maxElapsed time.Duration, probe usecase.Probe) error {
	var b backoff.BackOff = &backoff.StopBackOff{}
	if maxElapsed > 0 {
		expo := backoff.NewExponentialBackOff()
		expo.InitialInterval = 200 * time.Millisecond
		expo.MaxInterval = 5 * time.Second
		expo.MaxElapsedTime = maxElapsed
		b = expo
	}

	attempt := 0
	op := func() error {
		attempt++
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return probe(pctx)
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("op=app.WaitFor: %s unreachable after %d attempts: %w", name, attempt, err)
	}
	return nil
}
