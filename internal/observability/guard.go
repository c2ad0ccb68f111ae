package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	obs "github.com/fairyhunter13/careerboost-api/internal/adapter/observability"
	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

// ErrCircuitOpen is wrapped by the UpstreamError returned while a provider's
// breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit open")

// Guard wraps every call to one provider with a per-call timeout, a circuit
// breaker, upstream metrics and structured logs. Errors leave Do as
// *domain.UpstreamError.
type Guard struct {
	provider string
	breaker  *CircuitBreaker
	now      func() time.Time
}

// NewGuard builds a Guard for provider. A nil breaker disables breaking.
func NewGuard(provider string, breaker *CircuitBreaker) *Guard {
	return &Guard{provider: provider, breaker: breaker, now: time.Now}
}

// Provider returns the provider label used in metrics and errors.
func (g *Guard) Provider() string { return g.provider }

// Breaker exposes the underlying breaker for readiness reporting.
func (g *Guard) Breaker() *CircuitBreaker { return g.breaker }

// Do runs fn under timeout (none when timeout <= 0).
func (g *Guard) Do(ctx context.Context, operation string, timeout time.Duration, fn func(context.Context) error) error {
	lg := LoggerFromContext(ctx).With(
		slog.String("provider", g.provider),
		slog.String("operation", operation),
	)

	if !g.breaker.Allow() {
		obs.RecordUpstream(g.provider, operation, "circuit_open", 0)
		lg.Warn("upstream call rejected by circuit breaker")
		return domain.NewUpstreamError(g.provider, operation, 0, domain.ErrUpstream,
			"service temporarily unavailable, please try again shortly", ErrCircuitOpen)
	}

	callCtx := ctx
	cancel := func() {}
	if timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	start := g.now()
	err := fn(callCtx)
	elapsed := g.now().Sub(start)

	if err == nil {
		g.breaker.RecordSuccess()
		obs.RecordUpstream(g.provider, operation, "success", elapsed)
		lg.Debug("upstream call completed", slog.Duration("duration", elapsed))
		return nil
	}

	uerr := g.classify(ctx, callCtx, operation, timeout, err)
	switch {
	case errors.Is(uerr, domain.ErrUpstreamNotFound):
		// the provider answered; a missing resource says nothing about its health
		g.breaker.RecordSuccess()
	case ctx.Err() != nil:
		// caller gave up, not the provider's fault
	default:
		g.breaker.RecordFailure()
	}

	outcome := outcomeOf(uerr)
	obs.RecordUpstream(g.provider, operation, outcome, elapsed)
	lg.Warn("upstream call failed",
		slog.String("outcome", outcome),
		slog.Int("status", uerr.StatusCode),
		slog.Duration("duration", elapsed),
		slog.Any("error", err))
	return uerr
}

func (g *Guard) classify(parent, callCtx context.Context, operation string, timeout time.Duration, err error) *domain.UpstreamError {
	if parent.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return domain.NewUpstreamError(g.provider, operation, 0, domain.ErrUpstreamTimeout,
			fmt.Sprintf("request timed out after %s", timeout), err)
	}
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		return ue
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewUpstreamError(g.provider, operation, 0, domain.ErrUpstreamTimeout, "request timed out", err)
	}
	return domain.NewUpstreamError(g.provider, operation, 0, domain.ErrUpstream, "", err)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrUpstreamRateLimit):
		return "rate_limited"
	case errors.Is(err, domain.ErrUpstreamNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
