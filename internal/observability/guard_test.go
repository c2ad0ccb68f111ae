package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/careerboost-api/internal/domain"
)

func TestGuard_Success(t *testing.T) {
	g := NewGuard("youtube", NewCircuitBreaker("youtube", 2, time.Minute))
	called := false
	err := g.Do(context.Background(), "videos.list", time.Second, func(ctx context.Context) error {
		called = true
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "youtube", g.Provider())
}

func TestGuard_TimeoutMapsToUpstreamTimeout(t *testing.T) {
	g := NewGuard("gemini", nil)
	err := g.Do(context.Background(), "generate", 20*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamTimeout)
	assert.ErrorIs(t, err, domain.ErrUpstream)

	var ue *domain.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "gemini", ue.Provider)
	assert.Equal(t, "generate", ue.Operation)
}

func TestGuard_PassesUpstreamErrorThrough(t *testing.T) {
	g := NewGuard("youtube", nil)
	want := domain.NewUpstreamError("youtube", "videos.list", 403, domain.ErrUpstreamRateLimit,
		"YouTube API quota exceeded. Please try again later.", nil)
	err := g.Do(context.Background(), "videos.list", time.Second, func(context.Context) error { return want })
	assert.Same(t, want, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamRateLimit)
}

func TestGuard_WrapsPlainErrors(t *testing.T) {
	g := NewGuard("adzuna", nil)
	boom := errors.New("connection reset")
	err := g.Do(context.Background(), "search", 0, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "adzuna search: connection reset")
}

func TestGuard_BreakerOpensAndRejects(t *testing.T) {
	cb := NewCircuitBreaker("adzuna", 2, time.Minute)
	g := NewGuard("adzuna", cb)
	fail := func(context.Context) error { return errors.New("502") }

	_ = g.Do(context.Background(), "search", 0, fail)
	_ = g.Do(context.Background(), "search", 0, fail)
	require.Equal(t, StateOpen, cb.State())

	called := false
	err := g.Do(context.Background(), "search", 0, func(context.Context) error {
		called = true
		return nil
	})
	assert.False(t, called)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestGuard_NotFoundDoesNotTripBreaker(t *testing.T) {
	cb := NewCircuitBreaker("youtube", 1, time.Minute)
	g := NewGuard("youtube", cb)
	notFound := domain.NewUpstreamError("youtube", "videos.list", 404, domain.ErrUpstreamNotFound,
		"Video not found. Please check the YouTube URL.", nil)

	for i := 0; i < 3; i++ {
		err := g.Do(context.Background(), "videos.list", 0, func(context.Context) error { return notFound })
		assert.ErrorIs(t, err, domain.ErrUpstreamNotFound)
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestGuard_CallerCancellationIsNotAProviderFailure(t *testing.T) {
	cb := NewCircuitBreaker("gemini", 1, time.Minute)
	g := NewGuard("gemini", cb)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Do(ctx, "generate", time.Second, func(ctx context.Context) error { return ctx.Err() })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
}
