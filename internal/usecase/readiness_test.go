package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadinessService_Check(t *testing.T) {
	t.Parallel()
	svc := ReadinessService{
		Timeout: time.Second,
		Probes: map[string]Probe{
			"tika":  func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("connection refused") },
			"db": func(ctx context.Context) error {
				_, ok := ctx.Deadline()
				assert.True(t, ok)
				return nil
			},
		},
	}
	checks, ok := svc.Check(context.Background())
	assert.False(t, ok)
	assert.Equal(t, []ReadinessCheck{
		{Name: "db", OK: true},
		{Name: "redis", OK: false, Details: "connection refused"},
		{Name: "tika", OK: true},
	}, checks)

	checks, ok = ReadinessService{}.Check(context.Background())
	assert.True(t, ok)
	assert.Empty(t, checks)
}
