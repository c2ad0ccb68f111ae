//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fairyhunter13/careerboost-api/internal/adapter/cache"
)

func TestRedis_AgainstServer(t *testing.T) {
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379")
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { _ = rdb.Close() })
	require.Eventually(t, func() bool { return rdb.Ping(ctx).Err() == nil }, 30*time.Second, time.Second)

	store := cache.NewRedis(rdb, "it:")
	require.NoError(t, store.Set(ctx, "jobs:abc", []byte(`{"count":1}`), time.Second))

	got, ok, err := store.Get(ctx, "jobs:abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"count":1}`, string(got))

	require.Eventually(t, func() bool {
		_, ok, err := store.Get(ctx, "jobs:abc")
		return err == nil && !ok
	}, 5*time.Second, 200*time.Millisecond, "entry should expire with its TTL")
}
