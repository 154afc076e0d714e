//go:build integration

package redisx_test

import (
	"context"
	"testing"

	"github.com/ariefcatur/go-bookstore/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb := redisx.New(endpoint)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, redisx.Ping(ctx, rdb))
	return rdb
}

func TestRedis_Integration(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	t.Run("idempotency first response wins", func(t *testing.T) {
		store := redisx.NewIdempotencyStore(rdb)

		_, ok, err := store.Lookup(ctx, 1, "k1")
		require.NoError(t, err)
		assert.False(t, ok)

		first := redisx.StoredResponse{Status: 200, ContentType: "application/json", Body: []byte(`{"code":"200"}`)}
		require.NoError(t, store.Save(ctx, 1, "k1", first))
		require.NoError(t, store.Save(ctx, 1, "k1", redisx.StoredResponse{Status: 500}))

		got, ok, err := store.Lookup(ctx, 1, "k1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, first, got)

		_, ok, err = store.Lookup(ctx, 2, "k1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("dedup", func(t *testing.T) {
		d := redisx.NewDedup(rdb, "auditor")

		first, err := d.Mark(ctx, "e-1")
		require.NoError(t, err)
		assert.True(t, first)

		again, err := d.Mark(ctx, "e-1")
		require.NoError(t, err)
		assert.False(t, again)

		require.NoError(t, d.Forget(ctx, "e-1"))
		first, err = d.Mark(ctx, "e-1")
		require.NoError(t, err)
		assert.True(t, first)

		n, err := rdb.Exists(ctx, redisx.DedupKey("auditor", "e-1")).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}
