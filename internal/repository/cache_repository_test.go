package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRepositoryJSONRoundTrip(t *testing.T) {
	m, cache := newCacheForTest(t)
	ctx := context.Background()

	var got map[string]float64
	assert.ErrorIs(t, cache.GetJSON(ctx, "collector:latest:currency", &got), ErrCacheMiss)

	require.NoError(t, cache.SetJSON(ctx, "collector:latest:currency", map[string]float64{"EUR": 0.93}, time.Minute))
	require.NoError(t, cache.GetJSON(ctx, "collector:latest:currency", &got))
	assert.Equal(t, map[string]float64{"EUR": 0.93}, got)

	m.FastForward(2 * time.Minute)
	assert.ErrorIs(t, cache.GetJSON(ctx, "collector:latest:currency", &got), ErrCacheMiss)
}

func TestCacheRepositoryAcquireLock(t *testing.T) {
	m, cache := newCacheForTest(t)
	ctx := context.Background()

	ok, err := cache.AcquireLock(ctx, "collector:cycle", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.AcquireLock(ctx, "collector:cycle", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must fail while the lock is held")

	require.NoError(t, cache.Delete(ctx, "collector:cycle"))
	ok, err = cache.AcquireLock(ctx, "collector:cycle", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	m.FastForward(2 * time.Minute)
	assert.False(t, m.Exists("collector:cycle"))
}

func TestCacheRepositoryPingFailsWhenServerDown(t *testing.T) {
	m, cache := newCacheForTest(t)
	require.NoError(t, cache.Ping(context.Background()))

	m.Close()
	assert.Error(t, cache.Ping(context.Background()))
}
