package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLimiter(t *testing.T, limit int, window time.Duration) (*miniredis.Miniredis, RateLimiter) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	limiter, err := NewRedisRateLimiter("redis://"+mr.Addr(), limit, window, false)
	require.NoError(t, err)
	return mr, limiter
}

func TestRedisRateLimiter_AllowsUnderLimit(t *testing.T) {
	mr, limiter := setupTestLimiter(t, 5, time.Minute)
	defer mr.Close()
	defer limiter.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}
}

func TestRedisRateLimiter_BlocksOverLimit(t *testing.T) {
	mr, limiter := setupTestLimiter(t, 3, time.Minute)
	defer mr.Close()
	defer limiter.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "10.0.0.2")
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, allowed, "request over the limit should be blocked")
}

func TestRedisRateLimiter_KeysAreIndependent(t *testing.T) {
	mr, limiter := setupTestLimiter(t, 1, time.Minute)
	defer mr.Close()
	defer limiter.Close()

	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "10.0.0.3")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "10.0.0.3")
	require.NoError(t, err)
	assert.False(t, allowed)

	// A different client is unaffected.
	allowed, err = limiter.Allow(ctx, "10.0.0.4")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_WindowSlides(t *testing.T) {
	mr, limiter := setupTestLimiter(t, 1, 100*time.Millisecond)
	defer mr.Close()
	defer limiter.Close()

	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "10.0.0.5")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "10.0.0.5")
	require.NoError(t, err)
	require.False(t, allowed)

	// After the window passes, old entries are pruned.
	time.Sleep(150 * time.Millisecond)
	allowed, err = limiter.Allow(ctx, "10.0.0.5")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_Disabled(t *testing.T) {
	limiter, err := NewRedisRateLimiter("redis://invalid-host:0", 1, time.Minute, true)
	require.NoError(t, err)
	defer limiter.Close()

	for i := 0; i < 10; i++ {
		allowed, err := limiter.Allow(context.Background(), "10.0.0.6")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestRedisRateLimiter_InvalidURL(t *testing.T) {
	_, err := NewRedisRateLimiter("not a url", 1, time.Minute, false)
	assert.Error(t, err)
}

func TestNoOpRateLimiter(t *testing.T) {
	limiter := &NoOpRateLimiter{}
	defer limiter.Close()

	for i := 0; i < 100; i++ {
		allowed, err := limiter.Allow(context.Background(), "any")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}
