package middleware

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	ri "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CommunitySpaces/storage/redis"
)

func TestAppendViewed(t *testing.T) {
	next, first := appendViewed("", "101")
	assert.True(t, first)
	assert.Equal(t, "101", next)

	next, first = appendViewed(next, "102")
	assert.True(t, first)
	assert.Equal(t, "101,102", next)

	again, first := appendViewed(next, "101")
	assert.False(t, first)
	assert.Equal(t, next, again)
}

func TestAppendViewed_KeepsMostRecent(t *testing.T) {
	var viewed string
	for i := 0; i < maxViewedProjects+5; i++ {
		viewed, _ = appendViewed(viewed, strconv.Itoa(i))
	}

	ids := strings.Split(viewed, ",")
	require.Len(t, ids, maxViewedProjects)
	assert.Equal(t, "5", ids[0])
	assert.Equal(t, strconv.Itoa(maxViewedProjects+4), ids[len(ids)-1])
}

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	client := ri.NewClient(&ri.Options{Addr: mr.Addr()})
	redis.SetClient(client)
	t.Cleanup(func() { _ = client.Close() })
	return mr
}

func steppingClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	limiter := NewRateLimiter(RateLimitConfig{Window: 60, MaxRequests: 3, KeyPrefix: "test:rate", BlockDuration: 30})
	limiter.now = steppingClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))

	for i := 1; i <= 3; i++ {
		allowed, count, err := limiter.Allow(ctx, "ip:10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, i, count)
	}

	allowed, count, err := limiter.Allow(ctx, "ip:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 4, count)

	// 其他来源不受影响
	allowed, _, err = limiter.Allow(ctx, "ip:10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(RateLimitConfig{Window: 1, MaxRequests: 1, KeyPrefix: "test:slide"})
	limiter.now = func() time.Time { return now }

	allowed, _, err := limiter.Allow(ctx, "global")
	require.NoError(t, err)
	assert.True(t, allowed)

	now = now.Add(2 * time.Second)
	allowed, count, err := limiter.Allow(ctx, "global")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, count)
}

func TestRateLimiter_Block(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	limiter := NewRateLimiter(OnboardingStartRateLimitConfig)

	blocked, err := limiter.IsBlocked(ctx, "ip:10.0.0.9")
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, limiter.Block(ctx, "ip:10.0.0.9"))
	blocked, err = limiter.IsBlocked(ctx, "ip:10.0.0.9")
	require.NoError(t, err)
	assert.True(t, blocked)

	mr.FastForward(time.Duration(OnboardingStartRateLimitConfig.BlockDuration+1) * time.Second)
	blocked, err = limiter.IsBlocked(ctx, "ip:10.0.0.9")
	require.NoError(t, err)
	assert.False(t, blocked)
}
