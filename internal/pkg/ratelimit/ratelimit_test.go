package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int64, window time.Duration) (*FixedWindow, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewFixedWindow(client, limit, window), mr
}

func TestFixedWindow_Allow(t *testing.T) {
	lim, _ := newTestLimiter(t, 3, time.Hour)
	ctx := context.Background()

	for i := range 3 {
		ok, err := lim.Allow(ctx, "otp:user@example.com")
		require.NoError(t, err)
		assert.True(t, ok, "hit %d should be allowed", i+1)
	}

	ok, err := lim.Allow(ctx, "otp:user@example.com")
	require.NoError(t, err)
	assert.False(t, ok, "fourth hit must be rejected")
}

func TestFixedWindow_Allow_KeysIsolated(t *testing.T) {
	lim, _ := newTestLimiter(t, 1, time.Hour)
	ctx := context.Background()

	ok, err := lim.Allow(ctx, "otp:a@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lim.Allow(ctx, "otp:b@example.com")
	require.NoError(t, err)
	assert.True(t, ok, "a different key has its own window")
}

func TestFixedWindow_Allow_WindowResets(t *testing.T) {
	lim, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, err := lim.Allow(ctx, "otp:user@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lim.Allow(ctx, "otp:user@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(time.Minute + time.Second)

	ok, err = lim.Allow(ctx, "otp:user@example.com")
	require.NoError(t, err)
	assert.True(t, ok, "counter expires with the window")
}

func TestFixedWindow_Allow_RedisDown(t *testing.T) {
	lim, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	ok, err := lim.Allow(context.Background(), "otp:user@example.com")
	assert.Error(t, err)
	assert.False(t, ok)
}
