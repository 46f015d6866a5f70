package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_BurstThenBlock(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewRateLimitStore(time.Minute)
	store.now = func() time.Time { return clock }

	for i := int64(0); i < 3; i++ {
		res, err := store.Allow(ctx, "10.0.0.1:transfers", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i+1)
		assert.Equal(t, 2-i, res.Remaining)
		assert.Equal(t, int64(3), res.Limit)
	}

	res, err := store.Allow(ctx, "10.0.0.1:transfers", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(0), res.Remaining)
	assert.Greater(t, res.ResetAt, clock.Unix())
}

func TestRateLimitStore_Refills(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewRateLimitStore(time.Minute)
	store.now = func() time.Time { return clock }

	for i := 0; i < 2; i++ {
		_, err := store.Allow(ctx, "k", 2, time.Minute)
		require.NoError(t, err)
	}
	res, _ := store.Allow(ctx, "k", 2, time.Minute)
	require.False(t, res.Allowed)

	// One token every 30s.
	clock = clock.Add(31 * time.Second)
	res, err := store.Allow(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRateLimitStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewRateLimitStore(time.Minute)

	res, err := store.Allow(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = store.Allow(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = store.Allow(ctx, "b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
