package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type fakePage struct {
	IDs []uint `json:"ids"`
}

func TestAside_MissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *fakePage) func() error {
		return func() error {
			fetches++
			dest.IDs = []uint{3, 2, 1}
			return nil
		}
	}

	var first fakePage
	require.NoError(t, Aside(ctx, FeedKey(), &first, FeedTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, []uint{3, 2, 1}, first.IDs)

	var second fakePage
	require.NoError(t, Aside(ctx, FeedKey(), &second, FeedTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read should be served from cache")
	assert.Equal(t, []uint{3, 2, 1}, second.IDs)
}

func TestAside_InvalidateForcesRefetch(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	var page fakePage
	fetch := func() error {
		fetches++
		page.IDs = []uint{1}
		return nil
	}

	require.NoError(t, Aside(ctx, FeedKey(), &page, FeedTTL, fetch))
	InvalidateFeed(ctx)
	require.NoError(t, Aside(ctx, FeedKey(), &page, FeedTTL, fetch))
	assert.Equal(t, 2, fetches)
}

func TestAside_ExpiredKeyRefetches(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	var page fakePage
	fetch := func() error {
		fetches++
		return nil
	}

	require.NoError(t, Aside(ctx, PostKey(7), &page, time.Second, fetch))
	mr.FastForward(2 * time.Second)
	require.NoError(t, Aside(ctx, PostKey(7), &page, time.Second, fetch))
	assert.Equal(t, 2, fetches)
}

func TestHelpers_NilClientAreNoOps(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	found, err := GetJSON(ctx, FeedKey(), &fakePage{})
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, FeedKey(), fakePage{}, FeedTTL))

	// Aside must fall through to fetch when no cache is configured.
	called := false
	assert.NoError(t, Aside(ctx, FeedKey(), &fakePage{}, FeedTTL, func() error {
		called = true
		return nil
	}))
	assert.True(t, called)
}
