package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sidebar struct {
	Tags    []string `json:"tags"`
	Members []string `json:"members"`
}

func withRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = client.Close()
		SetClient(nil)
		mr.Close()
	})
	return mr
}

func TestAside_FetchesOnceThenHits(t *testing.T) {
	withRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *sidebar) func() error {
		return func() error {
			calls++
			dest.Tags = []string{"go", "sql"}
			dest.Members = []string{"alice"}
			return nil
		}
	}

	var first sidebar
	require.NoError(t, Aside(ctx, SidebarKey, &first, time.Minute, fetch(&first)))
	var second sidebar
	require.NoError(t, Aside(ctx, SidebarKey, &second, time.Minute, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestAside_InvalidateForcesRefetch(t *testing.T) {
	withRedis(t)
	ctx := context.Background()

	calls := 0
	var dest sidebar
	fetch := func() error { calls++; return nil }

	require.NoError(t, Aside(ctx, SidebarKey, &dest, time.Minute, fetch))
	InvalidateSidebar(ctx)
	require.NoError(t, Aside(ctx, SidebarKey, &dest, time.Minute, fetch))
	assert.Equal(t, 2, calls)
}

func TestAside_ExpiresAfterTTL(t *testing.T) {
	mr := withRedis(t)
	ctx := context.Background()

	calls := 0
	var dest sidebar
	fetch := func() error { calls++; return nil }

	require.NoError(t, Aside(ctx, SidebarKey, &dest, time.Minute, fetch))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, Aside(ctx, SidebarKey, &dest, time.Minute, fetch))
	assert.Equal(t, 2, calls)
}

func TestAside_WithoutRedisAlwaysFetches(t *testing.T) {
	SetClient(nil)
	calls := 0
	var dest sidebar
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), SidebarKey, &dest, time.Minute, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
}

func TestAside_PropagatesFetchError(t *testing.T) {
	withRedis(t)
	boom := errors.New("db down")
	var dest sidebar
	err := Aside(context.Background(), SidebarKey, &dest, time.Minute, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	found, err := GetJSON(context.Background(), SidebarKey, &dest)
	require.NoError(t, err)
	assert.False(t, found)
}
