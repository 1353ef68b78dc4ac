package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheBumpChangesKeys(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "tb", "2025-06-30")
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, "tb", "2025-06-30")
	require.NoError(t, err)
	require.NotEqual(t, before, after, "bump must change the composed key")
}

func TestCacheFetchJSONLoadsOnce(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Total float64 `json:"total"`
	}
	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return payload{Total: 1500}, nil
	}

	var first payload
	require.NoError(t, cache.FetchJSON(ctx, "tb:v1", &first, loader))
	require.Equal(t, 1500.0, first.Total)

	var second payload
	require.NoError(t, cache.FetchJSON(ctx, "tb:v1", &second, loader))
	require.Equal(t, 1500.0, second.Total)
	require.Equal(t, 1, calls, "second fetch must come from the cache")
}

func TestCacheNilClientFallsThrough(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	require.NoError(t, cache.Bump(ctx))
	var out struct {
		N int `json:"n"`
	}
	err := cache.FetchJSON(ctx, "key", &out, func(context.Context) (interface{}, error) {
		return map[string]int{"n": 7}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, out.N)
}
