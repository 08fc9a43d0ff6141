package cache

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func quietLogger() *log.Logger {
	lg := log.New()
	lg.SetOutput(io.Discard)
	return lg
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, ttl, quietLogger()), mr
}

func TestFetchMissThenHit(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]item, error) {
		calls++
		return []item{{ID: 1, Name: "Squat"}}, nil
	}

	first, err := Fetch(ctx, c, KeyTrainingMenus, load)
	require.NoError(t, err)
	second, err := Fetch(ctx, c, KeyTrainingMenus, load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists(KeyTrainingMenus))
	assert.Equal(t, time.Minute, mr.TTL(KeyTrainingMenus))
}

func TestEvictForcesReload(t *testing.T) {
	c, mr := newTestCache(t, 0)
	ctx := context.Background()

	c.Store(ctx, KeyMealMenus, []item{{ID: 1}})
	require.True(t, mr.Exists(KeyMealMenus))

	c.Evict(ctx, KeyMealMenus, KeyMentorTasks)
	assert.False(t, mr.Exists(KeyMealMenus))

	var got []item
	assert.False(t, c.Load(ctx, KeyMealMenus, &got))
}

func TestLoadIgnoresCorruptEntries(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(KeyMentorTasks, "{not json"))

	var got []item
	assert.False(t, c.Load(context.Background(), KeyMentorTasks, &got))
}

func TestFetchPropagatesLoadError(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	boom := errors.New("boom")

	_, err := Fetch(context.Background(), c, KeyMentorTasks, func(context.Context) ([]item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(KeyMentorTasks))
}

func TestDisabledCacheAlwaysLoads(t *testing.T) {
	c, err := NewFromURL("", time.Minute, quietLogger())
	require.NoError(t, err)
	ctx := context.Background()

	calls := 0
	for i := 0; i < 3; i++ {
		_, err := Fetch(ctx, c, KeyMealMenus, func(context.Context) ([]item, error) {
			calls++
			return nil, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())

	var nilCache *Cache
	assert.False(t, nilCache.Load(ctx, KeyMealMenus, &[]item{}))
	nilCache.Evict(ctx, KeyMealMenus)
}

func TestRedisUnavailableDegradesToLoad(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	c := New(client, time.Minute, quietLogger())

	calls := 0
	items, err := Fetch(context.Background(), c, KeyMealMenus, func(context.Context) ([]item, error) {
		calls++
		return []item{{ID: 7}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, items, 1)
}
