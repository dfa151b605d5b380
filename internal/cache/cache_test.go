package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsFixture struct {
	Videos int64 `json:"videos"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = client.Close()
		SetClient(nil)
	})
	return mr
}

func TestAside_FetchesOnceThenServesCache(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()
	key := ChannelStatsKey(uuid.New())

	calls := 0
	fetch := func(dest *statsFixture) func() error {
		return func() error {
			calls++
			dest.Videos = 7
			return nil
		}
	}

	var first statsFixture
	require.NoError(t, Aside(ctx, key, &first, time.Minute, fetch(&first)))
	var second statsFixture
	require.NoError(t, Aside(ctx, key, &second, time.Minute, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(7), second.Videos)
	assert.True(t, mr.Exists(key))

	InvalidateChannelStats(ctx, uuid.Nil)
	Invalidate(ctx, key)
	assert.False(t, mr.Exists(key))
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := withMiniredis(t)
	key := ChannelStatsKey(uuid.New())

	var dest statsFixture
	err := Aside(context.Background(), key, &dest, time.Minute, func() error {
		return errors.New("db down")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists(key))
}

func TestAside_WithoutRedisCallsFetch(t *testing.T) {
	SetClient(nil)

	calls := 0
	var dest statsFixture
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), "channel:stats:x", &dest, time.Minute, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
}

func TestAside_CorruptEntryFallsBackToFetch(t *testing.T) {
	mr := withMiniredis(t)
	key := ChannelStatsKey(uuid.New())
	require.NoError(t, mr.Set(key, "not-json"))

	var dest statsFixture
	require.NoError(t, Aside(context.Background(), key, &dest, time.Minute, func() error {
		dest.Videos = 3
		return nil
	}))
	assert.Equal(t, int64(3), dest.Videos)
}

func TestKeyspace(t *testing.T) {
	assert.Equal(t, "channel:stats", keyspace("channel:stats:abc"))
	assert.Equal(t, "plain", keyspace("plain"))
}

func TestLocker_SerializesWork(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	locker := NewLocker(rdb)
	key := PlaylistLockKey(uuid.New())

	var mu sync.Mutex
	inside, maxInside := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithLock(context.Background(), key, func() error {
				mu.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				mu.Unlock()

				time.Sleep(5 * time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside)
	assert.False(t, mr.Exists(key))
}

func TestLocker_NilClientRunsUnlocked(t *testing.T) {
	ran := false
	err := NewLocker(nil).WithLock(context.Background(), "k", func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestLocker_UnreachableRedisRunsUnlocked(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { _ = rdb.Close() }()
	mr.Close()

	ran := false
	start := time.Now()
	err := NewLocker(rdb).WithLock(context.Background(), PlaylistLockKey(uuid.New()), func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Less(t, time.Since(start), 2*time.Second)

	boom := errors.New("boom")
	err = NewLocker(rdb).WithLock(context.Background(), "k", func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestLocker_CancelledContextSkipsWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := NewLocker(nil).WithLock(ctx, "k", func() error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}
