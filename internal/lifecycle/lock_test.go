package lifecycle

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMutualExclusion(t *testing.T, locker Locker) {
	t.Helper()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "refresh:1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInside))
}

func TestMemoryLockerSerializesSameKey(t *testing.T) {
	locker := NewMemoryLocker()
	assertMutualExclusion(t, locker)
	assert.Empty(t, locker.locks)
}

func TestMemoryLockerIndependentKeys(t *testing.T) {
	locker := NewMemoryLocker()

	unlockA, err := locker.Lock(context.Background(), "refresh:1")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := locker.Lock(ctx, "refresh:2")
	require.NoError(t, err)
	unlockB()
}

func TestMemoryLockerHonorsContext(t *testing.T) {
	locker := NewMemoryLocker()

	unlock, err := locker.Lock(context.Background(), "refresh:1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "refresh:1")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	locker := NewRedisLocker(client, time.Minute)
	locker.poll = 2 * time.Millisecond
	return locker, mr
}

func TestRedisLockerSerializesSameKey(t *testing.T) {
	locker, _ := newRedisLocker(t)
	assertMutualExclusion(t, locker)
}

func TestRedisLockerReleasesOnlyOwnToken(t *testing.T) {
	locker, mr := newRedisLocker(t)

	unlock, err := locker.Lock(context.Background(), "refresh:7")
	require.NoError(t, err)
	assert.True(t, mr.Exists("socialbridge:lock:refresh:7"))

	// simulate expiry and takeover by another owner
	mr.Set("socialbridge:lock:refresh:7", "someone-else")
	unlock()

	got, err := mr.Get("socialbridge:lock:refresh:7")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLockerHonorsContext(t *testing.T) {
	locker, _ := newRedisLocker(t)

	unlock, err := locker.Lock(context.Background(), "refresh:3")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "refresh:3")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
