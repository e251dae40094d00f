package cache

import (
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestCache_GetSetExpires(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 12, 19, 9, 0, 0, 0, time.UTC)}
	c := New[string](5*time.Minute, WithClock(clock.Now))

	_, ok := c.Get("campaigns")
	assert.False(t, ok)

	c.Set("campaigns", "payload")
	got, ok := c.Get("campaigns")
	require.True(t, ok)
	assert.Equal(t, "payload", got)

	clock.Advance(4*time.Minute + 59*time.Second)
	_, ok = c.Get("campaigns")
	assert.True(t, ok, "entry should live until the TTL elapses")

	clock.Advance(time.Second)
	_, ok = c.Get("campaigns")
	assert.False(t, ok, "entry should expire exactly at the TTL")
	assert.Equal(t, 0, c.Len())
}

func TestCache_DoLoadsOnceWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := New[int](time.Minute, WithClock(clock.Now))

	var calls int
	load := func() (int, error) {
		calls++
		return calls, nil
	}

	v, hit, err := c.Do("k", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, v)

	v, hit, err = c.Do("k", load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, v)

	clock.Advance(time.Minute)
	v, hit, err = c.Do("k", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, v)
}

func TestCache_DoDoesNotCacheErrors(t *testing.T) {
	c := New[string](time.Minute)
	boom := errors.New("boom")

	_, _, err := c.Do("k", func() (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)

	v, hit, err := c.Do("k", func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "ok", v)
}

func TestCache_DoCoalescesConcurrentMisses(t *testing.T) {
	c := New[string](time.Minute)

	var loads atomic.Int32
	release := make(chan struct{})
	load := func() (string, error) {
		loads.Add(1)
		<-release
		return "shared", nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := c.Do("k", load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give the goroutines a moment to queue up behind the first loader.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestCache_DisabledNeverStores(t *testing.T) {
	c := New[string](0)
	assert.False(t, c.Enabled())

	c.Set("k", "v")
	_, ok := c.Get("k")
	assert.False(t, ok)

	var calls int
	for range 2 {
		_, hit, err := c.Do("k", func() (string, error) {
			calls++
			return "v", nil
		})
		require.NoError(t, err)
		assert.False(t, hit)
	}
	assert.Equal(t, 2, calls)
}

func TestCache_Purge(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	require.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestKey_SortsQueryAndTrimsSlashes(t *testing.T) {
	a := url.Values{}
	a.Set("page", "2")
	a.Set("limit", "25")
	b := url.Values{}
	b.Set("limit", "25")
	b.Set("page", "2")

	assert.Equal(t, Key("/api/leads", a), Key("api/leads/", b))
	assert.Equal(t, "api/leads?limit=25&page=2", Key("api/leads", a))
	assert.Equal(t, "api/get-campaigns", Key("api/get-campaigns", nil))
}
