package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/internal/metrics"
)

type fakeClock struct {
	mux sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(options ...Option) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	options = append([]Option{WithClock(clock.Now), WithLogger(learnsphere.NopLogger{})}, options...)
	return New(options...), clock
}

func counting(value string, calls *atomic.Int32) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestCache_Staleness(t *testing.T) {
	c, clock := newTestCache()
	key := NewKey("course", "c-1")
	var calls atomic.Int32
	ctx := context.Background()

	value, err := Fetch(ctx, c, key, 10*time.Second, counting("v1", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v1", value)

	clock.Advance(9 * time.Second)
	value, err = Fetch(ctx, c, key, 10*time.Second, counting("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v1", value)
	assert.EqualValues(t, 1, calls.Load())

	clock.Advance(time.Second)
	entry, ok := c.Peek(key)
	require.True(t, ok)
	assert.Equal(t, StatusStale, entry.Status)
	value, err = Fetch(ctx, c, key, 10*time.Second, counting("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v2", value)
	assert.EqualValues(t, 2, calls.Load())
}

func TestCache_DefaultStaleTime(t *testing.T) {
	c, clock := newTestCache(WithStaleTime(time.Minute))
	assert.Equal(t, time.Minute, c.StaleTime())
	key := NewKey("me")
	var calls atomic.Int32
	_, err := Fetch(context.Background(), c, key, 0, counting("v1", &calls))
	require.NoError(t, err)
	clock.Advance(59 * time.Second)
	_, err = Fetch(context.Background(), c, key, 0, counting("v1", &calls))
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestCache_CoalescesConcurrentFetches(t *testing.T) {
	c, _ := newTestCache()
	key := NewKey("courses")
	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "page", nil
	}

	const readers = 8
	var wg sync.WaitGroup
	results := make(chan string, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := Fetch(context.Background(), c, key, time.Minute, fetch)
			if err == nil {
				results <- value
			}
		}()
	}
	require.Eventually(t, func() bool {
		entry, ok := c.Peek(key)
		return ok && entry.Fetching
	}, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	assert.EqualValues(t, 1, calls.Load())
	count := 0
	for value := range results {
		assert.Equal(t, "page", value)
		count++
	}
	assert.Equal(t, readers, count)
}

func TestCache_FailedRefetchKeepsValue(t *testing.T) {
	c, _ := newTestCache()
	key := NewKey("course", "c-1")
	ctx := context.Background()
	_, err := Fetch(ctx, c, key, time.Minute, func(ctx context.Context) (string, error) { return "v1", nil })
	require.NoError(t, err)

	c.Invalidate(key)
	_, err = Fetch(ctx, c, key, time.Minute, func(ctx context.Context) (string, error) { return "", errors.New("boom") })
	require.Error(t, err)

	entry, ok := c.Peek(key)
	require.True(t, ok)
	assert.Equal(t, StatusError, entry.Status)
	assert.Equal(t, "v1", entry.Value)
	value, ok := c.Value(key)
	assert.True(t, ok)
	assert.Equal(t, "v1", value)

	var calls atomic.Int32
	value2, err := Fetch(ctx, c, key, time.Minute, counting("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v2", value2)
	assert.EqualValues(t, 1, calls.Load())
}

func TestCache_PanicIsAnError(t *testing.T) {
	c, _ := newTestCache()
	_, err := Fetch(context.Background(), c, NewKey("boom"), 0, func(ctx context.Context) (string, error) {
		panic("unexpected")
	})
	assert.EqualError(t, err, "cache fetch panic: unexpected")
}

func TestCache_InvalidateDuringFetch(t *testing.T) {
	c, _ := newTestCache()
	key := NewKey("courses")
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Fetch(context.Background(), c, key, time.Minute, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "before-mutation", nil
		})
	}()
	<-started
	assert.Equal(t, 1, c.Invalidate(NewKey("courses")))
	close(release)
	<-done

	entry, ok := c.Peek(key)
	require.True(t, ok)
	assert.Equal(t, StatusStale, entry.Status)

	var calls atomic.Int32
	value, err := Fetch(context.Background(), c, key, time.Minute, counting("after-mutation", &calls))
	require.NoError(t, err)
	assert.Equal(t, "after-mutation", value)
	assert.EqualValues(t, 1, calls.Load())
}

func TestCache_SetDuringFetchWins(t *testing.T) {
	c, _ := newTestCache()
	key := NewKey("course", "c-1")
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan string, 1)
	go func() {
		value, _ := Fetch(context.Background(), c, key, time.Minute, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "fetched", nil
		})
		done <- value
	}()
	<-started
	c.Set(key, "written")
	close(release)
	assert.Equal(t, "written", <-done)

	value, ok := c.Value(key)
	assert.True(t, ok)
	assert.Equal(t, "written", value)
}

func TestCache_ClearDuringFetchDropsResult(t *testing.T) {
	c, _ := newTestCache()
	key := NewKey("me")
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Fetch(context.Background(), c, key, time.Minute, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "previous-user", nil
		})
	}()
	<-started
	c.Clear()
	close(release)
	<-done
	_, ok := c.Peek(key)
	assert.False(t, ok)
}

func TestCache_CallerCancelKeepsSharedFetch(t *testing.T) {
	c, _ := newTestCache()
	key := NewKey("reports", "dashboard")
	release := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := Fetch(ctx, c, key, time.Minute, func(ctx context.Context) (string, error) {
			<-release
			return "stats", ctx.Err()
		})
		errs <- err
	}()
	require.Eventually(t, func() bool {
		entry, ok := c.Peek(key)
		return ok && entry.Fetching
	}, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errs, context.Canceled)
	close(release)
	assert.Eventually(t, func() bool {
		value, ok := c.Value(key)
		return ok && value == "stats"
	}, time.Second, time.Millisecond)
}

func TestCache_InvalidatePrefix(t *testing.T) {
	c, _ := newTestCache()
	c.Set(NewKey("course-requests").With(map[string][]string{"status": {"PENDING"}}), 1)
	c.Set(NewKey("course-requests").With(map[string][]string{"status": {"APPROVED"}}), 2)
	c.Set(NewKey("course-requests", "stats"), 3)
	c.Set(NewKey("course-request", "r-1"), 4)

	assert.Equal(t, 1, c.InvalidateExact(NewKey("course-requests", "stats")))
	assert.Equal(t, 3, c.Invalidate(NewKey("course-requests")))
	entry, _ := c.Peek(NewKey("course-request", "r-1"))
	assert.Equal(t, StatusFresh, entry.Status)

	c.Remove(NewKey("course-requests"))
	_, ok := c.Peek(NewKey("course-requests", "stats"))
	assert.False(t, ok)
	_, ok = c.Peek(NewKey("course-request", "r-1"))
	assert.True(t, ok)
}

func TestCache_Subscribe(t *testing.T) {
	c, _ := newTestCache()
	key := NewKey("course", "c-1")
	var statuses []Status
	cancel := c.Subscribe(key, func(entry Entry) {
		statuses = append(statuses, entry.Status)
	})
	_, err := Fetch(context.Background(), c, key, time.Minute, func(ctx context.Context) (string, error) { return "v1", nil })
	require.NoError(t, err)
	c.Invalidate(key)
	cancel()
	c.Set(key, "v2")

	assert.Equal(t, []Status{StatusPending, StatusFresh, StatusStale}, statuses)
}

func TestCache_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	c, _ := newTestCache(WithMetrics(m))
	key := NewKey("me")
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := Fetch(ctx, c, key, time.Minute, func(ctx context.Context) (string, error) { return "v", nil })
		require.NoError(t, err)
	}
	c.Invalidate(key)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheInvalidations))
}

func TestAs(t *testing.T) {
	value, err := As[int](42)
	require.NoError(t, err)
	assert.Equal(t, 42, value)
	_, err = As[string](42)
	assert.Error(t, err)
}

func TestCache_ReadAfterResetStartsNewFetch(t *testing.T) {
	var useCases = []struct {
		description string
		reset       func(c *Cache)
	}{
		{description: "clear", reset: func(c *Cache) { c.Clear() }},
		{description: "remove", reset: func(c *Cache) { c.Remove(NewKey("me")) }},
	}
	for _, useCase := range useCases {
		t.Run(useCase.description, func(t *testing.T) {
			c, _ := newTestCache()
			key := NewKey("me")
			started := make(chan struct{})
			release := make(chan struct{})
			previous := make(chan string, 1)
			go func() {
				value, _ := Fetch(context.Background(), c, key, time.Minute, func(ctx context.Context) (string, error) {
					close(started)
					<-release
					return "user-A", nil
				})
				previous <- value
			}()
			<-started
			useCase.reset(c)

			var calls atomic.Int32
			value, err := Fetch(context.Background(), c, key, time.Minute, counting("user-B", &calls))
			require.NoError(t, err)
			assert.Equal(t, "user-B", value)
			assert.EqualValues(t, 1, calls.Load())

			close(release)
			assert.Equal(t, "user-A", <-previous)
			cached, ok := c.Value(key)
			assert.True(t, ok)
			assert.Equal(t, "user-B", cached)
		})
	}
}

func TestCache_ReadAfterInvalidateStartsNewFetch(t *testing.T) {
	c, _ := newTestCache()
	key := NewKey("courses")
	started := make(chan struct{})
	release := make(chan struct{})
	previous := make(chan string, 1)
	go func() {
		value, _ := Fetch(context.Background(), c, key, time.Minute, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "pre-write", nil
		})
		previous <- value
	}()
	<-started
	c.Invalidate(key)

	var calls atomic.Int32
	value, err := Fetch(context.Background(), c, key, time.Minute, counting("post-write", &calls))
	require.NoError(t, err)
	assert.Equal(t, "post-write", value)
	assert.EqualValues(t, 1, calls.Load())

	close(release)
	assert.Equal(t, "pre-write", <-previous)
	entry, ok := c.Peek(key)
	require.True(t, ok)
	assert.Equal(t, "post-write", entry.Value)
	assert.Equal(t, StatusFresh, entry.Status)
	assert.False(t, entry.Fetching)
}

func TestCache_ReadersOfSameStateShareFetch(t *testing.T) {
	c, _ := newTestCache()
	key := NewKey("courses")
	c.Set(key, "v1")
	c.Invalidate(key)

	release := make(chan struct{})
	var calls atomic.Int32
	var wg sync.WaitGroup
	values := make([]string, 3)
	for i := range values {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			values[i], _ = Fetch(context.Background(), c, key, time.Minute, func(ctx context.Context) (string, error) {
				calls.Add(1)
				<-release
				return "v2", nil
			})
		}(i)
	}
	require.Eventually(t, func() bool {
		entry, ok := c.Peek(key)
		return ok && entry.Fetching
	}, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, []string{"v2", "v2", "v2"}, values)
}

func TestCache_LastWriteToSettleWins(t *testing.T) {
	type course struct {
		ID        string
		Published bool
	}
	var useCases = []struct {
		description string
		firstErr    error
		secondErr   error
		expect      bool
	}{
		{description: "both commit, first issued settles last", expect: true},
		{description: "first issued fails last and restores its snapshot", firstErr: errors.New("conflict"), expect: false},
		{description: "second issued fails first, first commits last", secondErr: errors.New("conflict"), expect: true},
	}
	for _, useCase := range useCases {
		t.Run(useCase.description, func(t *testing.T) {
			c, _ := newTestCache()
			key := NewKey("course", "c-1")
			c.Set(key, course{ID: "c-1"})

			mutation := func(published bool, err error, release chan struct{}, issued chan struct{}) func(ctx context.Context) (course, error) {
				return func(ctx context.Context) (course, error) {
					close(issued)
					<-release
					if err != nil {
						return course{}, err
					}
					settled := course{ID: "c-1", Published: published}
					c.Set(key, settled)
					return settled, nil
				}
			}
			toggle := func(current course) course {
				current.Published = !current.Published
				return current
			}

			releaseFirst, releaseSecond := make(chan struct{}), make(chan struct{})
			firstIssued, secondIssued := make(chan struct{}), make(chan struct{})
			firstDone, secondDone := make(chan error, 1), make(chan error, 1)
			go func() {
				_, err := Optimistic(context.Background(), c, key, toggle, mutation(true, useCase.firstErr, releaseFirst, firstIssued))
				firstDone <- err
			}()
			<-firstIssued
			go func() {
				_, err := Optimistic(context.Background(), c, key, toggle, mutation(false, useCase.secondErr, releaseSecond, secondIssued))
				secondDone <- err
			}()
			<-secondIssued

			close(releaseSecond)
			assert.Equal(t, useCase.secondErr, <-secondDone)
			close(releaseFirst)
			assert.Equal(t, useCase.firstErr, <-firstDone)

			value, ok := c.Value(key)
			require.True(t, ok)
			assert.Equal(t, useCase.expect, value.(course).Published)
		})
	}
}
