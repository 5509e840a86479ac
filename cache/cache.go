package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/viant/learnsphere"
	"github.com/viant/learnsphere/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for a key
type FetchFunc func(ctx context.Context) (interface{}, error)

// Observer is notified whenever an entry changes
type Observer func(entry Entry)

// Cache is a request cache keyed by logical resource keys.
// It coalesces concurrent fetches of the same key and serves fresh entries without a network call.
// Writes to the same key are last-to-settle-wins; no request sequencing is imposed.
type Cache struct {
	mux          sync.Mutex
	entries      map[string]*entry
	group        singleflight.Group
	observers    map[string]map[uint64]Observer
	nextObserver uint64
	// epoch changes on Clear and Remove
	epoch     uint64
	staleTime time.Duration
	clock     func() time.Time
	logger    learnsphere.Logger
	metrics   *metrics.Metrics
}

// Option mutates Cache
type Option func(c *Cache)

// WithStaleTime sets the default staleness window
func WithStaleTime(staleTime time.Duration) Option {
	return func(c *Cache) {
		if staleTime >= 0 {
			c.staleTime = staleTime
		}
	}
}

// WithClock overrides time source
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets logger
func WithLogger(logger learnsphere.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets metrics collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// StaleTime returns the default staleness window
func (c *Cache) StaleTime() time.Duration {
	return c.staleTime
}

// Fetch returns the cached value when fresh, otherwise fetches it.
// Concurrent callers that find the entry in the same state share one fetch. A caller arriving
// after an invalidate, set, remove or clear starts a new fetch instead of joining an older one.
// A caller whose ctx ends stops waiting, the shared fetch still completes and populates the cache.
// A zero staleTime uses the cache default.
func (c *Cache) Fetch(ctx context.Context, key Key, staleTime time.Duration, fetch FetchFunc) (interface{}, error) {
	if staleTime <= 0 {
		staleTime = c.staleTime
	}
	id := key.String()
	c.mux.Lock()
	e, ok := c.entries[id]
	if ok && e.fresh(c.clock()) {
		value := e.value
		c.mux.Unlock()
		c.metrics.IncCacheHit()
		return value, nil
	}
	seen := observed{epoch: c.epoch}
	if ok {
		seen.gen, seen.written = e.gen, e.written
	}
	c.mux.Unlock()
	c.metrics.IncCacheMiss()

	ch := c.group.DoChan(seen.flight(id), func() (interface{}, error) {
		return c.load(context.WithoutCancel(ctx), key, staleTime, fetch, seen)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-ch:
		return result.Val, result.Err
	}
}

// observed is the cache and entry state a fetch was issued against
type observed struct {
	epoch   uint64
	gen     uint64
	written uint64
}

func (o observed) flight(id string) string {
	return id + "#" + strconv.FormatUint(o.epoch, 10) + "." + strconv.FormatUint(o.gen, 10)
}

func (c *Cache) load(ctx context.Context, key Key, staleTime time.Duration, fetch FetchFunc, seen observed) (interface{}, error) {
	id := key.String()
	c.mux.Lock()
	if c.epoch != seen.epoch {
		// cleared before the fetch began, the result is not cached
		c.mux.Unlock()
		return c.safeFetch(ctx, fetch)
	}
	e := c.ensure(key)
	e.fetches++
	e.staleTime = staleTime
	c.mux.Unlock()
	c.notify(id)

	value, err := c.safeFetch(ctx, fetch)

	c.mux.Lock()
	if current, ok := c.entries[id]; !ok || current != e || c.epoch != seen.epoch {
		// removed or cleared while fetching, the result is not cached
		c.mux.Unlock()
		return value, err
	}
	e.fetches--
	if err != nil {
		if e.gen == seen.gen {
			e.err = err
		}
		c.mux.Unlock()
		c.metrics.IncCacheFetchError()
		c.logger.Debugf("cache fetch %v failed: %v", id, err)
		c.notify(id)
		return nil, err
	}
	switch {
	case e.written != seen.written:
		// a write landed while fetching; it wins, the entry is left stale for the next read
		e.invalidated = true
		value = e.value
	case seen.gen >= e.valueGen:
		e.value = value
		e.hasValue = true
		e.valueGen = seen.gen
		e.fetchedAt = c.clock()
		e.err = nil
		e.invalidated = e.gen != seen.gen
	default:
		// a fetch issued later already stored a newer value; this caller still gets what it asked for
	}
	c.mux.Unlock()
	c.notify(id)
	return value, nil
}

func (c *Cache) safeFetch(ctx context.Context, fetch FetchFunc) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cache fetch panic: %v", r)
		}
	}()
	return fetch(ctx)
}

// Peek returns the current entry view without fetching
func (c *Cache) Peek(key Key) (Entry, bool) {
	c.mux.Lock()
	defer c.mux.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return Entry{}, false
	}
	return e.view(c.clock()), true
}

// Value returns the cached value, previous values stay visible while refetching or after a failed refetch.
func (c *Cache) Value(key Key) (interface{}, bool) {
	c.mux.Lock()
	defer c.mux.Unlock()
	e, ok := c.entries[key.String()]
	if !ok || !e.hasValue {
		return nil, false
	}
	return e.value, true
}

// Set writes value for key as if just fetched
func (c *Cache) Set(key Key, value interface{}) {
	id := key.String()
	c.mux.Lock()
	e := c.ensure(key)
	e.value = value
	e.hasValue = true
	e.fetchedAt = c.clock()
	e.err = nil
	e.invalidated = false
	if e.staleTime == 0 {
		e.staleTime = c.staleTime
	}
	e.gen++
	e.written++
	e.valueGen = e.gen
	c.mux.Unlock()
	c.notify(id)
}

// restore puts back a snapshot taken before an optimistic write
func (c *Cache) restore(key Key, snapshot entry) {
	id := key.String()
	c.mux.Lock()
	e := c.ensure(key)
	e.value = snapshot.value
	e.hasValue = snapshot.hasValue
	e.fetchedAt = snapshot.fetchedAt
	e.err = snapshot.err
	e.invalidated = snapshot.invalidated
	e.gen++
	e.written++
	e.valueGen = e.gen
	c.mux.Unlock()
	c.notify(id)
}

func (c *Cache) snapshot(key Key) (entry, bool) {
	c.mux.Lock()
	defer c.mux.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return entry{}, false
	}
	return *e, true
}

// Invalidate marks every entry under prefix stale, across all filter variants.
// It returns the number of entries invalidated.
func (c *Cache) Invalidate(prefix Key) int {
	return c.invalidate(func(key Key) bool { return key.HasPrefix(prefix) })
}

// InvalidateExact marks only the entry equal to key stale
func (c *Cache) InvalidateExact(key Key) int {
	return c.invalidate(func(candidate Key) bool { return candidate.Equal(key) })
}

func (c *Cache) invalidate(match func(key Key) bool) int {
	var ids []string
	c.mux.Lock()
	for id, e := range c.entries {
		if !match(e.key) {
			continue
		}
		e.invalidated = true
		e.gen++
		ids = append(ids, id)
	}
	c.mux.Unlock()
	c.metrics.AddCacheInvalidations(len(ids))
	for _, id := range ids {
		c.notify(id)
	}
	return len(ids)
}

// Remove deletes entries under prefix; fetches in flight for them are detached from later reads.
func (c *Cache) Remove(prefix Key) {
	c.mux.Lock()
	for id, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, id)
		}
	}
	c.epoch++
	c.mux.Unlock()
}

// Clear drops all entries, e.g. after logout. Reads issued afterwards never receive a result fetched before.
func (c *Cache) Clear() {
	c.mux.Lock()
	c.entries = map[string]*entry{}
	c.epoch++
	c.mux.Unlock()
}

// Subscribe registers observer for key changes; after cancel the observer is never called again.
func (c *Cache) Subscribe(key Key, observer Observer) (cancel func()) {
	id := key.String()
	c.mux.Lock()
	observerID := c.nextObserver
	c.nextObserver++
	if c.observers[id] == nil {
		c.observers[id] = map[uint64]Observer{}
	}
	c.observers[id][observerID] = observer
	c.mux.Unlock()
	return func() {
		c.mux.Lock()
		defer c.mux.Unlock()
		if byID := c.observers[id]; byID != nil {
			delete(byID, observerID)
			if len(byID) == 0 {
				delete(c.observers, id)
			}
		}
	}
}

func (c *Cache) notify(id string) {
	c.mux.Lock()
	byID := c.observers[id]
	if len(byID) == 0 {
		c.mux.Unlock()
		return
	}
	e, ok := c.entries[id]
	if !ok {
		c.mux.Unlock()
		return
	}
	view := e.view(c.clock())
	observers := make([]uint64, 0, len(byID))
	for observerID := range byID {
		observers = append(observers, observerID)
	}
	c.mux.Unlock()
	for _, observerID := range observers {
		c.mux.Lock()
		observer, active := c.observers[id][observerID]
		c.mux.Unlock()
		if active {
			observer(view)
		}
	}
}

func (c *Cache) ensure(key Key) *entry {
	id := key.String()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: key, staleTime: c.staleTime}
		c.entries[id] = e
	}
	return e
}

// New creates a Cache, the default staleness window is 30s
func New(options ...Option) *Cache {
	ret := &Cache{
		entries:   map[string]*entry{},
		observers: map[string]map[uint64]Observer{},
		staleTime: 30 * time.Second,
		clock:     time.Now,
		logger:    learnsphere.DefaultLogger,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Fetch is a typed Cache.Fetch
func Fetch[T any](ctx context.Context, c *Cache, key Key, staleTime time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	value, err := c.Fetch(ctx, key, staleTime, func(ctx context.Context) (interface{}, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return As[T](value)
}

// As converts a cached value to T
func As[T any](value interface{}) (T, error) {
	ret, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cached value type %T is not %T", value, zero)
	}
	return ret, nil
}
