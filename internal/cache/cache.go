// Package cache provides a single-slot TTL cache guarding one outbound
// fetch. Concurrent callers share one in-flight refresh, and a failed
// refresh falls back to the previous entry when one exists.
package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache holds at most one payload of type T.
type Cache[T any] struct {
	ttl  time.Duration
	warn func(error)
	now  func() time.Time

	group singleflight.Group

	mu        sync.Mutex
	value     T
	fetchedAt time.Time
	has       bool
}

// New creates a Cache with the given TTL. warn receives refresh failures
// that were recovered by serving a stale entry; nil means log them.
func New[T any](ttl time.Duration, warn func(error)) *Cache[T] {
	if warn == nil {
		warn = func(err error) { log.Printf("cache: refresh failed, serving stale entry: %v", err) }
	}
	return &Cache[T]{ttl: ttl, warn: warn, now: time.Now}
}

// Get returns the cached payload, refreshing it via fetch when expired or
// absent. Only one refresh is in flight at a time; callers arriving during a
// refresh wait for its result. A failed refresh returns the previous entry
// (even if expired) and reports the failure through the warn side channel;
// the error is only propagated when no previous entry exists.
func (c *Cache[T]) Get(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := c.fresh(); ok {
		return v, nil
	}

	result, err, _ := c.group.Do("refresh", func() (any, error) {
		// A refresh that completed while we waited for the flight slot
		// satisfies this caller too.
		if v, ok := c.fresh(); ok {
			return v, nil
		}

		v, err := fetch(ctx)
		if err != nil {
			// Warn here, inside the shared flight, so one failed refresh
			// is reported once no matter how many callers wait on it.
			c.mu.Lock()
			if c.has {
				c.warn(err)
			}
			c.mu.Unlock()
			return nil, err
		}

		c.mu.Lock()
		c.value = v
		c.fetchedAt = c.now()
		c.has = true
		c.mu.Unlock()
		return v, nil
	})

	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.has {
			return c.value, nil
		}
		var zero T
		return zero, err
	}

	return result.(T), nil
}

// Peek returns the current entry without triggering a refresh.
func (c *Cache[T]) Peek() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.has
}

func (c *Cache[T]) fresh() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.has && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.value, true
	}
	var zero T
	return zero, false
}
